package loop

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/emit/core/dispatcher"
)

// Option is a functional option for configuring a loop.
type Option func(*options)

type options struct {
	tickInterval    time.Duration
	shutdownTimeout time.Duration
	inboxSize       int
	finalDispatch   bool
	beforeTick      []func(*dispatcher.Dispatcher)
	logger          *slog.Logger
}

// WithTickInterval configures how often the loop dispatches queued events.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.tickInterval = d
		}
	}
}

// WithShutdownTimeout configures how long Stop waits for the loop goroutine to exit.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithInboxSize configures how many jobs Post can buffer.
func WithInboxSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.inboxSize = n
		}
	}
}

// WithFinalDispatch makes the loop dispatch pending events once more when it stops.
func WithFinalDispatch(enabled bool) Option {
	return func(o *options) {
		o.finalDispatch = enabled
	}
}

// WithBeforeTick registers functions that run on the loop goroutine right before
// every tick's Dispatch, in registration order. Hooks receive the dispatcher and
// must not call Do or Flush on the same loop.
func WithBeforeTick(fns ...func(*dispatcher.Dispatcher)) Option {
	return func(o *options) {
		for _, fn := range fns {
			if fn != nil {
				o.beforeTick = append(o.beforeTick, fn)
			}
		}
	}
}

// WithLogger configures structured logging for loop operations.
// Use slog.New(slog.DiscardHandler) to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
