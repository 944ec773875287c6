package pipeline

import (
	"log/slog"

	"github.com/dmitrymomot/emit/core/logger"
)

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	logger           *slog.Logger
	listenerCapacity int
	queueCapacity    int
}

func defaultOptions() options {
	return options{
		logger: logger.Discard(),
	}
}

// WithLogger configures the logger used to report skipped listeners.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithListenerCapacity preallocates room for n listeners.
func WithListenerCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.listenerCapacity = n
		}
	}
}

// WithQueueCapacity preallocates room for n pending events.
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueCapacity = n
		}
	}
}
