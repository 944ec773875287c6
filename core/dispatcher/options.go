package dispatcher

import (
	"log/slog"

	"github.com/dmitrymomot/emit/core/pipeline"
	"github.com/dmitrymomot/emit/core/typekey"
)

// Option configures a Dispatcher.
type Option func(*options)

type options struct {
	registry     *typekey.Registry
	logger       *slog.Logger
	pipelineOpts []pipeline.Option
	initialSlots int
}

// WithRegistry sets the registry used to key event types.
// Default is typekey.Default().
func WithRegistry(r *typekey.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithLogger configures structured logging for the dispatcher and the pipelines it creates.
// Use slog.New(slog.DiscardHandler) to disable logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPipelineOptions sets options applied to every pipeline the dispatcher creates.
// They are applied after the dispatcher's own logger, so a pipeline.WithLogger here wins.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(o *options) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// WithInitialSlots preallocates room for n event types.
func WithInitialSlots(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.initialSlots = n
		}
	}
}
