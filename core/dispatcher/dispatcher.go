package dispatcher

import (
	"context"
	"log/slog"
	"reflect"
	"slices"

	"github.com/dmitrymomot/emit/core/delegate"
	"github.com/dmitrymomot/emit/core/erased"
	"github.com/dmitrymomot/emit/core/logger"
	"github.com/dmitrymomot/emit/core/pipeline"
	"github.com/dmitrymomot/emit/core/typekey"
)

// Dispatcher maps event types to pipelines.
type Dispatcher struct {
	slots        []erased.Pipeline
	registry     *typekey.Registry
	logger       *slog.Logger
	pipelineOpts []pipeline.Option
}

// New creates an empty dispatcher.
func New(opts ...Option) *Dispatcher {
	o := options{
		registry:     typekey.Default(),
		logger:       logger.Discard(),
		initialSlots: DefaultConfig().InitialSlots,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Dispatcher{
		slots:        make([]erased.Pipeline, 0, o.initialSlots),
		registry:     o.registry,
		logger:       o.logger,
		pipelineOpts: append([]pipeline.Option{pipeline.WithLogger(o.logger)}, o.pipelineOpts...),
	}
}

// NewFromConfig creates a dispatcher from configuration.
// Additional options can override config values.
func NewFromConfig(cfg Config, opts ...Option) *Dispatcher {
	allOpts := append([]Option{
		WithInitialSlots(cfg.InitialSlots),
		WithPipelineOptions(
			pipeline.WithListenerCapacity(cfg.ListenerCapacity),
			pipeline.WithQueueCapacity(cfg.QueueCapacity),
		),
	}, opts...)

	return New(allOpts...)
}

// Acquire returns the pipeline for events of type T, creating it on first use.
// Repeated calls return the same pipeline.
func Acquire[T any](d *Dispatcher) *pipeline.Pipeline[T] {
	key := typekey.Of[T](d.registry)
	slot := d.slot(int(key))

	if !slot.Populated() {
		slot.MoveFrom(erased.Create[T](d.pipelineOpts...))

		d.logger.DebugContext(context.Background(), "pipeline created",
			logger.Component("dispatcher"),
			logger.EventType(reflect.TypeFor[T]()),
			logger.TypeKey(int(key)))
	}

	return erased.Acquire[T](slot)
}

// Connect connects l to the pipeline for T.
func Connect[T any](d *Dispatcher, l delegate.Delegate[T]) {
	Acquire[T](d).Connect(l)
}

// Disconnect removes the most recently connected listener equal to l from the pipeline for T.
func Disconnect[T any](d *Dispatcher, l delegate.Delegate[T]) bool {
	return Acquire[T](d).Disconnect(l)
}

// Enqueue queues event on the pipeline for T until the next Dispatch.
func Enqueue[T any](d *Dispatcher, event T) {
	Acquire[T](d).Enqueue(event)
}

// Trigger notifies the listeners of T immediately.
func Trigger[T any](d *Dispatcher, event T) {
	Acquire[T](d).Trigger(event)
}

// Dispatch delivers the pending events of every pipeline.
func (d *Dispatcher) Dispatch() {
	// Index by position: a listener may acquire a new type and grow d.slots.
	for i := 0; i < len(d.slots); i++ {
		if d.slots[i].Populated() {
			d.slots[i].Dispatch()
		}
	}
}

// Clear removes listeners and pending events from every pipeline.
// Pipelines stay in place, so references returned by Acquire remain valid.
func (d *Dispatcher) Clear() {
	for i := 0; i < len(d.slots); i++ {
		if d.slots[i].Populated() {
			d.slots[i].Clear()
		}
	}
}

// Reset destroys every pipeline. References previously returned by Acquire must
// not be used afterwards; the next Acquire creates a fresh pipeline.
func (d *Dispatcher) Reset() {
	n := 0
	for i := range d.slots {
		if d.slots[i].Populated() {
			d.slots[i].Destroy()
			n++
		}
	}

	d.logger.DebugContext(context.Background(), "dispatcher reset",
		logger.Component("dispatcher"),
		logger.Count("pipelines", n))
}

// Len returns the number of pipelines created so far.
func (d *Dispatcher) Len() int {
	n := 0
	for i := range d.slots {
		if d.slots[i].Populated() {
			n++
		}
	}
	return n
}

// Types returns the event types that have a pipeline, in key order.
func (d *Dispatcher) Types() []reflect.Type {
	types := make([]reflect.Type, 0, len(d.slots))
	for i := range d.slots {
		if d.slots[i].Populated() {
			types = append(types, d.slots[i].Type())
		}
	}
	return types
}

// slot returns the slot at index, growing the slot slice as needed.
func (d *Dispatcher) slot(index int) *erased.Pipeline {
	if index >= len(d.slots) {
		d.slots = slices.Grow(d.slots, index+1-len(d.slots))
		d.slots = d.slots[:index+1]
	}
	return &d.slots[index]
}
