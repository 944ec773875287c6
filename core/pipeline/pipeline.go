package pipeline

import (
	"context"
	"log/slog"
	"reflect"
	"slices"

	"github.com/dmitrymomot/emit/core/delegate"
	"github.com/dmitrymomot/emit/core/logger"
)

// Pipeline holds the listeners and pending events of one event type.
type Pipeline[T any] struct {
	listeners []delegate.Delegate[T]
	queue     []T
	logger    *slog.Logger

	// active counts running Trigger and Dispatch frames. While shared is set, the
	// backing array of listeners is referenced by one of those frames and must be
	// copied before it is modified in place.
	active int
	shared bool

	// epoch changes on every Clear so a running Dispatch can tell its snapshot of
	// the queue was discarded.
	epoch uint64
}

// New creates an empty pipeline.
func New[T any](opts ...Option) *Pipeline[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline[T]{
		logger: o.logger,
	}
	if o.listenerCapacity > 0 {
		p.listeners = make([]delegate.Delegate[T], 0, o.listenerCapacity)
	}
	if o.queueCapacity > 0 {
		p.queue = make([]T, 0, o.queueCapacity)
	}

	return p
}

// Connect appends d to the listeners. Duplicates are kept.
func (p *Pipeline[T]) Connect(d delegate.Delegate[T]) {
	// Appending never overwrites elements visible to a running snapshot.
	p.listeners = append(p.listeners, d)
}

// ConnectFunc connects fn and returns its delegate for a later Disconnect.
func (p *Pipeline[T]) ConnectFunc(fn func(T)) delegate.Delegate[T] {
	d := delegate.BindFunc(fn)
	p.Connect(d)
	return d
}

// Disconnect removes the most recently connected listener equal to d.
// It reports whether a listener was removed.
func (p *Pipeline[T]) Disconnect(d delegate.Delegate[T]) bool {
	for i := len(p.listeners) - 1; i >= 0; i-- {
		if p.listeners[i].Equal(d) {
			ls := p.writable()
			p.listeners = slices.Delete(ls, i, i+1)
			return true
		}
	}
	return false
}

// DisconnectAll removes every listener equal to d and returns how many were removed.
func (p *Pipeline[T]) DisconnectAll(d delegate.Delegate[T]) int {
	if !p.Connected(d) {
		return 0
	}

	ls := p.writable()
	n := len(ls)
	p.listeners = slices.DeleteFunc(ls, d.Equal)

	return n - len(p.listeners)
}

// Connected reports whether a listener equal to d is connected.
func (p *Pipeline[T]) Connected(d delegate.Delegate[T]) bool {
	return slices.ContainsFunc(p.listeners, d.Equal)
}

// Enqueue appends event to the queue without notifying listeners.
func (p *Pipeline[T]) Enqueue(event T) {
	p.queue = append(p.queue, event)
}

// Trigger notifies every listener of event immediately. The event is not queued.
func (p *Pipeline[T]) Trigger(event T) {
	p.active++
	defer p.leave()

	p.notify(p.snapshot(), event)
}

// Dispatch delivers every queued event, oldest first, to every listener and
// empties the queue. Events enqueued by listeners during the call stay queued.
//
// If a listener panics, the panic propagates to the caller. The event being
// delivered is consumed and the events after it are put back at the front of the
// queue for the next Dispatch.
func (p *Pipeline[T]) Dispatch() {
	if len(p.queue) == 0 {
		return
	}

	pending := p.queue
	p.queue = nil
	epoch := p.epoch

	p.active++
	next := 0
	defer func() {
		p.leave()
		if next < len(pending) && p.epoch == epoch {
			p.queue = slices.Concat(pending[next:], p.queue)
		}
	}()

	for next < len(pending) && p.epoch == epoch {
		event := pending[next]
		next++
		p.notify(p.snapshot(), event)
	}

	// Reuse the drained storage unless listeners already started a new queue.
	clear(pending)
	if p.queue == nil {
		p.queue = pending[:0]
	}
}

// Clear removes all listeners and pending events. The pipeline stays usable.
func (p *Pipeline[T]) Clear() {
	if p.shared {
		p.listeners = nil
		p.shared = false
	} else {
		clear(p.listeners)
		p.listeners = p.listeners[:0]
	}

	clear(p.queue)
	p.queue = p.queue[:0]
	p.epoch++
}

// Len returns the number of connected listeners.
func (p *Pipeline[T]) Len() int {
	return len(p.listeners)
}

// Pending returns the number of queued events.
func (p *Pipeline[T]) Pending() int {
	return len(p.queue)
}

func (p *Pipeline[T]) notify(listeners []delegate.Delegate[T], event T) {
	for _, l := range listeners {
		if err := l.Invoke(event); err != nil {
			p.logger.WarnContext(context.Background(), "listener skipped",
				logger.Component("pipeline"),
				logger.EventType(reflect.TypeFor[T]()),
				logger.Error(err))
		}
	}
}

// snapshot returns the current listeners and marks their backing array as
// referenced by a running frame.
func (p *Pipeline[T]) snapshot() []delegate.Delegate[T] {
	p.shared = true
	return p.listeners
}

// writable returns listeners that may be modified in place.
func (p *Pipeline[T]) writable() []delegate.Delegate[T] {
	if p.shared {
		p.listeners = slices.Clone(p.listeners)
		p.shared = false
	}
	return p.listeners
}

func (p *Pipeline[T]) leave() {
	p.active--
	if p.active == 0 {
		p.shared = false
	}
}
