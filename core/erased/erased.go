package erased

import (
	"fmt"
	"reflect"

	"github.com/dmitrymomot/emit/core/pipeline"
)

// Pipeline holds a pipeline.Pipeline of an event type fixed at creation.
// The zero value is an empty holder.
type Pipeline struct {
	_ noCopy

	value any // *pipeline.Pipeline[T]
	typ   reflect.Type

	destroy  func(value any)
	clear    func(value any)
	dispatch func(value any)
	move     func(dst, src *any)
}

// Create returns a holder with a new, empty pipeline for events of type T.
func Create[T any](opts ...pipeline.Option) *Pipeline {
	return &Pipeline{
		value:    pipeline.New[T](opts...),
		typ:      reflect.TypeFor[T](),
		destroy:  destroyPipeline[T],
		clear:    clearPipeline[T],
		dispatch: dispatchPipeline[T],
		move:     movePipeline[T],
	}
}

// Acquire returns the pipeline held by p. It panics if p is empty or holds a
// pipeline for an event type other than T.
func Acquire[T any](p *Pipeline) *pipeline.Pipeline[T] {
	if !p.Populated() {
		panic(ErrEmpty)
	}

	pl, ok := p.value.(*pipeline.Pipeline[T])
	if !ok {
		panic(fmt.Errorf("%w: holds %s, acquired as %s", ErrTypeMismatch, p.typ, reflect.TypeFor[T]()))
	}

	return pl
}

// TryAcquire returns the pipeline held by p if p holds one for event type T.
func TryAcquire[T any](p *Pipeline) (*pipeline.Pipeline[T], bool) {
	pl, ok := p.value.(*pipeline.Pipeline[T])
	return pl, ok
}

// Populated reports whether p holds a pipeline.
func (p *Pipeline) Populated() bool {
	return p.destroy != nil
}

// Type returns the event type of the held pipeline, or nil when p is empty.
func (p *Pipeline) Type() reflect.Type {
	return p.typ
}

// Clear removes all listeners and pending events from the held pipeline.
func (p *Pipeline) Clear() {
	if p.Populated() {
		p.clear(p.value)
	}
}

// Dispatch delivers the pending events of the held pipeline.
func (p *Pipeline) Dispatch() {
	if p.Populated() {
		p.dispatch(p.value)
	}
}

// Destroy clears the held pipeline and leaves p empty.
func (p *Pipeline) Destroy() {
	if !p.Populated() {
		return
	}

	p.destroy(p.value)
	p.reset()
}

// MoveFrom moves the content of src into p and leaves src empty.
// A pipeline already held by p is destroyed first.
func (p *Pipeline) MoveFrom(src *Pipeline) {
	if p == src {
		return
	}

	p.Destroy()

	if !src.Populated() {
		return
	}

	src.move(&p.value, &src.value)
	p.typ = src.typ
	p.destroy = src.destroy
	p.clear = src.clear
	p.dispatch = src.dispatch
	p.move = src.move

	src.reset()
}

func (p *Pipeline) reset() {
	p.value = nil
	p.typ = nil
	p.destroy = nil
	p.clear = nil
	p.dispatch = nil
	p.move = nil
}

func cast[T any](value any) *pipeline.Pipeline[T] {
	return value.(*pipeline.Pipeline[T])
}

func destroyPipeline[T any](value any) {
	cast[T](value).Clear()
}

func clearPipeline[T any](value any) {
	cast[T](value).Clear()
}

func dispatchPipeline[T any](value any) {
	cast[T](value).Dispatch()
}

func movePipeline[T any](dst, src *any) {
	*dst = cast[T](*src)
	*src = nil
}

// noCopy may be embedded into structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527 for details.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
