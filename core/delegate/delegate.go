package delegate

import (
	"unsafe"
	"weak"
)

// Delegate is a listener for events of type T. The zero value is unbound.
type Delegate[T any] struct {
	target   any            // weak.Pointer[U] for bound methods, nil for free functions
	function unsafe.Pointer // closure pointer of the bound function value
	call     func(T) error
	alive    func() bool
}

// Bind creates a delegate that calls method on instance.
// The delegate holds instance weakly.
func Bind[U, T any](instance *U, method func(*U, T)) Delegate[T] {
	if method == nil {
		return Delegate[T]{}
	}

	wp := weak.Make(instance)

	return Delegate[T]{
		target:   wp,
		function: funcPointer(method),
		call: func(event T) error {
			p := wp.Value()
			if p == nil {
				return ErrTargetReleased
			}
			method(p, event)
			return nil
		},
		alive: func() bool {
			return wp.Value() != nil
		},
	}
}

// BindFunc creates a delegate that calls fn directly.
func BindFunc[T any](fn func(T)) Delegate[T] {
	if fn == nil {
		return Delegate[T]{}
	}

	return Delegate[T]{
		function: funcPointer(fn),
		call: func(event T) error {
			fn(event)
			return nil
		},
	}
}

// Invoke calls the bound function with event.
func (d Delegate[T]) Invoke(event T) error {
	if d.call == nil {
		return ErrUnbound
	}
	return d.call(event)
}

// Equal reports whether d and other refer to the same target and function.
func (d Delegate[T]) Equal(other Delegate[T]) bool {
	return d.target == other.target && d.function == other.function
}

// IsBound reports whether d has a function to call.
func (d Delegate[T]) IsBound() bool {
	return d.call != nil
}

// Released reports whether d was bound to an instance that no longer exists.
// Free-function delegates are never released.
func (d Delegate[T]) Released() bool {
	return d.alive != nil && !d.alive()
}

// funcPointer returns the closure pointer held by the func value fn. Top-level
// functions and method expressions resolve to one static closure, every closure
// instance that captures variables gets its own.
func funcPointer[F any](fn F) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&fn))
}
