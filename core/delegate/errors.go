package delegate

import "errors"

var (
	// ErrUnbound is returned when invoking a zero Delegate.
	ErrUnbound = errors.New("delegate is not bound")

	// ErrTargetReleased is returned when the instance a Delegate was bound to has been garbage-collected.
	ErrTargetReleased = errors.New("delegate target has been released")
)
