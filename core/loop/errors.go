package loop

import "errors"

var (
	// ErrDispatcherNil is returned when creating a loop without a dispatcher.
	ErrDispatcherNil = errors.New("dispatcher is nil")

	// ErrLoopAlreadyStarted is returned when starting a loop that is already running.
	ErrLoopAlreadyStarted = errors.New("loop already started")

	// ErrLoopNotStarted is returned when stopping or submitting to a loop that is not running.
	ErrLoopNotStarted = errors.New("loop not started")

	// ErrLoopStopped is returned when the loop stops before a submitted job has run.
	ErrLoopStopped = errors.New("loop stopped")

	// ErrInboxFull is returned by Post when the inbox has no free capacity.
	ErrInboxFull = errors.New("loop inbox is full")

	// ErrJobPanicked wraps panics raised by jobs submitted with Do.
	ErrJobPanicked = errors.New("loop job panicked")

	// ErrShutdownTimeout is returned by Stop when the loop goroutine does not exit in time.
	ErrShutdownTimeout = errors.New("loop shutdown timeout exceeded")
)
