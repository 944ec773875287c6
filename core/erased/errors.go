package erased

import "errors"

var (
	// ErrEmpty is the panic value when acquiring a pipeline from an empty holder.
	ErrEmpty = errors.New("erased pipeline is empty")

	// ErrTypeMismatch is the panic value when acquiring a pipeline with the wrong event type.
	ErrTypeMismatch = errors.New("erased pipeline holds a different event type")
)
