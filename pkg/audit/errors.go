package audit

import "errors"

var (
	// ErrEmptyOperation rejects events without an operation name.
	ErrEmptyOperation = errors.New("audit: operation is required")

	// ErrEmptyActor rejects events without an acting user.
	ErrEmptyActor = errors.New("audit: actor id is required")

	// ErrNilStorage rejects construction without a storage backend.
	ErrNilStorage = errors.New("audit: storage cannot be nil")
)
