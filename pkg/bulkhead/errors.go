package bulkhead

import "errors"

var (
	// ErrAcquireTimeout is returned when no slot freed up within the
	// acquire timeout.
	ErrAcquireTimeout = errors.New("bulkhead: timed out waiting for a slot")

	// ErrPoolExhausted is returned immediately when the wait queue is at
	// its cap.
	ErrPoolExhausted = errors.New("bulkhead: wait queue full")

	// ErrUnknownCategory is returned for categories that were never
	// registered when auto-registration is disabled.
	ErrUnknownCategory = errors.New("bulkhead: unknown category")

	// ErrEmptyCategory rejects unnamed categories.
	ErrEmptyCategory = errors.New("bulkhead: category cannot be empty")
)
