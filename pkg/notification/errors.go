package notification

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyRecipient   = errors.New("notification: recipient id cannot be empty")
	ErrInvalidChannel   = errors.New("notification: unknown channel")
	ErrEmptyTitle       = errors.New("notification: title cannot be empty")
	ErrTitleTooLong     = errors.New("notification: title exceeds maximum length")
	ErrEmptyBody        = errors.New("notification: body cannot be empty")
	ErrBodyTooLong      = errors.New("notification: body exceeds maximum length")
	ErrRetriesExhausted = errors.New("notification: retries exhausted")
	ErrNotFound         = errors.New("notification: not found")
	ErrAlreadyExists    = errors.New("notification: already exists")
)

// TransitionError indicates an illegal status transition attempt.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("notification: illegal transition from %q to %q", e.From, e.To)
}

func newTransitionError(from, to Status) *TransitionError {
	return &TransitionError{From: from, To: to}
}

// IsTransitionError reports whether err is a TransitionError.
func IsTransitionError(err error) bool {
	var e *TransitionError
	return errors.As(err, &e)
}
