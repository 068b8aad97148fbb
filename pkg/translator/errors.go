package translator

import (
	"errors"
	"fmt"
)

// ErrMalformedEvent indicates the envelope could not be decoded or carried
// no event type. Such events are dead-lettered, never retried.
var ErrMalformedEvent = errors.New("translator: malformed event")

// UnknownEventTypeError indicates an event type with no registered mapping.
// Non-fatal: callers log and discard.
type UnknownEventTypeError struct {
	EventType string
}

func (e *UnknownEventTypeError) Error() string {
	return fmt.Sprintf("translator: unknown event type %q", e.EventType)
}

// IsUnknownEventType reports whether err is an UnknownEventTypeError.
func IsUnknownEventType(err error) bool {
	var e *UnknownEventTypeError
	return errors.As(err, &e)
}

// MissingFieldError indicates a required data field was absent or empty.
type MissingFieldError struct {
	EventType string
	Field     string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("translator: event %q is missing required field %q", e.EventType, e.Field)
}

// IsMissingField reports whether err is a MissingFieldError.
func IsMissingField(err error) bool {
	var e *MissingFieldError
	return errors.As(err, &e)
}
