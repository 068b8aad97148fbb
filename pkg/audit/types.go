package audit

import (
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of an audited operation.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

// Event is a single audit trail entry.
type Event struct {
	ID        uuid.UUID         `json:"id"`
	ActorID   string            `json:"actor_id"`
	RequestID string            `json:"request_id,omitempty"`
	Operation string            `json:"operation"`
	Result    Result            `json:"result"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Validate checks the required fields.
func (e *Event) Validate() error {
	if e.Operation == "" {
		return ErrEmptyOperation
	}
	if e.ActorID == "" {
		return ErrEmptyActor
	}
	return nil
}

// EventOption decorates an Event at log time.
type EventOption func(*Event)

// WithRequestID correlates the event with an exchange request.
func WithRequestID(requestID string) EventOption {
	return func(e *Event) {
		e.RequestID = requestID
	}
}

// WithMetadata attaches one metadata value. Values must already be safe to
// persist; raw contact details never belong here.
func WithMetadata(key, value string) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]string)
		}
		e.Metadata[key] = value
	}
}
