package audit

import (
	"context"
	"time"
)

// Criteria narrows Query results. Zero-value fields match anything.
type Criteria struct {
	ActorID   string
	RequestID string
	Operation string
	Result    Result
	Since     time.Time
	Limit     int // 0 means no limit
}

// Storage is the persistence contract for audit events. Events are
// append-only; there is no update or delete.
type Storage interface {
	// Store persists one event.
	Store(ctx context.Context, event Event) error

	// Query returns events matching the criteria, newest first.
	Query(ctx context.Context, criteria Criteria) ([]Event, error)
}

// Reader queries the audit trail.
type Reader interface {
	// Find returns events matching the criteria, newest first.
	Find(ctx context.Context, criteria Criteria) ([]Event, error)

	// ByActor returns the actor's events, newest first.
	ByActor(ctx context.Context, actorID string, limit int) ([]Event, error)

	// ByRequest returns the events of one exchange request, newest first.
	ByRequest(ctx context.Context, requestID string, limit int) ([]Event, error)
}

type reader struct {
	storage Storage
}

// NewReader creates a Reader over the given storage.
func NewReader(storage Storage) (Reader, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}
	return &reader{storage: storage}, nil
}

func (r *reader) Find(ctx context.Context, criteria Criteria) ([]Event, error) {
	return r.storage.Query(ctx, criteria)
}

func (r *reader) ByActor(ctx context.Context, actorID string, limit int) ([]Event, error) {
	return r.storage.Query(ctx, Criteria{ActorID: actorID, Limit: limit})
}

func (r *reader) ByRequest(ctx context.Context, requestID string, limit int) ([]Event, error) {
	return r.storage.Query(ctx, Criteria{RequestID: requestID, Limit: limit})
}
