package contactexchange

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage is the persistence contract for contact exchange notifications.
// Denied and expired records are retained for 30 days and removed by
// DeleteOlderThan; pending and approved records are never deleted.
type Storage interface {
	// Create persists a new notification. ErrAlreadyExists on ID collision.
	Create(ctx context.Context, n *ContactExchangeNotification) error

	// GetByID loads a notification. ErrNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*ContactExchangeNotification, error)

	// GetByRequestID returns all lifecycle notifications for one exchange
	// request, oldest first.
	GetByRequestID(ctx context.Context, requestID string) ([]*ContactExchangeNotification, error)

	// Update persists the current state of an existing notification.
	Update(ctx context.Context, n *ContactExchangeNotification) error

	// ListByRequester returns notifications where the user asked for
	// contact details, newest first.
	ListByRequester(ctx context.Context, requesterID string) ([]*ContactExchangeNotification, error)

	// ListByOwner returns notifications where the user owns the post,
	// newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*ContactExchangeNotification, error)

	// ListPending returns notifications still awaiting a decision.
	ListPending(ctx context.Context) ([]*ContactExchangeNotification, error)

	// ListExpired returns notifications whose contact payload expired
	// before the given time.
	ListExpired(ctx context.Context, before time.Time) ([]*ContactExchangeNotification, error)

	// DeleteOlderThan removes denied and expired records created before the
	// cutoff and reports how many were removed. Other statuses are kept
	// regardless of age.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
