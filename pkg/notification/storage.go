package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows ListByRecipient results.
type Filter struct {
	Status  Status  // zero value matches any status
	Channel Channel // zero value matches any channel
	Limit   int     // 0 means no limit
}

// Stats aggregates delivery outcomes from persisted records.
type Stats struct {
	Pending   int `json:"pending"`
	Sent      int `json:"sent"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}

// Total returns the number of records covered by the stats.
func (s Stats) Total() int {
	return s.Pending + s.Sent + s.Delivered + s.Failed + s.Cancelled
}

// Storage is the persistence contract for notifications. There is no delete
// operation: delivery records are retained for audit.
type Storage interface {
	// Create persists a new notification. ErrAlreadyExists on ID collision.
	Create(ctx context.Context, n *Notification) error

	// GetByID loads a notification. ErrNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// Update persists the current state of an existing notification.
	// ErrNotFound when absent. Last writer wins; callers validate the
	// status transition before committing.
	Update(ctx context.Context, n *Notification) error

	// ListByRecipient returns the recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID string, f Filter) ([]*Notification, error)

	// Stats aggregates status counts for records created at or after since.
	Stats(ctx context.Context, since time.Time) (Stats, error)
}
