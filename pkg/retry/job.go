package retry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Job is one scheduled re-delivery attempt.
type Job struct {
	ID             uuid.UUID `json:"id"`
	NotificationID uuid.UUID `json:"notification_id"`
	Attempt        int       `json:"attempt"`
	RunAt          time.Time `json:"run_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store is the persistence contract for scheduled jobs.
type Store interface {
	// Add persists a job. ErrAlreadyScheduled when a job for the same
	// notification is still pending.
	Add(ctx context.Context, job Job) error

	// ClaimDue atomically removes and returns up to limit jobs whose RunAt
	// is at or before now, oldest first.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error)

	// Remove deletes a pending job by notification id. ErrJobNotFound when
	// absent.
	Remove(ctx context.Context, notificationID uuid.UUID) error

	// Len reports how many jobs are pending.
	Len(ctx context.Context) (int, error)
}
