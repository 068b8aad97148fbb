package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/findly-now/fn-notifications/pkg/notification"
)

// Scheduler persists delayed re-delivery jobs.
type Scheduler struct {
	store      Store
	baseDelay  time.Duration
	maxRetries int
	log        *slog.Logger
	now        func() time.Time
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithBaseDelay overrides the first-attempt delay.
func WithBaseDelay(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.baseDelay = d
		}
	}
}

// WithMaxRetries overrides the retry budget the scheduler enforces.
func WithMaxRetries(max int) SchedulerOption {
	return func(s *Scheduler) {
		if max > 0 {
			s.maxRetries = max
		}
	}
}

// WithSchedulerLogger sets the logger.
func WithSchedulerLogger(log *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSchedulerClock injects a clock for tests.
func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScheduler creates a Scheduler over the given job store.
func NewScheduler(store Store, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		store:      store,
		baseDelay:  DefaultBaseDelay,
		maxRetries: notification.DefaultMaxRetries,
		log:        slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule persists a re-delivery job for the notification. The attempt is
// the zero-based retry about to be consumed; attempts at or past the
// budget fail with ErrRetriesExhausted.
func (s *Scheduler) Schedule(ctx context.Context, notificationID uuid.UUID, attempt int) error {
	if attempt >= s.maxRetries {
		return ErrRetriesExhausted
	}

	now := s.now()
	delay := BackoffWithBase(s.baseDelay, attempt)
	job := Job{
		ID:             uuid.New(),
		NotificationID: notificationID,
		Attempt:        attempt,
		RunAt:          now.Add(delay),
		CreatedAt:      now,
	}
	if err := s.store.Add(ctx, job); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "retry scheduled",
		slog.String("notification_id", notificationID.String()),
		slog.Int("attempt", attempt),
		slog.Duration("delay", delay),
	)
	return nil
}

// Cancel drops a pending job for the notification, if any.
func (s *Scheduler) Cancel(ctx context.Context, notificationID uuid.UUID) error {
	return s.store.Remove(ctx, notificationID)
}
