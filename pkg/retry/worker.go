package retry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/findly-now/fn-notifications/pkg/notification"
)

const (
	// DefaultPollInterval is how often the worker looks for due jobs.
	DefaultPollInterval = time.Second

	// DefaultClaimLimit bounds how many jobs one tick claims.
	DefaultClaimLimit = 50

	// DefaultWorkerConcurrency bounds parallel re-deliveries.
	DefaultWorkerConcurrency = 4
)

// DispatchFunc re-runs the delivery pipeline for one notification.
type DispatchFunc func(ctx context.Context, notificationID uuid.UUID) error

// Worker claims due retry jobs and re-dispatches their notifications.
type Worker struct {
	store         Store
	notifications notification.Storage
	dispatch      DispatchFunc
	log           *slog.Logger

	pollInterval time.Duration
	claimLimit   int
	concurrency  int

	stop     context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithPollInterval overrides how often due jobs are claimed.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithClaimLimit overrides how many jobs one tick claims.
func WithClaimLimit(limit int) WorkerOption {
	return func(w *Worker) {
		if limit > 0 {
			w.claimLimit = limit
		}
	}
}

// WithConcurrency bounds parallel re-deliveries.
func WithConcurrency(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithWorkerLogger sets the logger.
func WithWorkerLogger(log *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWorker creates a Worker. Start must be called to begin processing.
func NewWorker(store Store, notifications notification.Storage, dispatch DispatchFunc, opts ...WorkerOption) *Worker {
	w := &Worker{
		store:         store,
		notifications: notifications,
		dispatch:      dispatch,
		log:           slog.Default(),
		pollInterval:  DefaultPollInterval,
		claimLimit:    DefaultClaimLimit,
		concurrency:   DefaultWorkerConcurrency,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start runs the claim loop until ctx is cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ctx, w.stop = context.WithCancel(ctx)

	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()

		sem := make(chan struct{}, w.concurrency)
		var wg sync.WaitGroup

		for {
			select {
			case <-ctx.Done():
				wg.Wait()
				return
			case now := <-ticker.C:
				jobs, err := w.store.ClaimDue(ctx, now, w.claimLimit)
				if err != nil {
					w.log.ErrorContext(ctx, "claiming retry jobs failed", slog.Any("error", err))
					continue
				}
				for _, job := range jobs {
					select {
					case sem <- struct{}{}:
					case <-ctx.Done():
						wg.Wait()
						return
					}
					wg.Add(1)
					go func() {
						defer wg.Done()
						defer func() { <-sem }()
						w.run(ctx, job)
					}()
				}
			}
		}
	}()
}

// Stop halts the loop and waits for in-flight re-deliveries to finish.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		if w.stop != nil {
			w.stop()
		}
		<-w.done
	})
}

// run executes one claimed job. The notification is reloaded first: a job
// whose entity moved on is dropped without side effects.
func (w *Worker) run(ctx context.Context, job Job) {
	n, err := w.notifications.GetByID(ctx, job.NotificationID)
	if err != nil {
		w.log.ErrorContext(ctx, "retry target not found",
			slog.String("notification_id", job.NotificationID.String()),
			slog.Any("error", err),
		)
		return
	}

	if !n.CanRetry() {
		w.log.InfoContext(ctx, "retry superseded",
			slog.String("notification_id", n.ID.String()),
			slog.String("status", string(n.Status)),
			slog.Int("retry_count", n.RetryCount),
		)
		return
	}

	if err := n.IncrementRetry(); err != nil {
		w.log.ErrorContext(ctx, "retry increment failed",
			slog.String("notification_id", n.ID.String()),
			slog.Any("error", err),
		)
		return
	}
	if err := w.notifications.Update(ctx, n); err != nil {
		w.log.ErrorContext(ctx, "persisting retried notification failed",
			slog.String("notification_id", n.ID.String()),
			slog.Any("error", err),
		)
		return
	}

	if err := w.dispatch(ctx, n.ID); err != nil {
		w.log.ErrorContext(ctx, "retry dispatch failed",
			slog.String("notification_id", n.ID.String()),
			slog.Int("attempt", n.RetryCount),
			slog.Any("error", err),
		)
	}
}
