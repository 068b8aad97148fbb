package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/findly-now/fn-notifications/pkg/bulkhead"
	"github.com/findly-now/fn-notifications/pkg/circuitbreaker"
	"github.com/findly-now/fn-notifications/pkg/notification"
	"github.com/findly-now/fn-notifications/pkg/preferences"
	"github.com/findly-now/fn-notifications/pkg/retry"
	"github.com/findly-now/fn-notifications/pkg/routing"
)

// Deps carries everything the Coordinator needs. All fields except Logger
// are required.
type Deps struct {
	Notifications notification.Storage
	Preferences   *preferences.Service
	Router        *routing.Router
	Bulkhead      *bulkhead.Bulkhead
	Breakers      *circuitbreaker.Registry
	Scheduler     *retry.Scheduler
	Logger        *slog.Logger
}

func (d Deps) validate() error {
	switch {
	case d.Notifications == nil:
		return errors.New("dispatch: notification storage is required")
	case d.Preferences == nil:
		return errors.New("dispatch: preferences service is required")
	case d.Router == nil:
		return errors.New("dispatch: router is required")
	case d.Bulkhead == nil:
		return errors.New("dispatch: bulkhead is required")
	case d.Breakers == nil:
		return errors.New("dispatch: breaker registry is required")
	case d.Scheduler == nil:
		return errors.New("dispatch: retry scheduler is required")
	}
	return nil
}

// Coordinator runs the delivery pipeline for single notifications.
type Coordinator struct {
	deps    Deps
	senders map[notification.Channel]ChannelSender
	log     *slog.Logger
}

// NewCoordinator wires the pipeline with the given channel senders.
func NewCoordinator(deps Deps, senders ...ChannelSender) (*Coordinator, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if len(senders) == 0 {
		return nil, errors.New("dispatch: at least one channel sender is required")
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	bySenderChannel := make(map[notification.Channel]ChannelSender, len(senders))
	for _, s := range senders {
		bySenderChannel[s.Channel()] = s
	}

	return &Coordinator{
		deps:    deps,
		senders: bySenderChannel,
		log:     log,
	}, nil
}

// Dispatch delivers the pending notification with the given id. Routing
// rejections cancel the entity; delivery failures mark it failed and, while
// the retry budget lasts, schedule a delayed re-attempt.
func (c *Coordinator) Dispatch(ctx context.Context, id uuid.UUID) error {
	n, err := c.deps.Notifications.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading notification %s: %w", id, err)
	}

	// Stale re-send guard: a retry may have been superseded by a
	// cancellation or a successful delivery in the meantime.
	if n.Status != notification.StatusPending {
		return fmt.Errorf("%w: %s is %s", ErrNotPending, id, n.Status)
	}

	prefs, err := c.deps.Preferences.Get(ctx, n.RecipientID)
	if err != nil {
		return fmt.Errorf("loading preferences for %s: %w", n.RecipientID, err)
	}

	decision := c.deps.Router.Route(ctx, n, prefs)
	if !decision.ShouldDeliver {
		return c.reject(ctx, n, decision)
	}

	sender, ok := c.senders[n.Channel]
	if !ok {
		// Configuration problem, not a transient fault: no retry.
		if err := n.MarkAsFailed(ReasonNoSender); err != nil {
			return err
		}
		if err := c.deps.Notifications.Update(ctx, n); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrNoSender, n.Channel)
	}

	deliverErr := c.deps.Bulkhead.Execute(ctx, categoryFor(n.Channel), func(ctx context.Context) error {
		return c.deps.Breakers.Do(ctx, dependencyFor(n.Channel), func(ctx context.Context) error {
			return sender.Deliver(ctx, n, prefs)
		})
	})
	if deliverErr != nil {
		return c.fail(ctx, n, deliverErr)
	}

	if err := n.MarkAsSent(); err != nil {
		return err
	}
	if err := c.deps.Notifications.Update(ctx, n); err != nil {
		return err
	}

	c.log.InfoContext(ctx, "notification sent",
		slog.String("notification_id", n.ID.String()),
		slog.String("channel", string(n.Channel)),
	)
	return nil
}

// ConfirmDelivery moves a sent notification to delivered. Called from the
// provider's delivery callback.
func (c *Coordinator) ConfirmDelivery(ctx context.Context, id uuid.UUID) error {
	n, err := c.deps.Notifications.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading notification %s: %w", id, err)
	}
	if err := n.MarkAsDelivered(); err != nil {
		return err
	}
	return c.deps.Notifications.Update(ctx, n)
}

// reject cancels a routed-out notification and records the reason.
func (c *Coordinator) reject(ctx context.Context, n *notification.Notification, decision routing.Decision) error {
	if err := n.Cancel(decision.Reason); err != nil {
		return err
	}
	if err := c.deps.Notifications.Update(ctx, n); err != nil {
		return err
	}

	attrs := []any{
		slog.String("notification_id", n.ID.String()),
		slog.String("channel", string(n.Channel)),
		slog.String("reason", decision.Reason),
	}
	if decision.DelayUntil != nil {
		attrs = append(attrs, slog.Time("delay_until", *decision.DelayUntil))
	}
	c.log.InfoContext(ctx, "delivery rejected by routing", attrs...)
	return nil
}

// fail marks the notification failed and schedules a re-attempt while the
// budget lasts.
func (c *Coordinator) fail(ctx context.Context, n *notification.Notification, deliverErr error) error {
	reason := failureReason(deliverErr)
	if err := n.MarkAsFailed(reason); err != nil {
		return err
	}
	if err := c.deps.Notifications.Update(ctx, n); err != nil {
		return err
	}

	c.log.WarnContext(ctx, "delivery failed",
		slog.String("notification_id", n.ID.String()),
		slog.String("channel", string(n.Channel)),
		slog.String("reason", reason),
		slog.Int("retry_count", n.RetryCount),
		slog.Any("error", deliverErr),
	)

	if n.CanRetry() {
		if err := c.deps.Scheduler.Schedule(ctx, n.ID, n.RetryCount); err != nil &&
			!errors.Is(err, retry.ErrAlreadyScheduled) {
			c.log.ErrorContext(ctx, "scheduling retry failed",
				slog.String("notification_id", n.ID.String()),
				slog.Any("error", err),
			)
		}
	}
	return fmt.Errorf("delivering %s: %w", n.ID, deliverErr)
}

// failureReason maps a delivery error to its stable reason code.
// Resource-exhaustion codes are distinct so they can be alerted on, even
// though they retry the same way as provider faults.
func failureReason(err error) string {
	switch {
	case errors.Is(err, bulkhead.ErrAcquireTimeout):
		return ReasonBulkheadTimeout
	case errors.Is(err, bulkhead.ErrPoolExhausted):
		return ReasonBulkheadExhausted
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return ReasonCircuitOpen
	case errors.Is(err, circuitbreaker.ErrOperationTimeout):
		return ReasonProviderTimeout
	default:
		return ReasonProviderError
	}
}
