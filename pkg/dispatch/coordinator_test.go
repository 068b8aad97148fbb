package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findly-now/fn-notifications/pkg/bulkhead"
	"github.com/findly-now/fn-notifications/pkg/circuitbreaker"
	"github.com/findly-now/fn-notifications/pkg/dispatch"
	"github.com/findly-now/fn-notifications/pkg/notification"
	"github.com/findly-now/fn-notifications/pkg/preferences"
	"github.com/findly-now/fn-notifications/pkg/retry"
	"github.com/findly-now/fn-notifications/pkg/routing"
)

// stubSender records deliveries and fails on demand.
type stubSender struct {
	channel   notification.Channel
	failWith  error
	delivered []uuid.UUID
}

func (s *stubSender) Channel() notification.Channel { return s.channel }

func (s *stubSender) Deliver(ctx context.Context, n *notification.Notification, prefs *preferences.UserPreferences) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.delivered = append(s.delivered, n.ID)
	return nil
}

type pipeline struct {
	coordinator   *dispatch.Coordinator
	notifications *notification.MemoryStorage
	prefs         *preferences.Service
	jobs          *retry.MemoryStore
	sender        *stubSender
}

func newPipeline(t *testing.T, sender *stubSender, breakerOpts ...circuitbreaker.RegistryOption) *pipeline {
	t.Helper()

	notifications := notification.NewMemoryStorage()
	prefs := preferences.NewService(preferences.NewMemoryStorage())
	jobs := retry.NewMemoryStore()

	coordinator, err := dispatch.NewCoordinator(dispatch.Deps{
		Notifications: notifications,
		Preferences:   prefs,
		Router:        routing.New(),
		Bulkhead:      bulkhead.New(),
		Breakers:      circuitbreaker.NewRegistry(breakerOpts...),
		Scheduler:     retry.NewScheduler(jobs),
	}, sender)
	require.NoError(t, err)

	return &pipeline{
		coordinator:   coordinator,
		notifications: notifications,
		prefs:         prefs,
		jobs:          jobs,
		sender:        sender,
	}
}

// seedRecipient stores preferences with an email contact so routing
// approves email delivery.
func (p *pipeline) seedRecipient(t *testing.T, userID string) {
	t.Helper()
	prefs := preferences.Default(userID)
	prefs.Email = userID + "@example.com"
	require.NoError(t, p.prefs.Update(context.Background(), prefs))
}

func (p *pipeline) createPending(t *testing.T, recipientID string) *notification.Notification {
	t.Helper()
	n, err := notification.New(recipientID, notification.ChannelEmail, "Post Confirmed", "Your post is live.")
	require.NoError(t, err)
	require.NoError(t, p.notifications.Create(context.Background(), n))
	return n
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("success marks sent", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(t, &stubSender{channel: notification.ChannelEmail})
		p.seedRecipient(t, "user-1")
		n := p.createPending(t, "user-1")

		require.NoError(t, p.coordinator.Dispatch(ctx, n.ID))

		got, err := p.notifications.GetByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, notification.StatusSent, got.Status)
		require.NotNil(t, got.SentAt)
		assert.Equal(t, []uuid.UUID{n.ID}, p.sender.delivered)
	})

	t.Run("unknown notification", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(t, &stubSender{channel: notification.ChannelEmail})
		err := p.coordinator.Dispatch(ctx, uuid.New())
		assert.ErrorIs(t, err, notification.ErrNotFound)
	})

	t.Run("non-pending guarded", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(t, &stubSender{channel: notification.ChannelEmail})
		p.seedRecipient(t, "user-1")
		n := p.createPending(t, "user-1")

		require.NoError(t, p.coordinator.Dispatch(ctx, n.ID))
		// A second dispatch of the same entity is a stale re-send.
		err := p.coordinator.Dispatch(ctx, n.ID)
		assert.ErrorIs(t, err, dispatch.ErrNotPending)
		assert.Len(t, p.sender.delivered, 1)
	})

	t.Run("routing rejection cancels", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(t, &stubSender{channel: notification.ChannelEmail})
		prefs := preferences.Default("user-1")
		prefs.Email = "user-1@example.com"
		prefs.Channels[notification.ChannelEmail] = preferences.ChannelSettings{Enabled: false}
		require.NoError(t, p.prefs.Update(ctx, prefs))

		n := p.createPending(t, "user-1")
		require.NoError(t, p.coordinator.Dispatch(ctx, n.ID))

		got, err := p.notifications.GetByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, notification.StatusCancelled, got.Status)
		assert.Equal(t, routing.ReasonChannelDisabled, got.FailureReason)
		assert.Empty(t, p.sender.delivered)
	})

	t.Run("provider failure schedules retry", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(t, &stubSender{
			channel:  notification.ChannelEmail,
			failWith: errors.New("postmark 500"),
		})
		p.seedRecipient(t, "user-1")
		n := p.createPending(t, "user-1")

		err := p.coordinator.Dispatch(ctx, n.ID)
		require.Error(t, err)

		got, err2 := p.notifications.GetByID(ctx, n.ID)
		require.NoError(t, err2)
		assert.Equal(t, notification.StatusFailed, got.Status)
		assert.Equal(t, dispatch.ReasonProviderError, got.FailureReason)

		pending, err2 := p.jobs.Len(ctx)
		require.NoError(t, err2)
		assert.Equal(t, 1, pending)
	})

	t.Run("circuit open tagged distinctly", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(t, &stubSender{
			channel:  notification.ChannelEmail,
			failWith: errors.New("postmark 500"),
		}, circuitbreaker.WithFailureThreshold(1))
		p.seedRecipient(t, "user-1")

		first := p.createPending(t, "user-1")
		require.Error(t, p.coordinator.Dispatch(ctx, first.ID))

		// Breaker is now open: the next dispatch short-circuits.
		second := p.createPending(t, "user-1")
		require.Error(t, p.coordinator.Dispatch(ctx, second.ID))

		got, err := p.notifications.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, dispatch.ReasonCircuitOpen, got.FailureReason)

		// Still retried like any transient failure.
		pending, err := p.jobs.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, pending)
	})

	t.Run("exhausted budget not rescheduled", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(t, &stubSender{
			channel:  notification.ChannelEmail,
			failWith: errors.New("postmark 500"),
		})
		p.seedRecipient(t, "user-1")

		n, err := notification.New("user-1", notification.ChannelEmail,
			"Post Confirmed", "Your post is live.", notification.WithMaxRetries(0))
		require.NoError(t, err)
		require.NoError(t, p.notifications.Create(ctx, n))

		require.Error(t, p.coordinator.Dispatch(ctx, n.ID))

		pending, err := p.jobs.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, pending)
	})

	t.Run("missing sender fails without retry", func(t *testing.T) {
		t.Parallel()

		p := newPipeline(t, &stubSender{channel: notification.ChannelEmail})

		prefs := preferences.Default("user-1")
		prefs.Phone = "+14155551234"
		prefs.Channels[notification.ChannelSMS] = preferences.ChannelSettings{Enabled: true}
		require.NoError(t, p.prefs.Update(ctx, prefs))

		n, err := notification.New("user-1", notification.ChannelSMS, "Your item was claimed", "Check the app.")
		require.NoError(t, err)
		require.NoError(t, p.notifications.Create(ctx, n))

		err = p.coordinator.Dispatch(ctx, n.ID)
		assert.ErrorIs(t, err, dispatch.ErrNoSender)

		got, err := p.notifications.GetByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, notification.StatusFailed, got.Status)
		assert.Equal(t, dispatch.ReasonNoSender, got.FailureReason)

		pending, err := p.jobs.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, pending)
	})
}

func TestConfirmDelivery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	p := newPipeline(t, &stubSender{channel: notification.ChannelEmail})
	p.seedRecipient(t, "user-1")
	n := p.createPending(t, "user-1")

	require.NoError(t, p.coordinator.Dispatch(ctx, n.ID))
	require.NoError(t, p.coordinator.ConfirmDelivery(ctx, n.ID))

	got, err := p.notifications.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, notification.StatusDelivered, got.Status)
	require.NotNil(t, got.DeliveredAt)

	// Confirming twice violates the transition table.
	err = p.coordinator.ConfirmDelivery(ctx, n.ID)
	assert.True(t, notification.IsTransitionError(err))
}

func TestRetryRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Delivery fails once, the retry worker fires, the second attempt
	// succeeds.
	sender := &stubSender{
		channel:  notification.ChannelEmail,
		failWith: errors.New("postmark 500"),
	}

	notifications := notification.NewMemoryStorage()
	prefsService := preferences.NewService(preferences.NewMemoryStorage())
	jobs := retry.NewMemoryStore()

	coordinator, err := dispatch.NewCoordinator(dispatch.Deps{
		Notifications: notifications,
		Preferences:   prefsService,
		Router:        routing.New(),
		Bulkhead:      bulkhead.New(),
		Breakers:      circuitbreaker.NewRegistry(),
		Scheduler: retry.NewScheduler(jobs,
			retry.WithBaseDelay(time.Millisecond)),
	}, sender)
	require.NoError(t, err)

	prefs := preferences.Default("user-1")
	prefs.Email = "user-1@example.com"
	require.NoError(t, prefsService.Update(ctx, prefs))

	n, err := notification.New("user-1", notification.ChannelEmail, "Post Confirmed", "Your post is live.")
	require.NoError(t, err)
	require.NoError(t, notifications.Create(ctx, n))

	require.Error(t, coordinator.Dispatch(ctx, n.ID))

	sender.failWith = nil
	worker := retry.NewWorker(jobs, notifications, coordinator.Dispatch,
		retry.WithPollInterval(5*time.Millisecond))
	worker.Start(ctx)
	defer worker.Stop()

	require.Eventually(t, func() bool {
		got, err := notifications.GetByID(ctx, n.ID)
		return err == nil && got.Status == notification.StatusSent
	}, 2*time.Second, 10*time.Millisecond)

	got, err := notifications.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RetryCount)
}
