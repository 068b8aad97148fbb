package consumer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findly-now/fn-notifications/pkg/consumer"
	"github.com/findly-now/fn-notifications/pkg/dedup"
	"github.com/findly-now/fn-notifications/pkg/notification"
	"github.com/findly-now/fn-notifications/pkg/translator"
)

// recordingDispatcher collects dispatched notification ids.
type recordingDispatcher struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, id uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, id)
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.ids)
}

type fixture struct {
	source     *consumer.MemorySource
	store      *notification.MemoryStorage
	dispatcher *recordingDispatcher
	deadLetter *consumer.MemoryDeadLetter
	processor  *consumer.Processor
	window     *dedup.MemoryWindow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		source:     consumer.NewMemorySource(),
		store:      notification.NewMemoryStorage(),
		dispatcher: &recordingDispatcher{},
		deadLetter: consumer.NewMemoryDeadLetter(),
		window:     dedup.NewMemoryWindow(),
	}
	t.Cleanup(func() { _ = f.window.Close() })

	p, err := consumer.NewProcessor(consumer.Deps{
		Source:        f.source,
		Translator:    translator.New(),
		Window:        f.window,
		Notifications: f.store,
		Dispatcher:    f.dispatcher,
		DeadLetter:    f.deadLetter,
	}, consumer.Config{PollInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	f.processor = p
	return f
}

func (f *fixture) runUntilAcked(t *testing.T, n int) {
	t.Helper()
	ctx := context.Background()
	f.processor.Start(ctx)
	defer f.processor.Stop()

	require.Eventually(t, func() bool {
		return len(f.source.Acked()) >= n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProcessor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("event becomes dispatched notification", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.source.Publish([]byte(`{
			"event_type": "post.created",
			"data": {"post_id": "post-1", "reporter_id": "user-1", "title": "Blue backpack"}
		}`))

		f.runUntilAcked(t, 1)

		require.Equal(t, 1, f.dispatcher.count())
		list, err := f.store.ListByRecipient(ctx, "user-1", notification.Filter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Post Confirmed", list[0].Title)
		assert.Equal(t, notification.ChannelEmail, list[0].Channel)
	})

	t.Run("fan out creates one notification per command", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.source.Publish([]byte(`{
			"event_type": "post.claimed",
			"data": {"post_id": "post-1", "reporter_id": "user-1", "claimer_id": "user-2"}
		}`))

		f.runUntilAcked(t, 1)

		require.Equal(t, 2, f.dispatcher.count())

		reporter, err := f.store.ListByRecipient(ctx, "user-1", notification.Filter{})
		require.NoError(t, err)
		require.Len(t, reporter, 1)
		assert.Equal(t, notification.ChannelSMS, reporter[0].Channel)
		assert.Contains(t, reporter[0].Title, "claimed")

		claimer, err := f.store.ListByRecipient(ctx, "user-2", notification.Filter{})
		require.NoError(t, err)
		require.Len(t, claimer, 1)
		assert.Equal(t, notification.ChannelEmail, claimer[0].Channel)
		assert.Equal(t, "Claim Submitted", claimer[0].Title)
	})

	t.Run("malformed event dead-lettered and acked", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		id := f.source.Publish([]byte(`{"event_type": `))

		f.runUntilAcked(t, 1)

		assert.Equal(t, 0, f.dispatcher.count())
		entries := f.deadLetter.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, id, entries[0].Message.ID)
		assert.Equal(t, []string{id}, f.source.Acked())
		assert.Equal(t, 0, f.source.Pending())
	})

	t.Run("unknown event type dead-lettered and acked", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.source.Publish([]byte(`{"event_type": "post.liked", "data": {}}`))

		f.runUntilAcked(t, 1)

		assert.Equal(t, 0, f.dispatcher.count())
		require.Len(t, f.deadLetter.Entries(), 1)
		assert.Contains(t, f.deadLetter.Entries()[0].Cause, "post.liked")
	})

	t.Run("missing field dead-lettered and acked", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.source.Publish([]byte(`{"event_type": "post.created", "data": {"post_id": "post-1"}}`))

		f.runUntilAcked(t, 1)

		assert.Equal(t, 0, f.dispatcher.count())
		assert.Len(t, f.deadLetter.Entries(), 1)
	})

	t.Run("duplicates suppressed within the window", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		payload := []byte(`{
			"event_type": "post.created",
			"data": {"post_id": "post-1", "reporter_id": "user-1", "title": "Blue backpack"}
		}`)
		f.source.Publish(payload)
		f.source.Publish(payload)

		f.runUntilAcked(t, 2)

		// Both messages acked, but only one notification made it through.
		assert.Len(t, f.source.Acked(), 2)
		require.Eventually(t, func() bool {
			return f.dispatcher.count() == 1
		}, time.Second, 10*time.Millisecond)
		list, err := f.store.ListByRecipient(ctx, "user-1", notification.Filter{})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("different content not suppressed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.source.Publish([]byte(`{
			"event_type": "post.created",
			"data": {"post_id": "post-1", "reporter_id": "user-1", "title": "Blue backpack"}
		}`))
		f.source.Publish([]byte(`{
			"event_type": "post.resolved",
			"data": {"post_id": "post-1", "reporter_id": "user-1"}
		}`))

		f.runUntilAcked(t, 2)

		require.Eventually(t, func() bool {
			return f.dispatcher.count() == 2
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("bad command isolated from the rest", func(t *testing.T) {
		t.Parallel()

		// Second message still processed after the first one dead-letters.
		f := newFixture(t)
		f.source.Publish([]byte(`not json at all`))
		f.source.Publish([]byte(`{
			"event_type": "user.registered",
			"data": {"user_id": "user-9", "email": "u9@example.com"}
		}`))

		f.runUntilAcked(t, 2)

		require.Eventually(t, func() bool {
			return f.dispatcher.count() == 1
		}, time.Second, 10*time.Millisecond)
		list, err := f.store.ListByRecipient(ctx, "user-9", notification.Filter{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Welcome to Findly", list[0].Title)
	})
}

func TestProcessorValidation(t *testing.T) {
	t.Parallel()

	_, err := consumer.NewProcessor(consumer.Deps{}, consumer.Config{})
	assert.Error(t, err)
}
