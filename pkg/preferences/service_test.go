package preferences_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findly-now/fn-notifications/pkg/notification"
	"github.com/findly-now/fn-notifications/pkg/preferences"
)

// countingStorage wraps MemoryStorage to observe read traffic.
type countingStorage struct {
	*preferences.MemoryStorage
	gets int
}

func (cs *countingStorage) Get(ctx context.Context, userID string) (*preferences.UserPreferences, error) {
	cs.gets++
	return cs.MemoryStorage.Get(ctx, userID)
}

func TestService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("lazy default on miss persists", func(t *testing.T) {
		t.Parallel()

		storage := preferences.NewMemoryStorage()
		svc := preferences.NewService(storage)

		p, err := svc.Get(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, p.GlobalEnabled)

		// The defaults were persisted, not just returned.
		persisted, err := storage.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", persisted.UserID)
	})

	t.Run("cache serves repeat reads", func(t *testing.T) {
		t.Parallel()

		storage := &countingStorage{MemoryStorage: preferences.NewMemoryStorage()}
		require.NoError(t, storage.Save(ctx, preferences.Default("u1")))

		svc := preferences.NewService(storage, preferences.WithCacheTTL(time.Minute))

		_, err := svc.Get(ctx, "u1")
		require.NoError(t, err)
		_, err = svc.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, storage.gets)
	})

	t.Run("update invalidates cache", func(t *testing.T) {
		t.Parallel()

		storage := preferences.NewMemoryStorage()
		svc := preferences.NewService(storage, preferences.WithCacheTTL(time.Minute))

		p, err := svc.Get(ctx, "u1")
		require.NoError(t, err)

		p.Channels[notification.ChannelSMS] = preferences.ChannelSettings{Enabled: true}
		p.Phone = "+14155552671"
		require.NoError(t, svc.Update(ctx, p))

		got, err := svc.Get(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, got.ChannelEnabled(notification.ChannelSMS))
	})

	t.Run("update rejects invalid preferences", func(t *testing.T) {
		t.Parallel()

		svc := preferences.NewService(preferences.NewMemoryStorage())
		p := preferences.Default("u1")
		p.Email = "broken"
		assert.ErrorIs(t, svc.Update(ctx, p), preferences.ErrInvalidEmail)
	})

	t.Run("storage failures propagate", func(t *testing.T) {
		t.Parallel()

		svc := preferences.NewService(failingStorage{})
		_, err := svc.Get(ctx, "u1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, preferences.ErrNotFound)
	})
}

type failingStorage struct{}

func (failingStorage) Get(ctx context.Context, userID string) (*preferences.UserPreferences, error) {
	return nil, errors.New("storage down")
}

func (failingStorage) Save(ctx context.Context, prefs *preferences.UserPreferences) error {
	return errors.New("storage down")
}
