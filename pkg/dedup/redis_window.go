package dedup

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport failures from the Redis backend.
var ErrRedisUnavailable = errors.New("dedup: redis unavailable")

// RedisWindow is a Window backed by Redis, suitable for multi-instance
// deployments where all consumers must share one suppression window.
type RedisWindow struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisWindow creates a Redis-backed suppression window store.
func NewRedisWindow(client *redis.Client) *RedisWindow {
	return &RedisWindow{
		client:    client,
		keyPrefix: "dedup:",
	}
}

// Seen implements Window using SET NX with a TTL, which is atomic on the
// Redis side: exactly one concurrent caller wins the first sighting.
func (rw *RedisWindow) Seen(ctx context.Context, key string, window time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	if window <= 0 {
		return false, ErrInvalidWindow
	}

	set, err := rw.client.SetNX(ctx, rw.keyPrefix+key, 1, window).Result()
	if err != nil {
		return false, errors.Join(ErrRedisUnavailable, err)
	}
	// SetNX returns false when the key already existed, i.e. a duplicate.
	return !set, nil
}
