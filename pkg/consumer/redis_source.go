package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultQueueKey is the Redis list other services publish events to.
	DefaultQueueKey = "fn:notifications:events"

	// DefaultDeadLetterKey is the Redis list rejected events land in.
	DefaultDeadLetterKey = "fn:notifications:dead"
)

// RedisSource implements Source over a Redis list. Pull removes messages
// from the list, so Ack is a no-op and Nack pushes the payload back to the
// tail for redelivery.
type RedisSource struct {
	client   redis.UniversalClient
	queueKey string
}

// RedisSourceOption configures a RedisSource.
type RedisSourceOption func(*RedisSource)

// WithQueueKey overrides the list key events are pulled from.
func WithQueueKey(key string) RedisSourceOption {
	return func(s *RedisSource) {
		if key != "" {
			s.queueKey = key
		}
	}
}

// NewRedisSource creates a Redis-backed event source.
func NewRedisSource(client redis.UniversalClient, opts ...RedisSourceOption) (*RedisSource, error) {
	if client == nil {
		return nil, errors.New("consumer: redis client is required")
	}
	s := &RedisSource{
		client:   client,
		queueKey: DefaultQueueKey,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Pull implements Source.
func (s *RedisSource) Pull(ctx context.Context, max int) ([]Message, error) {
	if max <= 0 {
		return nil, nil
	}
	payloads, err := s.client.LPopCount(ctx, s.queueKey, max).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	msgs := make([]Message, 0, len(payloads))
	for _, p := range payloads {
		msgs = append(msgs, Message{
			ID:      uuid.NewString(),
			Payload: []byte(p),
		})
	}
	return msgs, nil
}

// Ack implements Source. The pull already removed the message from the
// list, so there is nothing to confirm.
func (s *RedisSource) Ack(ctx context.Context, msg Message) error {
	return nil
}

// Nack implements Source by re-queueing the payload at the tail.
func (s *RedisSource) Nack(ctx context.Context, msg Message) error {
	return s.client.RPush(ctx, s.queueKey, string(msg.Payload)).Err()
}

// RedisDeadLetter implements DeadLetter over a Redis list so operators can
// inspect and replay rejected events.
type RedisDeadLetter struct {
	client redis.UniversalClient
	key    string
}

// NewRedisDeadLetter creates a Redis-backed dead letter sink. An empty key
// falls back to DefaultDeadLetterKey.
func NewRedisDeadLetter(client redis.UniversalClient, key string) (*RedisDeadLetter, error) {
	if client == nil {
		return nil, errors.New("consumer: redis client is required")
	}
	if key == "" {
		key = DefaultDeadLetterKey
	}
	return &RedisDeadLetter{client: client, key: key}, nil
}

// Add implements DeadLetter.
func (d *RedisDeadLetter) Add(ctx context.Context, msg Message, cause error) error {
	entry := struct {
		MessageID string          `json:"message_id"`
		Payload   json.RawMessage `json:"payload"`
		Cause     string          `json:"cause"`
		DeadAt    time.Time       `json:"dead_at"`
	}{
		MessageID: msg.ID,
		Payload:   json.RawMessage(msg.Payload),
		Cause:     "",
		DeadAt:    time.Now().UTC(),
	}
	if cause != nil {
		entry.Cause = cause.Error()
	}
	if !json.Valid(msg.Payload) {
		// Malformed payloads cannot be embedded as raw JSON.
		quoted, err := json.Marshal(string(msg.Payload))
		if err != nil {
			return err
		}
		entry.Payload = quoted
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return d.client.RPush(ctx, d.key, string(raw)).Err()
}
