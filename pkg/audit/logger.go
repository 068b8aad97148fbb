package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Logger writes audit events.
type Logger interface {
	// Log records a successful operation by the given actor.
	Log(ctx context.Context, actorID, operation string, opts ...EventOption) error

	// LogError records a failed operation; the error message is persisted
	// with the event.
	LogError(ctx context.Context, actorID, operation string, opErr error, opts ...EventOption) error
}

type logger struct {
	storage Storage
	now     func() time.Time
}

// LoggerOption configures the logger.
type LoggerOption func(*logger)

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) LoggerOption {
	return func(l *logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger creates an audit logger writing to storage.
func NewLogger(storage Storage, opts ...LoggerOption) (Logger, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}
	l := &logger{
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *logger) Log(ctx context.Context, actorID, operation string, opts ...EventOption) error {
	return l.store(ctx, actorID, operation, ResultSuccess, "", opts)
}

func (l *logger) LogError(ctx context.Context, actorID, operation string, opErr error, opts ...EventOption) error {
	msg := ""
	if opErr != nil {
		msg = opErr.Error()
	}
	return l.store(ctx, actorID, operation, ResultFailure, msg, opts)
}

func (l *logger) store(ctx context.Context, actorID, operation string, result Result, errMsg string, opts []EventOption) error {
	event := Event{
		ID:        uuid.New(),
		ActorID:   actorID,
		Operation: operation,
		Result:    result,
		Error:     errMsg,
		CreatedAt: l.now(),
	}
	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}
