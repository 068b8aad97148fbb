package consumer

import (
	"context"
	"log/slog"
	"sync"
)

// DeadLetter receives events that will never be processed.
type DeadLetter interface {
	Add(ctx context.Context, msg Message, cause error) error
}

// DeadLetterEntry pairs a dead message with why it was dropped.
type DeadLetterEntry struct {
	Message Message
	Cause   string
}

// MemoryDeadLetter implements DeadLetter for tests and local development.
type MemoryDeadLetter struct {
	mu      sync.Mutex
	entries []DeadLetterEntry
}

// NewMemoryDeadLetter creates an empty in-memory dead letter sink.
func NewMemoryDeadLetter() *MemoryDeadLetter {
	return &MemoryDeadLetter{}
}

// Add implements DeadLetter.
func (d *MemoryDeadLetter) Add(ctx context.Context, msg Message, cause error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry := DeadLetterEntry{Message: msg}
	if cause != nil {
		entry.Cause = cause.Error()
	}
	d.entries = append(d.entries, entry)
	return nil
}

// Entries returns the collected dead letters.
func (d *MemoryDeadLetter) Entries() []DeadLetterEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DeadLetterEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// LogDeadLetter implements DeadLetter by logging the drop. Used when no
// durable dead letter store is configured.
type LogDeadLetter struct {
	log *slog.Logger
}

// NewLogDeadLetter creates a logging dead letter sink.
func NewLogDeadLetter(log *slog.Logger) *LogDeadLetter {
	if log == nil {
		log = slog.Default()
	}
	return &LogDeadLetter{log: log}
}

// Add implements DeadLetter.
func (d *LogDeadLetter) Add(ctx context.Context, msg Message, cause error) error {
	d.log.WarnContext(ctx, "event dead-lettered",
		slog.String("message_id", msg.ID),
		slog.Any("cause", cause),
	)
	return nil
}
