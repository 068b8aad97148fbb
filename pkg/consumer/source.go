package consumer

import (
	"context"
	"strconv"
	"sync"
)

// Message is one raw event pulled from the source.
type Message struct {
	ID      string
	Payload []byte
}

// Source is the inbound transport contract. Pull returns up to max
// messages without blocking; Ack confirms processing and Nack returns the
// message for redelivery.
type Source interface {
	Pull(ctx context.Context, max int) ([]Message, error)
	Ack(ctx context.Context, msg Message) error
	Nack(ctx context.Context, msg Message) error
}

// MemorySource implements Source over an in-process queue for tests and
// local development.
type MemorySource struct {
	mu      sync.Mutex
	queue   []Message
	acked   []string
	nextSeq int
}

// NewMemorySource creates an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// Publish enqueues a payload and returns the assigned message id.
func (s *MemorySource) Publish(payload []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSeq++
	msg := Message{
		ID:      "msg-" + strconv.Itoa(s.nextSeq),
		Payload: payload,
	}
	s.queue = append(s.queue, msg)
	return msg.ID
}

// Pull implements Source.
func (s *MemorySource) Pull(ctx context.Context, max int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if max <= 0 || max > len(s.queue) {
		max = len(s.queue)
	}
	batch := make([]Message, max)
	copy(batch, s.queue[:max])
	s.queue = s.queue[max:]
	return batch, nil
}

// Ack implements Source.
func (s *MemorySource) Ack(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = append(s.acked, msg.ID)
	return nil
}

// Nack implements Source.
func (s *MemorySource) Nack(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, msg)
	return nil
}

// Acked returns the ids of acknowledged messages.
func (s *MemorySource) Acked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.acked))
	copy(out, s.acked)
	return out
}

// Pending reports how many messages wait in the queue.
func (s *MemorySource) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
