package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage implements Storage for tests and local development.
type MemoryStorage struct {
	mu          sync.RWMutex
	byID        map[uuid.UUID]*Notification
	byRecipient map[string][]uuid.UUID
}

// NewMemoryStorage creates an empty in-memory notification store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID:        make(map[uuid.UUID]*Notification),
		byRecipient: make(map[string][]uuid.UUID),
	}
}

// Create implements Storage.
func (ms *MemoryStorage) Create(ctx context.Context, n *Notification) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.byID[n.ID]; exists {
		return ErrAlreadyExists
	}

	// Clone to keep the stored record isolated from caller mutations.
	ms.byID[n.ID] = clone(n)
	ms.byRecipient[n.RecipientID] = append(ms.byRecipient[n.RecipientID], n.ID)
	return nil
}

// GetByID implements Storage.
func (ms *MemoryStorage) GetByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	n, ok := ms.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(n), nil
}

// Update implements Storage.
func (ms *MemoryStorage) Update(ctx context.Context, n *Notification) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.byID[n.ID]; !ok {
		return ErrNotFound
	}
	ms.byID[n.ID] = clone(n)
	return nil
}

// ListByRecipient implements Storage.
func (ms *MemoryStorage) ListByRecipient(ctx context.Context, recipientID string, f Filter) ([]*Notification, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	ids := ms.byRecipient[recipientID]
	result := make([]*Notification, 0, len(ids))

	// Stored in insertion order; walk backwards for newest-first.
	for i := len(ids) - 1; i >= 0; i-- {
		n := ms.byID[ids[i]]
		if f.Status != "" && n.Status != f.Status {
			continue
		}
		if f.Channel != "" && n.Channel != f.Channel {
			continue
		}
		result = append(result, clone(n))
		if f.Limit > 0 && len(result) >= f.Limit {
			break
		}
	}
	return result, nil
}

// Stats implements Storage.
func (ms *MemoryStorage) Stats(ctx context.Context, since time.Time) (Stats, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var s Stats
	for _, n := range ms.byID {
		if n.CreatedAt.Before(since) {
			continue
		}
		switch n.Status {
		case StatusPending:
			s.Pending++
		case StatusSent:
			s.Sent++
		case StatusDelivered:
			s.Delivered++
		case StatusFailed:
			s.Failed++
		case StatusCancelled:
			s.Cancelled++
		}
	}
	return s, nil
}

func clone(n *Notification) *Notification {
	c := *n
	c.Metadata = make(map[string]string, len(n.Metadata))
	for k, v := range n.Metadata {
		c.Metadata[k] = v
	}
	c.ScheduledAt = cloneTime(n.ScheduledAt)
	c.SentAt = cloneTime(n.SentAt)
	c.DeliveredAt = cloneTime(n.DeliveredAt)
	c.FailedAt = cloneTime(n.FailedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
