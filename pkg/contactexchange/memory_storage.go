package contactexchange

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage implements Storage for tests and local development.
type MemoryStorage struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*ContactExchangeNotification
	// order preserves insertion order for deterministic listings.
	order []uuid.UUID
}

// NewMemoryStorage creates an empty in-memory exchange store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID: make(map[uuid.UUID]*ContactExchangeNotification),
	}
}

// Create implements Storage.
func (ms *MemoryStorage) Create(ctx context.Context, n *ContactExchangeNotification) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.byID[n.ID]; exists {
		return ErrAlreadyExists
	}
	ms.byID[n.ID] = clone(n)
	ms.order = append(ms.order, n.ID)
	return nil
}

// GetByID implements Storage.
func (ms *MemoryStorage) GetByID(ctx context.Context, id uuid.UUID) (*ContactExchangeNotification, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	n, ok := ms.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(n), nil
}

// GetByRequestID implements Storage.
func (ms *MemoryStorage) GetByRequestID(ctx context.Context, requestID string) ([]*ContactExchangeNotification, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var result []*ContactExchangeNotification
	for _, id := range ms.order {
		if n := ms.byID[id]; n.RequestID == requestID {
			result = append(result, clone(n))
		}
	}
	return result, nil
}

// Update implements Storage.
func (ms *MemoryStorage) Update(ctx context.Context, n *ContactExchangeNotification) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.byID[n.ID]; !ok {
		return ErrNotFound
	}
	ms.byID[n.ID] = clone(n)
	return nil
}

// ListByRequester implements Storage.
func (ms *MemoryStorage) ListByRequester(ctx context.Context, requesterID string) ([]*ContactExchangeNotification, error) {
	return ms.listNewestFirst(func(n *ContactExchangeNotification) bool {
		return n.RequesterID == requesterID
	}), nil
}

// ListByOwner implements Storage.
func (ms *MemoryStorage) ListByOwner(ctx context.Context, ownerID string) ([]*ContactExchangeNotification, error) {
	return ms.listNewestFirst(func(n *ContactExchangeNotification) bool {
		return n.OwnerID == ownerID
	}), nil
}

// ListPending implements Storage.
func (ms *MemoryStorage) ListPending(ctx context.Context) ([]*ContactExchangeNotification, error) {
	return ms.listNewestFirst(func(n *ContactExchangeNotification) bool {
		return n.Status == StatusPending
	}), nil
}

// ListExpired implements Storage.
func (ms *MemoryStorage) ListExpired(ctx context.Context, before time.Time) ([]*ContactExchangeNotification, error) {
	return ms.listNewestFirst(func(n *ContactExchangeNotification) bool {
		return n.ExpiresAt != nil && n.ExpiresAt.Before(before)
	}), nil
}

// DeleteOlderThan implements Storage.
func (ms *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed := 0
	for id, n := range ms.byID {
		if !n.Status.Terminal() || !n.CreatedAt.Before(cutoff) {
			continue
		}
		delete(ms.byID, id)
		removed++
	}
	if removed > 0 {
		ms.order = slices.DeleteFunc(ms.order, func(id uuid.UUID) bool {
			_, ok := ms.byID[id]
			return !ok
		})
	}
	return removed, nil
}

func (ms *MemoryStorage) listNewestFirst(match func(*ContactExchangeNotification) bool) []*ContactExchangeNotification {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var result []*ContactExchangeNotification
	for i := len(ms.order) - 1; i >= 0; i-- {
		if n := ms.byID[ms.order[i]]; match(n) {
			result = append(result, clone(n))
		}
	}
	return result
}

func clone(n *ContactExchangeNotification) *ContactExchangeNotification {
	c := *n
	c.Metadata = make(map[string]string, len(n.Metadata))
	for k, v := range n.Metadata {
		c.Metadata[k] = v
	}
	c.EncryptedContact = slices.Clone(n.EncryptedContact)
	c.ExpiresAt = cloneTime(n.ExpiresAt)
	c.SentAt = cloneTime(n.SentAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
