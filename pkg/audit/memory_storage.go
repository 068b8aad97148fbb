package audit

import (
	"context"
	"sync"
)

// MemoryStorage implements Storage for tests and local development.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStorage creates an empty in-memory audit store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store implements Storage.
func (ms *MemoryStorage) Store(ctx context.Context, event Event) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.events = append(ms.events, cloneEvent(event))
	return nil
}

// Query implements Storage.
func (ms *MemoryStorage) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var result []Event
	// Appended in arrival order; walk backwards for newest-first.
	for i := len(ms.events) - 1; i >= 0; i-- {
		e := ms.events[i]
		if criteria.ActorID != "" && e.ActorID != criteria.ActorID {
			continue
		}
		if criteria.RequestID != "" && e.RequestID != criteria.RequestID {
			continue
		}
		if criteria.Operation != "" && e.Operation != criteria.Operation {
			continue
		}
		if criteria.Result != "" && e.Result != criteria.Result {
			continue
		}
		if !criteria.Since.IsZero() && e.CreatedAt.Before(criteria.Since) {
			continue
		}
		result = append(result, cloneEvent(e))
		if criteria.Limit > 0 && len(result) >= criteria.Limit {
			break
		}
	}
	return result, nil
}

// Len reports how many events are stored.
func (ms *MemoryStorage) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.events)
}

func cloneEvent(e Event) Event {
	if e.Metadata == nil {
		return e
	}
	md := make(map[string]string, len(e.Metadata))
	for k, v := range e.Metadata {
		md[k] = v
	}
	e.Metadata = md
	return e
}
