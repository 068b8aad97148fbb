package retry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store for tests and local development.
type MemoryStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]Job // keyed by notification id, one pending job each
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[uuid.UUID]Job)}
}

// Add implements Store.
func (ms *MemoryStore) Add(ctx context.Context, job Job) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.jobs[job.NotificationID]; exists {
		return ErrAlreadyScheduled
	}
	ms.jobs[job.NotificationID] = job
	return nil
}

// ClaimDue implements Store.
func (ms *MemoryStore) ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	var due []Job
	for _, job := range ms.jobs {
		if !job.RunAt.After(now) {
			due = append(due, job)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	for _, job := range due {
		delete(ms.jobs, job.NotificationID)
	}
	return due, nil
}

// Remove implements Store.
func (ms *MemoryStore) Remove(ctx context.Context, notificationID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.jobs[notificationID]; !ok {
		return ErrJobNotFound
	}
	delete(ms.jobs, notificationID)
	return nil
}

// Len implements Store.
func (ms *MemoryStore) Len(ctx context.Context) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.jobs), nil
}
