package dedup

import (
	"context"
	"sync"
	"time"
)

// MemoryWindow is an in-process Window implementation. Expired entries are
// swept lazily on access and by a background ticker, so long-idle keys do
// not accumulate forever.
type MemoryWindow struct {
	mu      sync.Mutex
	entries map[string]time.Time
	done    chan struct{}
	once    sync.Once
}

// NewMemoryWindow creates an in-memory suppression window store.
func NewMemoryWindow() *MemoryWindow {
	mw := &MemoryWindow{
		entries: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	go mw.sweepLoop()
	return mw
}

// Close stops the background sweeper.
func (mw *MemoryWindow) Close() error {
	mw.once.Do(func() { close(mw.done) })
	return nil
}

// Seen implements Window.
func (mw *MemoryWindow) Seen(ctx context.Context, key string, window time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	if window <= 0 {
		return false, ErrInvalidWindow
	}

	mw.mu.Lock()
	defer mw.mu.Unlock()

	now := time.Now()
	if expiry, ok := mw.entries[key]; ok && expiry.After(now) {
		return true, nil
	}
	mw.entries[key] = now.Add(window)
	return false, nil
}

func (mw *MemoryWindow) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mw.sweep()
		case <-mw.done:
			return
		}
	}
}

func (mw *MemoryWindow) sweep() {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	now := time.Now()
	for key, expiry := range mw.entries {
		if expiry.Before(now) {
			delete(mw.entries, key)
		}
	}
}
