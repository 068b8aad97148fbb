package preferences

import (
	"context"
	"sync"

	"github.com/findly-now/fn-notifications/pkg/notification"
)

// MemoryStorage implements Storage for tests and local development.
type MemoryStorage struct {
	mu    sync.RWMutex
	prefs map[string]*UserPreferences
}

// NewMemoryStorage creates an empty in-memory preferences store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		prefs: make(map[string]*UserPreferences),
	}
}

// Get implements Storage.
func (ms *MemoryStorage) Get(ctx context.Context, userID string) (*UserPreferences, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	p, ok := ms.prefs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePrefs(p), nil
}

// Save implements Storage.
func (ms *MemoryStorage) Save(ctx context.Context, prefs *UserPreferences) error {
	if prefs == nil || prefs.UserID == "" {
		return ErrEmptyUserID
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.prefs[prefs.UserID] = clonePrefs(prefs)
	return nil
}

func clonePrefs(p *UserPreferences) *UserPreferences {
	c := *p
	c.Channels = make(map[notification.Channel]ChannelSettings, len(p.Channels))
	for ch, settings := range p.Channels {
		s := settings
		if settings.QuietHours != nil {
			qh := *settings.QuietHours
			s.QuietHours = &qh
		}
		if settings.FrequencyLimit != nil {
			limit := *settings.FrequencyLimit
			s.FrequencyLimit = &limit
		}
		c.Channels[ch] = s
	}
	return &c
}
