package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultCacheTTL is the read-through cache lifetime. Short enough that
// preference updates take effect quickly on instances that did not serve
// the write.
const DefaultCacheTTL = time.Minute

// Service wraps a Storage with lazy-default creation and a TTL cache.
type Service struct {
	storage Storage
	ttl     time.Duration
	logger  *slog.Logger

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	prefs     *UserPreferences
	expiresAt time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCacheTTL overrides the cache lifetime. Zero disables caching.
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithLogger sets the logger for the Service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a preferences service on top of the given storage.
func NewService(storage Storage, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		ttl:     DefaultCacheTTL,
		logger:  slog.Default(),
		cache:   make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the user's preferences, creating and persisting defaults on a
// lookup miss.
func (s *Service) Get(ctx context.Context, userID string) (*UserPreferences, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	if cached := s.fromCache(userID); cached != nil {
		return cached, nil
	}

	prefs, err := s.storage.Get(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		prefs = Default(userID)
		if saveErr := s.storage.Save(ctx, prefs); saveErr != nil {
			// Serve the defaults anyway; the next lookup retries the save.
			s.logger.WarnContext(ctx, "failed to persist default preferences",
				slog.String("user_id", userID),
				slog.String("error", saveErr.Error()))
		}
	default:
		return nil, fmt.Errorf("load preferences for %s: %w", userID, err)
	}

	s.toCache(userID, prefs)
	return prefs, nil
}

// Update validates and persists preferences, invalidating the cache entry.
func (s *Service) Update(ctx context.Context, prefs *UserPreferences) error {
	if prefs == nil {
		return ErrEmptyUserID
	}
	if err := prefs.Validate(); err != nil {
		return err
	}

	prefs.UpdatedAt = time.Now()
	if err := s.storage.Save(ctx, prefs); err != nil {
		return fmt.Errorf("save preferences for %s: %w", prefs.UserID, err)
	}

	s.mu.Lock()
	delete(s.cache, prefs.UserID)
	s.mu.Unlock()
	return nil
}

func (s *Service) fromCache(userID string) *UserPreferences {
	if s.ttl <= 0 {
		return nil
	}

	s.mu.RLock()
	entry, ok := s.cache[userID]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return clonePrefs(entry.prefs)
}

func (s *Service) toCache(userID string, prefs *UserPreferences) {
	if s.ttl <= 0 {
		return
	}

	s.mu.Lock()
	s.cache[userID] = cacheEntry{
		prefs:     clonePrefs(prefs),
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
}
