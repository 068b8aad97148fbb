package preferences

import "context"

// Storage is the persistence contract for user preferences.
type Storage interface {
	// Get loads preferences for a user. ErrNotFound when absent.
	Get(ctx context.Context, userID string) (*UserPreferences, error)

	// Save creates or replaces preferences for a user.
	Save(ctx context.Context, prefs *UserPreferences) error
}
