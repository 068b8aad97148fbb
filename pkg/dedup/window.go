package dedup

import (
	"context"
	"time"
)

// Window records key sightings and reports duplicates within a time window.
type Window interface {
	// Seen atomically records key and returns true if it was already
	// recorded within the given window. The first caller for a key always
	// receives false.
	Seen(ctx context.Context, key string, window time.Duration) (bool, error)
}
