package retry

import "time"

const (
	// DefaultBaseDelay is the delay before the first re-attempt.
	DefaultBaseDelay = 30 * time.Second

	// backoff factors: delay = base * 3^attempt, capped at attempt 2.
	backoffMultiplier = 3
	backoffCapExp     = 2
)

// Backoff returns the delay before the given re-attempt using the default
// base. Attempts are zero-based: 0 → 30s, 1 → 90s, 2 and beyond → 270s.
func Backoff(attempt int) time.Duration {
	return BackoffWithBase(DefaultBaseDelay, attempt)
}

// BackoffWithBase computes the capped exponential delay for a custom base.
func BackoffWithBase(base time.Duration, attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > backoffCapExp {
		attempt = backoffCapExp
	}
	delay := base
	for range attempt {
		delay *= backoffMultiplier
	}
	return delay
}
