package retry

import "errors"

var (
	// ErrRetriesExhausted is returned when scheduling is requested past the
	// retry budget.
	ErrRetriesExhausted = errors.New("retry: retries exhausted")

	// ErrJobNotFound is returned when a job does not exist.
	ErrJobNotFound = errors.New("retry: job not found")

	// ErrAlreadyScheduled is returned when a retry for the notification is
	// already pending.
	ErrAlreadyScheduled = errors.New("retry: notification already scheduled")
)
