package dispatch

import "errors"

var (
	// ErrNoSender is returned when no sender is registered for the
	// notification's channel.
	ErrNoSender = errors.New("dispatch: no sender for channel")

	// ErrNotPending guards against re-sending a notification that already
	// moved past pending.
	ErrNotPending = errors.New("dispatch: notification is not pending")

	// ErrInvalidConfig rejects sender construction with incomplete config.
	ErrInvalidConfig = errors.New("dispatch: invalid sender config")

	// ErrDeliveryFailed wraps provider failures.
	ErrDeliveryFailed = errors.New("dispatch: delivery failed")
)

// Failure reason codes persisted on failed notifications. Resource
// exhaustion is tracked separately from provider faults for alerting, but
// both retry the same way.
const (
	ReasonProviderError     = "provider_error"
	ReasonProviderTimeout   = "provider_timeout"
	ReasonBulkheadTimeout   = "bulkhead_timeout"
	ReasonBulkheadExhausted = "bulkhead_exhausted"
	ReasonCircuitOpen       = "circuit_open"
	ReasonNoSender          = "no_sender"
)
