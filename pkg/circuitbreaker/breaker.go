package circuitbreaker

import (
	"sync"
	"time"
)

// State represents the current state of a breaker.
type State int

const (
	// StateClosed allows requests to pass through.
	StateClosed State = iota
	// StateOpen blocks all requests.
	StateOpen
	// StateHalfOpen allows one trial request to test recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker is a three-state circuit breaker for one dependency.
// Safe for concurrent use.
type Breaker struct {
	mu sync.Mutex

	failureThreshold int
	recoveryTimeout  time.Duration
	now              func() time.Time

	state           State
	failures        int
	lastFailureTime time.Time
	trialInFlight   bool
}

func newBreaker(failureThreshold int, recoveryTimeout time.Duration, now func() time.Time) *Breaker {
	if failureThreshold <= 0 {
		failureThreshold = DefaultFailureThreshold
	}
	if recoveryTimeout <= 0 {
		recoveryTimeout = DefaultRecoveryTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &Breaker{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		now:              now,
		state:            StateClosed,
	}
}

// allow reports whether a request may proceed, transitioning open to
// half_open once the recovery timeout has elapsed since the last failure.
// Half_open admits exactly one trial call: the caller that performs the
// transition claims the trial, everyone else is rejected until the trial
// settles via recordSuccess or recordFailure.
func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if b.now().Sub(b.lastFailureTime) >= b.recoveryTimeout {
			b.state = StateHalfOpen
			b.trialInFlight = true
			return true
		}
		return false
	case StateHalfOpen:
		if b.trialInFlight {
			return false
		}
		b.trialInFlight = true
		return true
	default:
		return false
	}
}

// recordSuccess resets the failure counter in closed state and restores
// closed from half_open after the single trial call succeeds.
func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.state = StateClosed
		b.failures = 0
		b.trialInFlight = false
	}
}

// recordFailure counts a failure, opening the circuit at the threshold and
// reopening immediately when a half_open trial fails.
func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailureTime = b.now()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.state = StateOpen
		}
	case StateHalfOpen:
		b.state = StateOpen
		b.failures = b.failureThreshold
		b.trialInFlight = false
	}
}

// State returns the current state, accounting for the pending automatic
// open → half_open transition.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.lastFailureTime) >= b.recoveryTimeout {
		return StateHalfOpen
	}
	return b.state
}

// Reset restores the breaker to closed with a clean failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.failures = 0
	b.lastFailureTime = time.Time{}
	b.trialInFlight = false
}

// Stats provides visibility into breaker state for health reporting.
type Stats struct {
	State           string    `json:"state"`
	Failures        int       `json:"failures"`
	LastFailureTime time.Time `json:"last_failure_time,omitzero"`
}

// Stats returns the current breaker statistics.
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Stats{
		State:           b.state.String(),
		Failures:        b.failures,
		LastFailureTime: b.lastFailureTime,
	}
}
