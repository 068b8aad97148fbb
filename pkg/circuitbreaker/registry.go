package circuitbreaker

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Defaults chosen to protect failing providers without flapping.
const (
	DefaultFailureThreshold = 5
	DefaultRecoveryTimeout  = 30 * time.Second
	DefaultCallTimeout      = 10 * time.Second
)

// Registry holds one breaker per named dependency, constructing them lazily
// with shared configuration.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*Breaker

	failureThreshold int
	recoveryTimeout  time.Duration
	callTimeout      time.Duration
	now              func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithFailureThreshold sets the consecutive-failure count that opens a circuit.
func WithFailureThreshold(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.failureThreshold = n
		}
	}
}

// WithRecoveryTimeout sets how long an open circuit waits before admitting
// a trial call.
func WithRecoveryTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.recoveryTimeout = d
		}
	}
}

// WithCallTimeout bounds the duration of each wrapped operation.
func WithCallTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.callTimeout = d
		}
	}
}

// WithClock injects a clock, used by tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates a breaker registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		breakers:         make(map[string]*Breaker),
		failureThreshold: DefaultFailureThreshold,
		recoveryTimeout:  DefaultRecoveryTimeout,
		callTimeout:      DefaultCallTimeout,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do executes op through the breaker for the named dependency. While the
// circuit is open the operation is not invoked and ErrCircuitOpen is
// returned. The operation runs under a context bounded by the call timeout;
// a timeout or panic counts as a failure.
func (r *Registry) Do(ctx context.Context, dependency string, op func(ctx context.Context) error) error {
	if dependency == "" {
		return ErrEmptyDependency
	}

	breaker := r.breaker(dependency)
	if !breaker.allow() {
		return fmt.Errorf("%w: %s", ErrCircuitOpen, dependency)
	}

	err := r.invoke(ctx, op)
	if err != nil {
		breaker.recordFailure()
		return err
	}

	breaker.recordSuccess()
	return nil
}

// invoke runs op with a bounded context, converting panics into errors so
// an unexpected fault in a provider SDK is recorded like any other failure.
func (r *Registry) invoke(ctx context.Context, op func(ctx context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("circuitbreaker: operation panicked: %v", rec)
		}
	}()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- fmt.Errorf("circuitbreaker: operation panicked: %v", rec)
			}
		}()
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrOperationTimeout, ctx.Err())
	}
}

// State returns the current state of the named dependency's breaker.
func (r *Registry) State(dependency string) State {
	return r.breaker(dependency).State()
}

// BreakerStats returns statistics for the named dependency's breaker.
func (r *Registry) BreakerStats(dependency string) Stats {
	return r.breaker(dependency).Stats()
}

// AllStats returns statistics for every known dependency.
func (r *Registry) AllStats() map[string]Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := make(map[string]Stats, len(r.breakers))
	for name, b := range r.breakers {
		stats[name] = b.Stats()
	}
	return stats
}

// Reset restores the named dependency's breaker to closed.
func (r *Registry) Reset(dependency string) {
	r.breaker(dependency).Reset()
}

func (r *Registry) breaker(dependency string) *Breaker {
	r.mu.RLock()
	b, ok := r.breakers[dependency]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[dependency]; ok {
		return b
	}
	b = newBreaker(r.failureThreshold, r.recoveryTimeout, r.now)
	r.breakers[dependency] = b
	return b
}
