// Package circuitbreaker guards outbound provider calls with a
// per-dependency three-state circuit breaker.
//
// Each named dependency gets its own breaker, so independent providers fail
// independently: an email provider outage never blocks SMS delivery. A
// breaker is closed (pass-through, counting consecutive failures), open
// (short-circuiting with ErrCircuitOpen), or half-open (admitting one trial
// call after the recovery timeout). A trial success closes the circuit; a
// trial failure reopens it immediately.
//
// The Registry lazily constructs breakers with shared configuration and
// wraps arbitrary operations through Do, which also bounds the call with a
// timeout and converts panics into recorded failures.
package circuitbreaker
