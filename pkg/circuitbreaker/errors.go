package circuitbreaker

import "errors"

var (
	// ErrCircuitOpen is returned without invoking the operation while the
	// breaker is open.
	ErrCircuitOpen = errors.New("circuitbreaker: circuit open")

	// ErrEmptyDependency rejects unnamed dependencies.
	ErrEmptyDependency = errors.New("circuitbreaker: dependency name cannot be empty")

	// ErrOperationTimeout wraps operations that exceeded the call timeout.
	ErrOperationTimeout = errors.New("circuitbreaker: operation timed out")
)
