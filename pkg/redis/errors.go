package redis

import "errors"

var (
	// ErrFailedToParseRedisConnString is returned for a malformed REDIS_URL.
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")

	// ErrRedisNotReady is returned when all connection attempts fail.
	ErrRedisNotReady = errors.New("redis did not become ready within the given time period")

	// ErrEmptyConnectionURL is returned when Connect is called without a URL.
	ErrEmptyConnectionURL = errors.New("empty redis connection URL")

	// ErrHealthcheckFailed wraps ping failures from the readiness probe.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
