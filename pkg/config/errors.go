package config

import "errors"

var (
	// ErrParsingConfig wraps env.Parse failures.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfigType is returned for a value the loader cannot cache.
	ErrInvalidConfigType = errors.New("invalid config type")

	// ErrConfigNotLoaded is returned when a type's cached value is missing
	// after a previous load attempt failed.
	ErrConfigNotLoaded = errors.New("configuration has not been loaded")

	// ErrNilPointer is returned when Load receives a nil pointer.
	ErrNilPointer = errors.New("nil pointer provided to config loader")

	// ErrLoadingEnvFile wraps godotenv failures for explicit file paths.
	ErrLoadingEnvFile = errors.New("failed to load env file")
)
