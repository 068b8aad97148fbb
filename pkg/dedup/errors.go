package dedup

import "errors"

var (
	ErrEmptyKey      = errors.New("dedup: key cannot be empty")
	ErrInvalidWindow = errors.New("dedup: window must be positive")
)
