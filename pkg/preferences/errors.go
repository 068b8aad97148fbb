package preferences

import "errors"

var (
	ErrNotFound        = errors.New("preferences: not found")
	ErrEmptyUserID     = errors.New("preferences: user id cannot be empty")
	ErrInvalidEmail    = errors.New("preferences: invalid email address")
	ErrInvalidPhone    = errors.New("preferences: invalid phone number")
	ErrInvalidTimezone = errors.New("preferences: unknown timezone")
	ErrInvalidChannel  = errors.New("preferences: unknown channel key")
	ErrInvalidWindow   = errors.New("preferences: quiet hours must be HH:MM")
)
