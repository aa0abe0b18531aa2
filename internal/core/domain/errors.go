package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account deactivated")
	ErrForbidden          = errors.New("access forbidden")
)

// Password recovery.
var (
	ErrEmailRequired      = errors.New("email is required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
	ErrNotificationFailed = errors.New("could not deliver notification")
)

var (
	ErrGuideNotFound   = errors.New("guide not found")
	ErrInvalidGuide    = errors.New("invalid guide")
	ErrContactNotFound = errors.New("emergency contact not found")
)
