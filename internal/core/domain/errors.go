package domain

import "errors"

var (
	// ErrValidation marks request data that is missing or malformed.
	ErrValidation = errors.New("validation failed")

	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated is returned when no bearer token was presented.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when a presented token cannot be trusted.
	ErrForbidden = errors.New("invalid or expired token")

	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")

	// ErrDeviceNotFound covers both missing devices and devices owned by
	// another user; callers must not be able to tell the two apart.
	ErrDeviceNotFound = errors.New("device not found")
)
