// Package common defines shared constants and sentinel errors used across
// client and server layers of Dorm Deals. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration errors (email domain not in the university directory).
	ErrUnknownEmailDomain = errors.New("unknown email domain")

	// Auth errors (invalid, expired, or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
