package api

import "errors"

// Sentinel errors returned by the API client. Server rejections carry the
// server's message text, wrapped so callers can still match with errors.Is.
var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
)
