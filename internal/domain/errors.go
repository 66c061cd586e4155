package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. The HTTP layer maps
// them to status codes with errors.Is.

var (
	// Lookup misses
	ErrUserNotFound     = errors.New("user not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrPayscaleNotFound = errors.New("no payscale entry for rank")

	// Caller errors
	ErrValidation         = errors.New("missing or invalid request field")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Infrastructure
	ErrStoreUnavailable = errors.New("backing store unavailable")
	ErrStateConflict    = errors.New("concurrent update detected")
)
