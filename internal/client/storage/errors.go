package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no scan session is stored
	ErrSessionNotFound = errors.New("session data not found")
)
