package storage

import "errors"

// Common storage errors
var (
	// ErrSessionNotFound indicates that scan session was not found or has expired
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionAlreadyExists indicates that session with this ID already exists
	ErrSessionAlreadyExists = errors.New("session already exists")
)
