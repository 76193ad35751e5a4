package storage

import (
	"context"
	"time"
)

// SessionStore defines interface for storing the current scan session on client.
// Only one session is kept: a new one replaces the previous.
type SessionStore interface {
	// SaveSession stores session data, replacing the previous one
	SaveSession(ctx context.Context, session *SessionData) error

	// GetSession retrieves stored session data
	// Returns ErrSessionNotFound if no session is stored
	GetSession(ctx context.Context) (*SessionData, error)

	// DeleteSession removes stored session data
	// Returns ErrSessionNotFound if no session is stored
	DeleteSession(ctx context.Context) error
}

// SessionData represents scan session information in storage
type SessionData struct {
	ServerURL   string `json:"server_url"`
	SessionID   string `json:"session_id"`
	Token       string `json:"token"`
	ExpiresAt   int64  `json:"expires_at"`
	AnalyzeWiFi bool   `json:"analyze_wifi"`
}

// Expired reports whether the session token has expired at the given time
func (s *SessionData) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}
