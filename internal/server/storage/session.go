package storage

import (
	"context"
	"time"

	"github.com/iudanet/qrscan/internal/models"
)

// SessionStorage defines interface for scan session persistence
type SessionStorage interface {
	// CreateSession stores a new session
	// Returns ErrSessionAlreadyExists if session with same ID exists
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves session by ID
	// Returns ErrSessionNotFound if session doesn't exist
	GetSession(ctx context.Context, id string) (*models.Session, error)

	// UpdateSessionOptions replaces session options
	// Returns ErrSessionNotFound if session doesn't exist
	UpdateSessionOptions(ctx context.Context, id string, opts models.SessionOptions) error

	// TouchSession updates last activity time of the session
	// Returns ErrSessionNotFound if session doesn't exist
	TouchSession(ctx context.Context, id string, at time.Time) error

	// DeleteSession removes session together with its history
	// Returns ErrSessionNotFound if session doesn't exist
	DeleteSession(ctx context.Context, id string) error

	// DeleteIdleSessions removes sessions inactive since before the given time
	// Returns number of deleted sessions
	DeleteIdleSessions(ctx context.Context, before time.Time) (int, error)
}
