package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/qrscan/internal/models"
	"github.com/iudanet/qrscan/internal/server/storage"
)

// CreateSession stores a new session
func (s *Storage) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, analyze_wifi, created_at, last_seen_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		boolToInt(session.Options.AnalyzeWiFi),
		session.CreatedAt.Unix(),
		session.LastSeenAt.Unix(),
	)

	if err != nil {
		// modernc.org/sqlite не экспортирует коды ошибок в удобном виде
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrSessionAlreadyExists
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetSession retrieves session by ID
func (s *Storage) GetSession(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT id, analyze_wifi, created_at, last_seen_at
		FROM sessions
		WHERE id = ?
	`

	session := &models.Session{}
	var analyzeWiFi int
	var createdAt, lastSeenAt int64

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&analyzeWiFi,
		&createdAt,
		&lastSeenAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.Options.AnalyzeWiFi = intToBool(analyzeWiFi)
	session.CreatedAt = unixToTime(createdAt)
	session.LastSeenAt = unixToTime(lastSeenAt)

	return session, nil
}

// UpdateSessionOptions replaces session options
func (s *Storage) UpdateSessionOptions(ctx context.Context, id string, opts models.SessionOptions) error {
	query := `UPDATE sessions SET analyze_wifi = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, boolToInt(opts.AnalyzeWiFi), id)
	if err != nil {
		return fmt.Errorf("failed to update session options: %w", err)
	}

	return requireAffected(result, storage.ErrSessionNotFound)
}

// TouchSession updates last activity time of the session
func (s *Storage) TouchSession(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE sessions SET last_seen_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, at.Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return requireAffected(result, storage.ErrSessionNotFound)
}

// DeleteSession removes session together with its history
func (s *Storage) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return requireAffected(result, storage.ErrSessionNotFound)
}

// DeleteIdleSessions removes sessions inactive since before the given time
func (s *Storage) DeleteIdleSessions(ctx context.Context, before time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_seen_at < ?`, before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

func requireAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
