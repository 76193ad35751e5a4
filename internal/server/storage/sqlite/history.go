package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/qrscan/internal/models"
	"github.com/iudanet/qrscan/internal/server/storage"
)

// AppendRecords appends records to session history in a single transaction
func (s *Storage) AppendRecords(ctx context.Context, sessionID string, records []models.QRRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrSessionNotFound
		}
		return fmt.Errorf("failed to check session: %w", err)
	}

	query := `
		INSERT INTO scan_records (
			session_id, type, timestamp, data,
			has_wifi, ssid, password, security, hidden
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, rec := range records {
		var ssid, password, security, hidden sql.NullString
		if rec.WiFi != nil {
			ssid = sql.NullString{String: rec.WiFi.SSID, Valid: true}
			password = sql.NullString{String: rec.WiFi.Password, Valid: true}
			security = sql.NullString{String: rec.WiFi.Security, Valid: true}
			hidden = sql.NullString{String: rec.WiFi.Hidden, Valid: true}
		}

		_, err = tx.ExecContext(ctx, query,
			sessionID,
			rec.Type,
			rec.Timestamp,
			rec.Data,
			boolToInt(rec.WiFi != nil),
			ssid,
			password,
			security,
			hidden,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListRecords returns session history in append order
func (s *Storage) ListRecords(ctx context.Context, sessionID string) ([]models.QRRecord, error) {
	query := `
		SELECT type, timestamp, data, has_wifi, ssid, password, security, hidden
		FROM scan_records
		WHERE session_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]models.QRRecord, 0)

	for rows.Next() {
		var rec models.QRRecord
		var hasWiFi int
		var ssid, password, security, hidden sql.NullString

		if err := rows.Scan(
			&rec.Type,
			&rec.Timestamp,
			&rec.Data,
			&hasWiFi,
			&ssid,
			&password,
			&security,
			&hidden,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		if intToBool(hasWiFi) {
			rec.WiFi = &models.WiFiFields{
				SSID:     ssid.String,
				Password: password.String,
				Security: security.String,
				Hidden:   hidden.String,
			}
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// CountRecords returns number of records in session history
func (s *Storage) CountRecords(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scan_records WHERE session_id = ?`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// ClearRecords removes all records of the session
func (s *Storage) ClearRecords(ctx context.Context, sessionID string) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scan_records WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear records: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
