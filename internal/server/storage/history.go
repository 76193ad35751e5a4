package storage

import (
	"context"

	"github.com/iudanet/qrscan/internal/models"
)

// HistoryStorage defines interface for session-scoped scan history
type HistoryStorage interface {
	// AppendRecords appends records to the end of session history, keeping their order
	// Returns ErrSessionNotFound if session doesn't exist
	AppendRecords(ctx context.Context, sessionID string, records []models.QRRecord) error

	// ListRecords returns session history in append order
	// Returns empty slice if history is empty
	ListRecords(ctx context.Context, sessionID string) ([]models.QRRecord, error)

	// CountRecords returns number of records in session history
	CountRecords(ctx context.Context, sessionID string) (int, error)

	// ClearRecords removes all records of the session
	// Returns number of deleted records
	ClearRecords(ctx context.Context, sessionID string) (int, error)
}
