package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/qrscan/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	storage, err := New(ctx, MemoryPath)
	require.NoError(t, err)

	cleanup := func() {
		_ = storage.Close()
	}

	return storage, cleanup
}

func createTestSession(t *testing.T, ctx context.Context, s *Storage) string {
	id := uuid.New().String()
	now := time.Now()
	session := &models.Session{
		ID:         id,
		Options:    models.DefaultSessionOptions(),
		CreatedAt:  now,
		LastSeenAt: now,
	}

	require.NoError(t, s.CreateSession(ctx, session))
	return id
}

func TestNew_RunsMigrations(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	for _, table := range []string{"sessions", "scan_records"} {
		var name string
		err := s.DB().QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	assert.NoError(t, s.Ping(ctx))
}

func TestNew_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/qrscan.db"

	s, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Повторное открытие не должно падать на уже примененных миграциях
	s, err = New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
