package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/qrscan/internal/models"
	"github.com/iudanet/qrscan/internal/server/storage"
)

func TestSessionStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	created := time.Unix(1700000000, 0)
	session := &models.Session{
		ID:         "session-1",
		Options:    models.SessionOptions{AnalyzeWiFi: false},
		CreatedAt:  created,
		LastSeenAt: created,
	}
	require.NoError(t, s.CreateSession(ctx, session))

	got, err := s.GetSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", got.ID)
	assert.False(t, got.Options.AnalyzeWiFi)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.True(t, created.Equal(got.LastSeenAt))
}

func TestSessionStorage_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	id := createTestSession(t, ctx, s)

	err := s.CreateSession(ctx, &models.Session{ID: id, CreatedAt: time.Now(), LastSeenAt: time.Now()})
	assert.ErrorIs(t, err, storage.ErrSessionAlreadyExists)
}

func TestSessionStorage_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	assert.ErrorIs(t, s.UpdateSessionOptions(ctx, "missing", models.SessionOptions{}), storage.ErrSessionNotFound)
	assert.ErrorIs(t, s.TouchSession(ctx, "missing", time.Now()), storage.ErrSessionNotFound)
	assert.ErrorIs(t, s.DeleteSession(ctx, "missing"), storage.ErrSessionNotFound)
}

func TestSessionStorage_UpdateOptions(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	id := createTestSession(t, ctx, s)

	require.NoError(t, s.UpdateSessionOptions(ctx, id, models.SessionOptions{AnalyzeWiFi: false}))

	got, err := s.GetSession(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Options.AnalyzeWiFi)
}

func TestSessionStorage_TouchAndDeleteIdle(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	idle := createTestSession(t, ctx, s)
	active := createTestSession(t, ctx, s)

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, s.TouchSession(ctx, idle, past))
	require.NoError(t, s.AppendRecords(ctx, idle, []models.QRRecord{testRecord("old")}))

	deleted, err := s.DeleteIdleSessions(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = s.GetSession(ctx, idle)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	// История удаленной сессии удаляется каскадно
	count, err := s.CountRecords(ctx, idle)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = s.GetSession(ctx, active)
	assert.NoError(t, err)
}

func TestSessionStorage_DeleteSession(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	id := createTestSession(t, ctx, s)
	require.NoError(t, s.DeleteSession(ctx, id))

	_, err := s.GetSession(ctx, id)
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}
