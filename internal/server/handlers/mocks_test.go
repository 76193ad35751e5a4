package handlers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/qrscan/internal/models"
	"github.com/iudanet/qrscan/internal/scan"
	"github.com/iudanet/qrscan/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSessionStorage is a mock implementation of SessionStorage for testing
type mockSessionStorage struct {
	sessions    map[string]*models.Session
	createError error
	getError    error
	updateError error
	mu          sync.Mutex
}

func newMockSessionStorage() *mockSessionStorage {
	return &mockSessionStorage{sessions: make(map[string]*models.Session)}
}

func (m *mockSessionStorage) CreateSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.sessions[session.ID]; exists {
		return storage.ErrSessionAlreadyExists
	}
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *mockSessionStorage) GetSession(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, storage.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockSessionStorage) UpdateSessionOptions(ctx context.Context, id string, opts models.SessionOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateError != nil {
		return m.updateError
	}
	s, ok := m.sessions[id]
	if !ok {
		return storage.ErrSessionNotFound
	}
	s.Options = opts
	return nil
}

func (m *mockSessionStorage) TouchSession(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return storage.ErrSessionNotFound
	}
	s.LastSeenAt = at
	return nil
}

func (m *mockSessionStorage) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return storage.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockSessionStorage) DeleteIdleSessions(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

// mockHistoryStorage is a mock implementation of HistoryStorage for testing
type mockHistoryStorage struct {
	records     map[string][]models.QRRecord
	appendError error
	listError   error
	appendCalls int
	mu          sync.Mutex
}

func newMockHistoryStorage() *mockHistoryStorage {
	return &mockHistoryStorage{records: make(map[string][]models.QRRecord)}
}

func (m *mockHistoryStorage) AppendRecords(ctx context.Context, sessionID string, records []models.QRRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendCalls++
	if m.appendError != nil {
		return m.appendError
	}
	m.records[sessionID] = append(m.records[sessionID], records...)
	return nil
}

func (m *mockHistoryStorage) ListRecords(ctx context.Context, sessionID string) ([]models.QRRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listError != nil {
		return nil, m.listError
	}
	out := make([]models.QRRecord, len(m.records[sessionID]))
	copy(out, m.records[sessionID])
	return out, nil
}

func (m *mockHistoryStorage) CountRecords(ctx context.Context, sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[sessionID]), nil
}

func (m *mockHistoryStorage) ClearRecords(ctx context.Context, sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.records[sessionID])
	delete(m.records, sessionID)
	return n, nil
}

// mockDecoder returns a fixed result and remembers the uploaded bytes
type mockDecoder struct {
	result   scan.Result
	received []byte
	calls    int
}

func (m *mockDecoder) DecodeReader(r io.Reader, limits scan.Limits) scan.Result {
	m.calls++
	m.received, _ = io.ReadAll(r)
	return m.result
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

func testSession(id string, analyzeWiFi bool) *models.Session {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.Session{
		ID:         id,
		Options:    models.SessionOptions{AnalyzeWiFi: analyzeWiFi},
		CreatedAt:  now,
		LastSeenAt: now,
	}
}

func textRecord(data string) models.QRRecord {
	return models.QRRecord{
		Type:      models.SymbologyQRCode,
		Timestamp: "2024-05-01 12:00:00",
		Data:      data,
	}
}

func wifiRecord() models.QRRecord {
	return models.QRRecord{
		Type:      models.SymbologyQRCode,
		Timestamp: "2024-05-01 12:00:01",
		Data:      "WIFI:S:Home;T:WPA;P:secret;;",
		WiFi: &models.WiFiFields{
			SSID:     "Home",
			Password: "secret",
			Security: "WPA",
			Hidden:   "false",
		},
	}
}
