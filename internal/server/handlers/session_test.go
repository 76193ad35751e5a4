package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/qrscan/pkg/api"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{Secret: []byte("test-secret-key-32-bytes-long!!!"), TTL: time.Hour}
}

func TestSessionHandler_Create(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		wantAnalyzeWiFi bool
		wantCode        int
	}{
		{
			name:            "empty body uses defaults",
			body:            "",
			wantCode:        http.StatusCreated,
			wantAnalyzeWiFi: true,
		},
		{
			name:            "wifi analysis disabled",
			body:            `{"analyze_wifi":false}`,
			wantCode:        http.StatusCreated,
			wantAnalyzeWiFi: false,
		},
		{
			name:     "invalid json",
			body:     `{"analyze_wifi":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := newMockSessionStorage()
			handler := NewSessionHandler(setupTestLogger(), sessions, newMockHistoryStorage(), testTokenConfig())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Create(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusCreated {
				assert.Empty(t, sessions.sessions)
				return
			}

			var resp api.SessionResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.NotEmpty(t, resp.SessionID)
			assert.NotEmpty(t, resp.Token)
			assert.Equal(t, int64(3600), resp.ExpiresIn)
			assert.Equal(t, tt.wantAnalyzeWiFi, resp.AnalyzeWiFi)
			assert.Zero(t, resp.HistorySize)

			stored, ok := sessions.sessions[resp.SessionID]
			require.True(t, ok)
			assert.Equal(t, tt.wantAnalyzeWiFi, stored.Options.AnalyzeWiFi)

			claims, err := ValidateSessionToken(testTokenConfig(), resp.Token)
			require.NoError(t, err)
			assert.Equal(t, resp.SessionID, claims.SessionID)
		})
	}
}

func TestSessionHandler_Create_StorageError(t *testing.T) {
	sessions := newMockSessionStorage()
	sessions.createError = errors.New("disk full")
	handler := NewSessionHandler(setupTestLogger(), sessions, newMockHistoryStorage(), testTokenConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSessionHandler_Get(t *testing.T) {
	sessions := newMockSessionStorage()
	sessions.sessions["s1"] = testSession("s1", false)
	history := newMockHistoryStorage()
	history.records["s1"] = append(history.records["s1"], textRecord("a"), textRecord("b"))

	handler := NewSessionHandler(setupTestLogger(), sessions, history, testTokenConfig())

	t.Run("existing session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
		req = req.WithContext(WithSessionID(req.Context(), "s1"))
		w := httptest.NewRecorder()

		handler.Get(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp api.SessionResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "s1", resp.SessionID)
		assert.Equal(t, 2, resp.HistorySize)
		assert.False(t, resp.AnalyzeWiFi)
		assert.Equal(t, int64(3600), resp.ExpiresIn)

		// токен перевыпускается при каждом чтении сессии
		claims, err := ValidateSessionToken(testTokenConfig(), resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "s1", claims.SessionID)
	})

	t.Run("unknown session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
		req = req.WithContext(WithSessionID(req.Context(), "missing"))
		w := httptest.NewRecorder()

		handler.Get(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no session in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
		w := httptest.NewRecorder()

		handler.Get(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSessionHandler_UpdateOptions(t *testing.T) {
	sessions := newMockSessionStorage()
	sessions.sessions["s1"] = testSession("s1", true)
	handler := NewSessionHandler(setupTestLogger(), sessions, newMockHistoryStorage(), testTokenConfig())

	t.Run("disable wifi analysis", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/session/options", bytes.NewBufferString(`{"analyze_wifi":false}`))
		req = req.WithContext(WithSessionID(req.Context(), "s1"))
		w := httptest.NewRecorder()

		handler.UpdateOptions(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.False(t, sessions.sessions["s1"].Options.AnalyzeWiFi)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/session/options", bytes.NewBufferString("nope"))
		req = req.WithContext(WithSessionID(req.Context(), "s1"))
		w := httptest.NewRecorder()

		handler.UpdateOptions(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/session/options", bytes.NewBufferString(`{"analyze_wifi":true}`))
		req = req.WithContext(WithSessionID(req.Context(), "missing"))
		w := httptest.NewRecorder()

		handler.UpdateOptions(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSessionHandler_Delete(t *testing.T) {
	sessions := newMockSessionStorage()
	sessions.sessions["s1"] = testSession("s1", true)
	sessions.sessions["s2"] = testSession("s2", true)
	handler := NewSessionHandler(setupTestLogger(), sessions, newMockHistoryStorage(), testTokenConfig())

	t.Run("existing session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil)
		req = req.WithContext(WithSessionID(req.Context(), "s1"))
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.NotContains(t, sessions.sessions, "s1")
		assert.Contains(t, sessions.sessions, "s2")
	})

	t.Run("already deleted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil)
		req = req.WithContext(WithSessionID(req.Context(), "s1"))
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("no session in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/session", nil)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
