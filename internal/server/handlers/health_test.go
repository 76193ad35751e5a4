package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/qrscan/pkg/api"
)

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		pinger     Pinger
		wantStatus string
		wantCode   int
	}{
		{
			name:       "no storage",
			pinger:     nil,
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "storage available",
			pinger:     &mockPinger{},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "storage unavailable",
			pinger:     &mockPinger{err: errors.New("database is closed")},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(setupTestLogger(), tt.pinger, "1.2.3")

			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			w := httptest.NewRecorder()

			handler.Health(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp api.HealthResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "1.2.3", resp.Version)
		})
	}
}
