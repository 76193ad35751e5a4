package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/qrscan/internal/models"
	"github.com/iudanet/qrscan/internal/server/storage"
	"github.com/iudanet/qrscan/pkg/api"
)

// SessionHandler обрабатывает запросы управления сессиями сканирования
type SessionHandler struct {
	logger   *slog.Logger
	sessions storage.SessionStorage
	history  storage.HistoryStorage
	now      func() time.Time
	tokens   TokenConfig
}

// NewSessionHandler создает новый handler для сессий
func NewSessionHandler(logger *slog.Logger, sessions storage.SessionStorage, history storage.HistoryStorage, tokens TokenConfig) *SessionHandler {
	return &SessionHandler{
		logger:   logger,
		sessions: sessions,
		history:  history,
		tokens:   tokens,
		now:      time.Now,
	}
}

// Create обрабатывает POST /api/v1/sessions
// Создает сессию с пустой историей и выдает токен
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts := models.DefaultSessionOptions()

	// Тело запроса опционально
	var req api.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WarnContext(ctx, "failed to decode create session request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.AnalyzeWiFi != nil {
		opts.AnalyzeWiFi = *req.AnalyzeWiFi
	}

	now := h.now()
	session := &models.Session{
		ID:         uuid.New().String(),
		Options:    opts,
		CreatedAt:  now,
		LastSeenAt: now,
	}

	if err := h.sessions.CreateSession(ctx, session); err != nil {
		h.logger.ErrorContext(ctx, "failed to create session", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, expiresIn, err := GenerateSessionToken(h.tokens, session.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate session token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "session created",
		slog.String("session_id", session.ID),
		slog.Bool("analyze_wifi", opts.AnalyzeWiFi))

	resp := api.SessionResponse{
		SessionID:   session.ID,
		Token:       token,
		ExpiresIn:   expiresIn,
		AnalyzeWiFi: opts.AnalyzeWiFi,
		CreatedAt:   session.CreatedAt,
		LastSeenAt:  session.LastSeenAt,
	}

	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// Get обрабатывает GET /api/v1/session
// Вместе с данными сессии выдает новый токен: активный клиент продлевает его, пока жива сессия
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := GetSessionID(ctx)
	if !ok {
		h.logger.Error("Session ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	session, err := h.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			sendError(h.logger, w, "session not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get session", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	count, err := h.history.CountRecords(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count history", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, expiresIn, err := GenerateSessionToken(h.tokens, session.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate session token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.SessionResponse{
		SessionID:   session.ID,
		Token:       token,
		ExpiresIn:   expiresIn,
		AnalyzeWiFi: session.Options.AnalyzeWiFi,
		HistorySize: count,
		CreatedAt:   session.CreatedAt,
		LastSeenAt:  session.LastSeenAt,
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/session
// Удаляет сессию вместе с историей; токен после этого отклоняется
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := GetSessionID(ctx)
	if !ok {
		h.logger.Error("Session ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.sessions.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			sendError(h.logger, w, "session not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete session", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "session ended", slog.String("session_id", sessionID))

	w.WriteHeader(http.StatusNoContent)
}

// UpdateOptions обрабатывает PUT /api/v1/session/options
func (h *SessionHandler) UpdateOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := GetSessionID(ctx)
	if !ok {
		h.logger.Error("Session ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.UpdateOptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode options request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	opts := models.SessionOptions{AnalyzeWiFi: req.AnalyzeWiFi}
	if err := h.sessions.UpdateSessionOptions(ctx, sessionID, opts); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			sendError(h.logger, w, "session not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update session options", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "session options updated",
		slog.String("session_id", sessionID),
		slog.Bool("analyze_wifi", opts.AnalyzeWiFi))

	w.WriteHeader(http.StatusNoContent)
}
