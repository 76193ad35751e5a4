package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/iudanet/qrscan/internal/export"
	"github.com/iudanet/qrscan/internal/server/storage"
	"github.com/iudanet/qrscan/pkg/api"
)

// HistoryHandler обрабатывает запросы к истории сессии
type HistoryHandler struct {
	logger  *slog.Logger
	history storage.HistoryStorage
}

// NewHistoryHandler создает новый handler истории
func NewHistoryHandler(logger *slog.Logger, history storage.HistoryStorage) *HistoryHandler {
	return &HistoryHandler{
		logger:  logger,
		history: history,
	}
}

// List обрабатывает GET /api/v1/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := GetSessionID(ctx)
	if !ok {
		h.logger.Error("Session ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := h.history.ListRecords(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list history", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.HistoryResponse{
		Columns: export.HistoryTable(records).Header(),
		Records: toAPIRecords(records),
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Clear обрабатывает DELETE /api/v1/history
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := GetSessionID(ctx)
	if !ok {
		h.logger.Error("Session ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	deleted, err := h.history.ClearRecords(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to clear history", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "history cleared",
		slog.String("session_id", sessionID),
		slog.Int("deleted", deleted))

	sendJSON(h.logger, w, api.ClearHistoryResponse{Deleted: deleted}, http.StatusOK)
}

// Export обрабатывает GET /api/v1/history/export
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID, ok := GetSessionID(ctx)
	if !ok {
		h.logger.Error("Session ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := h.history.ListRecords(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list history", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeCSV(h.logger, w, export.HistoryTable(records), export.HistoryFilename)
}

// writeCSV отправляет таблицу как CSV-вложение
func writeCSV(logger *slog.Logger, w http.ResponseWriter, table export.Table, filename string) {
	data, err := export.CSV(table)
	if err != nil {
		logger.Error("failed to render csv", slog.Any("error", err))
		sendError(logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("failed to write csv response", slog.Any("error", err))
	}
}
