package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/iudanet/qrscan/internal/export"
	"github.com/iudanet/qrscan/internal/models"
	"github.com/iudanet/qrscan/internal/scan"
	"github.com/iudanet/qrscan/internal/server/storage"
	"github.com/iudanet/qrscan/pkg/api"
)

// imageField имя поля multipart-формы с изображением
const imageField = "image"

// Decoder декодирует изображение в QR-записи
type Decoder interface {
	DecodeReader(r io.Reader, limits scan.Limits) scan.Result
}

// SessionGetter читает сессию
type SessionGetter interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
}

// ScanHandler обрабатывает загрузку изображений на сканирование
type ScanHandler struct {
	logger   *slog.Logger
	decoder  Decoder
	sessions SessionGetter
	history  storage.HistoryStorage
	limits   scan.Limits
}

// NewScanHandler создает новый handler сканирования
func NewScanHandler(logger *slog.Logger, decoder Decoder, sessions SessionGetter, history storage.HistoryStorage, limits scan.Limits) *ScanHandler {
	return &ScanHandler{
		logger:   logger,
		decoder:  decoder,
		sessions: sessions,
		history:  history,
		limits:   limits,
	}
}

// Scan обрабатывает POST /api/v1/scan
// Декодирует изображение, добавляет записи в историю сессии и возвращает таблицу результатов
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	session, result, ok := h.scan(w, r)
	if !ok {
		return
	}

	table := export.ScanTable(result.Records, session.Options.AnalyzeWiFi)
	resp := api.ScanResponse{
		Outcome: string(result.Outcome),
		Message: result.Message(),
		Columns: table.Header(),
		Records: toAPIRecords(result.Records),
	}

	sendJSON(h.logger, w, resp, outcomeStatus(result))
}

// ScanExport обрабатывает POST /api/v1/scan/export
// То же, что Scan, но отвечает CSV-таблицей результатов
func (h *ScanHandler) ScanExport(w http.ResponseWriter, r *http.Request) {
	session, result, ok := h.scan(w, r)
	if !ok {
		return
	}

	if result.Outcome != scan.OutcomeDecoded {
		resp := api.ScanResponse{
			Outcome: string(result.Outcome),
			Message: result.Message(),
			Columns: export.ScanTable(nil, session.Options.AnalyzeWiFi).Header(),
			Records: []api.Record{},
		}
		sendJSON(h.logger, w, resp, outcomeStatus(result))
		return
	}

	writeCSV(h.logger, w, export.ScanTable(result.Records, session.Options.AnalyzeWiFi), export.ScanFilename)
}

// scan выполняет общую часть: сессия, чтение изображения, декодирование, запись в историю.
// При ok == false ответ уже отправлен.
func (h *ScanHandler) scan(w http.ResponseWriter, r *http.Request) (*models.Session, scan.Result, bool) {
	ctx := r.Context()

	sessionID, ok := GetSessionID(ctx)
	if !ok {
		h.logger.Error("Session ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return nil, scan.Result{}, false
	}

	session, err := h.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			sendError(h.logger, w, "session not found", http.StatusNotFound)
			return nil, scan.Result{}, false
		}
		h.logger.ErrorContext(ctx, "failed to get session", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return nil, scan.Result{}, false
	}

	body, closeBody, err := imageReader(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid scan upload", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return nil, scan.Result{}, false
	}
	defer closeBody()

	result := h.decoder.DecodeReader(body, h.limits)

	switch result.Outcome {
	case scan.OutcomeDecoded:
		if err := h.history.AppendRecords(ctx, sessionID, result.Records); err != nil {
			h.logger.ErrorContext(ctx, "failed to append history", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return nil, scan.Result{}, false
		}
		h.logger.InfoContext(ctx, "image scanned",
			slog.String("session_id", sessionID),
			slog.Int("records", len(result.Records)))
	case scan.OutcomeNoSymbols:
		h.logger.InfoContext(ctx, "no QR code detected", slog.String("session_id", sessionID))
	case scan.OutcomeDecodeFailure:
		h.logger.WarnContext(ctx, "image decode failed",
			slog.String("session_id", sessionID),
			slog.Any("error", result.Err))
	}

	return session, result, true
}

// imageReader возвращает поток изображения: поле image из multipart-формы или тело запроса
func imageReader(r *http.Request) (io.Reader, func(), error) {
	noop := func() {}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return r.Body, noop, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, noop, fmt.Errorf("invalid multipart body: %w", err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, noop, fmt.Errorf("multipart field %q is required", imageField)
		}
		if err != nil {
			return nil, noop, fmt.Errorf("invalid multipart body: %w", err)
		}
		if part.FormName() == imageField {
			return part, func() { _ = part.Close() }, nil
		}
		_ = part.Close()
	}
}

// outcomeStatus HTTP статус для исхода сканирования
func outcomeStatus(result scan.Result) int {
	switch {
	case !result.Failed():
		return http.StatusOK
	case errors.Is(result.Err, scan.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusUnprocessableEntity
	}
}
