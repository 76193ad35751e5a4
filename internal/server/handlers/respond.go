package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/qrscan/internal/models"
	"github.com/iudanet/qrscan/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	sendJSON(logger, w, resp, statusCode)
}

// toAPIRecords конвертирует записи в формат API; никогда не возвращает nil
func toAPIRecords(records []models.QRRecord) []api.Record {
	out := make([]api.Record, 0, len(records))
	for _, rec := range records {
		item := api.Record{
			Type:      rec.Type,
			Timestamp: rec.Timestamp,
			Data:      rec.Data,
		}
		if rec.WiFi != nil {
			item.WiFi = &api.WiFi{
				SSID:     rec.WiFi.SSID,
				Password: rec.WiFi.Password,
				Security: rec.WiFi.Security,
				Hidden:   rec.WiFi.Hidden,
			}
		}
		out = append(out, item)
	}
	return out
}
