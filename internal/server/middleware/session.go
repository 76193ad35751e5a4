package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/qrscan/internal/server/handlers"
	"github.com/iudanet/qrscan/internal/server/storage"
	"github.com/iudanet/qrscan/internal/validation"
)

// SessionToucher отмечает активность сессии
type SessionToucher interface {
	TouchSession(ctx context.Context, id string, at time.Time) error
}

// SessionMiddleware создает middleware для проверки токена сессии.
// Токен должен быть валиден, а сессия - существовать (не удалена по неактивности).
func SessionMiddleware(logger *slog.Logger, tokens handlers.TokenConfig, sessions SessionToucher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header")
				writeJSONError(w, "Unauthorized: missing session token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("Invalid Authorization header format")
				writeJSONError(w, "Unauthorized: invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := handlers.ValidateSessionToken(tokens, parts[1])
			if err != nil {
				logger.Warn("Invalid session token", "error", err)
				writeJSONError(w, "Unauthorized: invalid session token", http.StatusUnauthorized)
				return
			}

			if err := validation.ValidateSessionID(claims.SessionID); err != nil {
				logger.Warn("Invalid session ID in token", "error", err)
				writeJSONError(w, "Unauthorized: invalid session token", http.StatusUnauthorized)
				return
			}

			// Сессия могла быть удалена janitor'ом, хотя токен еще не истек
			if err := sessions.TouchSession(r.Context(), claims.SessionID, time.Now()); err != nil {
				if errors.Is(err, storage.ErrSessionNotFound) {
					logger.Warn("Session expired", "session_id", claims.SessionID)
					writeJSONError(w, "Unauthorized: session expired", http.StatusUnauthorized)
					return
				}
				logger.Error("Failed to touch session", "error", err, "session_id", claims.SessionID)
				writeJSONError(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			logger.Debug("Session authenticated", "session_id", claims.SessionID)

			next.ServeHTTP(w, r.WithContext(handlers.WithSessionID(r.Context(), claims.SessionID)))
		})
	}
}
