package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// SessionIDKey ключ для хранения session_id в контексте
const SessionIDKey contextKey = "session_id"

// WithSessionID возвращает контекст с session_id
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// GetSessionID извлекает session_id из контекста запроса
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok && sessionID != ""
}
