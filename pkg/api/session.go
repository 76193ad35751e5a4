package api

import "time"

// CreateSessionRequest представляет запрос на создание сессии сканирования
type CreateSessionRequest struct {
	AnalyzeWiFi *bool `json:"analyze_wifi,omitempty"` // nil - значение по умолчанию (true)
}

// SessionResponse представляет ответ с данными сессии
type SessionResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	SessionID   string    `json:"session_id"`           // UUID сессии
	Token       string    `json:"token,omitempty"`      // JWT токен сессии, выдается при создании и обновляется при чтении
	ExpiresIn   int64     `json:"expires_in,omitempty"` // время жизни токена в секундах
	HistorySize int       `json:"history_size"`         // количество записей в истории
	AnalyzeWiFi bool      `json:"analyze_wifi"`         // показывать ли WIFI-колонки
}

// UpdateOptionsRequest представляет запрос на изменение флагов сессии
type UpdateOptionsRequest struct {
	AnalyzeWiFi bool `json:"analyze_wifi"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
