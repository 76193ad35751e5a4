package models

import "time"

// SessionOptions флаги, которыми управляет пользователь в рамках сессии
type SessionOptions struct {
	// AnalyzeWiFi включает колонки SSID/Password/Security/Hidden в таблице сканирования
	AnalyzeWiFi bool `json:"analyze_wifi"`
}

// DefaultSessionOptions возвращает настройки новой сессии
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{AnalyzeWiFi: true}
}

// Session представляет интерактивную сессию сканирования.
// Сессия владеет историей и флагами; ядро декодирования состояние не читает.
type Session struct {
	CreatedAt  time.Time      `json:"created_at"`
	LastSeenAt time.Time      `json:"last_seen_at"`
	ID         string         `json:"id"`
	Options    SessionOptions `json:"options"`
}
