package api

// WiFi представляет поля WIFI payload
type WiFi struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
	Security string `json:"security"`
	Hidden   string `json:"hidden"`
}

// Record представляет одну QR-запись
type Record struct {
	WiFi      *WiFi  `json:"wifi,omitempty"`
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Data      string `json:"data"`
}

// Исходы сканирования
const (
	OutcomeDecoded       = "decoded"
	OutcomeNoSymbols     = "no_symbols"
	OutcomeDecodeFailure = "decode_failure"
)

// ScanResponse представляет результат сканирования одного изображения
type ScanResponse struct {
	Outcome string   `json:"outcome"`           // decoded, no_symbols или decode_failure
	Message string   `json:"message,omitempty"` // сообщение для пользователя
	Columns []string `json:"columns"`           // колонки таблицы результатов
	Records []Record `json:"records"`
}

// HistoryResponse представляет историю сессии
type HistoryResponse struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// ClearHistoryResponse представляет ответ на очистку истории
type ClearHistoryResponse struct {
	Deleted int `json:"deleted"`
}
