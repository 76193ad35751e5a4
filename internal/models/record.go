package models

import "time"

// SymbologyQRCode тег символики, под которым детектор сообщает QR-коды.
// Только записи с этим тегом попадают в результат сканирования.
const SymbologyQRCode = "QRCODE"

// TimestampLayout формат времени захвата: YYYY-MM-DD HH:MM:SS, без таймзоны
const TimestampLayout = "2006-01-02 15:04:05"

// Значения по умолчанию для полей WIFI, отсутствующих в payload.
const (
	WiFiFieldMissing = "N/A"
	WiFiHiddenFalse  = "false"
)

// QRRecord представляет один распознанный QR-символ.
// Запись создается при каждом декодировании и сразу добавляется в историю сессии.
type QRRecord struct {
	WiFi      *WiFiFields `json:"wifi,omitempty"` // WiFi заполнено только для payload с префиксом WIFI:
	Type      string      `json:"type"`           // Type тег символики (всегда QRCODE)
	Timestamp string      `json:"timestamp"`      // Timestamp время декодирования в формате TimestampLayout
	Data      string      `json:"data"`           // Data декодированный текст (UTF-8)
}

// HasWiFi сообщает, содержит ли запись разобранный WIFI payload
func (r QRRecord) HasWiFi() bool {
	return r.WiFi != nil
}

// WiFiFields поля WIFI payload.
// Hidden хранится строкой как в источнике: формат не гарантирует каноничных значений.
type WiFiFields struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
	Security string `json:"security"`
	Hidden   string `json:"hidden"`
}

// FormatTimestamp форматирует время захвата для QRRecord.Timestamp
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
