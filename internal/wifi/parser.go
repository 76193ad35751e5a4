// Package wifi разбирает WIFI: URI микро-формат из QR-кодов сетей Wi-Fi.
package wifi

import (
	"strings"

	"github.com/iudanet/qrscan/internal/models"
)

// Prefix литеральный префикс WIFI payload
const Prefix = "WIFI:"

// Ключи параметров по соглашению формата
const (
	KeySSID     = "S"
	KeyPassword = "P"
	KeySecurity = "T"
	KeyHidden   = "H"
)

// HasPrefix сообщает, является ли payload WIFI-записью
func HasPrefix(payload string) bool {
	return strings.HasPrefix(payload, Prefix)
}

// Parse разбирает WIFI payload в map ключ -> значение.
//
// Вызывающий код уже проверил префикс: Parse отбрасывает первые len(Prefix) байт
// без повторной проверки. Остаток делится по ';', каждый токен делится по первому ':'.
// Пустые токены и токены без ':' пропускаются. Повторный ключ перезаписывает предыдущий.
// Экранированные последовательности (\; \: \, \\) не раскрываются.
// Никогда не возвращает nil.
func Parse(payload string) map[string]string {
	fields := make(map[string]string)
	if len(payload) < len(Prefix) {
		return fields
	}

	for _, token := range strings.Split(payload[len(Prefix):], ";") {
		if token == "" {
			continue
		}
		key, value, ok := strings.Cut(token, ":")
		if !ok {
			continue
		}
		fields[key] = value
	}

	return fields
}

// Extract разбирает payload и подставляет значения по умолчанию для отсутствующих ключей:
// "N/A" для SSID, пароля и типа защиты, "false" для флага скрытой сети.
func Extract(payload string) models.WiFiFields {
	fields := Parse(payload)

	return models.WiFiFields{
		SSID:     lookup(fields, KeySSID, models.WiFiFieldMissing),
		Password: lookup(fields, KeyPassword, models.WiFiFieldMissing),
		Security: lookup(fields, KeySecurity, models.WiFiFieldMissing),
		Hidden:   lookup(fields, KeyHidden, models.WiFiHiddenFalse),
	}
}

func lookup(fields map[string]string, key, fallback string) string {
	if v, ok := fields[key]; ok {
		return v
	}
	return fallback
}
