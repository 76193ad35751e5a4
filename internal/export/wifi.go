package export

import "github.com/iudanet/qrscan/internal/models"

// WiFiDetail блок с параметрами подключения к сети
type WiFiDetail struct {
	SSID     string
	Password string
	Security string
	Hidden   bool
}

// WiFiDetails возвращает блоки подключения для всех WIFI-записей в исходном порядке.
// Hidden истинно только для точного значения "true".
func WiFiDetails(records []models.QRRecord) []WiFiDetail {
	var details []WiFiDetail
	for _, rec := range records {
		if rec.WiFi == nil {
			continue
		}
		details = append(details, WiFiDetail{
			SSID:     rec.WiFi.SSID,
			Password: rec.WiFi.Password,
			Security: rec.WiFi.Security,
			Hidden:   rec.WiFi.Hidden == "true",
		})
	}
	return details
}
