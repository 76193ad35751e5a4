// Package export строит табличное представление QR-записей и выгружает его в CSV.
package export

import "github.com/iudanet/qrscan/internal/models"

// Column колонка таблицы
type Column string

// Колонки в порядке отображения
const (
	ColumnType      Column = "Type"
	ColumnTimestamp Column = "Timestamp"
	ColumnData      Column = "Data"
	ColumnSSID      Column = "SSID"
	ColumnPassword  Column = "Password"
	ColumnSecurity  Column = "Security"
	ColumnHidden    Column = "Hidden"
)

// BaseColumns колонки, присутствующие всегда
var BaseColumns = []Column{ColumnType, ColumnTimestamp, ColumnData}

// WiFiColumns колонки с полями WIFI payload
var WiFiColumns = []Column{ColumnSSID, ColumnPassword, ColumnSecurity, ColumnHidden}

// Table набор записей и колонок, в которых их надо показать
type Table struct {
	Columns []Column
	Records []models.QRRecord
}

// ScanTable таблица результатов одного сканирования.
// WIFI-колонки включаются, только если analyzeWiFi задан и хотя бы одна запись - WIFI.
func ScanTable(records []models.QRRecord, analyzeWiFi bool) Table {
	columns := append([]Column{}, BaseColumns...)
	if analyzeWiFi && anyWiFi(records) {
		columns = append(columns, WiFiColumns...)
	}
	return Table{Columns: columns, Records: records}
}

// HistoryTable таблица истории; всегда содержит все колонки
func HistoryTable(records []models.QRRecord) Table {
	columns := make([]Column, 0, len(BaseColumns)+len(WiFiColumns))
	columns = append(columns, BaseColumns...)
	columns = append(columns, WiFiColumns...)
	return Table{Columns: columns, Records: records}
}

// Header возвращает строку заголовка
func (t Table) Header() []string {
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = string(c)
	}
	return header
}

// Rows возвращает ячейки таблицы. Отсутствующие WIFI-поля заполняются "N/A".
func (t Table) Rows() [][]string {
	rows := make([][]string, 0, len(t.Records))
	for _, rec := range t.Records {
		row := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			row[i] = Cell(rec, c)
		}
		rows = append(rows, row)
	}
	return rows
}

// Cell значение записи в колонке
func Cell(rec models.QRRecord, column Column) string {
	switch column {
	case ColumnType:
		return rec.Type
	case ColumnTimestamp:
		return rec.Timestamp
	case ColumnData:
		return rec.Data
	}

	if rec.WiFi == nil {
		return models.WiFiFieldMissing
	}

	switch column {
	case ColumnSSID:
		return rec.WiFi.SSID
	case ColumnPassword:
		return rec.WiFi.Password
	case ColumnSecurity:
		return rec.WiFi.Security
	case ColumnHidden:
		return rec.WiFi.Hidden
	default:
		return models.WiFiFieldMissing
	}
}

func anyWiFi(records []models.QRRecord) bool {
	for _, rec := range records {
		if rec.HasWiFi() {
			return true
		}
	}
	return false
}
