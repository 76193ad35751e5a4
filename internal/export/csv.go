package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// Имена файлов выгрузки
const (
	ScanFilename    = "qr_data.csv"
	HistoryFilename = "qr_history.csv"
)

// ContentType MIME-тип выгрузки
const ContentType = "text/csv; charset=utf-8"

// WriteCSV пишет заголовок и строки таблицы в w. Колонки индекса нет.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	if err := cw.WriteAll(t.Rows()); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}

	return nil
}

// CSV возвращает таблицу в виде CSV-текста
func CSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
