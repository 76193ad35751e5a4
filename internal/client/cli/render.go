package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"text/template"
	"unicode/utf8"

	"github.com/iudanet/qrscan/internal/export"
	"github.com/iudanet/qrscan/internal/models"
	"github.com/iudanet/qrscan/pkg/api"
)

var (
	wifiTmpl   = template.Must(template.New("wifi").Parse(wifiTemplate))
	statusTmpl = template.Must(template.New("status").Parse(statusTemplate))
)

// minCellWidth нижняя граница обрезки ячеек в узком терминале
const minCellWidth = 20

// csvMode сообщает, выводить ли CSV вместо таблицы
func (c *Cli) csvMode(forced bool) bool {
	return forced || !c.io.IsTerminal()
}

// printTable выводит таблицу, выравнивая колонки
func (c *Cli) printTable(t export.Table) error {
	if len(t.Records) == 0 {
		c.io.Println("No records.")
		return nil
	}

	limit := cellLimit(c.io.Width())

	tw := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(t.Header(), "\t")); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	for _, row := range t.Rows() {
		for i := range row {
			row[i] = truncate(flatten(row[i]), limit)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}

// printCSV выводит таблицу в CSV
func (c *Cli) printCSV(t export.Table) error {
	if err := export.WriteCSV(c.io, t); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// printWiFiDetails выводит параметры каждой WIFI-сети
func (c *Cli) printWiFiDetails(records []models.QRRecord) error {
	for _, detail := range export.WiFiDetails(records) {
		if err := wifiTmpl.Execute(c.io, detail); err != nil {
			return fmt.Errorf("failed to render wifi details: %w", err)
		}
	}
	return nil
}

// cellLimit максимальная ширина ячейки; 0 - без ограничения
func cellLimit(width int) int {
	if width <= 0 {
		return 0
	}
	return max(width/2, minCellWidth)
}

// flatten убирает управляющие пробельные символы, ломающие выравнивание
func flatten(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return ' '
		}
		return r
	}, s)
}

func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// tableFromAPI строит таблицу из ответа сервера с его набором колонок
func tableFromAPI(columns []string, records []api.Record) export.Table {
	cols := make([]export.Column, len(columns))
	for i, name := range columns {
		cols[i] = export.Column(name)
	}
	return export.Table{Columns: cols, Records: fromAPIRecords(records)}
}

func fromAPIRecords(records []api.Record) []models.QRRecord {
	out := make([]models.QRRecord, 0, len(records))
	for _, rec := range records {
		item := models.QRRecord{
			Type:      rec.Type,
			Timestamp: rec.Timestamp,
			Data:      rec.Data,
		}
		if rec.WiFi != nil {
			item.WiFi = &models.WiFiFields{
				SSID:     rec.WiFi.SSID,
				Password: rec.WiFi.Password,
				Security: rec.WiFi.Security,
				Hidden:   rec.WiFi.Hidden,
			}
		}
		out = append(out, item)
	}
	return out
}
