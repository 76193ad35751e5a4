package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iudanet/qrscan/internal/export"
	"github.com/iudanet/qrscan/internal/history"
	"github.com/iudanet/qrscan/internal/scan"
)

const decodeUsage = "Usage: qrscan decode [--csv] [--no-wifi] [--out FILE] FILE..."

// runDecode декодирует изображения локально. Результаты всех файлов копятся
// в истории процесса; --out сохраняет ее в CSV.
func (c *Cli) runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asCSV := fs.Bool("csv", false, "CSV output")
	noWiFi := fs.Bool("no-wifi", false, "Do not analyze WIFI payloads")
	out := fs.String("out", "", "Save history CSV to file")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w. %s", err, decodeUsage)
	}

	files := fs.Args()
	if len(files) == 0 {
		return fmt.Errorf("missing image file. %s", decodeUsage)
	}

	csvOut := c.csvMode(*asCSV)
	analyzeWiFi := !*noWiFi
	hist := history.New()
	failed := 0

	for _, path := range files {
		result, err := c.decodeFile(path)
		if err != nil {
			c.io.Errorf("%s: %v\n", path, err)
			failed++
			continue
		}

		switch result.Outcome {
		case scan.OutcomeNoSymbols:
			c.io.Errorf("%s: %s\n", path, result.Message())
			continue
		case scan.OutcomeDecodeFailure:
			c.io.Errorf("%s: %s\n", path, result.Message())
			failed++
			continue
		}

		hist.Append(result.Records...)

		if csvOut {
			continue
		}

		c.io.Printf("=== %s ===\n", path)
		if err := c.printTable(export.ScanTable(result.Records, analyzeWiFi)); err != nil {
			return err
		}
		if analyzeWiFi {
			if err := c.printWiFiDetails(result.Records); err != nil {
				return err
			}
		}
		c.io.Println()
	}

	records := hist.List()

	switch {
	case csvOut:
		if err := c.printCSV(export.ScanTable(records, analyzeWiFi)); err != nil {
			return err
		}
	case len(files) > 1:
		c.io.Printf("=== History (%d record(s)) ===\n", len(records))
		if err := c.printTable(export.HistoryTable(records)); err != nil {
			return err
		}
	}

	if *out != "" {
		data, err := export.CSV(export.HistoryTable(records))
		if err != nil {
			return fmt.Errorf("failed to render history: %w", err)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		c.io.Errorf("History saved to %s\n", *out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be decoded", failed, len(files))
	}
	return nil
}

func (c *Cli) decodeFile(path string) (scan.Result, error) {
	if c.decoder == nil {
		return scan.Result{}, errors.New("decoder not configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return scan.Result{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return c.decoder.DecodeReader(f, c.limits), nil
}
