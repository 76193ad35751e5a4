package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iudanet/qrscan/internal/export"
	"github.com/iudanet/qrscan/pkg/api"
)

const scanUsage = "Usage: qrscan scan [--csv] FILE..."

// runScan загружает изображения в сессию на сервере
func (c *Cli) runScan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asCSV := fs.Bool("csv", false, "CSV output")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w. %s", err, scanUsage)
	}

	files := fs.Args()
	if len(files) == 0 {
		return fmt.Errorf("missing image file. %s", scanUsage)
	}

	session, err := c.activeSession(ctx)
	if err != nil {
		return err
	}

	csvOut := c.csvMode(*asCSV)
	var (
		collected []api.Record
		columns   []string
		failed    int
	)

	for _, path := range files {
		resp, err := c.scanFile(ctx, session.Token, path)
		if err != nil {
			return err
		}

		switch resp.Outcome {
		case api.OutcomeNoSymbols:
			c.io.Errorf("%s: %s\n", path, resp.Message)
			continue
		case api.OutcomeDecodeFailure:
			c.io.Errorf("%s: %s\n", path, resp.Message)
			failed++
			continue
		}

		if csvOut {
			collected = append(collected, resp.Records...)
			columns = widerColumns(columns, resp.Columns)
			continue
		}

		table := tableFromAPI(resp.Columns, resp.Records)
		c.io.Printf("=== %s ===\n", path)
		if err := c.printTable(table); err != nil {
			return err
		}
		if session.AnalyzeWiFi {
			if err := c.printWiFiDetails(table.Records); err != nil {
				return err
			}
		}
		c.io.Println()
	}

	if csvOut && len(collected) > 0 {
		if err := c.printCSV(tableFromAPI(columns, collected)); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be decoded", failed, len(files))
	}
	return nil
}

func (c *Cli) scanFile(ctx context.Context, token, path string) (*api.ScanResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	resp, err := c.api.Scan(ctx, token, filepath.Base(path), f)
	if err != nil {
		return nil, c.remoteError("scan failed", err)
	}
	return resp, nil
}

// widerColumns выбирает набор колонок с WIFI-полями, если он встречался
func widerColumns(current, next []string) []string {
	if len(next) > len(current) {
		return next
	}
	return current
}

// runHistory выводит историю сессии
func (c *Cli) runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asCSV := fs.Bool("csv", false, "CSV output")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w. Usage: qrscan history [--csv]", err)
	}

	session, err := c.activeSession(ctx)
	if err != nil {
		return err
	}

	resp, err := c.api.History(ctx, session.Token)
	if err != nil {
		return c.remoteError("failed to get history", err)
	}

	table := tableFromAPI(resp.Columns, resp.Records)
	if c.csvMode(*asCSV) {
		return c.printCSV(table)
	}

	c.io.Printf("=== Session History (%d record(s)) ===\n", len(table.Records))
	return c.printTable(table)
}

// runClear очищает историю сессии
func (c *Cli) runClear(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	yes := fs.Bool("yes", false, "Do not ask for confirmation")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w. Usage: qrscan clear [--yes]", err)
	}

	session, err := c.activeSession(ctx)
	if err != nil {
		return err
	}

	if !*yes {
		answer, err := c.io.ReadInput("Clear session history? [y/N]: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if answer != "y" && answer != "Y" && answer != "yes" {
			c.io.Println("Cancelled.")
			return nil
		}
	}

	deleted, err := c.api.ClearHistory(ctx, session.Token)
	if err != nil {
		return c.remoteError("failed to clear history", err)
	}

	c.io.Printf("History cleared: %d record(s) deleted\n", deleted)
	return nil
}

// runExport сохраняет историю сессии в CSV
func (c *Cli) runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out := fs.String("out", export.HistoryFilename, "Output file, - for stdout")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid arguments: %w. Usage: qrscan export [--out FILE]", err)
	}

	session, err := c.activeSession(ctx)
	if err != nil {
		return err
	}

	data, err := c.api.ExportHistory(ctx, session.Token)
	if err != nil {
		return c.remoteError("failed to export history", err)
	}

	if *out == "-" {
		if _, err := c.io.Write(data); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	c.io.Printf("History exported to %s\n", *out)
	return nil
}
