// Package cli реализует команды клиента qrscan.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/iudanet/qrscan/internal/client/iocli"
	"github.com/iudanet/qrscan/internal/client/storage"
	"github.com/iudanet/qrscan/internal/scan"
	"github.com/iudanet/qrscan/pkg/api"
)

// APIClient клиент сервиса сканирования
type APIClient interface {
	BaseURL() string
	CreateSession(ctx context.Context, req api.CreateSessionRequest) (*api.SessionResponse, error)
	GetSession(ctx context.Context, token string) (*api.SessionResponse, error)
	EndSession(ctx context.Context, token string) error
	UpdateOptions(ctx context.Context, token string, req api.UpdateOptionsRequest) error
	Scan(ctx context.Context, token, filename string, image io.Reader) (*api.ScanResponse, error)
	History(ctx context.Context, token string) (*api.HistoryResponse, error)
	ClearHistory(ctx context.Context, token string) (int, error)
	ExportHistory(ctx context.Context, token string) ([]byte, error)
}

// Decoder локальный декодер изображений
type Decoder interface {
	DecodeReader(r io.Reader, limits scan.Limits) scan.Result
}

type Cli struct {
	io      iocli.IO
	api     APIClient
	store   storage.SessionStore
	decoder Decoder
	now     func() time.Time
	limits  scan.Limits
}

func New(stdio iocli.IO, apiClient APIClient, store storage.SessionStore, decoder Decoder) *Cli {
	return &Cli{
		io:      stdio,
		api:     apiClient,
		store:   store,
		decoder: decoder,
		limits:  scan.DefaultLimits(),
		now:     time.Now,
	}
}

func PrintUsage(stdio iocli.IO) {
	stdio.Println("QRScan Client")
	stdio.Println()
	stdio.Println("Usage:")
	stdio.Println("  qrscan [OPTIONS] COMMAND [ARGS]")
	stdio.Println()
	stdio.Println("Options:")
	stdio.Println("  --version       Show version information")
	stdio.Println("  --server URL    Server URL (default: http://localhost:8080)")
	stdio.Println("  --db PATH       Path to local database (default: qrscan-client.db)")
	stdio.Println("  --verbose       Log decoder diagnostics to stderr")
	stdio.Println()
	stdio.Println("Local commands:")
	stdio.Println("  decode [--csv] [--no-wifi] [--out FILE] FILE...   Decode QR codes in images")
	stdio.Println()
	stdio.Println("Server commands:")
	stdio.Println("  session [--no-wifi]             Start a new scan session")
	stdio.Println("  status                          Show session status")
	stdio.Println("  end                             End the session and drop its history")
	stdio.Println("  options --wifi=true|false       Toggle WIFI analysis for the session")
	stdio.Println("  scan [--csv] FILE...            Scan images into the session history")
	stdio.Println("  history [--csv]                 Show session history")
	stdio.Println("  clear [--yes]                   Clear session history")
	stdio.Println("  export [--out FILE]             Export session history as CSV (- for stdout)")
	stdio.Println()
	stdio.Println("Output is a table on a terminal and CSV when piped.")
	stdio.Println()
	stdio.Println("Examples:")
	stdio.Println("  qrscan decode ticket.png wifi.jpg")
	stdio.Println("  qrscan decode --csv *.png > codes.csv")
	stdio.Println("  qrscan --server https://qr.example.com session")
	stdio.Println("  qrscan scan photo.png && qrscan export --out qr_history.csv")
}
