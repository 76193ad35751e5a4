package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/qrscan/internal/client/api"
	"github.com/iudanet/qrscan/internal/client/iocli"
	"github.com/iudanet/qrscan/internal/client/storage/boltdb"
	"github.com/iudanet/qrscan/internal/scan"
	"github.com/iudanet/qrscan/internal/server"
)

// testIO собирает stdout и stderr команд
type testIO struct {
	mock   *iocli.IOMock
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestIO(terminal bool, answer string) *testIO {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	mock := &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			_, _ = fmt.Fprintln(out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			_, _ = fmt.Fprintf(out, format, a...)
		},
		ErrorfFunc: func(format string, a ...any) {
			_, _ = fmt.Fprintf(errOut, format, a...)
		},
		WriteFunc: func(p []byte) (int, error) {
			return out.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			return answer, nil
		},
		IsTerminalFunc: func() bool {
			return terminal
		},
		WidthFunc: func() int {
			return 0
		},
	}

	return &testIO{mock: mock, out: out, errOut: errOut}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline() *scan.Pipeline {
	return scan.NewPipeline(scan.NewZXingDetector(), discardLogger())
}

// writeQR сохраняет PNG с QR-кодом и возвращает путь
func writeQR(t *testing.T, dir, name, content string) string {
	t.Helper()

	matrix, err := qrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, 300, 300, nil)
	require.NoError(t, err)

	return writePNG(t, dir, name, matrix)
}

// writeBlank сохраняет белое изображение без кодов
func writeBlank(t *testing.T, dir, name string) string {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return writePNG(t, dir, name, img)
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

// remoteEnv поднимает сервер и клиентское хранилище
type remoteEnv struct {
	api   *clientapi.Client
	store *boltdb.Storage
	url   string
}

func newRemoteEnv(t *testing.T) *remoteEnv {
	t.Helper()

	cfg := server.DefaultConfig()
	cfg.SessionSecret = "cli-test-secret"

	srv, err := server.New(context.Background(), cfg, discardLogger(), "test")
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
		ts.Close()
		_ = srv.Close()
	})

	return &remoteEnv{api: clientapi.NewClient(ts.URL), store: store, url: ts.URL}
}

func (e *remoteEnv) cli(tio *testIO) *Cli {
	return New(tio.mock, e.api, e.store, newPipeline())
}
