package cli

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCli_runDecode_Table(t *testing.T) {
	dir := t.TempDir()
	wifi := writeQR(t, dir, "wifi.png", "WIFI:S:Home;T:WPA;P:secret;;")

	tio := newTestIO(true, "")
	c := New(tio.mock, nil, nil, newPipeline())

	err := c.runDecode([]string{wifi})
	require.NoError(t, err)

	out := tio.out.String()
	assert.Contains(t, out, "=== "+wifi+" ===")
	assert.Contains(t, out, "SSID")
	assert.Contains(t, out, "WIFI:S:Home;T:WPA;P:secret;;")
	assert.Contains(t, out, "=== WiFi Network ===")
	assert.Contains(t, out, "Password: secret")
	assert.Contains(t, out, "Hidden:   No")
	// один файл - без сводной истории
	assert.NotContains(t, out, "=== History")
	assert.Empty(t, tio.errOut.String())
}

func TestCli_runDecode_NoWiFi(t *testing.T) {
	dir := t.TempDir()
	wifi := writeQR(t, dir, "wifi.png", "WIFI:S:Home;;")

	tio := newTestIO(true, "")
	c := New(tio.mock, nil, nil, newPipeline())

	require.NoError(t, c.runDecode([]string{"--no-wifi", wifi}))

	out := tio.out.String()
	assert.Contains(t, out, "WIFI:S:Home;;")
	assert.NotContains(t, out, "SSID")
	assert.NotContains(t, out, "WiFi Network")
}

func TestCli_runDecode_CSVWhenPiped(t *testing.T) {
	dir := t.TempDir()
	text := writeQR(t, dir, "text.png", "hello gophers")
	wifi := writeQR(t, dir, "wifi.png", "WIFI:S:Cafe;T:nopass;H:true;;")

	tio := newTestIO(false, "")
	c := New(tio.mock, nil, nil, newPipeline())

	require.NoError(t, c.runDecode([]string{text, wifi}))

	rows, err := csv.NewReader(strings.NewReader(tio.out.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Type", "Timestamp", "Data", "SSID", "Password", "Security", "Hidden"}, rows[0])
	assert.Equal(t, []string{"QRCODE", rows[1][1], "hello gophers", "N/A", "N/A", "N/A", "N/A"}, rows[1])
	assert.Equal(t, []string{"Cafe", "N/A", "nopass", "true"}, rows[2][3:])
}

func TestCli_runDecode_NoSymbolsAndFailures(t *testing.T) {
	dir := t.TempDir()
	blank := writeBlank(t, dir, "blank.png")
	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, []byte("not an image"), 0o600))
	text := writeQR(t, dir, "text.png", "still here")

	tio := newTestIO(true, "")
	c := New(tio.mock, nil, nil, newPipeline())

	err := c.runDecode([]string{blank, corrupt, text, filepath.Join(dir, "missing.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 4 file(s)")

	errOut := tio.errOut.String()
	assert.Contains(t, errOut, blank+": no QR code detected")
	assert.Contains(t, errOut, corrupt+": decode error")
	assert.Contains(t, errOut, "missing.png: failed to open image")

	// история содержит только успешно декодированный файл
	out := tio.out.String()
	assert.Contains(t, out, "=== History (1 record(s)) ===")
	assert.Contains(t, out, "still here")
}

func TestCli_runDecode_SavesHistory(t *testing.T) {
	dir := t.TempDir()
	first := writeQR(t, dir, "a.png", "first")
	second := writeQR(t, dir, "b.png", "second")
	outPath := filepath.Join(dir, "qr_history.csv")

	tio := newTestIO(true, "")
	c := New(tio.mock, nil, nil, newPipeline())

	require.NoError(t, c.runDecode([]string{"--out", outPath, first, second, first}))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Len(t, rows[0], 7)
	// повторное сканирование не дедуплицируется
	assert.Equal(t, "first", rows[1][2])
	assert.Equal(t, "second", rows[2][2])
	assert.Equal(t, "first", rows[3][2])
	assert.Contains(t, tio.errOut.String(), "History saved to "+outPath)
}

func TestCli_runDecode_Usage(t *testing.T) {
	tio := newTestIO(true, "")
	c := New(tio.mock, nil, nil, newPipeline())

	err := c.runDecode(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing image file")

	err = c.runDecode([]string{"--bogus"})
	assert.Error(t, err)
}
