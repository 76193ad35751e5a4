package server

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string {
		return m[key]
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(nil, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Empty(t, cfg.SessionSecret)
}

func TestLoadConfig_Env(t *testing.T) {
	cfg, err := LoadConfig(nil, envMap(map[string]string{
		"QRSCAN_ADDR":             "127.0.0.1:9000",
		"QRSCAN_LOG_LEVEL":        "debug",
		"QRSCAN_LOG_FORMAT":       "json",
		"QRSCAN_SESSION_SECRET":   "top-secret",
		"QRSCAN_SESSION_TTL":      "30m",
		"QRSCAN_TOKEN_TTL":        "48h",
		"QRSCAN_MAX_IMAGE_BYTES":  "1024",
		"QRSCAN_MAX_IMAGE_PIXELS": "4096",
		"QRSCAN_SCAN_RATE":        "0",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "top-secret", cfg.SessionSecret)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 48*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(1024), cfg.Limits.MaxBytes)
	assert.Equal(t, 4096, cfg.Limits.MaxPixels)
	assert.Zero(t, cfg.ScanRateLimit)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	cfg, err := LoadConfig(
		[]string{"-addr", ":7000", "-session-ttl", "5m", "-scan-rate", "10"},
		envMap(map[string]string{
			"QRSCAN_ADDR":        ":9000",
			"QRSCAN_SESSION_TTL": "1h",
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.ScanRateLimit)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		env  map[string]string
		name string
		args []string
	}{
		{name: "bad duration env", env: map[string]string{"QRSCAN_SESSION_TTL": "soon"}},
		{name: "bad int env", env: map[string]string{"QRSCAN_MAX_IMAGE_PIXELS": "many"}},
		{name: "bad bytes env", env: map[string]string{"QRSCAN_MAX_IMAGE_BYTES": "-x"}},
		{name: "unknown flag", args: []string{"-nope"}},
		{name: "zero ttl", args: []string{"-session-ttl", "0s"}},
		{name: "token shorter than session", args: []string{"-session-ttl", "2h", "-token-ttl", "1h"}},
		{name: "negative rate", args: []string{"-scan-rate", "-1"}},
		{name: "zero max bytes", args: []string{"-max-image-bytes", "0"}},
		{name: "unknown log level", args: []string{"-log-level", "loud"}},
		{name: "unknown log format", args: []string{"-log-format", "xml"}},
		{name: "empty addr", args: []string{"-addr", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.args, envMap(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := DefaultConfig()
		cfg.LogFormat = "json"

		logger, err := NewLogger(&buf, cfg)
		require.NoError(t, err)

		logger.Info("hello", "key", "value")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
		assert.Contains(t, buf.String(), `"key":"value"`)
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := DefaultConfig()
		cfg.LogLevel = "warn"

		logger, err := NewLogger(&buf, cfg)
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}
