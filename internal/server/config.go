package server

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/qrscan/internal/scan"
)

// Config конфигурация сервиса
type Config struct {
	Addr            string
	LogLevel        string
	LogFormat       string
	SessionSecret   string
	SessionTTL      time.Duration
	TokenTTL        time.Duration
	JanitorInterval time.Duration
	ShutdownTimeout time.Duration
	ScanRateWindow  time.Duration
	ScanRateLimit   int
	Limits          scan.Limits
	ShowVersion     bool
}

// envPrefix префикс переменных окружения
const envPrefix = "QRSCAN_"

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       "text",
		SessionTTL:      2 * time.Hour,
		TokenTTL:        24 * time.Hour,
		JanitorInterval: 5 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
		ScanRateLimit:   60,
		ScanRateWindow:  time.Minute,
		Limits:          scan.DefaultLimits(),
	}
}

// LoadConfig разбирает флаги командной строки и переменные окружения.
// Приоритет: флаг > переменная окружения QRSCAN_* > значение по умолчанию.
func LoadConfig(args []string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("qrscan-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for session token signing (random if empty)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Session lifetime without activity")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Session token lifetime, not shorter than session-ttl")
	fs.DurationVar(&cfg.JanitorInterval, "janitor-interval", cfg.JanitorInterval, "Idle session cleanup interval")
	fs.Int64Var(&cfg.Limits.MaxBytes, "max-image-bytes", cfg.Limits.MaxBytes, "Maximum uploaded image size in bytes")
	fs.IntVar(&cfg.Limits.MaxPixels, "max-image-pixels", cfg.Limits.MaxPixels, "Maximum image area in pixels")
	fs.IntVar(&cfg.ScanRateLimit, "scan-rate", cfg.ScanRateLimit, "Scan requests allowed per client per window (0 disables)")
	fs.DurationVar(&cfg.ScanRateWindow, "scan-rate-window", cfg.ScanRateWindow, "Scan rate limit window")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	// Живость сессии определяет строка в хранилище, токен не должен истекать раньше
	if c.TokenTTL < c.SessionTTL {
		return errors.New("token ttl cannot be shorter than session ttl")
	}
	if c.JanitorInterval <= 0 {
		return errors.New("janitor interval must be positive")
	}
	if c.Limits.MaxBytes <= 0 {
		return errors.New("max image bytes must be positive")
	}
	if c.Limits.MaxPixels <= 0 {
		return errors.New("max image pixels must be positive")
	}
	if c.ScanRateLimit < 0 {
		return errors.New("scan rate cannot be negative")
	}
	if c.ScanRateLimit > 0 && c.ScanRateWindow <= 0 {
		return errors.New("scan rate window must be positive")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format: %s", c.LogFormat)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	env := func(name string) string {
		return strings.TrimSpace(getenv(envPrefix + name))
	}

	if v := env("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := env("SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}

	durations := map[string]*time.Duration{
		"SESSION_TTL":      &cfg.SessionTTL,
		"TOKEN_TTL":        &cfg.TokenTTL,
		"JANITOR_INTERVAL": &cfg.JanitorInterval,
		"SCAN_RATE_WINDOW": &cfg.ScanRateWindow,
	}
	for name, target := range durations {
		if v := env(name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
			}
			*target = d
		}
	}

	if v := env("MAX_IMAGE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sMAX_IMAGE_BYTES: %w", envPrefix, err)
		}
		cfg.Limits.MaxBytes = n
	}

	ints := map[string]*int{
		"MAX_IMAGE_PIXELS": &cfg.Limits.MaxPixels,
		"SCAN_RATE":        &cfg.ScanRateLimit,
	}
	for name, target := range ints {
		if v := env(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
			}
			*target = n
		}
	}

	return nil
}

// NewLogger создает slog.Logger по настройкам конфигурации
func NewLogger(w io.Writer, cfg Config) (*slog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
	return level, nil
}
