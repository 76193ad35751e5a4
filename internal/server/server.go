// Package server собирает HTTP сервис сканирования QR-кодов.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/qrscan/internal/scan"
	"github.com/iudanet/qrscan/internal/server/handlers"
	"github.com/iudanet/qrscan/internal/server/middleware"
	"github.com/iudanet/qrscan/internal/server/storage/sqlite"
)

// multipartOverhead запас на заголовки multipart сверх лимита изображения
const multipartOverhead = 1 << 20

// Server HTTP сервис с историей сессий в памяти
type Server struct {
	cfg     Config
	logger  *slog.Logger
	store   *sqlite.Storage
	limiter *middleware.RateLimiter
	janitor *Janitor
	handler http.Handler
}

// New создает сервис. История хранится в SQLite в памяти и не переживает рестарт.
func New(ctx context.Context, cfg Config, logger *slog.Logger, version string) (*Server, error) {
	key, err := handlers.DeriveSigningKey(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.New(ctx, sqlite.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		janitor: NewJanitor(store, logger, cfg.SessionTTL, cfg.JanitorInterval),
	}

	if cfg.ScanRateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.ScanRateLimit, cfg.ScanRateWindow, logger)
	}

	tokens := handlers.TokenConfig{Secret: key, TTL: cfg.TokenTTL}
	pipeline := scan.NewPipeline(scan.NewZXingDetector(), logger)

	s.handler = s.routes(tokens, pipeline, version)

	return s, nil
}

// Handler возвращает корневой http.Handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(tokens handlers.TokenConfig, decoder handlers.Decoder, version string) http.Handler {
	health := handlers.NewHealthHandler(s.logger, s.store, version)
	sessions := handlers.NewSessionHandler(s.logger, s.store, s.store, tokens)
	scans := handlers.NewScanHandler(s.logger, decoder, s.store, s.store, s.cfg.Limits)
	history := handlers.NewHistoryHandler(s.logger, s.store)

	authed := middleware.SessionMiddleware(s.logger, tokens, s.store)

	scanChain := []func(http.Handler) http.Handler{authed}
	if s.limiter != nil {
		scanChain = append([]func(http.Handler) http.Handler{middleware.RateLimitMiddleware(s.limiter, s.logger)}, scanChain...)
	}
	scanChain = append(scanChain, middleware.MaxBodyBytes(s.cfg.Limits.MaxBytes+multipartOverhead))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", health.Health)
	mux.Handle("POST /api/v1/sessions", middleware.MaxBodyBytes(4096)(http.HandlerFunc(sessions.Create)))
	mux.Handle("GET /api/v1/session", authed(http.HandlerFunc(sessions.Get)))
	mux.Handle("DELETE /api/v1/session", authed(http.HandlerFunc(sessions.Delete)))
	mux.Handle("PUT /api/v1/session/options", authed(http.HandlerFunc(sessions.UpdateOptions)))
	mux.Handle("POST /api/v1/scan", middleware.Chain(http.HandlerFunc(scans.Scan), scanChain...))
	mux.Handle("POST /api/v1/scan/export", middleware.Chain(http.HandlerFunc(scans.ScanExport), scanChain...))
	mux.Handle("GET /api/v1/history", authed(http.HandlerFunc(history.List)))
	mux.Handle("DELETE /api/v1/history", authed(http.HandlerFunc(history.Clear)))
	mux.Handle("GET /api/v1/history/export", authed(http.HandlerFunc(history.Export)))

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger, "/api/v1/health"),
	)
}

// Run слушает адрес из конфигурации до отмены контекста, затем корректно завершает работу
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	janitorCtx, cancelJanitor := context.WithCancel(ctx)
	defer cancelJanitor()
	go s.janitor.Run(janitorCtx)

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("QRScan server listening", "addr", s.cfg.Addr)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

// Close освобождает ресурсы сервиса
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.store.Close()
}
