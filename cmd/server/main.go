package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/qrscan/internal/server"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := server.LoadConfig(os.Args[1:], os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage()
			return nil
		}
		return err
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		return nil
	}

	logger, err := server.NewLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger, Version)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error("Failed to close server", "error", err)
		}
	}()

	if cfg.SessionSecret == "" {
		logger.Warn("Session secret not set, tokens will not survive restart")
	}

	logger.Info("QRScan server starting",
		"version", Version,
		"session_ttl", cfg.SessionTTL,
		"token_ttl", cfg.TokenTTL,
		"max_image_bytes", cfg.Limits.MaxBytes)

	return srv.Run(ctx)
}

func printUsage() {
	fmt.Println("Usage: qrscan-server [flags]")
	fmt.Println()
	fmt.Println("Flags (environment variable in brackets):")
	fmt.Println("  -addr              HTTP listen address [QRSCAN_ADDR] (default :8080)")
	fmt.Println("  -log-level         debug, info, warn, error [QRSCAN_LOG_LEVEL]")
	fmt.Println("  -log-format        text or json [QRSCAN_LOG_FORMAT]")
	fmt.Println("  -session-secret    token signing secret [QRSCAN_SESSION_SECRET]")
	fmt.Println("  -session-ttl       idle session lifetime [QRSCAN_SESSION_TTL]")
	fmt.Println("  -janitor-interval  idle session cleanup interval [QRSCAN_JANITOR_INTERVAL]")
	fmt.Println("  -max-image-bytes   upload size limit [QRSCAN_MAX_IMAGE_BYTES]")
	fmt.Println("  -max-image-pixels  image area limit [QRSCAN_MAX_IMAGE_PIXELS]")
	fmt.Println("  -scan-rate         scans per client per window, 0 disables [QRSCAN_SCAN_RATE]")
	fmt.Println("  -scan-rate-window  rate limit window [QRSCAN_SCAN_RATE_WINDOW]")
	fmt.Println("  -version           show version information")
}

func printVersion() {
	fmt.Printf("QRScan Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
