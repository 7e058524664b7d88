// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/nutrilog and cmd/nutrilog-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nutrilog/internal/amqp"
	"nutrilog/internal/config"
	nlog "nutrilog/internal/log"
	"nutrilog/internal/services"
	"nutrilog/internal/sheets"
	gsheet "nutrilog/internal/sheets/google"
	mem "nutrilog/internal/sheets/memory"
	"nutrilog/internal/storage"
)

// SetupLogger initializes structured logging at the given level.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level, component string) *nlog.Logger {
	cfg := nlog.DefaultConfig()
	cfg.Level = nlog.ParseLevel(level)
	cfg.Component = component
	logger := nlog.New(cfg)
	nlog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *nlog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the SQLite store, running migrations and the one-time
// catalog seed. opts override the configured options. Exits the process on
// failure.
func InitStore(ctx context.Context, logger *nlog.Logger, cfg *config.Config, opts ...storage.Option) *storage.SQLiteRepository {
	opts = append([]storage.Option{storage.WithSeedCatalog(cfg.SeedCatalog)}, opts...)
	repo, err := storage.NewSQLiteRepository(ctx, cfg.SQLiteDBPath, opts...)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	logger.Info("SQLite repository ready", "path", cfg.SQLiteDBPath)
	return repo
}

// InitAMQP connects to the broker when AMQP is configured. It returns nil
// when change events are disabled.
func InitAMQP(logger *nlog.Logger, cfg *config.Config) *amqp.Client {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP disabled - no AMQP_URL provided")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// Publisher adapts an optional AMQP client to services.Publisher. A nil
// client yields a nil interface, not a typed nil.
func Publisher(client *amqp.Client) services.Publisher {
	if client == nil {
		return nil
	}
	return client
}

// InitTotalsWriter returns the Google Sheets writer when a spreadsheet is
// configured and an in-memory writer otherwise.
func InitTotalsWriter(ctx context.Context, logger *nlog.Logger, cfg *config.Config) sheets.TotalsWriter {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled - totals kept in memory")
		return mem.New()
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that is cancelled on shutdown signals or when parent is
// done, and a channel that is closed once cleanup has finished or timed out.
func GracefulShutdown(parent context.Context, logger *nlog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
			logger.Info("Context cancelled")
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
			close(finished)
		}()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-finished:
			logger.Info("Shutdown complete")
		}
	}()

	return ctx, done
}
