package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"luxe/internal/config"
	"luxe/internal/export"
	"luxe/internal/sheets"
	gsheet "luxe/internal/sheets/google"
	"luxe/internal/sheets/memory"
	"luxe/internal/storage"
	"luxe/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting luxe-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if !cfg.ExportEnabled() {
		logger.Error("Export pipeline is not configured - set AMQP_URL")
		os.Exit(1)
	}

	store, err := storage.Open(storage.Backend(cfg.DataBackend), cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	// The worker mirrors rows into a Google spreadsheet when one is
	// configured, and into an in-memory sheet otherwise so the queue
	// still drains during local development.
	var appender sheets.RowAppender
	var remover sheets.RowRemover
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		appender, remover = client, client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		mem := memory.New()
		appender, remover = mem, mem
		logger.Info("Google Sheets disabled - using in-memory sheet")
	}

	consumer, err := export.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncWorker := worker.NewSyncWorker(store, appender, remover)

	// Rebuild the sheet on startup so events missed while the worker
	// was down are not lost.
	logger.Info("Performing startup resync...")
	if err := syncWorker.ResyncAll(ctx); err != nil {
		logger.Error("Startup resync failed", "error", err)
		// Don't exit - the event stream still keeps the sheet converging.
	}

	go func() {
		if err := consumer.ConsumeRecordEvents(ctx, syncWorker.HandleRecordEvent); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Event consumption failed", "error", err)
			}
			cancel()
		}
	}()

	ticker := time.NewTicker(cfg.ResyncInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := syncWorker.ResyncAll(ctx); err != nil {
					logger.Error("Periodic resync failed", "error", err)
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	logger.Info("Worker stopped gracefully")
}
