package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"luxe/internal/assistant"
	"luxe/internal/config"
	"luxe/internal/export"
	apphttp "luxe/internal/http"
	"luxe/internal/ledger"
	"luxe/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting luxe")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(storage.Backend(cfg.DataBackend), cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	l := ledger.New(store)
	if err := l.Load(context.Background()); err != nil {
		logger.Error("Failed to load ledger state", "error", err)
		os.Exit(1)
	}
	logger.Info("Ledger loaded",
		"backend", cfg.DataBackend,
		"expenses", len(l.Expenses()),
		"earnings", len(l.Earnings()))

	var asker apphttp.Asker
	if cfg.GeminiAPIKey != "" {
		asker = assistant.NewClient(cfg.GeminiAPIKey)
		logger.Info("Assistant enabled")
	} else {
		logger.Info("Assistant disabled - no GEMINI_API_KEY provided")
	}

	var exporter *export.Client
	if cfg.ExportEnabled() {
		exporter, err = export.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		logger.Info("Export pipeline enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Export pipeline disabled - no AMQP_URL provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, l, asker, cfg.MutationRateLimit)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if exporter != nil {
		events := l.Subscribe()
		g.Go(func() error {
			forwardEvents(gctx, exporter, events)
			return nil
		})
	}

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server failed", "error", err)
	}

	saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer saveCancel()
	if err := l.SaveAll(saveCtx); err != nil {
		logger.Error("Final save failed", "error", err)
	}
	if err := l.Close(); err != nil {
		logger.Error("Failed to close ledger", "error", err)
	}
	if exporter != nil {
		if err := exporter.Close(); err != nil {
			logger.Error("Failed to close AMQP client", "error", err)
		}
	}

	logger.Info("Server stopped gracefully")
}

// forwardEvents bridges ledger mutation events onto the export queue.
// Settings changes stay local; only record mutations are exported.
func forwardEvents(ctx context.Context, exporter *export.Client, events <-chan ledger.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Op == ledger.OpSettings {
				continue
			}
			msg := export.NewRecordEvent(string(ev.Op), ev.Kind, ev.ID)
			if err := exporter.PublishRecordEvent(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Failed to publish record event",
					"error", err, "op", ev.Op, "kind", ev.Kind, "id", ev.ID)
			}
		}
	}
}
