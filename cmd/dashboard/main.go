// Command dashboard serves the crash-insights dashboard: it loads the
// crash-report CSV once at startup, then serves the interactive page and
// JSON API until interrupted.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/crash-insights/internal/adapter/web"
	"github.com/couchcryptid/crash-insights/internal/config"
	"github.com/couchcryptid/crash-insights/internal/dataset"
	"github.com/couchcryptid/crash-insights/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// One-shot load; a missing or malformed dataset is fatal.
	table, err := dataset.Load(cfg.DatasetPath, logger)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.DatasetPath, "error", err)
		os.Exit(1)
	}
	metrics.DatasetRows.Set(float64(table.Len()))
	metrics.DatasetDroppedBadTime.Set(float64(table.DroppedBadTime))
	metrics.DatasetDroppedWeather.Set(float64(table.DroppedWeather))

	srv := web.NewServer(cfg.HTTPAddr, table, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
