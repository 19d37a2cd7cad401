package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/coworking-booking-backend/internal/app"
	"github.com/nekogravitycat/coworking-booking-backend/internal/config"
	"github.com/nekogravitycat/coworking-booking-backend/internal/db"
	"github.com/nekogravitycat/coworking-booking-backend/internal/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	var pool *pgxpool.Pool
	if cfg.Storage == config.StoragePostgres {
		if cfg.MigrateOnStart {
			if err := db.Migrate(cfg.DBDSN); err != nil {
				return err
			}
			slog.Info("database migrations applied")
		}

		// Connect DB
		p, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer p.Close()
		pool = p
	}

	container, err := app.NewContainer(ctx, cfg, pool)
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			slog.Warn("failed to close container", "error", err)
		}
	}()

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server running",
			"addr", cfg.HTTPAddr,
			"storage", cfg.Storage,
			"lock_backend", cfg.LockBackend,
			"timezone", cfg.Location.String(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for Ctrl+C or a listener failure
	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("server forced to shutdown", "error", err)
	}
	return nil
}
