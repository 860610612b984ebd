package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"glicosmart/internal/adapter/file"
	adapthttp "glicosmart/internal/adapter/http"
	"glicosmart/internal/adapter/memory"
	"glicosmart/internal/adapter/postgres"
	"glicosmart/internal/adapter/sqlite"
	"glicosmart/internal/advice"
	"glicosmart/internal/app"
	"glicosmart/internal/config"
	"glicosmart/internal/domain"
	"glicosmart/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logging.Sync(logger) }()

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", zap.Error(err))
		_ = logging.Sync(logger)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	slot, closer, err := openSlot(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = closer.Close() }()

	ctx := context.Background()
	store, err := app.Open(ctx, slot, app.WithLogger(logger.Named("store")), app.WithLocation(loc))
	if err != nil {
		return err
	}
	fields := []zap.Field{
		zap.String("driver", cfg.Storage.Driver),
		zap.Int("accounts", len(store.Root())),
		zap.String("active", store.ActiveAccountID()),
	}
	if db, ok := slot.(*sqlite.DB); ok {
		if at, err := db.UpdatedAt(ctx); err != nil {
			logger.Warn("read last write time", zap.Error(err))
		} else if !at.IsZero() {
			fields = append(fields, zap.Time("last_write", at))
		}
	}
	logger.Info("storage ready", fields...)

	if fs, ok := slot.(*file.Slot); ok && cfg.Storage.Watch {
		w, err := file.NewWatcher(fs, store.NotifyExternalWrite, logger.Named("watcher"))
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer w.Stop()
	}

	srv := adapthttp.New(store, advice.NewResponder(nil), cfg.Server.WebDir, loc, logger.Named("http"))
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if err := waitForShutdown(logger, httpServer, errCh); err != nil {
		return err
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Flush(flushCtx); err != nil {
		logger.Error("unsaved changes lost on shutdown", zap.Error(err))
	}
	return nil
}

// openSlot builds the storage slot for the configured driver. The returned
// closer releases any database handle.
func openSlot(cfg config.StorageConfig) (domain.Slot, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), io.NopCloser(nil), nil
	case config.DriverFile:
		s, err := file.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, io.NopCloser(nil), nil
	case config.DriverSQLite:
		if err := ensureDBDir(cfg.Path); err != nil {
			return nil, nil, fmt.Errorf("create database dir: %w", err)
		}
		db, err := sqlite.Open(cfg.Path, cfg.Key)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL, cfg.Key)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o700)
}

func waitForShutdown(logger *zap.Logger, server *http.Server, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	return nil
}
