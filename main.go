package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/symptoms-api/config"
	"github.com/giygas/symptoms-api/data"
	"github.com/giygas/symptoms-api/dataset"
	"github.com/giygas/symptoms-api/diagnosis"
	"github.com/giygas/symptoms-api/handlers"
	"github.com/giygas/symptoms-api/health"
	"github.com/giygas/symptoms-api/interfaces"
	"github.com/giygas/symptoms-api/logging"
	"github.com/giygas/symptoms-api/scheduler"
	"github.com/giygas/symptoms-api/server"
	"github.com/giygas/symptoms-api/session"
	"github.com/giygas/symptoms-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	loadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	logging.InitLogger(logging.Options{
		Dir:            cfg.LogDir,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})

	if err := run(cfg); err != nil {
		logging.Error("Server stopped with error", "error", err)
		logging.Close()
		os.Exit(1)
	}

	logging.Close()
}

// loadEnvFile reads .env from the working directory, falling back to the
// directory of the executable
func loadEnvFile() {
	if err := godotenv.Load(); err == nil {
		return
	}

	ex, err := os.Executable()
	if err != nil {
		slog.Warn("Failed to get executable path", "error", err)
		return
	}

	exPath := filepath.Dir(ex)
	if err := os.Chdir(exPath); err != nil {
		slog.Warn("Failed to change directory", "error", err)
		return
	}

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables only")
	}
}

func run(cfg *config.Config) error {
	container := data.NewDataContainer()
	container.SetServerStartTime(time.Now())

	loader := dataset.NewFileLoader(cfg.DiseasesFile, cfg.LabelsFile, cfg.MappingFile)
	ds, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	report := validation.NewDataValidator().ReportDatasetQuality(ds)
	validation.LogReport(report)
	container.SetDataset(ds, report)

	store, sweeper, closeStore, err := newSessionStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logging.Warn("Failed to close session store", "error", err)
		}
	}()

	engine := diagnosis.NewEngine(container, store)
	pinger, _ := store.(interfaces.SessionPinger)
	handler := handlers.NewHTTPHandler(container, engine, health.NewHealthChecker(container, sweeper, pinger))

	sched := scheduler.NewScheduler(sweeper, cfg.SessionSweepInterval)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logging.Info("Received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

// newSessionStore builds the configured session store. The sweeper is nil
// when the store expires sessions on its own.
func newSessionStore(cfg *config.Config) (interfaces.SessionStore, interfaces.SessionSweeper, func() error, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := session.NewRedisStore(ctx, session.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.SessionKeyPrefix,
			TTL:      cfg.SessionTTL,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect session store: %w", err)
		}

		logging.Info("Using Redis session store", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return store, nil, store.Close, nil

	default:
		store := session.NewMemoryStore(cfg.SessionTTL)
		logging.Info("Using in-memory session store", "ttl", cfg.SessionTTL.String())
		return store, store, func() error { return nil }, nil
	}
}
