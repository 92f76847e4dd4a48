// Package cli holds the bp command tree and the initialization shared by
// cmd/bp and cmd/bp-alerts.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budgetplanner/internal/auth"
	"budgetplanner/internal/backend"
	"budgetplanner/internal/config"
	"budgetplanner/internal/log"
	"budgetplanner/internal/services"

	"github.com/joho/godotenv"
)

// SetupLogger builds the process logger on stderr so command output on
// stdout stays clean, and sets it as the default logger.
func SetupLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads the config file (config.Path when path is
// empty) with environment overrides and validates it.
func LoadAndValidateConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OpenPlanner wires a planner from configuration: logger, row store with its
// header check, and the alert publisher. The returned func releases the
// backend.
func OpenPlanner(ctx context.Context, configPath string) (*services.Planner, func() error, error) {
	cfg, err := LoadAndValidateConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := SetupLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s backend: %w", bcfg.Type, err)
	}

	planner := services.NewPlanner(res.Store, services.Options{
		Hasher:           auth.NewBcryptHasher(cfg.BcryptCost),
		Alerts:           res.Alerts,
		Logger:           logger,
		DefaultListLimit: cfg.DefaultListLimit,
	})
	return planner, res.Close, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.InfoContext(ctx, "Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()

		finished := make(chan struct{})
		go func() {
			if cleanup != nil {
				cleanup()
			}
			close(finished)
		}()

		select {
		case <-shutdownCtx.Done():
			logger.WarnContext(shutdownCtx, "Shutdown timeout reached")
		case <-finished:
			logger.InfoContext(shutdownCtx, "Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
