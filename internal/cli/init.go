// Package cli provides the process setup shared by the binaries: logging,
// .env loading, config validation and signal-driven shutdown.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budget/internal/config"
	applog "budget/internal/log"
)

// SetupLogger initializes structured logging at the given level and sets it
// as the default logger.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ShutdownFunc stops a component within the deadline carried by ctx.
type ShutdownFunc func(ctx context.Context) error

// WaitForShutdown blocks until ctx is done, then runs each shutdown step in
// order under a shared timeout. It is meant to run inside an errgroup next
// to the components it stops.
func WaitForShutdown(ctx context.Context, logger *applog.Logger, timeout time.Duration, steps ...ShutdownFunc) error {
	<-ctx.Done()
	logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, step := range steps {
		if step == nil {
			continue
		}
		if err := step(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		logger.Warn("Shutdown timeout reached", "timeout", timeout.String())
	} else {
		logger.Info("Shutdown complete")
	}
	return errors.Join(errs...)
}
