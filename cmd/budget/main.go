package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"budget/internal/backend"
	"budget/internal/cli"
	apphttp "budget/internal/http"
	applog "budget/internal/log"
	"budget/internal/store"
)

func main() {
	cli.LoadEnvFile()

	// Log at info until the configured level is known.
	logger := cli.SetupLogger("info")
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	backendOpts, err := backend.OptionsFromConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	docs, err := backend.NewOpener(logger).Open(ctx, backendOpts)
	if err != nil {
		logger.Error("Failed to open document store", applog.FieldError, err, "backend", backendOpts.Kind.String())
		os.Exit(1)
	}

	storeLogger := logger.WithComponent(applog.ComponentStore)
	expenses := store.NewExpenseStore(ctx, store.NewExpenseDocuments(docs.KV), store.WithLogger(storeLogger))
	theme := store.NewThemeStore(ctx, store.NewThemeDocuments(docs.KV), store.WithLogger(storeLogger))

	srv := apphttp.NewServer(cfg.Addr(), expenses, theme,
		apphttp.WithLogger(logger.WithComponent(applog.ComponentHTTP)),
		apphttp.WithRecentLimit(cfg.RecentLimit),
		apphttp.WithRateLimit(cfg.RateLimitPerMinute),
		apphttp.WithReadinessCheck(docs.Ready),
	)
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting budget server",
			"port", cfg.Port,
			"backend", docs.Kind.String(),
			applog.FieldOperation, applog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return cli.WaitForShutdown(gctx, logger, cfg.ShutdownTimeout,
			srv.Shutdown,
			func(context.Context) error { return docs.Close() },
		)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
