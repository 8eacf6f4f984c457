package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dinecat/dinecat/internal/config"
	"github.com/dinecat/dinecat/internal/slogutil"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dinecat catalog API server",
		Long:  `Start the catalog API server and, if enabled, the periodic sheet reconciliation.`,
		RunE:  runServe,
	}

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		slog.Default().Error("failed to load config", "err", err)
		return err
	}

	logger := slogutil.Setup(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("Starting dinecat server",
		"log_file", cfg.Log.File,
		"log_level", cfg.Log.Level,
		"database", cfg.Database.Path,
		"sheet_sync", cfg.Sheet.Enabled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "err", err)
		return err
	}
	defer app.close()

	if err := app.reconciler.Start(ctx); err != nil {
		logger.Error("failed to start reconciler", "err", err)
		return err
	}

	fiberApp := createFiberApp(logger)
	app.registerRoutes(fiberApp, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := fiberApp.Listen(addr); err != nil {
			logger.Error("HTTP server error", "err", err)
			cancel()
		}
	}()
	logger.Info("HTTP server listening", "addr", addr)

	signalHandler(ctx)

	app.reconciler.Stop()

	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("failed to shut down HTTP server", "err", err)
	}

	logger.Info("dinecat server shutting down gracefully")
	return nil
}

func signalHandler(ctx context.Context) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-c:
	}
}
