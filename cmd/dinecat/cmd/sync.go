package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dinecat/dinecat/internal/config"
	"github.com/dinecat/dinecat/internal/slogutil"
)

func init() {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a single sheet reconciliation pass and exit",
		RunE:  runSync,
	}

	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		slog.Default().Error("failed to load config", "err", err)
		return err
	}
	if cfg.Sheet.URL == "" {
		slog.Default().Error("sheet url is not configured")
		return cmd.Help()
	}

	logger := slogutil.Setup(cfg.Log)
	slog.SetDefault(logger)

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "err", err)
		return err
	}
	defer app.close()

	if err := app.reconciler.RunOnce(context.Background()); err != nil {
		logger.Error("reconciliation failed", "err", err)
		return err
	}

	return nil
}
