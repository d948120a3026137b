package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go-bookshelf/internal/app"
	"go-bookshelf/internal/config"
	"go-bookshelf/internal/logger"
)

var envFile string

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Bookshelf API server with cookie-based JWT sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		// The level is unknown until config loads.
		slog.SetDefault(logger.New(os.Stdout, "info"))
		slog.Error("failed to load config", "error", err)
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		return err
	}

	if err := application.Run(ctx); err != nil {
		slog.Error("application run failed", "error", err)
		return err
	}

	return nil
}
