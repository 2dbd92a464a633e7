package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sebastien-chopin-dev/rne-dashboard/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		config.Log.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg config.Config

	root := &cobra.Command{
		Use:           "rne-dashboard",
		Short:         "Dashboard of French municipal councillors (RNE) by gender",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, envErr := config.LoadEnv()
			cfg = config.Load()
			if _, err := config.InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			if envErr != nil {
				config.Log.Warn("error loading .env file", zap.String("path", envFile), zap.Error(envErr))
			} else if envFile != "" {
				config.Log.Info("loaded environment file", zap.String("path", envFile))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = config.Log.Sync()
		},
	}

	serve := newServeCmd(&cfg)
	root.AddCommand(serve, newReportCmd(&cfg))
	root.RunE = serve.RunE
	return root
}
