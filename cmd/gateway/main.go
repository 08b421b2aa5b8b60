package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"songframe/internal/gateway/app"
	"songframe/internal/gateway/config"
)

var (
	verbose   bool
	overrides config.Overrides

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Serve the song picker and click counter frames",
	Long: `gateway serves two Farcaster frames over HTTP.

  /       walks pop, rock and rap songs and suggests a new one from your likes
  /third  counts button presses

Settings come from .env, the environment and the flags below.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&overrides.Port, "port", "", "Listen address, e.g. :3000 (or set PORT)")
	rootCmd.Flags().StringVar(&overrides.Env, "env", "", "Environment name (or set APP_ENV)")
	rootCmd.Flags().StringVar(&overrides.PublicURL, "public-url", "", "Externally visible base URL (or set PUBLIC_URL)")
}

func run(ctx context.Context) error {
	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return err
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("server exiting")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
