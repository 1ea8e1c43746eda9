package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hackmap/internal/app"
	"hackmap/internal/config"
	"hackmap/internal/pkg/logger"
)

const binary = "hackmapctl"

var (
	cfgFile  string
	logLevel string

	rootCmd = &cobra.Command{
		Use:           binary,
		Short:         "hackmapctl runs HackMap maintenance tasks against the configured database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (overrides "+config.ConfigPathEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default from LOG_LEVEL)")

	rootCmd.AddCommand(migrateCmd, seedCmd, remindCmd)
}

// withContainer loads configuration, connects and hands the container to fn.
func withContainer(ctx context.Context, fn func(ctx context.Context, c *app.Container, log zerolog.Logger) error) error {
	if cfgFile != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, cfgFile); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log := logger.New(cfg)

	c, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("close container")
		}
	}()

	return fn(ctx, c, log)
}
