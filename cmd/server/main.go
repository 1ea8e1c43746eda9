package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hackmap/internal/app"
	"hackmap/internal/config"
	"hackmap/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootstrap, cleanup, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap app")
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Error().Err(err).Msg("cleanup error")
		}
	}()

	addr, err := app.ListenAddr(cfg.HTTP.Port)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid HTTP port")
	}

	treeErr := bootstrap.Tree.ServeBackground(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
		}
		stop()
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}

	if err := <-treeErr; err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("supervisor stopped")
	}
}
