package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hackmap/internal/config"
	"hackmap/internal/database"
)

type ConnectFunc func(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error)

// Retrier reconnects with a fixed delay between attempts. OnRetry, when set,
// is called after every failed attempt that will be retried.
type Retrier struct {
	Connect ConnectFunc
	Logger  zerolog.Logger
	OnRetry func(attempt int, err error)

	sleep func(ctx context.Context, d time.Duration) error
}

func ConnectWithRetry(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger, onRetry func(int, error)) (database.DB, error) {
	r := Retrier{Connect: Connect, Logger: logger, OnRetry: onRetry}
	return r.Do(ctx, cfg)
}

func (r Retrier) Do(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	connect := r.Connect
	if connect == nil {
		connect = Connect
	}
	sleep := r.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx := ctx
		var cancel context.CancelFunc = func() {}
		if cfg.ConnectTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		}
		db, err := connect(attemptCtx, cfg)
		cancel()
		if err == nil {
			if attempt > 1 {
				r.Logger.Info().Int("attempt", attempt).Msg("database connected after retry")
			}
			return db, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		r.Logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Dur("retry_in", cfg.RetryDelay).
			Msg("database connect failed")
		if r.OnRetry != nil {
			r.OnRetry(attempt, err)
		}
		if err := sleep(ctx, cfg.RetryDelay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("connect database after %d attempts: %w", attempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
