package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hackmap/internal/config"
	"hackmap/internal/database"
	dbpostgres "hackmap/internal/database/postgres"
	"hackmap/internal/infrastructure/cache"
	"hackmap/internal/infrastructure/metrics"
)

// Container owns the process wide connections. The command line tool builds
// one without the HTTP layer.
type Container struct {
	Config  config.Config
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
	DB      database.DB
	Cache   *cache.Redis
}

func NewContainer(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Container, error) {
	m := metrics.New()

	connectCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.MaxRetries+1)*cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := dbpostgres.ConnectWithRetry(connectCtx, cfg.Database, logger, m.DBConnectRetry)
	if err != nil {
		return nil, err
	}

	db := dbpostgres.NewRetryingDB(pool, dbpostgres.RetryPolicy{
		MaxRetries: cfg.Database.MaxRetries,
		Delay:      cfg.Database.RetryDelay,
		OnRetry:    m.DBConnectRetry,
	}, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		DB:      db,
		Cache:   cache.NewRedis(cfg.Redis, logger),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			c.Logger.Warn().Err(err).Msg("close cache")
		}
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
