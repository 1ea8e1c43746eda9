package cache

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"hackmap/internal/config"
)

const (
	defaultTTL     = 600 * time.Second
	defaultLockTTL = 30 * time.Second
	scanBatch      = 200
)

var ErrUnavailable = errors.New("redis unavailable")

// releaseScript deletes a lock only while it still carries the caller's
// token, so an expired lock re-taken by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Redis is a best-effort cache. When the server cannot be reached at
// startup every read misses and every write is dropped, so callers keep
// working against the database alone.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(cfg config.RedisConfig, logger zerolog.Logger) *Redis {
	logger = logger.With().Str("component", "cache").Logger()
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, bypassing cache")
		_ = client.Close()
		return &Redis{ttl: ttl, logger: logger}
	}

	logger.Info().Str("addr", client.Options().Addr).Msg("redis connected")
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// NewRedisWithClient wraps an existing client without pinging it.
func NewRedisWithClient(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{client: client, ttl: ttl, logger: logger}
}

func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

func (r *Redis) TTL() time.Duration {
	return r.ttl
}

func (r *Redis) warnOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn().Err(err).Msg("redis error, bypassing cache")
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if !r.Available() {
		return ErrUnavailable
	}
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Available() {
		return nil
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnOnce(err)
		return err
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if !r.Available() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.warnOnce(err)
		return err
	}
	return nil
}

func (r *Redis) DeleteByPattern(ctx context.Context, pattern string) error {
	if !r.Available() {
		return nil
	}
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}

	iter := r.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			r.logger.Warn().Err(err).Str("pattern", pattern).Int("keys", len(batch)).Msg("redis delete")
		}
		batch = batch[:0]
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			flush()
		}
	}
	flush()
	return iter.Err()
}

// SetIfNotExists takes a lock key. Without a server there is nothing to
// coordinate with, so the caller always wins.
func (r *Redis) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if !r.Available() {
		return true, nil
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	ok, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		r.warnOnce(err)
		return false, err
	}
	return ok, nil
}

// DeleteIfValue removes key when its value equals value and reports whether
// it did.
func (r *Redis) DeleteIfValue(ctx context.Context, key, value string) (bool, error) {
	if !r.Available() {
		return true, nil
	}
	n, err := releaseScript.Run(ctx, r.client, []string{key}, value).Int()
	if err != nil {
		r.warnOnce(err)
		return false, err
	}
	return n == 1, nil
}
