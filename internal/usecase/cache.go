package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cache is the best-effort store in front of expensive reads. A nil error
// with found=false means a miss; implementations bypass silently when the
// backend is down.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	DeleteIfValue(ctx context.Context, key, value string) (bool, error)
}

const (
	matchmakingKeyPrefix = "matchmaking:"
	StatsCacheKey        = "stats:global"
	ReminderLockKey      = "cron:deadline-reminders:lock"
)

func MatchmakingCacheKey(userID uuid.UUID) string {
	return matchmakingKeyPrefix + userID.String()
}

// MatchmakingCachePattern matches every user's cached recommendations. Team
// membership changes affect other users' candidate lists, so they clear all.
func MatchmakingCachePattern() string {
	return matchmakingKeyPrefix + "*"
}

// NopCache never hits and never stores.
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (NopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, string) error                      { return nil }
func (NopCache) DeleteByPattern(context.Context, string) error             { return nil }
func (NopCache) DeleteIfValue(context.Context, string, string) (bool, error) {
	return true, nil
}
func (NopCache) SetIfNotExists(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}
