package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "hackmap")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv(EnvFileEnvVar, filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv(EnvFileEnvVar, filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{"APP_NAME", "APP_ENV", "HTTP_PORT", "JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET"} {
		t.Setenv(k, "")
	}

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected errMissingRequiredEnv, got %v", err)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.PoolMaxConns != 10 {
		t.Fatalf("expected pool max conns 10, got %d", cfg.Database.PoolMaxConns)
	}
	if cfg.Database.ConnectTimeout != 20*time.Second || cfg.Database.AcquireTimeout != 10*time.Second {
		t.Fatalf("unexpected timeouts: %+v", cfg.Database)
	}
	if cfg.Database.MaxRetries != 3 || cfg.Database.RetryDelay != time.Second {
		t.Fatalf("unexpected retry defaults: %+v", cfg.Database)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 587 {
		t.Fatalf("unexpected smtp defaults: %+v", cfg.SMTP)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_POOL_MAX_CONNS", "25")
	t.Setenv("DB_RETRY_DELAY", "250ms")
	t.Setenv("DB_RUN_MIGRATIONS", "true")
	t.Setenv("CRON_SECRET", "s3cret")
	t.Setenv("APP_BASE_URL", "https://hackmap.dev/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.PoolMaxConns != 25 {
		t.Fatalf("expected 25, got %d", cfg.Database.PoolMaxConns)
	}
	if cfg.Database.RetryDelay != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", cfg.Database.RetryDelay)
	}
	if !cfg.Database.RunMigrations {
		t.Fatalf("expected run migrations enabled")
	}
	if cfg.Cron.Secret != "s3cret" {
		t.Fatalf("expected cron secret, got %q", cfg.Cron.Secret)
	}
	if cfg.App.BaseURL != "https://hackmap.dev" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.App.BaseURL)
	}
}

func TestLoad_YAMLFileBelowEnv(t *testing.T) {
	setRequired(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "redis:\n  host: cache.internal\n  port: \"6380\"\nratelimit:\n  requests: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("REDIS_PORT", "6390")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redis.Host != "cache.internal" {
		t.Fatalf("expected yaml host, got %q", cfg.Redis.Host)
	}
	if cfg.Redis.Port != "6390" {
		t.Fatalf("expected env to win, got %q", cfg.Redis.Port)
	}
	if cfg.RateLimit.Requests != 5 {
		t.Fatalf("expected 5, got %d", cfg.RateLimit.Requests)
	}
}

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"DB_POOL_MAX_CONNS": "db.pool_max_conns",
		"HTTP_PORT":         "http.port",
		"PATH":              "",
		"HACKMAP_CONFIG":    "",
		"APP_":              "",
	}
	for in, want := range cases {
		if got := envKey(in); got != want {
			t.Fatalf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}
