package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	ConfigPathEnvVar = "HACKMAP_CONFIG"
	EnvFileEnvVar    = "HACKMAP_ENV_FILE"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	HTTP      HTTPConfig      `koanf:"http"`
	Database  DatabaseConfig  `koanf:"db"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	SMTP      SMTPConfig      `koanf:"smtp"`
	Cron      CronConfig      `koanf:"cron"`
	Log       LogConfig       `koanf:"log"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

type AppConfig struct {
	AppName     string `koanf:"name"`
	Environment string `koanf:"env"`
	BaseURL     string `koanf:"base_url"`
}

type HTTPConfig struct {
	Port        string        `koanf:"port"`
	CORSOrigins []string      `koanf:"cors_origins"`
	ReadTimeout time.Duration `koanf:"read_timeout"`
}

type DatabaseConfig struct {
	DBHost     string `koanf:"host"`
	DBPort     string `koanf:"port"`
	DBName     string `koanf:"name"`
	DBUser     string `koanf:"user"`
	DBPassword string `koanf:"password"`
	DBSSLMode  string `koanf:"ssl_mode"`

	PoolMaxConns          int32         `koanf:"pool_max_conns"`
	PoolMinConns          int32         `koanf:"pool_min_conns"`
	PoolMaxConnLifetime   time.Duration `koanf:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime   time.Duration `koanf:"pool_max_conn_idle_time"`
	PoolHealthCheckPeriod time.Duration `koanf:"pool_health_check_period"`
	ConnectTimeout        time.Duration `koanf:"connect_timeout"`
	AcquireTimeout        time.Duration `koanf:"acquire_timeout"`

	MaxRetries int           `koanf:"max_retries"`
	RetryDelay time.Duration `koanf:"retry_delay"`

	RunMigrations bool   `koanf:"run_migrations"`
	RunSeeders    bool   `koanf:"run_seeders"`
	MigrationsDir string `koanf:"migrations_dir"`
}

type RedisConfig struct {
	Host     string        `koanf:"host"`
	Port     string        `koanf:"port"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type JWTConfig struct {
	AccessSecret     string        `koanf:"access_secret"`
	RefreshSecret    string        `koanf:"refresh_secret"`
	AccessExpiresIn  time.Duration `koanf:"access_expires_in"`
	RefreshExpiresIn time.Duration `koanf:"refresh_expires_in"`
}

type SMTPConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
}

type CronConfig struct {
	Secret           string        `koanf:"secret"`
	Enabled          bool          `koanf:"enabled"`
	ReminderInterval time.Duration `koanf:"reminder_interval"`
	EmailWorkers     int           `koanf:"email_workers"`
	EmailRate        int           `koanf:"email_rate"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// sections are the env prefixes mapped into koanf paths; DB_POOL_MAX_CONNS
// becomes db.pool_max_conns.
var sections = map[string]struct{}{
	"app": {}, "http": {}, "db": {}, "redis": {}, "jwt": {}, "smtp": {},
	"cron": {}, "log": {}, "ratelimit": {}, "metrics": {},
}

func Default() Config {
	return Config{
		App: AppConfig{
			BaseURL: "http://localhost:3000",
		},
		HTTP: HTTPConfig{
			ReadTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			DBHost:              "localhost",
			DBPort:              "5432",
			DBSSLMode:           "disable",
			PoolMaxConns:        10,
			PoolMaxConnIdleTime: 30 * time.Second,
			ConnectTimeout:      20 * time.Second,
			AcquireTimeout:      10 * time.Second,
			MaxRetries:          3,
			RetryDelay:          time.Second,
			MigrationsDir:       "migrations",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
			TTL:  600 * time.Second,
		},
		JWT: JWTConfig{
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: 7 * 24 * time.Hour,
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Cron: CronConfig{
			ReminderInterval: 24 * time.Hour,
			EmailWorkers:     4,
			EmailRate:        5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		RateLimit: RateLimitConfig{
			Requests: 20,
			Window:   time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load layers defaults, an optional YAML file, an optional .env file and the
// process environment, in increasing precedence.
func Load() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv(EnvFileEnvVar))
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	section, rest, ok := strings.Cut(s, "_")
	if !ok || rest == "" {
		return ""
	}
	if _, known := sections[section]; !known {
		return ""
	}
	return section + "." + rest
}

func (c *Config) validate() error {
	var missing []string
	req := func(key, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}

	req("APP_NAME", c.App.AppName)
	req("APP_ENV", c.App.Environment)
	req("HTTP_PORT", c.HTTP.Port)
	req("JWT_ACCESS_SECRET", c.JWT.AccessSecret)
	req("JWT_REFRESH_SECRET", c.JWT.RefreshSecret)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	c.App.BaseURL = strings.TrimRight(strings.TrimSpace(c.App.BaseURL), "/")
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}
