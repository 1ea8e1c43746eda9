package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hackmap/internal/config"
)

// New builds the process logger. Format "console" gives human readable output,
// anything else is JSON.
func New(cfg config.Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

func NewWithWriter(cfg config.Config, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := ParseLevel(cfg.Log.Level)
	zerolog.SetGlobalLevel(level)

	w := out
	if strings.EqualFold(strings.TrimSpace(cfg.Log.Format), "console") {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if name := strings.TrimSpace(cfg.App.AppName); name != "" {
		ctx = ctx.Str("app", name)
	}
	if env := strings.TrimSpace(cfg.App.Environment); env != "" {
		ctx = ctx.Str("env", env)
	}
	return ctx.Logger()
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
