package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"hackmap/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithWriter_JSONCarriesAppFields(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.App.AppName = "hackmap"
	cfg.App.Environment = "test"
	cfg.Log.Level = "info"

	l := NewWithWriter(cfg, &buf)
	l.Info().Str("k", "v").Msg("hello")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if got["app"] != "hackmap" || got["env"] != "test" || got["message"] != "hello" || got["k"] != "v" {
		t.Fatalf("unexpected fields: %v", got)
	}
}
