package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hackmap/internal/database"
)

// Seeder inserts fixture rows and must be safe to run repeatedly. Name is
// what --only selects on.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Runner applies seeders in order. When Only is non-empty, seeders whose
// name is not listed are skipped.
type Runner struct {
	Seeders []Seeder
	Only    []string
	Logger  zerolog.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil || !r.selected(s.Name()) {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		r.Logger.Info().Str("seeder", s.Name()).Dur("took", time.Since(start)).Msg("seeder applied")
	}
	return nil
}

func (r Runner) selected(name string) bool {
	if len(r.Only) == 0 {
		return true
	}
	for _, n := range r.Only {
		if n == name {
			return true
		}
	}
	return false
}
