package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job runs one scheduled pass. now is the tick time.
type Job func(ctx context.Context, now time.Time) error

// Interval runs a job on a fixed period and is meant to be supervised: Serve
// returns only when ctx is done. A failing pass is logged and the next tick
// proceeds normally.
type Interval struct {
	name     string
	every    time.Duration
	runFirst bool
	job      Job
	logger   zerolog.Logger
	now      func() time.Time
}

func NewInterval(name string, every time.Duration, runFirst bool, job Job, logger zerolog.Logger) *Interval {
	if every <= 0 {
		every = 24 * time.Hour
	}
	return &Interval{
		name:     name,
		every:    every,
		runFirst: runFirst,
		job:      job,
		logger:   logger.With().Str("job", name).Logger(),
		now:      time.Now,
	}
}

func (s *Interval) String() string { return s.name }

func (s *Interval) Serve(ctx context.Context) error {
	s.logger.Info().Dur("every", s.every).Msg("scheduler started")

	if s.runFirst {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Interval) runOnce(ctx context.Context) {
	start := s.now()
	if err := s.job(ctx, start); err != nil {
		s.logger.Error().Err(err).Msg("scheduled run failed")
		return
	}
	s.logger.Debug().Dur("took", time.Since(start)).Msg("scheduled run finished")
}
