package stats

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"hackmap/internal/repository"
	"hackmap/internal/usecase"
)

const CacheTTL = time.Minute

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Fallback is served whenever a count fails so the landing page never breaks.
var Fallback = []Stat{
	{Label: "Active Hackathons", Value: "3+"},
	{Label: "Registered Users", Value: "100+"},
	{Label: "Teams Formed", Value: "25+"},
	{Label: "Projects Created", Value: "50+"},
}

type Usecase interface {
	Global(ctx context.Context) []Stat
}

type Service struct {
	repo   repository.StatsRepository
	cache  usecase.Cache
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo repository.StatsRepository, cache usecase.Cache, logger zerolog.Logger) *Service {
	if cache == nil {
		cache = usecase.NopCache{}
	}
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

func (s *Service) Global(ctx context.Context) []Stat {
	var cached []Stat
	if ok, err := s.cache.GetJSON(ctx, usecase.StatsCacheKey, &cached); err == nil && ok && len(cached) > 0 {
		return cached
	}

	var hackathons, users, teams, projects int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		hackathons, err = s.repo.CountActiveHackathons(gctx, s.now().UTC())
		return err
	})
	g.Go(func() (err error) {
		users, err = s.repo.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		teams, err = s.repo.CountTeams(gctx)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.repo.CountProjects(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("global stats")
		return Fallback
	}

	out := []Stat{
		{Label: "Active Hackathons", Value: plus(hackathons)},
		{Label: "Registered Users", Value: plus(users / 100 * 100)},
		{Label: "Teams Formed", Value: plus(teams)},
		{Label: "Projects Created", Value: plus(projects)},
	}
	if err := s.cache.SetJSON(ctx, usecase.StatsCacheKey, out, CacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("cache global stats")
	}
	return out
}

func plus(n int) string {
	return strconv.Itoa(n) + "+"
}
