package matchmaking

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hackmap/internal/domain/matching"
	"hackmap/internal/domain/user"
	"hackmap/internal/infrastructure/metrics"
	"hackmap/internal/repository"
	"hackmap/internal/usecase"
)

const cacheSpace = "matchmaking"

type Recommendation struct {
	Team                repository.TeamDetail
	MatchScore          float64
	CommonSkills        []string
	ComplementarySkills []string
	TeamSkills          []string
}

type Result struct {
	Message    string
	UserSkills []string
	Teams      []Recommendation
}

type Usecase interface {
	Recommend(ctx context.Context, userID uuid.UUID) (Result, error)
}

type Service struct {
	users   user.Repository
	teams   repository.TeamRepository
	cache   usecase.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(users user.Repository, teams repository.TeamRepository, cache usecase.Cache, ttl time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Service {
	if cache == nil {
		cache = usecase.NopCache{}
	}
	return &Service{users: users, teams: teams, cache: cache, ttl: ttl, metrics: m, logger: logger, now: time.Now}
}

func (s *Service) Recommend(ctx context.Context, userID uuid.UUID) (Result, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Result{}, usecase.ErrUserNotFound.WithCause(err)
		}
		return Result{}, usecase.Internal(err)
	}

	if len(u.Skills) == 0 {
		res := matching.Recommend(nil, nil)
		return Result{Message: res.Message, UserSkills: res.UserSkills, Teams: []Recommendation{}}, nil
	}

	key := usecase.MatchmakingCacheKey(userID)
	var cached Result
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("matchmaking cache read")
	}
	hit = hit && cached.stillValid(u.Skills, s.now())
	s.metrics.CacheLookup(cacheSpace, hit)
	if hit {
		return cached, nil
	}

	start := time.Now()
	candidates, err := s.teams.ListMatchCandidates(ctx, userID, s.now())
	if err != nil {
		return Result{}, usecase.Internal(err)
	}

	byID := make(map[uuid.UUID]repository.TeamDetail, len(candidates))
	input := make([]matching.Team, 0, len(candidates))
	for _, t := range candidates {
		byID[t.ID] = t
		input = append(input, toMatchingTeam(t))
	}

	scored := matching.Recommend(u.Skills, input)
	s.metrics.ObserveMatchmaking(len(candidates), time.Since(start))

	res := Result{
		Message:    scored.Message,
		UserSkills: scored.UserSkills,
		Teams:      make([]Recommendation, 0, len(scored.Teams)),
	}
	for _, st := range scored.Teams {
		res.Teams = append(res.Teams, Recommendation{
			Team:                byID[st.TeamID],
			MatchScore:          st.MatchScore,
			CommonSkills:        st.CommonSkills,
			ComplementarySkills: st.ComplementarySkills,
			TeamSkills:          st.TeamSkills,
		})
	}

	if err := s.cache.SetJSON(ctx, key, res, s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("matchmaking cache write")
	}
	return res, nil
}

// stillValid reports whether a cached result can be served as is. Any team
// that has closed registration or filled up since it was scored forces a
// fresh ranking, since the next candidate in line may now belong in the top
// results.
func (r Result) stillValid(userSkills []string, now time.Time) bool {
	if !slices.Equal(r.UserSkills, userSkills) {
		return false
	}
	for _, rec := range r.Teams {
		if !rec.Team.Hackathon.RegistrationDeadline.After(now) {
			return false
		}
		if len(rec.Team.Members) >= rec.Team.Hackathon.MaxTeamSize {
			return false
		}
	}
	return true
}

func toMatchingTeam(t repository.TeamDetail) matching.Team {
	members := make([]matching.Member, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, matching.Member{UserID: m.UserID, Skills: m.Skills})
	}
	return matching.Team{ID: t.ID, MaxTeamSize: t.Hackathon.MaxTeamSize, Members: members}
}
