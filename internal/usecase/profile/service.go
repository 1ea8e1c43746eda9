package profile

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"hackmap/internal/domain/user"
	"hackmap/internal/repository"
	"hackmap/internal/usecase"
)

const endorsementsPerAward = 5

type UpdateInput struct {
	Name   string
	Bio    string
	Skills []string
	// SkillsSet distinguishes an omitted skills field from an empty list.
	SkillsSet bool
}

type Stat struct {
	Label string
	Value string
	Icon  string
}

type Usecase interface {
	Get(ctx context.Context, userID uuid.UUID) (user.User, error)
	Update(ctx context.Context, userID uuid.UUID, in UpdateInput) (user.User, error)
	Stats(ctx context.Context, userID uuid.UUID) ([]Stat, error)
	Preferences(ctx context.Context, userID uuid.UUID) (user.NotificationPreferences, error)
	SavePreferences(ctx context.Context, userID uuid.UUID, p user.NotificationPreferences) (user.NotificationPreferences, error)
}

type Service struct {
	users  user.Repository
	stats  repository.StatsRepository
	cache  usecase.Cache
	logger zerolog.Logger
}

func NewService(users user.Repository, stats repository.StatsRepository, cache usecase.Cache, logger zerolog.Logger) *Service {
	if cache == nil {
		cache = usecase.NopCache{}
	}
	return &Service{users: users, stats: stats, cache: cache, logger: logger}
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (user.User, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return user.User{}, mapUserErr(err)
	}
	return sanitize(u), nil
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, in UpdateInput) (user.User, error) {
	var upd user.ProfileUpdate
	if name := strings.TrimSpace(in.Name); name != "" {
		upd.Name = &name
	}
	if bio := strings.TrimSpace(in.Bio); bio != "" {
		upd.Bio = &bio
	}
	if in.SkillsSet {
		upd.Skills = NormalizeSkills(in.Skills)
	}

	u, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return user.User{}, mapUserErr(err)
	}

	if in.SkillsSet {
		// Other users' cached rankings include this user's skills through
		// the teams they belong to.
		if err := s.cache.DeleteByPattern(ctx, usecase.MatchmakingCachePattern()); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("invalidate matchmaking cache")
		}
	}
	return sanitize(u), nil
}

func (s *Service) Stats(ctx context.Context, userID uuid.UUID) ([]Stat, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, mapUserErr(err)
	}

	var registrations, teamsLed, projects, endorsements int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		registrations, err = s.stats.CountRegistrationsByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		teamsLed, err = s.stats.CountTeamsLedByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		projects, err = s.stats.CountProjectsByMember(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		endorsements, err = s.stats.CountEndorsementsByMember(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, usecase.Internal(err)
	}

	return []Stat{
		{Label: "Hackathons Joined", Value: strconv.Itoa(registrations), Icon: "Calendar"},
		{Label: "Teams Formed", Value: strconv.Itoa(teamsLed), Icon: "Users"},
		{Label: "Projects Created", Value: strconv.Itoa(projects), Icon: "Code"},
		{Label: "Project Endorsements", Value: strconv.Itoa(endorsements / endorsementsPerAward), Icon: "Trophy"},
	}, nil
}

func (s *Service) Preferences(ctx context.Context, userID uuid.UUID) (user.NotificationPreferences, error) {
	p, err := s.users.GetNotificationPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrPreferencesNotFound) {
			return user.DefaultNotificationPreferences(), nil
		}
		return user.NotificationPreferences{}, usecase.Internal(err)
	}
	return p, nil
}

func (s *Service) SavePreferences(ctx context.Context, userID uuid.UUID, p user.NotificationPreferences) (user.NotificationPreferences, error) {
	if err := s.users.SaveNotificationPreferences(ctx, userID, p); err != nil {
		return user.NotificationPreferences{}, mapUserErr(err)
	}
	return p, nil
}

// NormalizeSkills trims every entry and drops the empty ones. The result is
// never nil.
func NormalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func mapUserErr(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return usecase.ErrUserNotFound.WithCause(err)
	}
	return usecase.Internal(err)
}

func sanitize(u user.User) user.User {
	u.PasswordHash = ""
	if u.Skills == nil {
		u.Skills = []string{}
	}
	return u
}
