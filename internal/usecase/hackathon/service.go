package hackathon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hackmap/internal/domain/hackathon"
	"hackmap/internal/repository"
	"hackmap/internal/usecase"
)

const (
	PageSize = 12
	// MaxPage keeps the computed OFFSET well inside int range.
	MaxPage = 100000
)

var (
	ErrDeadlinePassed       = usecase.Invalid("Registration deadline has passed")
	ErrAlreadyRegistered    = usecase.Invalid("Already registered for this hackathon")
	ErrAlreadyStarted       = usecase.Invalid("Cannot unregister after hackathon has started")
	ErrRegistrationNotFound = usecase.New(usecase.KindNotFound, "Registration not found")
	ErrInvalidSchedule      = usecase.Invalid("Registration deadline must not be after the start date, and the start date must not be after the end date")
)

type ListParams struct {
	Search string
	Theme  string
	Status string
	Page   int
}

type Pagination struct {
	Page  int
	Limit int
	Total int
	Pages int
}

type ListResult struct {
	Hackathons []repository.HackathonSummary
	Pagination Pagination
}

type CreateInput struct {
	Title                string
	Description          string
	Theme                string
	StartDate            time.Time
	EndDate              time.Time
	RegistrationDeadline time.Time
	MaxTeamSize          int
	Prizes               []string
	Tags                 []string
}

type Usecase interface {
	List(ctx context.Context, p ListParams) (ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (hackathon.Hackathon, error)
	Create(ctx context.Context, organizerID uuid.UUID, in CreateInput) (hackathon.Hackathon, error)
	Register(ctx context.Context, userID, hackathonID uuid.UUID) (hackathon.Registration, error)
	Unregister(ctx context.Context, userID, hackathonID uuid.UUID) error
}

type Service struct {
	repo repository.HackathonRepository
	now  func() time.Time
}

func NewService(repo repository.HackathonRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, p ListParams) (ListResult, error) {
	switch p.Status {
	case hackathon.StatusUpcoming, hackathon.StatusOngoing, hackathon.StatusRegistrationOpen:
	default:
		// unknown statuses do not filter
		p.Status = ""
	}
	p.Page = min(max(p.Page, 1), MaxPage)

	items, total, err := s.repo.List(ctx, repository.HackathonFilter{
		Search: p.Search,
		Theme:  p.Theme,
		Status: p.Status,
		Now:    s.now(),
		Limit:  PageSize,
		Offset: (p.Page - 1) * PageSize,
	})
	if err != nil {
		return ListResult{}, usecase.Internal(err)
	}

	return ListResult{
		Hackathons: items,
		Pagination: Pagination{
			Page:  p.Page,
			Limit: PageSize,
			Total: total,
			Pages: (total + PageSize - 1) / PageSize,
		},
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (hackathon.Hackathon, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return hackathon.Hackathon{}, mapErr(err)
	}
	return h, nil
}

func (s *Service) Create(ctx context.Context, organizerID uuid.UUID, in CreateInput) (hackathon.Hackathon, error) {
	if in.RegistrationDeadline.After(in.StartDate) || in.StartDate.After(in.EndDate) {
		return hackathon.Hackathon{}, ErrInvalidSchedule
	}

	now := s.now()
	h := hackathon.Hackathon{
		ID:                   uuid.New(),
		Title:                strings.TrimSpace(in.Title),
		Description:          strings.TrimSpace(in.Description),
		Theme:                strings.TrimSpace(in.Theme),
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		RegistrationDeadline: in.RegistrationDeadline,
		MaxTeamSize:          in.MaxTeamSize,
		Prizes:               nonNil(in.Prizes),
		Tags:                 nonNil(in.Tags),
		OrganizerID:          organizerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return hackathon.Hackathon{}, usecase.Internal(err)
	}
	return h, nil
}

func (s *Service) Register(ctx context.Context, userID, hackathonID uuid.UUID) (hackathon.Registration, error) {
	h, err := s.repo.GetByID(ctx, hackathonID)
	if err != nil {
		return hackathon.Registration{}, mapErr(err)
	}

	now := s.now()
	if !h.RegistrationOpen(now) {
		return hackathon.Registration{}, ErrDeadlinePassed
	}

	reg := hackathon.Registration{
		ID:          uuid.New(),
		UserID:      userID,
		HackathonID: hackathonID,
		CreatedAt:   now,
	}
	if err := s.repo.Register(ctx, reg); err != nil {
		return hackathon.Registration{}, mapErr(err)
	}
	return reg, nil
}

func (s *Service) Unregister(ctx context.Context, userID, hackathonID uuid.UUID) error {
	h, err := s.repo.GetByID(ctx, hackathonID)
	if err != nil {
		return mapErr(err)
	}
	if h.Started(s.now()) {
		return ErrAlreadyStarted
	}
	if err := s.repo.Unregister(ctx, userID, hackathonID); err != nil {
		return mapErr(err)
	}
	return nil
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrHackathonNotFound):
		return usecase.ErrHackathonNotFound.WithCause(err)
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return ErrAlreadyRegistered
	case errors.Is(err, repository.ErrRegistrationNotFound):
		return ErrRegistrationNotFound
	default:
		return usecase.Internal(err)
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
