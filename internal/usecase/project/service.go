package project

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hackmap/internal/domain/notification"
	"hackmap/internal/domain/project"
	"hackmap/internal/domain/team"
	"hackmap/internal/domain/user"
	"hackmap/internal/repository"
	"hackmap/internal/usecase"
)

var (
	ErrMissingFields       = usecase.Invalid("Title, description, and teamId are required")
	ErrTeamNotFound        = usecase.New(usecase.KindNotFound, "Team not found")
	ErrNotTeamMember       = usecase.New(usecase.KindForbidden, "Only team members can create projects for this team")
	ErrNotFound            = usecase.New(usecase.KindNotFound, "Project not found")
	ErrCommentRequired     = usecase.Invalid("Comment content is required")
	ErrAlreadyEndorsed     = usecase.Invalid("Already endorsed")
	ErrEndorsementNotFound = usecase.New(usecase.KindNotFound, "Endorsement not found")
)

type CreateInput struct {
	Title       string
	Description string
	TeamID      uuid.UUID
	TechStack   []string
	GithubURL   *string
	DemoURL     *string
}

type Detail struct {
	repository.ProjectSummary
	Comments []repository.CommentDetail
}

type Usecase interface {
	List(ctx context.Context) ([]repository.ProjectSummary, error)
	Get(ctx context.Context, id uuid.UUID) (Detail, error)
	Create(ctx context.Context, userID uuid.UUID, in CreateInput) (repository.ProjectSummary, error)
	Comment(ctx context.Context, userID, projectID uuid.UUID, content string) (repository.CommentDetail, error)
	Endorse(ctx context.Context, userID, projectID uuid.UUID) (project.Endorsement, error)
	RemoveEndorsement(ctx context.Context, userID, projectID uuid.UUID) error
}

type Service struct {
	projects repository.ProjectRepository
	teams    repository.TeamRepository
	users    user.Repository
	notifier usecase.Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(projects repository.ProjectRepository, teams repository.TeamRepository, users user.Repository, notifier usecase.Notifier, logger zerolog.Logger) *Service {
	return &Service{projects: projects, teams: teams, users: users, notifier: notifier, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]repository.ProjectSummary, error) {
	items, err := s.projects.List(ctx)
	if err != nil {
		return nil, usecase.Internal(err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Detail, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return Detail{}, projectErr(err)
	}
	comments, err := s.projects.ListComments(ctx, id)
	if err != nil {
		return Detail{}, usecase.Internal(err)
	}
	return Detail{ProjectSummary: p, Comments: comments}, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (repository.ProjectSummary, error) {
	title, desc := strings.TrimSpace(in.Title), strings.TrimSpace(in.Description)
	if title == "" || desc == "" || in.TeamID == uuid.Nil {
		return repository.ProjectSummary{}, ErrMissingFields
	}

	t, err := s.teams.GetByID(ctx, in.TeamID)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return repository.ProjectSummary{}, ErrTeamNotFound
		}
		return repository.ProjectSummary{}, usecase.Internal(err)
	}
	members := make([]team.Member, len(t.Members))
	for i, m := range t.Members {
		members[i] = m.Member
	}
	if !team.IsMember(members, userID) {
		return repository.ProjectSummary{}, ErrNotTeamMember
	}

	stack := make([]string, 0, len(in.TechStack))
	for _, tech := range in.TechStack {
		if tech = strings.TrimSpace(tech); tech != "" {
			stack = append(stack, tech)
		}
	}

	p := project.Project{
		ID:          uuid.New(),
		Title:       title,
		Description: desc,
		TechStack:   stack,
		GithubURL:   blankToNil(in.GithubURL),
		DemoURL:     blankToNil(in.DemoURL),
		TeamID:      in.TeamID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.projects.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return repository.ProjectSummary{}, ErrTeamNotFound
		}
		return repository.ProjectSummary{}, usecase.Internal(err)
	}

	created, err := s.projects.GetByID(ctx, p.ID)
	if err != nil {
		return repository.ProjectSummary{}, usecase.Internal(err)
	}
	return created, nil
}

func (s *Service) Comment(ctx context.Context, userID, projectID uuid.UUID, content string) (repository.CommentDetail, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return repository.CommentDetail{}, ErrCommentRequired
	}
	author, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return repository.CommentDetail{}, userErr(err)
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return repository.CommentDetail{}, projectErr(err)
	}

	c := project.Comment{
		ID:        uuid.New(),
		Content:   content,
		UserID:    userID,
		ProjectID: projectID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.projects.AddComment(ctx, c); err != nil {
		return repository.CommentDetail{}, projectErr(err)
	}

	if p.Team.LeaderID != userID {
		s.notify(ctx, notification.ProjectComment(p.Team.LeaderID, author.DisplayName(), p.Title, content), userID, p.Team.ID)
	}
	return repository.CommentDetail{Comment: c, AuthorName: author.Name, AuthorImage: author.Image}, nil
}

func (s *Service) Endorse(ctx context.Context, userID, projectID uuid.UUID) (project.Endorsement, error) {
	endorser, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return project.Endorsement{}, userErr(err)
	}
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return project.Endorsement{}, projectErr(err)
	}

	e := project.Endorsement{ID: uuid.New(), ProjectID: projectID, UserID: userID, CreatedAt: s.now().UTC()}
	if err := s.projects.Endorse(ctx, e); err != nil {
		return project.Endorsement{}, projectErr(err)
	}

	if p.Team.LeaderID != userID {
		s.notify(ctx, notification.ProjectEndorsement(p.Team.LeaderID, endorser.DisplayName(), p.Title), userID, p.Team.ID)
	}
	return e, nil
}

func (s *Service) RemoveEndorsement(ctx context.Context, userID, projectID uuid.UUID) error {
	if err := s.projects.RemoveEndorsement(ctx, projectID, userID); err != nil {
		return projectErr(err)
	}
	return nil
}

func (s *Service) notify(ctx context.Context, d notification.Draft, actorID, teamID uuid.UUID) {
	d.ActorID = &actorID
	d.TeamID = &teamID
	if _, err := s.notifier.Notify(ctx, d); err != nil {
		s.logger.Warn().Err(err).Str("type", string(d.Type)).Msg("project notification")
	}
}

func projectErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrProjectNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrAlreadyEndorsed):
		return ErrAlreadyEndorsed
	case errors.Is(err, repository.ErrEndorsementNotFound):
		return ErrEndorsementNotFound
	default:
		return usecase.Internal(err)
	}
}

func userErr(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return usecase.ErrUserNotFound.WithCause(err)
	}
	return usecase.Internal(err)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
