package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"hackmap/internal/database"
	"hackmap/internal/domain/project"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrAlreadyEndorsed     = errors.New("already endorsed")
	ErrEndorsementNotFound = errors.New("endorsement not found")
)

type ProjectTeam struct {
	ID             uuid.UUID
	Name           string
	LeaderID       uuid.UUID
	HackathonID    uuid.UUID
	HackathonTitle string
	Members        []TeamMemberDetail
}

type ProjectSummary struct {
	project.Project
	Team             ProjectTeam
	CommentCount     int
	EndorsementCount int
}

type CommentDetail struct {
	project.Comment
	AuthorName  string
	AuthorImage *string
}

type ProjectRepository interface {
	Create(ctx context.Context, p project.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (ProjectSummary, error)
	List(ctx context.Context) ([]ProjectSummary, error)

	AddComment(ctx context.Context, c project.Comment) error
	ListComments(ctx context.Context, projectID uuid.UUID) ([]CommentDetail, error)

	Endorse(ctx context.Context, e project.Endorsement) error
	RemoveEndorsement(ctx context.Context, projectID, userID uuid.UUID) error
}

const projectSelect = `SELECT p.id, p.title, p.description, p.tech_stack, p.github_url, p.demo_url, p.team_id,
	p.created_at, p.updated_at,
	t.id, t.name, t.leader_id, h.id, h.title,
	(SELECT COUNT(*) FROM project_comments c WHERE c.project_id = p.id),
	(SELECT COUNT(*) FROM project_endorsements e WHERE e.project_id = p.id)
	FROM projects p
	JOIN teams t ON t.id = p.team_id
	JOIN hackathons h ON h.id = t.hackathon_id`

type PostgresProjectRepository struct {
	db    database.DB
	teams *PostgresTeamRepository
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db, teams: NewPostgresTeamRepository(db)}
}

func (r *PostgresProjectRepository) Create(ctx context.Context, p project.Project) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO projects (id, title, description, tech_stack, github_url, demo_url, team_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, $8)`,
		p.ID, p.Title, p.Description, encodeStrings(p.TechStack), p.GithubURL, p.DemoURL, p.TeamID, p.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return ErrTeamNotFound
	}
	return err
}

func (r *PostgresProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (ProjectSummary, error) {
	var (
		s     ProjectSummary
		stack []byte
	)
	err := r.db.QueryRow(ctx, projectSelect+` WHERE p.id = $1`, id).Scan(summaryDest(&s, &stack)...)
	if err != nil {
		if isNoRows(err) {
			return ProjectSummary{}, ErrProjectNotFound
		}
		return ProjectSummary{}, err
	}
	s.TechStack = decodeStrings(stack)

	members, err := r.teams.loadMembers(ctx, []uuid.UUID{s.Team.ID})
	if err != nil {
		return ProjectSummary{}, err
	}
	s.Team.Members = nonNilMembers(members[s.Team.ID])
	return s, nil
}

func (r *PostgresProjectRepository) List(ctx context.Context) ([]ProjectSummary, error) {
	rows, err := r.db.Query(ctx, projectSelect+` ORDER BY p.created_at DESC, p.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProjectSummary, 0)
	for rows.Next() {
		var (
			s     ProjectSummary
			stack []byte
		)
		if err := rows.Scan(summaryDest(&s, &stack)...); err != nil {
			return nil, err
		}
		s.TechStack = decodeStrings(stack)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	teamIDs := make([]uuid.UUID, 0, len(out))
	for _, s := range out {
		teamIDs = append(teamIDs, s.Team.ID)
	}
	members, err := r.teams.loadMembers(ctx, teamIDs)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Team.Members = nonNilMembers(members[out[i].Team.ID])
	}
	return out, nil
}

func (r *PostgresProjectRepository) AddComment(ctx context.Context, c project.Comment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO project_comments (id, content, user_id, project_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Content, c.UserID, c.ProjectID, c.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return ErrProjectNotFound
	}
	return err
}

func (r *PostgresProjectRepository) ListComments(ctx context.Context, projectID uuid.UUID) ([]CommentDetail, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.content, c.user_id, c.project_id, c.created_at, u.name, u.image
		 FROM project_comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.project_id = $1
		 ORDER BY c.created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CommentDetail, 0)
	for rows.Next() {
		var c CommentDetail
		if err := rows.Scan(&c.ID, &c.Content, &c.UserID, &c.ProjectID, &c.CreatedAt, &c.AuthorName, &c.AuthorImage); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProjectRepository) Endorse(ctx context.Context, e project.Endorsement) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO project_endorsements (id, project_id, user_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		e.ID, e.ProjectID, e.UserID, e.CreatedAt,
	)
	if _, ok := uniqueViolation(err); ok {
		return ErrAlreadyEndorsed
	}
	if isForeignKeyViolation(err) {
		return ErrProjectNotFound
	}
	return err
}

func (r *PostgresProjectRepository) RemoveEndorsement(ctx context.Context, projectID, userID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`DELETE FROM project_endorsements WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEndorsementNotFound
	}
	return nil
}

func summaryDest(s *ProjectSummary, stack *[]byte) []any {
	return []any{
		&s.ID, &s.Title, &s.Description, stack, &s.GithubURL, &s.DemoURL, &s.TeamID, &s.CreatedAt, &s.UpdatedAt,
		&s.Team.ID, &s.Team.Name, &s.Team.LeaderID, &s.Team.HackathonID, &s.Team.HackathonTitle,
		&s.CommentCount, &s.EndorsementCount,
	}
}
