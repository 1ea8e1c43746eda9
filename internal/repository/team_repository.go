package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"hackmap/internal/database"
	"hackmap/internal/domain/team"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrInviteCodeTaken   = errors.New("invite code taken")
	ErrAlreadyTeamMember = errors.New("already a team member")
	ErrTeamFull          = errors.New("team is full")
)

type TeamHackathon struct {
	ID                   uuid.UUID
	Title                string
	Theme                string
	StartDate            time.Time
	EndDate              time.Time
	RegistrationDeadline time.Time
	MaxTeamSize          int
}

type TeamMemberDetail struct {
	team.Member
	Name   string
	Email  string
	Image  *string
	Skills []string
}

type TeamDetail struct {
	team.Team
	Hackathon TeamHackathon
	Members   []TeamMemberDetail
}

type MyTeam struct {
	TeamDetail
	Role     string
	JoinedAt time.Time
}

type TeamFilter struct {
	HackathonID uuid.UUID
	Search      string
}

type TeamRepository interface {
	CreateWithLeader(ctx context.Context, t team.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (TeamDetail, error)
	GetByInviteCode(ctx context.Context, code string) (TeamDetail, error)
	AddMember(ctx context.Context, m team.Member) error

	List(ctx context.Context, f TeamFilter) ([]TeamDetail, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]MyTeam, error)
	ListMatchCandidates(ctx context.Context, userID uuid.UUID, now time.Time) ([]TeamDetail, error)
}

const teamSelect = `SELECT t.id, t.name, t.description, t.hackathon_id, t.leader_id, t.invite_code, t.created_at, t.updated_at,
	h.id, h.title, h.theme, h.start_date, h.end_date, h.registration_deadline, h.max_team_size
	FROM teams t
	JOIN hackathons h ON h.id = t.hackathon_id`

type PostgresTeamRepository struct {
	db database.DB
}

func NewPostgresTeamRepository(db database.DB) *PostgresTeamRepository {
	return &PostgresTeamRepository{db: db}
}

// CreateWithLeader stores the team and its leader membership atomically.
func (r *PostgresTeamRepository) CreateWithLeader(ctx context.Context, t team.Team) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO teams (id, name, description, hackathon_id, leader_id, invite_code, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			t.ID, t.Name, t.Description, t.HackathonID, t.LeaderID, t.InviteCode, t.CreatedAt,
		)
		if err != nil {
			if name, ok := uniqueViolation(err); ok && strings.Contains(name, "invite_code") {
				return ErrInviteCodeTaken
			}
			if isForeignKeyViolation(err) {
				return ErrHackathonNotFound
			}
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO team_members (id, team_id, user_id, role, joined_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), t.ID, t.LeaderID, team.RoleLeader, t.CreatedAt,
		)
		return err
	})
}

func (r *PostgresTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (TeamDetail, error) {
	return r.getOne(ctx, teamSelect+` WHERE t.id = $1`, id)
}

func (r *PostgresTeamRepository) GetByInviteCode(ctx context.Context, code string) (TeamDetail, error) {
	return r.getOne(ctx, teamSelect+` WHERE t.invite_code = $1`, code)
}

// AddMember inserts m while holding the team row lock, so concurrent joins
// cannot push the team past the hackathon's max team size.
func (r *PostgresTeamRepository) AddMember(ctx context.Context, m team.Member) error {
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		var maxSize int
		err := tx.QueryRow(ctx,
			`SELECT h.max_team_size
			 FROM teams t
			 JOIN hackathons h ON h.id = t.hackathon_id
			 WHERE t.id = $1
			 FOR UPDATE OF t`,
			m.TeamID,
		).Scan(&maxSize)
		if isNoRows(err) {
			return ErrTeamNotFound
		}
		if err != nil {
			return err
		}

		// Counted after the lock is held; a fresh statement sees joins that
		// committed while this one waited.
		var members int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM team_members WHERE team_id = $1`, m.TeamID).Scan(&members); err != nil {
			return err
		}
		if members >= maxSize {
			return ErrTeamFull
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO team_members (id, team_id, user_id, role, joined_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			m.ID, m.TeamID, m.UserID, m.Role, m.JoinedAt,
		)
		return err
	})
	if _, ok := uniqueViolation(err); ok {
		return ErrAlreadyTeamMember
	}
	if isForeignKeyViolation(err) {
		return ErrTeamNotFound
	}
	return err
}

func (r *PostgresTeamRepository) List(ctx context.Context, f TeamFilter) ([]TeamDetail, error) {
	where := []string{"TRUE"}
	args := make([]any, 0, 2)
	if f.HackathonID != uuid.Nil {
		args = append(args, f.HackathonID)
		where = append(where, "t.hackathon_id = $1")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		p := "$" + strconv.Itoa(len(args))
		where = append(where, "(t.name ILIKE "+p+" OR t.description ILIKE "+p+" OR h.title ILIKE "+p+")")
	}

	return r.listDetails(ctx,
		teamSelect+` WHERE `+strings.Join(where, " AND ")+` ORDER BY t.created_at DESC, t.id ASC`,
		args...,
	)
}

func (r *PostgresTeamRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]MyTeam, error) {
	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.name, t.description, t.hackathon_id, t.leader_id, t.invite_code, t.created_at, t.updated_at,
		        h.id, h.title, h.theme, h.start_date, h.end_date, h.registration_deadline, h.max_team_size,
		        tm.role, tm.joined_at
		 FROM team_members tm
		 JOIN teams t ON t.id = tm.team_id
		 JOIN hackathons h ON h.id = t.hackathon_id
		 WHERE tm.user_id = $1
		 ORDER BY tm.joined_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MyTeam, 0)
	for rows.Next() {
		var mt MyTeam
		if err := rows.Scan(append(detailDest(&mt.TeamDetail), &mt.Role, &mt.JoinedAt)...); err != nil {
			return nil, err
		}
		out = append(out, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(out))
	for _, mt := range out {
		ids = append(ids, mt.ID)
	}
	members, err := r.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Members = nonNilMembers(members[out[i].ID])
	}
	return out, nil
}

// ListMatchCandidates returns teams whose hackathon still accepts
// registrations and that the user is not part of.
func (r *PostgresTeamRepository) ListMatchCandidates(ctx context.Context, userID uuid.UUID, now time.Time) ([]TeamDetail, error) {
	return r.listDetails(ctx,
		teamSelect+`
		 WHERE h.registration_deadline > $1
		   AND NOT EXISTS (SELECT 1 FROM team_members tm WHERE tm.team_id = t.id AND tm.user_id = $2)
		 ORDER BY t.created_at DESC, t.id ASC`,
		now, userID,
	)
}

func (r *PostgresTeamRepository) getOne(ctx context.Context, query string, args ...any) (TeamDetail, error) {
	var d TeamDetail
	if err := r.db.QueryRow(ctx, query, args...).Scan(detailDest(&d)...); err != nil {
		if isNoRows(err) {
			return TeamDetail{}, ErrTeamNotFound
		}
		return TeamDetail{}, err
	}

	members, err := r.loadMembers(ctx, []uuid.UUID{d.ID})
	if err != nil {
		return TeamDetail{}, err
	}
	d.Members = nonNilMembers(members[d.ID])
	return d, nil
}

func (r *PostgresTeamRepository) listDetails(ctx context.Context, query string, args ...any) ([]TeamDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TeamDetail, 0)
	for rows.Next() {
		var d TeamDetail
		if err := rows.Scan(detailDest(&d)...); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(out))
	for _, d := range out {
		ids = append(ids, d.ID)
	}
	members, err := r.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Members = nonNilMembers(members[out[i].ID])
	}
	return out, nil
}

func (r *PostgresTeamRepository) loadMembers(ctx context.Context, teamIDs []uuid.UUID) (map[uuid.UUID][]TeamMemberDetail, error) {
	out := make(map[uuid.UUID][]TeamMemberDetail, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(teamIDs))
	for _, id := range teamIDs {
		ids = append(ids, id.String())
	}

	rows, err := r.db.Query(ctx,
		`SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.joined_at, u.name, u.email, u.image, u.skills
		 FROM team_members tm
		 JOIN users u ON u.id = tm.user_id
		 WHERE tm.team_id = ANY($1::uuid[])
		 ORDER BY tm.joined_at ASC, tm.id ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m      TeamMemberDetail
			skills []byte
		)
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt, &m.Name, &m.Email, &m.Image, &skills); err != nil {
			return nil, err
		}
		m.Skills = decodeStrings(skills)
		out[m.TeamID] = append(out[m.TeamID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func detailDest(d *TeamDetail) []any {
	return []any{
		&d.ID, &d.Name, &d.Description, &d.HackathonID, &d.LeaderID, &d.InviteCode, &d.CreatedAt, &d.UpdatedAt,
		&d.Hackathon.ID, &d.Hackathon.Title, &d.Hackathon.Theme, &d.Hackathon.StartDate, &d.Hackathon.EndDate,
		&d.Hackathon.RegistrationDeadline, &d.Hackathon.MaxTeamSize,
	}
}

func nonNilMembers(in []TeamMemberDetail) []TeamMemberDetail {
	if in == nil {
		return []TeamMemberDetail{}
	}
	return in
}
