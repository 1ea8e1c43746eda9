package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hackmap/internal/database"
	"hackmap/internal/domain/hackathon"
)

var (
	ErrHackathonNotFound    = errors.New("hackathon not found")
	ErrAlreadyRegistered    = errors.New("already registered")
	ErrRegistrationNotFound = errors.New("registration not found")
)

type HackathonFilter struct {
	Search string
	Theme  string
	Status string
	Now    time.Time
	Limit  int
	Offset int
}

type HackathonSummary struct {
	hackathon.Hackathon
	RegistrationCount int
}

// Registrant is a registered user who has not joined any team of the
// hackathon yet.
type Registrant struct {
	UserID uuid.UUID
	Name   string
	Email  string
}

type HackathonRepository interface {
	Create(ctx context.Context, h hackathon.Hackathon) error
	GetByID(ctx context.Context, id uuid.UUID) (hackathon.Hackathon, error)
	List(ctx context.Context, f HackathonFilter) ([]HackathonSummary, int, error)

	Register(ctx context.Context, reg hackathon.Registration) error
	Unregister(ctx context.Context, userID, hackathonID uuid.UUID) error
	IsRegistered(ctx context.Context, userID, hackathonID uuid.UUID) (bool, error)

	ListDeadlinesBetween(ctx context.Context, from, to time.Time) ([]hackathon.Hackathon, error)
	ListRegistrantsWithoutTeam(ctx context.Context, hackathonID uuid.UUID) ([]Registrant, error)
}

const hackathonColumns = `h.id, h.title, h.description, h.theme, h.start_date, h.end_date, h.registration_deadline,
	h.max_team_size, h.prizes, h.tags, h.organizer_id, h.created_at, h.updated_at`

type PostgresHackathonRepository struct {
	db database.DB
}

func NewPostgresHackathonRepository(db database.DB) *PostgresHackathonRepository {
	return &PostgresHackathonRepository{db: db}
}

func (r *PostgresHackathonRepository) Create(ctx context.Context, h hackathon.Hackathon) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO hackathons
		   (id, title, description, theme, start_date, end_date, registration_deadline, max_team_size,
		    prizes, tags, organizer_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10::jsonb, $11, now(), now())`,
		h.ID, h.Title, h.Description, h.Theme, h.StartDate, h.EndDate, h.RegistrationDeadline, h.MaxTeamSize,
		encodeStrings(h.Prizes), encodeStrings(h.Tags), h.OrganizerID,
	)
	return err
}

func (r *PostgresHackathonRepository) GetByID(ctx context.Context, id uuid.UUID) (hackathon.Hackathon, error) {
	h, err := scanHackathon(r.db.QueryRow(ctx, `SELECT `+hackathonColumns+` FROM hackathons h WHERE h.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return hackathon.Hackathon{}, ErrHackathonNotFound
		}
		return hackathon.Hackathon{}, err
	}
	return h, nil
}

func (r *PostgresHackathonRepository) List(ctx context.Context, f HackathonFilter) ([]HackathonSummary, int, error) {
	if f.Limit <= 0 {
		f.Limit = 12
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Now.IsZero() {
		f.Now = time.Now()
	}

	where := make([]string, 0, 3)
	args := make([]any, 0, 6)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		p := arg("%" + s + "%")
		where = append(where, "(h.title ILIKE "+p+" OR h.description ILIKE "+p+")")
	}
	if t := strings.TrimSpace(f.Theme); t != "" {
		where = append(where, "h.theme = "+arg(t))
	}
	switch f.Status {
	case hackathon.StatusUpcoming:
		where = append(where, "h.start_date > "+arg(f.Now))
	case hackathon.StatusOngoing:
		p := arg(f.Now)
		where = append(where, "h.start_date <= "+p+" AND h.end_date >= "+p)
	case hackathon.StatusRegistrationOpen:
		where = append(where, "h.registration_deadline > "+arg(f.Now))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM hackathons h`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := arg(f.Limit)
	offset := arg(f.Offset)
	rows, err := r.db.Query(ctx,
		`SELECT `+hackathonColumns+`,
		        (SELECT COUNT(*) FROM hackathon_registrations hr WHERE hr.hackathon_id = h.id)
		 FROM hackathons h`+cond+`
		 ORDER BY h.start_date ASC, h.id ASC
		 LIMIT `+limit+` OFFSET `+offset,
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]HackathonSummary, 0)
	for rows.Next() {
		var (
			s            HackathonSummary
			prizes, tags []byte
		)
		h := &s.Hackathon
		if err := rows.Scan(&h.ID, &h.Title, &h.Description, &h.Theme, &h.StartDate, &h.EndDate,
			&h.RegistrationDeadline, &h.MaxTeamSize, &prizes, &tags, &h.OrganizerID, &h.CreatedAt, &h.UpdatedAt,
			&s.RegistrationCount); err != nil {
			return nil, 0, err
		}
		h.Prizes = decodeStrings(prizes)
		h.Tags = decodeStrings(tags)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PostgresHackathonRepository) Register(ctx context.Context, reg hackathon.Registration) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO hackathon_registrations (id, user_id, hackathon_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		reg.ID, reg.UserID, reg.HackathonID, reg.CreatedAt,
	)
	if _, ok := uniqueViolation(err); ok {
		return ErrAlreadyRegistered
	}
	if isForeignKeyViolation(err) {
		return ErrHackathonNotFound
	}
	return err
}

func (r *PostgresHackathonRepository) Unregister(ctx context.Context, userID, hackathonID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`DELETE FROM hackathon_registrations WHERE user_id = $1 AND hackathon_id = $2`,
		userID, hackathonID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *PostgresHackathonRepository) IsRegistered(ctx context.Context, userID, hackathonID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM hackathon_registrations WHERE user_id = $1 AND hackathon_id = $2)`,
		userID, hackathonID,
	).Scan(&ok)
	return ok, err
}

func (r *PostgresHackathonRepository) ListDeadlinesBetween(ctx context.Context, from, to time.Time) ([]hackathon.Hackathon, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+hackathonColumns+`
		 FROM hackathons h
		 WHERE h.registration_deadline >= $1 AND h.registration_deadline <= $2
		 ORDER BY h.registration_deadline ASC`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]hackathon.Hackathon, 0)
	for rows.Next() {
		h, err := scanHackathon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresHackathonRepository) ListRegistrantsWithoutTeam(ctx context.Context, hackathonID uuid.UUID) ([]Registrant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, u.name, u.email
		 FROM hackathon_registrations hr
		 JOIN users u ON u.id = hr.user_id
		 WHERE hr.hackathon_id = $1
		   AND NOT EXISTS (
		     SELECT 1
		     FROM team_members tm
		     JOIN teams t ON t.id = tm.team_id
		     WHERE tm.user_id = hr.user_id AND t.hackathon_id = hr.hackathon_id
		   )
		 ORDER BY hr.created_at ASC`,
		hackathonID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Registrant, 0)
	for rows.Next() {
		var it Registrant
		if err := rows.Scan(&it.UserID, &it.Name, &it.Email); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanHackathon(row database.Row) (hackathon.Hackathon, error) {
	var (
		h            hackathon.Hackathon
		prizes, tags []byte
	)
	err := row.Scan(&h.ID, &h.Title, &h.Description, &h.Theme, &h.StartDate, &h.EndDate, &h.RegistrationDeadline,
		&h.MaxTeamSize, &prizes, &tags, &h.OrganizerID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return hackathon.Hackathon{}, err
	}
	h.Prizes = decodeStrings(prizes)
	h.Tags = decodeStrings(tags)
	return h, nil
}
