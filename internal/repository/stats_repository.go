package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hackmap/internal/database"
)

type StatsRepository interface {
	CountActiveHackathons(ctx context.Context, now time.Time) (int, error)
	CountUsers(ctx context.Context) (int, error)
	CountTeams(ctx context.Context) (int, error)
	CountProjects(ctx context.Context) (int, error)

	CountRegistrationsByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountTeamsLedByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountProjectsByMember(ctx context.Context, userID uuid.UUID) (int, error)
	CountEndorsementsByMember(ctx context.Context, userID uuid.UUID) (int, error)
}

type PostgresStatsRepository struct {
	db database.DB
}

func NewPostgresStatsRepository(db database.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

func (r *PostgresStatsRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresStatsRepository) CountActiveHackathons(ctx context.Context, now time.Time) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM hackathons WHERE registration_deadline >= $1`, now)
}

func (r *PostgresStatsRepository) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *PostgresStatsRepository) CountTeams(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM teams`)
}

func (r *PostgresStatsRepository) CountProjects(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM projects`)
}

func (r *PostgresStatsRepository) CountRegistrationsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM hackathon_registrations WHERE user_id = $1`, userID)
}

func (r *PostgresStatsRepository) CountTeamsLedByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM teams WHERE leader_id = $1`, userID)
}

func (r *PostgresStatsRepository) CountProjectsByMember(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*)
		 FROM projects p
		 WHERE p.team_id IN (SELECT team_id FROM team_members WHERE user_id = $1)`,
		userID,
	)
}

func (r *PostgresStatsRepository) CountEndorsementsByMember(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*)
		 FROM project_endorsements e
		 JOIN projects p ON p.id = e.project_id
		 WHERE p.team_id IN (SELECT team_id FROM team_members WHERE user_id = $1)`,
		userID,
	)
}
