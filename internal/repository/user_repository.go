package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"hackmap/internal/database"
	"hackmap/internal/domain/user"
)

const userColumns = `id, name, email, password_hash, image, bio, skills, created_at, updated_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

var _ user.Repository = (*PostgresUserRepository)(nil)

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, image, bio, skills, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, now(), now())`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Image, u.Bio, encodeStrings(u.Skills),
	)
	if name, ok := uniqueViolation(err); ok && strings.Contains(name, "email") {
		return user.ErrEmailTaken
	}
	return err
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return r.scanOne(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, in user.ProfileUpdate) (user.User, error) {
	var skills *string
	if in.Skills != nil {
		s := encodeStrings(in.Skills)
		skills = &s
	}

	return r.scanOne(r.db.QueryRow(ctx,
		`UPDATE users
		 SET name = COALESCE($2, name),
		     bio = COALESCE($3, bio),
		     skills = COALESCE($4::jsonb, skills),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, in.Name, in.Bio, skills,
	))
}

func (r *PostgresUserRepository) GetNotificationPreferences(ctx context.Context, id uuid.UUID) (user.NotificationPreferences, error) {
	return scanPreferences(r.db.QueryRow(ctx,
		`SELECT email_notifications, team_invites, join_requests, deadline_reminders, team_updates
		 FROM notification_preferences
		 WHERE user_id = $1`,
		id,
	))
}

func (r *PostgresUserRepository) GetNotificationPreferencesByEmail(ctx context.Context, email string) (user.NotificationPreferences, error) {
	return scanPreferences(r.db.QueryRow(ctx,
		`SELECT p.email_notifications, p.team_invites, p.join_requests, p.deadline_reminders, p.team_updates
		 FROM notification_preferences p
		 JOIN users u ON u.id = p.user_id
		 WHERE u.email = $1`,
		email,
	))
}

func (r *PostgresUserRepository) SaveNotificationPreferences(ctx context.Context, id uuid.UUID, p user.NotificationPreferences) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notification_preferences
		   (user_id, email_notifications, team_invites, join_requests, deadline_reminders, team_updates, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 ON CONFLICT (user_id) DO UPDATE SET
		   email_notifications = EXCLUDED.email_notifications,
		   team_invites = EXCLUDED.team_invites,
		   join_requests = EXCLUDED.join_requests,
		   deadline_reminders = EXCLUDED.deadline_reminders,
		   team_updates = EXCLUDED.team_updates,
		   updated_at = now()`,
		id, p.EmailNotifications, p.TeamInvites, p.JoinRequests, p.DeadlineReminders, p.TeamUpdates,
	)
	if isForeignKeyViolation(err) {
		return user.ErrNotFound
	}
	return err
}

func (r *PostgresUserRepository) scanOne(row database.Row) (user.User, error) {
	var (
		u      user.User
		skills []byte
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Image, &u.Bio, &skills, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Skills = decodeStrings(skills)
	return u, nil
}

func scanPreferences(row database.Row) (user.NotificationPreferences, error) {
	var p user.NotificationPreferences
	if err := row.Scan(&p.EmailNotifications, &p.TeamInvites, &p.JoinRequests, &p.DeadlineReminders, &p.TeamUpdates); err != nil {
		if isNoRows(err) {
			return user.NotificationPreferences{}, user.ErrPreferencesNotFound
		}
		return user.NotificationPreferences{}, err
	}
	return p, nil
}
