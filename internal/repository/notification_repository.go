package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"hackmap/internal/database"
	"hackmap/internal/domain/notification"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(ctx context.Context, n notification.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (notification.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	JoinRequestExists(ctx context.Context, leaderID, requesterID, teamID uuid.UUID) (bool, error)
}

const notificationColumns = `id, user_id, type, title, message, read, actor_id, team_id, created_at`

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notifications (`+notificationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.Read, n.ActorID, n.TeamID, n.CreatedAt,
	)
	return err
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+notificationColumns+`
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID).Scan(&n)
	return n, err
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (notification.Notification, error) {
	n, err := scanNotification(r.db.QueryRow(ctx,
		`UPDATE notifications SET read = TRUE
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+notificationColumns,
		id, userID,
	))
	if err != nil {
		if isNoRows(err) {
			return notification.Notification{}, ErrNotificationNotFound
		}
		return notification.Notification{}, err
	}
	return n, nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID)
}

func (r *PostgresNotificationRepository) JoinRequestExists(ctx context.Context, leaderID, requesterID, teamID uuid.UUID) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM notifications
		   WHERE user_id = $1 AND type = $2 AND actor_id = $3 AND team_id = $4
		 )`,
		leaderID, string(notification.TypeJoinRequest), requesterID, teamID,
	).Scan(&ok)
	return ok, err
}

func scanNotification(row database.Row) (notification.Notification, error) {
	var (
		n    notification.Notification
		kind string
	)
	if err := row.Scan(&n.ID, &n.UserID, &kind, &n.Title, &n.Message, &n.Read, &n.ActorID, &n.TeamID, &n.CreatedAt); err != nil {
		return notification.Notification{}, err
	}
	n.Type = notification.Type(kind)
	return n, nil
}
