package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hackmap/internal/domain/notification"
	"hackmap/internal/infrastructure/metrics"
	"hackmap/internal/repository"
	"hackmap/internal/usecase"
)

var (
	ErrMissingFields = usecase.Invalid("Type, title, and message are required")
	ErrInvalidType   = usecase.Invalid("Invalid notification type")
	ErrNotFound      = usecase.New(usecase.KindNotFound, "Notification not found")
)

// Pusher delivers a stored notification to the recipient's open sockets.
type Pusher interface {
	Push(n notification.Notification)
}

type Inbox struct {
	Notifications []notification.Notification
	UnreadCount   int
}

type Usecase interface {
	usecase.Notifier
	List(ctx context.Context, userID uuid.UUID) (Inbox, error)
	Create(ctx context.Context, userID uuid.UUID, kind, title, message string) (notification.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (notification.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Service struct {
	repo    repository.NotificationRepository
	pusher  Pusher
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(repo repository.NotificationRepository, pusher Pusher, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{repo: repo, pusher: pusher, metrics: m, logger: logger, now: time.Now}
}

// Notify stores the draft, then pushes it. Push is best effort.
func (s *Service) Notify(ctx context.Context, d notification.Draft) (notification.Notification, error) {
	n := notification.Notification{
		ID:        uuid.New(),
		UserID:    d.UserID,
		Type:      d.Type,
		Title:     d.Title,
		Message:   d.Message,
		ActorID:   d.ActorID,
		TeamID:    d.TeamID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return notification.Notification{}, usecase.Internal(err)
	}

	s.metrics.NotificationCreated(string(n.Type))
	if s.pusher != nil {
		s.pusher.Push(n)
	}
	return n, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) (Inbox, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Inbox{}, usecase.Internal(err)
	}
	unread := 0
	for _, n := range items {
		if !n.Read {
			unread++
		}
	}
	return Inbox{Notifications: items, UnreadCount: unread}, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, kind, title, message string) (notification.Notification, error) {
	kind, title, message = strings.TrimSpace(kind), strings.TrimSpace(title), strings.TrimSpace(message)
	if kind == "" || title == "" || message == "" {
		return notification.Notification{}, ErrMissingFields
	}
	t := notification.Type(kind)
	if !t.Valid() {
		return notification.Notification{}, ErrInvalidType
	}
	return s.Notify(ctx, notification.Draft{UserID: userID, Type: t, Title: title, Message: message})
}

func (s *Service) MarkRead(ctx context.Context, userID, id uuid.UUID) (notification.Notification, error) {
	n, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return notification.Notification{}, ErrNotFound
		}
		return notification.Notification{}, usecase.Internal(err)
	}
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, usecase.Internal(err)
	}
	return n, nil
}
