package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"hackmap/internal/domain/notification"
	"hackmap/internal/infrastructure/metrics"
	"hackmap/internal/repository"
)

type memRepo struct {
	repository.NotificationRepository
	items []notification.Notification
	err   error
}

func (m *memRepo) Create(_ context.Context, n notification.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, n)
	return nil
}

func (m *memRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	out := make([]notification.Notification, 0)
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].UserID == userID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *memRepo) MarkRead(_ context.Context, id, userID uuid.UUID) (notification.Notification, error) {
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].UserID == userID {
			m.items[i].Read = true
			return m.items[i], nil
		}
	}
	return notification.Notification{}, repository.ErrNotificationNotFound
}

type recordingPusher struct {
	pushed []notification.Notification
}

func (p *recordingPusher) Push(n notification.Notification) { p.pushed = append(p.pushed, n) }

func TestNotify_StoresPushesAndCounts(t *testing.T) {
	repo := &memRepo{}
	pusher := &recordingPusher{}
	m := metrics.New()
	svc := NewService(repo, pusher, m, zerolog.Nop())

	leader, requester, teamID := uuid.New(), uuid.New(), uuid.New()
	n, err := svc.Notify(context.Background(), notification.JoinRequest(leader, requester, teamID, "Bob", "Alpha", "AI Hack"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n.ID == uuid.Nil || n.Read || n.UserID != leader {
		t.Fatalf("unexpected notification %+v", n)
	}
	if n.ActorID == nil || *n.ActorID != requester || n.TeamID == nil || *n.TeamID != teamID {
		t.Fatalf("join request should carry actor and team")
	}
	if len(repo.items) != 1 || len(pusher.pushed) != 1 || pusher.pushed[0].ID != n.ID {
		t.Fatalf("expected stored and pushed once")
	}
	if n, err := testutil.GatherAndCount(m.Registry(), "hackmap_notifications_created_total"); err != nil || n != 1 {
		t.Fatalf("expected one notification series, got %d err=%v", n, err)
	}
}

func TestNotify_StoreFailureSkipsPush(t *testing.T) {
	repo := &memRepo{err: errors.New("insert failed")}
	pusher := &recordingPusher{}
	svc := NewService(repo, pusher, nil, zerolog.Nop())

	if _, err := svc.Notify(context.Background(), notification.NewTeamMember(uuid.New(), "Bob", "Alpha")); err == nil {
		t.Fatalf("expected error")
	}
	if len(pusher.pushed) != 0 {
		t.Fatalf("nothing should be pushed when storing fails")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(&memRepo{}, nil, nil, zerolog.Nop())
	userID := uuid.New()

	if _, err := svc.Create(context.Background(), userID, "TEAM_UPDATE", " ", "m"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Create(context.Background(), userID, "PARTY", "t", "m"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if _, err := svc.Create(context.Background(), userID, "TEAM_UPDATE", "t", "m"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestListAndMarkRead(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil, nil, zerolog.Nop())
	ctx := context.Background()
	me, other := uuid.New(), uuid.New()

	first, _ := svc.Create(ctx, me, "TEAM_UPDATE", "one", "m")
	_, _ = svc.Create(ctx, me, "TEAM_UPDATE", "two", "m")
	theirs, _ := svc.Create(ctx, other, "TEAM_UPDATE", "x", "m")

	if _, err := svc.MarkRead(ctx, me, theirs.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("marking someone else's notification must be not found, got %v", err)
	}
	if _, err := svc.MarkRead(ctx, me, first.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	inbox, err := svc.List(ctx, me)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(inbox.Notifications) != 2 || inbox.UnreadCount != 1 {
		t.Fatalf("unexpected inbox %+v", inbox)
	}
	if inbox.Notifications[0].Title != "two" {
		t.Fatalf("expected newest first")
	}
}
