package hackathon

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"hackmap/internal/domain/hackathon"
	"hackmap/internal/repository"
	"hackmap/internal/usecase"
)

type mockRepo struct {
	repository.HackathonRepository
	h          hackathon.Hackathon
	registered map[uuid.UUID]bool
	filter     repository.HackathonFilter
	total      int
}

func newMockRepo(h hackathon.Hackathon) *mockRepo {
	return &mockRepo{h: h, registered: map[uuid.UUID]bool{}}
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (hackathon.Hackathon, error) {
	if id != m.h.ID {
		return hackathon.Hackathon{}, repository.ErrHackathonNotFound
	}
	return m.h, nil
}

func (m *mockRepo) Register(_ context.Context, reg hackathon.Registration) error {
	if m.registered[reg.UserID] {
		return repository.ErrAlreadyRegistered
	}
	m.registered[reg.UserID] = true
	return nil
}

func (m *mockRepo) Unregister(_ context.Context, userID, _ uuid.UUID) error {
	if !m.registered[userID] {
		return repository.ErrRegistrationNotFound
	}
	delete(m.registered, userID)
	return nil
}

func (m *mockRepo) List(_ context.Context, f repository.HackathonFilter) ([]repository.HackathonSummary, int, error) {
	m.filter = f
	return []repository.HackathonSummary{{Hackathon: m.h, RegistrationCount: 4}}, m.total, nil
}

func (m *mockRepo) Create(context.Context, hackathon.Hackathon) error { return nil }

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockRepo) *Service {
	s := NewService(repo)
	s.now = func() time.Time { return now }
	return s
}

func upcoming() hackathon.Hackathon {
	return hackathon.Hackathon{
		ID:                   uuid.New(),
		Title:                "AI Innovation Challenge",
		RegistrationDeadline: now.Add(48 * time.Hour),
		StartDate:            now.Add(72 * time.Hour),
		EndDate:              now.Add(120 * time.Hour),
		MaxTeamSize:          4,
	}
}

func TestRegister(t *testing.T) {
	h := upcoming()
	svc := newTestService(newMockRepo(h))
	userID := uuid.New()

	if _, err := svc.Register(context.Background(), userID, uuid.New()); !errors.Is(err, usecase.ErrHackathonNotFound) {
		t.Fatalf("expected ErrHackathonNotFound, got %v", err)
	}

	reg, err := svc.Register(context.Background(), userID, h.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if reg.UserID != userID || reg.HackathonID != h.ID {
		t.Fatalf("unexpected registration %+v", reg)
	}

	if _, err := svc.Register(context.Background(), userID, h.ID); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegister_DeadlineBoundary(t *testing.T) {
	h := upcoming()
	h.RegistrationDeadline = now
	svc := newTestService(newMockRepo(h))
	if _, err := svc.Register(context.Background(), uuid.New(), h.ID); err != nil {
		t.Fatalf("registration at the deadline instant should be accepted, got %v", err)
	}

	h.RegistrationDeadline = now.Add(-time.Second)
	svc = newTestService(newMockRepo(h))
	if _, err := svc.Register(context.Background(), uuid.New(), h.ID); !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed, got %v", err)
	}
}

func TestUnregister(t *testing.T) {
	h := upcoming()
	repo := newMockRepo(h)
	svc := newTestService(repo)
	userID := uuid.New()

	if err := svc.Unregister(context.Background(), userID, h.ID); !errors.Is(err, ErrRegistrationNotFound) {
		t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
	}

	repo.registered[userID] = true
	if err := svc.Unregister(context.Background(), userID, h.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	started := upcoming()
	started.StartDate = now
	svc = newTestService(newMockRepo(started))
	if err := svc.Unregister(context.Background(), userID, started.ID); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestList_Pagination(t *testing.T) {
	repo := newMockRepo(upcoming())
	repo.total = 25
	svc := newTestService(repo)

	res, err := svc.List(context.Background(), ListParams{Search: "ai", Status: hackathon.StatusUpcoming, Page: 3})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Pagination != (Pagination{Page: 3, Limit: 12, Total: 25, Pages: 3}) {
		t.Fatalf("unexpected pagination %+v", res.Pagination)
	}
	if repo.filter.Offset != 24 || repo.filter.Limit != 12 || !repo.filter.Now.Equal(now) {
		t.Fatalf("unexpected filter %+v", repo.filter)
	}

	if _, err := svc.List(context.Background(), ListParams{Status: "finished"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.filter.Status != "" || repo.filter.Offset != 0 {
		t.Fatalf("unknown status should not filter, got %+v", repo.filter)
	}
}

func TestList_HugePageClamped(t *testing.T) {
	repo := newMockRepo(upcoming())
	svc := newTestService(repo)

	res, err := svc.List(context.Background(), ListParams{Page: math.MaxInt})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Pagination.Page != MaxPage || repo.filter.Offset != (MaxPage-1)*PageSize {
		t.Fatalf("expected page clamped to %d, got page=%d offset=%d", MaxPage, res.Pagination.Page, repo.filter.Offset)
	}
	if repo.filter.Offset < 0 {
		t.Fatalf("offset overflowed: %d", repo.filter.Offset)
	}
}

func TestCreate_ValidatesSchedule(t *testing.T) {
	svc := newTestService(newMockRepo(upcoming()))
	in := CreateInput{
		Title:                "Hack",
		Description:          "d",
		Theme:                "AI",
		StartDate:            now.Add(time.Hour),
		EndDate:              now,
		RegistrationDeadline: now,
		MaxTeamSize:          3,
	}
	if _, err := svc.Create(context.Background(), uuid.New(), in); !errors.Is(err, ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}

	in.EndDate = now.Add(2 * time.Hour)
	h, err := svc.Create(context.Background(), uuid.New(), in)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if h.Prizes == nil || h.Tags == nil {
		t.Fatalf("prizes and tags should default to empty lists")
	}
}
