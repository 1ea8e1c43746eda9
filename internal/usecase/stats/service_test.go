package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"hackmap/internal/repository"
	"hackmap/internal/usecase"
	"hackmap/internal/usecase/usecasetest"
)

type mockStats struct {
	repository.StatsRepository
	hackathons, users, teams, projects int
	err                                error
	calls                              int
}

func (m *mockStats) CountActiveHackathons(context.Context, time.Time) (int, error) {
	m.calls++
	return m.hackathons, nil
}

func (m *mockStats) CountUsers(context.Context) (int, error) { return m.users, m.err }
func (m *mockStats) CountTeams(context.Context) (int, error) { return m.teams, nil }

func (m *mockStats) CountProjects(context.Context) (int, error) { return m.projects, nil }

func TestGlobal_FloorsUsersAndSuffixes(t *testing.T) {
	repo := &mockStats{hackathons: 4, users: 257, teams: 31, projects: 12}
	svc := NewService(repo, nil, zerolog.Nop())

	got := svc.Global(context.Background())

	want := []string{"4+", "200+", "31+", "12+"}
	for i, w := range want {
		if got[i].Value != w {
			t.Fatalf("stat %d (%s): expected %q, got %q", i, got[i].Label, w, got[i].Value)
		}
	}
}

func TestGlobal_FallbackOnError(t *testing.T) {
	repo := &mockStats{err: errors.New("db down")}
	cache := usecasetest.NewMemCache()
	svc := NewService(repo, cache, zerolog.Nop())

	got := svc.Global(context.Background())

	if len(got) != len(Fallback) || got[1].Value != "100+" {
		t.Fatalf("expected fallback stats, got %+v", got)
	}
	if _, ok := cache.Items[usecase.StatsCacheKey]; ok {
		t.Fatalf("fallback must not be cached")
	}
}

func TestGlobal_ServedFromCache(t *testing.T) {
	repo := &mockStats{hackathons: 1, users: 99}
	cache := usecasetest.NewMemCache()
	svc := NewService(repo, cache, zerolog.Nop())

	first := svc.Global(context.Background())
	second := svc.Global(context.Background())

	if repo.calls != 1 {
		t.Fatalf("expected one database round, got %d", repo.calls)
	}
	if first[1].Value != "0+" || second[1].Value != "0+" {
		t.Fatalf("unexpected values %+v / %+v", first, second)
	}
}
