package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"hackmap/internal/config"
)

func newTestService(now time.Time) *HMACService {
	s := NewHMACService(config.JWTConfig{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessExpiresIn:  15 * time.Minute,
		RefreshExpiresIn: 24 * time.Hour,
	})
	s.now = func() time.Time { return now }
	return s
}

func TestIssuePair_RoundTrip(t *testing.T) {
	now := time.Now()
	s := newTestService(now)
	id := uuid.New()

	pair, err := s.IssuePair(id, "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	access, err := s.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if access.UserID != id || access.Email != "alice@example.com" || access.Issuer != Issuer {
		t.Fatalf("unexpected access claims %+v", access)
	}

	refresh, err := s.ParseRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if refresh.UserID != id || refresh.Email != "" {
		t.Fatalf("unexpected refresh claims %+v", refresh)
	}
}

func TestParse_RejectsSwappedTokens(t *testing.T) {
	s := newTestService(time.Now())
	pair, _ := s.IssuePair(uuid.New(), "a@b.c")

	if _, err := s.ParseAccess(pair.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected refresh token to fail as access, got %v", err)
	}
	if _, err := s.ParseRefresh(pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected access token to fail as refresh, got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	issued := time.Now().Add(-time.Hour)
	s := newTestService(issued)
	pair, _ := s.IssuePair(uuid.New(), "a@b.c")

	s.now = time.Now
	if _, err := s.ParseAccess(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestIssuePair_RequiresSecrets(t *testing.T) {
	s := NewHMACService(config.JWTConfig{AccessExpiresIn: time.Minute, RefreshExpiresIn: time.Minute})
	if _, err := s.IssuePair(uuid.New(), ""); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
