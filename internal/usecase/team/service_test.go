package team

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hackmap/internal/domain/hackathon"
	"hackmap/internal/domain/notification"
	"hackmap/internal/domain/team"
	"hackmap/internal/domain/user"
	"hackmap/internal/infrastructure/email"
	"hackmap/internal/repository"
	"hackmap/internal/usecase"
	"hackmap/internal/usecase/usecasetest"
)

var now = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

type fakeTeams struct {
	repository.TeamRepository
	teams   map[uuid.UUID]*repository.TeamDetail
	users   *fakeUsers
	created int
	taken   int
	// raceFull makes the insert find the team full, as when another join
	// commits between the service's check and the insert.
	raceFull bool
}

func (f *fakeTeams) GetByID(_ context.Context, id uuid.UUID) (repository.TeamDetail, error) {
	t, ok := f.teams[id]
	if !ok {
		return repository.TeamDetail{}, repository.ErrTeamNotFound
	}
	return *t, nil
}

func (f *fakeTeams) GetByInviteCode(_ context.Context, code string) (repository.TeamDetail, error) {
	for _, t := range f.teams {
		if t.InviteCode == code {
			return *t, nil
		}
	}
	return repository.TeamDetail{}, repository.ErrTeamNotFound
}

func (f *fakeTeams) AddMember(_ context.Context, m team.Member) error {
	if f.raceFull {
		return repository.ErrTeamFull
	}
	t := f.teams[m.TeamID]
	u := f.users.byID[m.UserID]
	t.Members = append(t.Members, repository.TeamMemberDetail{Member: m, Name: u.Name, Email: u.Email})
	return nil
}

func (f *fakeTeams) CreateWithLeader(_ context.Context, t team.Team) error {
	if f.taken > 0 {
		f.taken--
		return repository.ErrInviteCodeTaken
	}
	f.created++
	u := f.users.byID[t.LeaderID]
	f.teams[t.ID] = &repository.TeamDetail{
		Team: t,
		Members: []repository.TeamMemberDetail{{
			Member: team.Member{TeamID: t.ID, UserID: t.LeaderID, Role: team.RoleLeader},
			Name:   u.Name,
			Email:  u.Email,
		}},
	}
	return nil
}

type fakeUsers struct {
	user.Repository
	byID  map[uuid.UUID]user.User
	prefs map[string]user.NotificationPreferences
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, address string) (user.User, error) {
	for _, u := range f.byID {
		if u.Email == address {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) GetNotificationPreferencesByEmail(_ context.Context, address string) (user.NotificationPreferences, error) {
	p, ok := f.prefs[address]
	if !ok {
		return user.NotificationPreferences{}, user.ErrPreferencesNotFound
	}
	return p, nil
}

type fakeHackathons struct {
	repository.HackathonRepository
	h          hackathon.Hackathon
	registered map[uuid.UUID]bool
}

func (f *fakeHackathons) GetByID(_ context.Context, id uuid.UUID) (hackathon.Hackathon, error) {
	if id != f.h.ID {
		return hackathon.Hackathon{}, repository.ErrHackathonNotFound
	}
	return f.h, nil
}

func (f *fakeHackathons) IsRegistered(_ context.Context, userID, _ uuid.UUID) (bool, error) {
	return f.registered[userID], nil
}

type fakeNotifications struct {
	repository.NotificationRepository
	notifier *usecasetest.Notifier
}

func (f *fakeNotifications) JoinRequestExists(_ context.Context, leaderID, requesterID, teamID uuid.UUID) (bool, error) {
	for _, d := range f.notifier.Drafts() {
		if d.UserID == leaderID && d.Type == notification.TypeJoinRequest &&
			d.ActorID != nil && *d.ActorID == requesterID && d.TeamID != nil && *d.TeamID == teamID {
			return true, nil
		}
	}
	return false, nil
}

type fixture struct {
	svc        *Service
	teams      *fakeTeams
	users      *fakeUsers
	hackathons *fakeHackathons
	notifier   *usecasetest.Notifier
	emailer    *usecasetest.Emailer
	cache      *usecasetest.MemCache

	leader, alice, bob user.User
	team               *repository.TeamDetail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		leader: user.User{ID: uuid.New(), Name: "Lead", Email: "lead@example.com"},
		alice:  user.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", Skills: []string{"Go"}},
		bob:    user.User{ID: uuid.New(), Name: "Bob", Email: "bob@example.com"},
	}
	f.users = &fakeUsers{
		byID:  map[uuid.UUID]user.User{f.leader.ID: f.leader, f.alice.ID: f.alice, f.bob.ID: f.bob},
		prefs: map[string]user.NotificationPreferences{},
	}
	f.hackathons = &fakeHackathons{
		h: hackathon.Hackathon{
			ID:                   uuid.New(),
			Title:                "Climate Hack",
			RegistrationDeadline: now.Add(24 * time.Hour),
			MaxTeamSize:          3,
		},
		registered: map[uuid.UUID]bool{f.alice.ID: true},
	}
	f.team = &repository.TeamDetail{
		Team: team.Team{ID: uuid.New(), Name: "Alpha", HackathonID: f.hackathons.h.ID, LeaderID: f.leader.ID, InviteCode: "ABC123DEF4"},
		Hackathon: repository.TeamHackathon{
			ID:                   f.hackathons.h.ID,
			Title:                "Climate Hack",
			RegistrationDeadline: f.hackathons.h.RegistrationDeadline,
			MaxTeamSize:          3,
		},
		Members: []repository.TeamMemberDetail{{
			Member: team.Member{UserID: f.leader.ID, Role: team.RoleLeader},
			Name:   f.leader.Name,
			Email:  f.leader.Email,
		}},
	}
	f.teams = &fakeTeams{teams: map[uuid.UUID]*repository.TeamDetail{f.team.ID: f.team}, users: f.users}
	f.notifier = &usecasetest.Notifier{}
	f.emailer = &usecasetest.Emailer{}
	f.cache = usecasetest.NewMemCache()

	f.svc = NewService(Deps{
		Teams:         f.teams,
		Hackathons:    f.hackathons,
		Users:         f.users,
		Notifications: &fakeNotifications{notifier: f.notifier},
		Notifier:      f.notifier,
		Emailer:       f.emailer,
		Cache:         f.cache,
		Logger:        zerolog.Nop(),
	})
	f.svc.now = func() time.Time { return now }
	return f
}

func TestJoin_Success(t *testing.T) {
	f := newFixture(t)
	f.cache.Items[usecase.MatchmakingCacheKey(f.bob.ID)] = []byte(`{}`)

	res, err := f.svc.Join(context.Background(), f.alice.ID, "ABC123DEF4")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Member.Role != team.RoleMember || res.Member.UserID != f.alice.ID || len(res.Team.Members) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}

	drafts := f.notifier.Drafts()
	if len(drafts) != 1 {
		t.Fatalf("expected one notification, got %d", len(drafts))
	}
	d := drafts[0]
	if d.UserID != f.leader.ID || d.Type != notification.TypeTeamUpdate || d.Title != "New Team Member" ||
		d.Message != `Alice has joined your team "Alpha"` {
		t.Fatalf("unexpected draft %+v", d)
	}

	emails := f.emailer.Emails()
	if len(emails) != 1 || emails[0].Template != email.TemplateTeamUpdate || emails[0].To != f.leader.Email {
		t.Fatalf("expected team update email to the leader, got %+v", emails)
	}
	if len(f.cache.Items) != 0 {
		t.Fatalf("matchmaking caches should be cleared")
	}
}

func TestJoin_TeamFilledConcurrently(t *testing.T) {
	f := newFixture(t)
	f.teams.raceFull = true

	_, err := f.svc.Join(context.Background(), f.alice.ID, "ABC123DEF4")
	if !errors.Is(err, ErrTeamFull) {
		t.Fatalf("expected ErrTeamFull, got %v", err)
	}
	if len(f.notifier.Drafts()) != 0 || len(f.emailer.Emails()) != 0 {
		t.Fatalf("a rejected join must not announce a new member")
	}
}

func TestJoin_CheckOrder(t *testing.T) {
	cases := []struct {
		name  string
		setup func(f *fixture) (uuid.UUID, string)
		want  error
	}{
		{
			name:  "missing code",
			setup: func(f *fixture) (uuid.UUID, string) { return f.alice.ID, "  " },
			want:  ErrInviteCodeRequired,
		},
		{
			name:  "unknown code",
			setup: func(f *fixture) (uuid.UUID, string) { return f.alice.ID, "NOPE" },
			want:  ErrInvalidInviteCode,
		},
		{
			name: "deadline beats membership, capacity and registration",
			setup: func(f *fixture) (uuid.UUID, string) {
				f.team.Hackathon.RegistrationDeadline = now.Add(-time.Second)
				f.team.Hackathon.MaxTeamSize = 1
				return f.leader.ID, "ABC123DEF4"
			},
			want: ErrDeadlinePassed,
		},
		{
			name: "membership beats capacity",
			setup: func(f *fixture) (uuid.UUID, string) {
				f.team.Hackathon.MaxTeamSize = 1
				return f.leader.ID, "ABC123DEF4"
			},
			want: ErrAlreadyMember,
		},
		{
			name: "capacity beats registration",
			setup: func(f *fixture) (uuid.UUID, string) {
				f.team.Hackathon.MaxTeamSize = 1
				return f.bob.ID, "ABC123DEF4"
			},
			want: ErrTeamFull,
		},
		{
			name:  "not registered",
			setup: func(f *fixture) (uuid.UUID, string) { return f.bob.ID, "ABC123DEF4" },
			want:  ErrNotRegisteredToJoin,
		},
		{
			name:  "unknown user",
			setup: func(f *fixture) (uuid.UUID, string) { return uuid.New(), "ABC123DEF4" },
			want:  usecase.ErrUserNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			userID, code := tc.setup(f)
			_, err := f.svc.Join(context.Background(), userID, code)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(f.notifier.Drafts()) != 0 {
				t.Fatalf("no notification on failure")
			}
		})
	}
}

func TestJoin_DeadlineInstantStillOpen(t *testing.T) {
	f := newFixture(t)
	f.team.Hackathon.RegistrationDeadline = now
	if _, err := f.svc.Join(context.Background(), f.alice.ID, "ABC123DEF4"); err != nil {
		t.Fatalf("joining at the deadline instant should succeed, got %v", err)
	}
}

func TestInviteInfo(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.InviteInfo(context.Background(), f.leader.ID, "ABC123DEF4"); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
	got, err := f.svc.InviteInfo(context.Background(), f.alice.ID, "ABC123DEF4")
	if err != nil || got.ID != f.team.ID {
		t.Fatalf("unexpected %+v err=%v", got, err)
	}
	if _, err := f.svc.InviteInfo(context.Background(), f.alice.ID, ""); !errors.Is(err, ErrInviteCodeRequired) {
		t.Fatalf("expected ErrInviteCodeRequired, got %v", err)
	}
}

func TestInvite(t *testing.T) {
	t.Run("only the leader may invite", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Invite(context.Background(), f.alice.ID, f.team.ID, "x@example.com")
		if !errors.Is(err, ErrNotLeader) || usecase.KindOf(err) != usecase.KindForbidden {
			t.Fatalf("expected ErrNotLeader, got %v", err)
		}
	})

	t.Run("existing member", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Invite(context.Background(), f.leader.ID, f.team.ID, f.leader.Email)
		if !errors.Is(err, ErrInviteeAlreadyMember) {
			t.Fatalf("expected ErrInviteeAlreadyMember, got %v", err)
		}
	})

	t.Run("account holder gets email and notification", func(t *testing.T) {
		f := newFixture(t)
		if err := f.svc.Invite(context.Background(), f.leader.ID, f.team.ID, f.bob.Email); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		emails := f.emailer.Emails()
		if len(emails) != 1 || emails[0].Template != email.TemplateTeamInvite {
			t.Fatalf("expected invite email, got %+v", emails)
		}
		data := emails[0].Data.(email.TeamInviteData)
		if data.InviteCode != "ABC123DEF4" || data.InviterName != "Lead" {
			t.Fatalf("unexpected invite data %+v", data)
		}
		drafts := f.notifier.Drafts()
		if len(drafts) != 1 || drafts[0].UserID != f.bob.ID || drafts[0].Type != notification.TypeTeamInvite {
			t.Fatalf("expected team invite notification, got %+v", drafts)
		}
	})

	t.Run("stranger gets only the email", func(t *testing.T) {
		f := newFixture(t)
		if err := f.svc.Invite(context.Background(), f.leader.ID, f.team.ID, "new@example.com"); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(f.emailer.Emails()) != 1 || len(f.notifier.Drafts()) != 0 {
			t.Fatalf("expected email only")
		}
	})

	t.Run("email failure", func(t *testing.T) {
		f := newFixture(t)
		f.emailer.Err = errors.New("smtp down")
		err := f.svc.Invite(context.Background(), f.leader.ID, f.team.ID, "new@example.com")
		if !errors.Is(err, ErrInviteEmailFailed) {
			t.Fatalf("expected ErrInviteEmailFailed, got %v", err)
		}
	})

	t.Run("opted out invitee gets no email", func(t *testing.T) {
		f := newFixture(t)
		p := user.DefaultNotificationPreferences()
		p.TeamInvites = false
		f.users.prefs[f.bob.Email] = p
		if err := f.svc.Invite(context.Background(), f.leader.ID, f.team.ID, f.bob.Email); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(f.emailer.Emails()) != 0 || len(f.notifier.Drafts()) != 1 {
			t.Fatalf("expected notification without email")
		}
	})
}

func TestRequestToJoin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.RequestToJoin(ctx, f.bob.ID, f.team.ID); !errors.Is(err, ErrNotRegisteredToAsk) {
		t.Fatalf("expected ErrNotRegisteredToAsk, got %v", err)
	}

	n, err := f.svc.RequestToJoin(ctx, f.alice.ID, f.team.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n.UserID != f.leader.ID || n.Title != "Team Join Request" ||
		n.Message != `Alice wants to join your team "Alpha" for Climate Hack` {
		t.Fatalf("unexpected notification %+v", n)
	}
	emails := f.emailer.Emails()
	if len(emails) != 1 || emails[0].Template != email.TemplateJoinRequest || emails[0].To != f.leader.Email {
		t.Fatalf("expected join request email to the leader, got %+v", emails)
	}

	if _, err := f.svc.RequestToJoin(ctx, f.alice.ID, f.team.ID); !errors.Is(err, ErrJoinRequestSent) {
		t.Fatalf("expected ErrJoinRequestSent, got %v", err)
	}
	if _, err := f.svc.RequestToJoin(ctx, f.alice.ID, uuid.New()); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func TestCreate_RetriesInviteCodeCollisions(t *testing.T) {
	f := newFixture(t)
	f.teams.taken = 2

	got, err := f.svc.Create(context.Background(), f.alice.ID, CreateInput{Name: " Beta ", HackathonID: f.hackathons.h.ID})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Name != "Beta" || got.LeaderID != f.alice.ID || got.InviteCode == "" {
		t.Fatalf("unexpected team %+v", got)
	}
	if len(got.Members) != 1 || got.Members[0].Role != team.RoleLeader {
		t.Fatalf("creator must be the leader member")
	}

	if _, err := f.svc.Create(context.Background(), f.alice.ID, CreateInput{Name: "Gamma", HackathonID: uuid.New()}); !errors.Is(err, usecase.ErrHackathonNotFound) {
		t.Fatalf("expected ErrHackathonNotFound, got %v", err)
	}
	if _, err := f.svc.Create(context.Background(), f.alice.ID, CreateInput{HackathonID: f.hackathons.h.ID}); !errors.Is(err, ErrNameAndHackathonEmpty) {
		t.Fatalf("expected ErrNameAndHackathonEmpty, got %v", err)
	}
}
