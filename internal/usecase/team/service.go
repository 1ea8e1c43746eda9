package team

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hackmap/internal/domain/notification"
	"hackmap/internal/domain/team"
	"hackmap/internal/domain/user"
	"hackmap/internal/infrastructure/email"
	"hackmap/internal/repository"
	"hackmap/internal/usecase"
)

const inviteCodeAttempts = 5

var (
	ErrTeamNotFound          = usecase.New(usecase.KindNotFound, "Team not found")
	ErrInviteCodeRequired    = usecase.Invalid("Invite code is required")
	ErrInvalidInviteCode     = usecase.New(usecase.KindNotFound, "Invalid invite code")
	ErrDeadlinePassed        = usecase.Invalid("Registration deadline has passed for this hackathon")
	ErrAlreadyMember         = usecase.Invalid("You are already a member of this team")
	ErrTeamFull              = usecase.Invalid("Team is full")
	ErrNotRegisteredToJoin   = usecase.Invalid("You must be registered for this hackathon to join the team")
	ErrNotRegisteredToAsk    = usecase.Invalid("You must be registered for this hackathon to request to join the team")
	ErrJoinRequestSent       = usecase.Invalid("Join request already sent")
	ErrEmailRequired         = usecase.Invalid("Email is required")
	ErrNotLeader             = usecase.New(usecase.KindForbidden, "Only team leaders can send invites")
	ErrInviteeAlreadyMember  = usecase.Invalid("User is already a team member")
	ErrInviteEmailFailed     = usecase.New(usecase.KindInternal, "Failed to send invitation email")
	ErrNameAndHackathonEmpty = usecase.Invalid("Name and hackathonId are required")
)

type CreateInput struct {
	Name        string
	Description string
	HackathonID uuid.UUID
}

type JoinResult struct {
	Member repository.TeamMemberDetail
	Team   repository.TeamDetail
}

type Usecase interface {
	List(ctx context.Context, f repository.TeamFilter) ([]repository.TeamDetail, error)
	Create(ctx context.Context, userID uuid.UUID, in CreateInput) (repository.TeamDetail, error)
	MyTeams(ctx context.Context, userID uuid.UUID) ([]repository.MyTeam, error)
	InviteInfo(ctx context.Context, userID uuid.UUID, code string) (repository.TeamDetail, error)
	Join(ctx context.Context, userID uuid.UUID, code string) (JoinResult, error)
	Invite(ctx context.Context, leaderID, teamID uuid.UUID, address string) error
	RequestToJoin(ctx context.Context, userID, teamID uuid.UUID) (notification.Notification, error)
}

type Service struct {
	teams         repository.TeamRepository
	hackathons    repository.HackathonRepository
	users         user.Repository
	notifications repository.NotificationRepository
	notifier      usecase.Notifier
	emailer       usecase.Emailer
	cache         usecase.Cache
	logger        zerolog.Logger
	now           func() time.Time
}

type Deps struct {
	Teams         repository.TeamRepository
	Hackathons    repository.HackathonRepository
	Users         user.Repository
	Notifications repository.NotificationRepository
	Notifier      usecase.Notifier
	Emailer       usecase.Emailer
	Cache         usecase.Cache
	Logger        zerolog.Logger
}

func NewService(d Deps) *Service {
	if d.Cache == nil {
		d.Cache = usecase.NopCache{}
	}
	return &Service{
		teams:         d.Teams,
		hackathons:    d.Hackathons,
		users:         d.Users,
		notifications: d.Notifications,
		notifier:      d.Notifier,
		emailer:       d.Emailer,
		cache:         d.Cache,
		logger:        d.Logger,
		now:           time.Now,
	}
}

func (s *Service) List(ctx context.Context, f repository.TeamFilter) ([]repository.TeamDetail, error) {
	teams, err := s.teams.List(ctx, f)
	if err != nil {
		return nil, usecase.Internal(err)
	}
	return teams, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (repository.TeamDetail, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.HackathonID == uuid.Nil {
		return repository.TeamDetail{}, ErrNameAndHackathonEmpty
	}
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return repository.TeamDetail{}, userErr(err)
	}
	if _, err := s.hackathons.GetByID(ctx, in.HackathonID); err != nil {
		return repository.TeamDetail{}, hackathonErr(err)
	}

	t := team.Team{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		HackathonID: in.HackathonID,
		LeaderID:    userID,
		CreatedAt:   s.now().UTC(),
	}

	var err error
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		t.InviteCode = team.NewInviteCode()
		if err = s.teams.CreateWithLeader(ctx, t); !errors.Is(err, repository.ErrInviteCodeTaken) {
			break
		}
	}
	if err != nil {
		return repository.TeamDetail{}, hackathonErr(err)
	}

	s.invalidateMatchmaking(ctx)

	detail, err := s.teams.GetByID(ctx, t.ID)
	if err != nil {
		return repository.TeamDetail{}, usecase.Internal(err)
	}
	return detail, nil
}

func (s *Service) MyTeams(ctx context.Context, userID uuid.UUID) ([]repository.MyTeam, error) {
	teams, err := s.teams.ListByUser(ctx, userID)
	if err != nil {
		return nil, usecase.Internal(err)
	}
	return teams, nil
}

func (s *Service) InviteInfo(ctx context.Context, userID uuid.UUID, code string) (repository.TeamDetail, error) {
	t, err := s.teamByCode(ctx, code)
	if err != nil {
		return repository.TeamDetail{}, err
	}
	if full(t) {
		return repository.TeamDetail{}, ErrTeamFull
	}
	if isMember(t, userID) {
		return repository.TeamDetail{}, ErrAlreadyMember
	}
	return t, nil
}

// Join checks, in order: the code exists, registration is open, the caller is
// not yet a member, there is a free slot, the caller is registered.
func (s *Service) Join(ctx context.Context, userID uuid.UUID, code string) (JoinResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return JoinResult{}, ErrInviteCodeRequired
	}
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return JoinResult{}, userErr(err)
	}
	t, err := s.teamByCode(ctx, code)
	if err != nil {
		return JoinResult{}, err
	}
	if err := s.checkJoinable(ctx, t, userID, ErrNotRegisteredToJoin); err != nil {
		return JoinResult{}, err
	}

	m := team.Member{
		ID:       uuid.New(),
		TeamID:   t.ID,
		UserID:   userID,
		Role:     team.RoleMember,
		JoinedAt: s.now().UTC(),
	}
	if err := s.teams.AddMember(ctx, m); err != nil {
		if errors.Is(err, repository.ErrAlreadyTeamMember) {
			return JoinResult{}, ErrAlreadyMember
		}
		if errors.Is(err, repository.ErrTeamFull) {
			return JoinResult{}, ErrTeamFull
		}
		if errors.Is(err, repository.ErrTeamNotFound) {
			return JoinResult{}, ErrInvalidInviteCode
		}
		return JoinResult{}, usecase.Internal(err)
	}

	s.invalidateMatchmaking(ctx)
	s.announceNewMember(ctx, t, u)

	updated, err := s.teams.GetByID(ctx, t.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("team_id", t.ID.String()).Msg("reload team after join")
		updated = t
	}
	res := JoinResult{
		Member: repository.TeamMemberDetail{Member: m, Name: u.Name, Email: u.Email, Image: u.Image, Skills: u.Skills},
		Team:   updated,
	}
	return res, nil
}

func (s *Service) Invite(ctx context.Context, leaderID, teamID uuid.UUID, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrEmailRequired
	}
	inviter, err := s.users.GetUserByID(ctx, leaderID)
	if err != nil {
		return userErr(err)
	}
	t, err := s.teamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if t.LeaderID != leaderID {
		return ErrNotLeader
	}
	if !open(t, s.now()) {
		return ErrDeadlinePassed
	}
	if full(t) {
		return ErrTeamFull
	}

	invitee, err := s.users.GetUserByEmail(ctx, strings.ToLower(address))
	hasAccount := err == nil
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return usecase.Internal(err)
	}
	if hasAccount && isMember(t, invitee.ID) {
		return ErrInviteeAlreadyMember
	}

	if usecase.EmailAllowed(ctx, s.users, address, func(p user.NotificationPreferences) bool { return p.TeamInvites }) {
		err := s.emailer.SendTeamInvite(ctx, address, email.TeamInviteData{
			InviterName:    inviter.DisplayName(),
			TeamName:       t.Name,
			HackathonTitle: t.Hackathon.Title,
			InviteCode:     t.InviteCode,
		})
		if err != nil {
			return ErrInviteEmailFailed.WithCause(err)
		}
	}

	if hasAccount {
		d := notification.TeamInvite(invitee.ID, inviter.DisplayName(), t.Name, t.Hackathon.Title)
		d.ActorID = &inviter.ID
		d.TeamID = &t.ID
		if _, err := s.notifier.Notify(ctx, d); err != nil {
			s.logger.Warn().Err(err).Str("team_id", t.ID.String()).Msg("team invite notification")
		}
	}
	return nil
}

func (s *Service) RequestToJoin(ctx context.Context, userID, teamID uuid.UUID) (notification.Notification, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return notification.Notification{}, userErr(err)
	}
	t, err := s.teamByID(ctx, teamID)
	if err != nil {
		return notification.Notification{}, err
	}
	if err := s.checkJoinable(ctx, t, userID, ErrNotRegisteredToAsk); err != nil {
		return notification.Notification{}, err
	}

	exists, err := s.notifications.JoinRequestExists(ctx, t.LeaderID, userID, t.ID)
	if err != nil {
		return notification.Notification{}, usecase.Internal(err)
	}
	if exists {
		return notification.Notification{}, ErrJoinRequestSent
	}

	n, err := s.notifier.Notify(ctx, notification.JoinRequest(t.LeaderID, userID, t.ID, u.DisplayName(), t.Name, t.Hackathon.Title))
	if err != nil {
		return notification.Notification{}, err
	}

	if leader, ok := leaderOf(t); ok &&
		usecase.EmailAllowed(ctx, s.users, leader.Email, func(p user.NotificationPreferences) bool { return p.JoinRequests }) {
		err := s.emailer.SendJoinRequest(ctx, leader.Email, email.JoinRequestData{
			LeaderName:     leader.Name,
			RequesterName:  u.DisplayName(),
			RequesterEmail: u.Email,
			TeamName:       t.Name,
			HackathonTitle: t.Hackathon.Title,
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("team_id", t.ID.String()).Msg("join request email")
		}
	}
	return n, nil
}

func (s *Service) checkJoinable(ctx context.Context, t repository.TeamDetail, userID uuid.UUID, notRegistered error) error {
	if !open(t, s.now()) {
		return ErrDeadlinePassed
	}
	if isMember(t, userID) {
		return ErrAlreadyMember
	}
	if full(t) {
		return ErrTeamFull
	}
	registered, err := s.hackathons.IsRegistered(ctx, userID, t.HackathonID)
	if err != nil {
		return usecase.Internal(err)
	}
	if !registered {
		return notRegistered
	}
	return nil
}

// announceNewMember tells the leader in-app and by email. Failures are logged
// since the membership is already committed.
func (s *Service) announceNewMember(ctx context.Context, t repository.TeamDetail, member user.User) {
	d := notification.NewTeamMember(t.LeaderID, member.DisplayName(), t.Name)
	d.ActorID = &member.ID
	d.TeamID = &t.ID
	if _, err := s.notifier.Notify(ctx, d); err != nil {
		s.logger.Warn().Err(err).Str("team_id", t.ID.String()).Msg("new member notification")
	}

	leader, ok := leaderOf(t)
	if !ok || !usecase.EmailAllowed(ctx, s.users, leader.Email, func(p user.NotificationPreferences) bool { return p.TeamUpdates }) {
		return
	}
	err := s.emailer.SendTeamUpdate(ctx, leader.Email, email.TeamUpdateData{
		TeamID:         t.ID,
		TeamName:       t.Name,
		HackathonTitle: t.Hackathon.Title,
		UpdateType:     "New Team Member",
		Message:        d.Message,
		MemberName:     member.DisplayName(),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("team_id", t.ID.String()).Msg("new member email")
	}
}

func (s *Service) invalidateMatchmaking(ctx context.Context) {
	if err := s.cache.DeleteByPattern(ctx, usecase.MatchmakingCachePattern()); err != nil {
		s.logger.Warn().Err(err).Msg("invalidate matchmaking cache")
	}
}

func (s *Service) teamByCode(ctx context.Context, code string) (repository.TeamDetail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return repository.TeamDetail{}, ErrInviteCodeRequired
	}
	t, err := s.teams.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return repository.TeamDetail{}, ErrInvalidInviteCode
		}
		return repository.TeamDetail{}, usecase.Internal(err)
	}
	return t, nil
}

func (s *Service) teamByID(ctx context.Context, id uuid.UUID) (repository.TeamDetail, error) {
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTeamNotFound) {
			return repository.TeamDetail{}, ErrTeamNotFound
		}
		return repository.TeamDetail{}, usecase.Internal(err)
	}
	return t, nil
}

func open(t repository.TeamDetail, now time.Time) bool {
	return !now.After(t.Hackathon.RegistrationDeadline)
}

func full(t repository.TeamDetail) bool {
	return len(t.Members) >= t.Hackathon.MaxTeamSize
}

func isMember(t repository.TeamDetail, userID uuid.UUID) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func leaderOf(t repository.TeamDetail) (repository.TeamMemberDetail, bool) {
	for _, m := range t.Members {
		if m.UserID == t.LeaderID {
			return m, true
		}
	}
	return repository.TeamMemberDetail{}, false
}

func userErr(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return usecase.ErrUserNotFound.WithCause(err)
	}
	return usecase.Internal(err)
}

func hackathonErr(err error) error {
	if errors.Is(err, repository.ErrHackathonNotFound) {
		return usecase.ErrHackathonNotFound.WithCause(err)
	}
	return usecase.Internal(err)
}
