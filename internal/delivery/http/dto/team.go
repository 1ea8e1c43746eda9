package dto

import (
	"time"

	"github.com/google/uuid"

	"hackmap/internal/repository"
)

type CreateTeamRequest struct {
	Name        string    `json:"name" validate:"max=100"`
	Description string    `json:"description" validate:"max=1000"`
	HackathonID uuid.UUID `json:"hackathonId"`
}

type JoinTeamRequest struct {
	InviteCode string `json:"inviteCode"`
}

type InviteRequest struct {
	Email string `json:"email"`
}

type MemberUserResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email,omitempty"`
	Image  *string   `json:"image"`
	Skills []string  `json:"skills"`
}

type TeamMemberResponse struct {
	ID       uuid.UUID          `json:"id"`
	Role     string             `json:"role"`
	JoinedAt time.Time          `json:"joinedAt"`
	User     MemberUserResponse `json:"user"`
}

type TeamHackathonResponse struct {
	ID                   uuid.UUID `json:"id"`
	Title                string    `json:"title"`
	Theme                string    `json:"theme,omitempty"`
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
	RegistrationDeadline time.Time `json:"registrationDeadline"`
	MaxTeamSize          int       `json:"maxTeamSize"`
}

type TeamCount struct {
	Members int `json:"members"`
}

type TeamResponse struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	HackathonID uuid.UUID             `json:"hackathonId"`
	LeaderID    uuid.UUID             `json:"leaderId"`
	InviteCode  string                `json:"inviteCode,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	Hackathon   TeamHackathonResponse `json:"hackathon"`
	Members     []TeamMemberResponse  `json:"members"`
	Count       TeamCount             `json:"_count"`
}

type MyTeamResponse struct {
	TeamResponse
	Role string `json:"role"`
}

type JoinTeamResponse struct {
	TeamMemberResponse
	Team TeamResponse `json:"team"`
}

type JoinRequestResponse struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message"`
	Notification NotificationResponse `json:"notification"`
}

func NewTeamMemberResponse(m repository.TeamMemberDetail) TeamMemberResponse {
	skills := m.Skills
	if skills == nil {
		skills = []string{}
	}
	return TeamMemberResponse{
		ID:       m.ID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
		User: MemberUserResponse{
			ID:     m.UserID,
			Name:   m.Name,
			Email:  m.Email,
			Image:  m.Image,
			Skills: skills,
		},
	}
}

func NewTeamResponse(t repository.TeamDetail) TeamResponse {
	members := make([]TeamMemberResponse, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, NewTeamMemberResponse(m))
	}
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		HackathonID: t.HackathonID,
		LeaderID:    t.LeaderID,
		InviteCode:  t.InviteCode,
		CreatedAt:   t.CreatedAt,
		Hackathon: TeamHackathonResponse{
			ID:                   t.Hackathon.ID,
			Title:                t.Hackathon.Title,
			Theme:                t.Hackathon.Theme,
			StartDate:            t.Hackathon.StartDate,
			EndDate:              t.Hackathon.EndDate,
			RegistrationDeadline: t.Hackathon.RegistrationDeadline,
			MaxTeamSize:          t.Hackathon.MaxTeamSize,
		},
		Members: members,
		Count:   TeamCount{Members: len(t.Members)},
	}
}

// NewPublicTeamResponse hides the invite code from users outside the team.
func NewPublicTeamResponse(t repository.TeamDetail) TeamResponse {
	out := NewTeamResponse(t)
	out.InviteCode = ""
	return out
}

func NewTeamResponses(in []repository.TeamDetail) []TeamResponse {
	out := make([]TeamResponse, 0, len(in))
	for _, t := range in {
		out = append(out, NewPublicTeamResponse(t))
	}
	return out
}

func NewMyTeamResponses(in []repository.MyTeam) []MyTeamResponse {
	out := make([]MyTeamResponse, 0, len(in))
	for _, t := range in {
		out = append(out, MyTeamResponse{TeamResponse: NewTeamResponse(t.TeamDetail), Role: t.Role})
	}
	return out
}
