package dto

import (
	"time"

	"github.com/google/uuid"

	"hackmap/internal/domain/project"
	"hackmap/internal/repository"
	ucproject "hackmap/internal/usecase/project"
)

type CreateProjectRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeamID      uuid.UUID `json:"teamId"`
	TechStack   []string  `json:"techStack"`
	GithubURL   *string   `json:"githubUrl" validate:"omitempty,url"`
	DemoURL     *string   `json:"demoUrl" validate:"omitempty,url"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type ProjectTeamResponse struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	LeaderID  uuid.UUID            `json:"leaderId"`
	Hackathon ProjectHackathonRef  `json:"hackathon"`
	Members   []TeamMemberResponse `json:"members"`
}

type ProjectHackathonRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type ProjectCount struct {
	Comments     int `json:"comments"`
	Endorsements int `json:"endorsements"`
}

type ProjectResponse struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	TechStack   []string            `json:"techStack"`
	GithubURL   *string             `json:"githubUrl"`
	DemoURL     *string             `json:"demoUrl"`
	TeamID      uuid.UUID           `json:"teamId"`
	CreatedAt   time.Time           `json:"createdAt"`
	Team        ProjectTeamResponse `json:"team"`
	Count       ProjectCount        `json:"_count"`
	Comments    []CommentResponse   `json:"comments,omitempty"`
}

type CommentAuthor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image"`
}

type CommentResponse struct {
	ID        uuid.UUID     `json:"id"`
	Content   string        `json:"content"`
	ProjectID uuid.UUID     `json:"projectId"`
	CreatedAt time.Time     `json:"createdAt"`
	User      CommentAuthor `json:"user"`
}

type EndorsementResponse struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r CreateProjectRequest) ToInput() ucproject.CreateInput {
	return ucproject.CreateInput{
		Title:       r.Title,
		Description: r.Description,
		TeamID:      r.TeamID,
		TechStack:   r.TechStack,
		GithubURL:   r.GithubURL,
		DemoURL:     r.DemoURL,
	}
}

func NewProjectResponse(p repository.ProjectSummary) ProjectResponse {
	members := make([]TeamMemberResponse, 0, len(p.Team.Members))
	for _, m := range p.Team.Members {
		members = append(members, NewTeamMemberResponse(m))
	}
	return ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		TechStack:   orEmpty(p.TechStack),
		GithubURL:   p.GithubURL,
		DemoURL:     p.DemoURL,
		TeamID:      p.TeamID,
		CreatedAt:   p.CreatedAt,
		Team: ProjectTeamResponse{
			ID:        p.Team.ID,
			Name:      p.Team.Name,
			LeaderID:  p.Team.LeaderID,
			Hackathon: ProjectHackathonRef{ID: p.Team.HackathonID, Title: p.Team.HackathonTitle},
			Members:   members,
		},
		Count: ProjectCount{Comments: p.CommentCount, Endorsements: p.EndorsementCount},
	}
}

func NewProjectResponses(in []repository.ProjectSummary) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(in))
	for _, p := range in {
		out = append(out, NewProjectResponse(p))
	}
	return out
}

func NewProjectDetailResponse(d ucproject.Detail) ProjectResponse {
	out := NewProjectResponse(d.ProjectSummary)
	out.Comments = make([]CommentResponse, 0, len(d.Comments))
	for _, c := range d.Comments {
		out.Comments = append(out.Comments, NewCommentResponse(c))
	}
	return out
}

func NewCommentResponse(c repository.CommentDetail) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		ProjectID: c.ProjectID,
		CreatedAt: c.CreatedAt,
		User:      CommentAuthor{ID: c.UserID, Name: c.AuthorName, Image: c.AuthorImage},
	}
}

func NewEndorsementResponse(e project.Endorsement) EndorsementResponse {
	return EndorsementResponse{ID: e.ID, ProjectID: e.ProjectID, UserID: e.UserID, CreatedAt: e.CreatedAt}
}
