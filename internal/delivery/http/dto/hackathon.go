package dto

import (
	"time"

	"github.com/google/uuid"

	"hackmap/internal/domain/hackathon"
	"hackmap/internal/repository"
	uchackathon "hackmap/internal/usecase/hackathon"
)

type CreateHackathonRequest struct {
	Title                string    `json:"title" validate:"required"`
	Description          string    `json:"description" validate:"required"`
	Theme                string    `json:"theme" validate:"required"`
	StartDate            time.Time `json:"startDate" validate:"required"`
	EndDate              time.Time `json:"endDate" validate:"required"`
	RegistrationDeadline time.Time `json:"registrationDeadline" validate:"required"`
	MaxTeamSize          int       `json:"maxTeamSize" validate:"required,min=1"`
	Prizes               []string  `json:"prizes"`
	Tags                 []string  `json:"tags"`
}

type HackathonResponse struct {
	ID                   uuid.UUID `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Theme                string    `json:"theme"`
	StartDate            time.Time `json:"startDate"`
	EndDate              time.Time `json:"endDate"`
	RegistrationDeadline time.Time `json:"registrationDeadline"`
	MaxTeamSize          int       `json:"maxTeamSize"`
	Prizes               []string  `json:"prizes"`
	Tags                 []string  `json:"tags"`
	OrganizerID          uuid.UUID `json:"organizerId"`
	CreatedAt            time.Time `json:"createdAt"`
	RegistrationCount    *int      `json:"registrationCount,omitempty"`
}

type PaginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type HackathonListResponse struct {
	Hackathons []HackathonResponse `json:"hackathons"`
	Pagination PaginationResponse  `json:"pagination"`
}

type RegistrationResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	HackathonID uuid.UUID `json:"hackathonId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (r CreateHackathonRequest) ToInput() uchackathon.CreateInput {
	return uchackathon.CreateInput{
		Title:                r.Title,
		Description:          r.Description,
		Theme:                r.Theme,
		StartDate:            r.StartDate,
		EndDate:              r.EndDate,
		RegistrationDeadline: r.RegistrationDeadline,
		MaxTeamSize:          r.MaxTeamSize,
		Prizes:               r.Prizes,
		Tags:                 r.Tags,
	}
}

func NewHackathonResponse(h hackathon.Hackathon) HackathonResponse {
	return HackathonResponse{
		ID:                   h.ID,
		Title:                h.Title,
		Description:          h.Description,
		Theme:                h.Theme,
		StartDate:            h.StartDate,
		EndDate:              h.EndDate,
		RegistrationDeadline: h.RegistrationDeadline,
		MaxTeamSize:          h.MaxTeamSize,
		Prizes:               orEmpty(h.Prizes),
		Tags:                 orEmpty(h.Tags),
		OrganizerID:          h.OrganizerID,
		CreatedAt:            h.CreatedAt,
	}
}

func NewHackathonListResponse(res uchackathon.ListResult) HackathonListResponse {
	items := make([]HackathonResponse, 0, len(res.Hackathons))
	for _, s := range res.Hackathons {
		items = append(items, newHackathonSummary(s))
	}
	return HackathonListResponse{
		Hackathons: items,
		Pagination: PaginationResponse{
			Page:  res.Pagination.Page,
			Limit: res.Pagination.Limit,
			Total: res.Pagination.Total,
			Pages: res.Pagination.Pages,
		},
	}
}

func NewRegistrationResponse(r hackathon.Registration) RegistrationResponse {
	return RegistrationResponse{ID: r.ID, UserID: r.UserID, HackathonID: r.HackathonID, CreatedAt: r.CreatedAt}
}

func newHackathonSummary(s repository.HackathonSummary) HackathonResponse {
	out := NewHackathonResponse(s.Hackathon)
	count := s.RegistrationCount
	out.RegistrationCount = &count
	return out
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
