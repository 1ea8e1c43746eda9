package hackathon

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusUpcoming         = "upcoming"
	StatusOngoing          = "ongoing"
	StatusRegistrationOpen = "registration_open"
)

type Hackathon struct {
	ID                   uuid.UUID
	Title                string
	Description          string
	Theme                string
	StartDate            time.Time
	EndDate              time.Time
	RegistrationDeadline time.Time
	MaxTeamSize          int
	Prizes               []string
	Tags                 []string
	OrganizerID          uuid.UUID
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (h Hackathon) RegistrationOpen(now time.Time) bool {
	return !now.After(h.RegistrationDeadline)
}

func (h Hackathon) Started(now time.Time) bool {
	return !now.Before(h.StartDate)
}

type Registration struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	HackathonID uuid.UUID
	CreatedAt   time.Time
}
