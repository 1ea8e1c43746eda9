package project

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID
	Title       string
	Description string
	TechStack   []string
	GithubURL   *string
	DemoURL     *string
	TeamID      uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Comment struct {
	ID        uuid.UUID
	Content   string
	UserID    uuid.UUID
	ProjectID uuid.UUID
	CreatedAt time.Time
}

type Endorsement struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}
