package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Image        *string
	Bio          *string
	Skills       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName falls back to the email when no name was given at sign-up.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

type NotificationPreferences struct {
	EmailNotifications bool
	TeamInvites        bool
	JoinRequests       bool
	DeadlineReminders  bool
	TeamUpdates        bool
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		EmailNotifications: true,
		TeamInvites:        true,
		JoinRequests:       true,
		DeadlineReminders:  true,
		TeamUpdates:        true,
	}
}
