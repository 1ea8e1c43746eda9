package dto

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"hackmap/internal/domain/user"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     *string   `json:"image"`
	Bio       *string   `json:"bio"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateProfileRequest keeps skills raw so an omitted field can be told
// apart from an explicit array, and a non-array rejected.
type UpdateProfileRequest struct {
	Name   string          `json:"name"`
	Bio    string          `json:"bio"`
	Skills json.RawMessage `json:"skills"`
}

type StatResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon,omitempty"`
}

type NotificationPreferencesBody struct {
	TeamInvites       bool `json:"teamInvites"`
	JoinRequests      bool `json:"joinRequests"`
	DeadlineReminders bool `json:"deadlineReminders"`
	TeamUpdates       bool `json:"teamUpdates"`
}

type NotificationSettings struct {
	EmailNotifications bool                        `json:"emailNotifications"`
	Preferences        NotificationPreferencesBody `json:"preferences"`
}

type NotificationSettingsResponse struct {
	Message string `json:"message"`
	NotificationSettings
}

func NewUserResponse(u user.User) UserResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		Bio:       u.Bio,
		Skills:    skills,
		CreatedAt: u.CreatedAt,
	}
}

func NewNotificationSettings(p user.NotificationPreferences) NotificationSettings {
	return NotificationSettings{
		EmailNotifications: p.EmailNotifications,
		Preferences: NotificationPreferencesBody{
			TeamInvites:       p.TeamInvites,
			JoinRequests:      p.JoinRequests,
			DeadlineReminders: p.DeadlineReminders,
			TeamUpdates:       p.TeamUpdates,
		},
	}
}

func (s NotificationSettings) ToDomain() user.NotificationPreferences {
	return user.NotificationPreferences{
		EmailNotifications: s.EmailNotifications,
		TeamInvites:        s.Preferences.TeamInvites,
		JoinRequests:       s.Preferences.JoinRequests,
		DeadlineReminders:  s.Preferences.DeadlineReminders,
		TeamUpdates:        s.Preferences.TeamUpdates,
	}
}
