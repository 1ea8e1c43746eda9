package dto

import (
	"time"

	"github.com/google/uuid"

	"hackmap/internal/domain/notification"
)

type CreateNotificationRequest struct {
	Type    string `json:"type"`
	Title   string `json:"title" validate:"max=200"`
	Message string `json:"message" validate:"max=2000"`
}

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ActorID   *uuid.UUID `json:"actorId"`
	TeamID    *uuid.UUID `json:"teamId"`
	CreatedAt time.Time  `json:"createdAt"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

type MarkAllReadResponse struct {
	Success      bool  `json:"success"`
	UpdatedCount int64 `json:"updatedCount"`
}

func NewNotificationResponse(n notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		ActorID:   n.ActorID,
		TeamID:    n.TeamID,
		CreatedAt: n.CreatedAt,
	}
}

func NewNotificationResponses(in []notification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(in))
	for _, n := range in {
		out = append(out, NewNotificationResponse(n))
	}
	return out
}
