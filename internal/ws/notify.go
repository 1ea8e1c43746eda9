package ws

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"hackmap/internal/delivery/http/dto"
	"hackmap/internal/domain/notification"
)

type NotificationEvent struct {
	Type         string    `json:"type"`
	Notification any       `json:"notification"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher pushes notification payloads to the recipient's sockets.
type Publisher struct {
	hub *Hub
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) PublishNotification(userID uuid.UUID, payload any) {
	if p == nil || p.hub == nil {
		return
	}
	b, err := json.Marshal(NotificationEvent{
		Type:         "notification",
		Notification: payload,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		p.hub.logger.Warn().Err(err).Msg("ws encode notification")
		return
	}
	p.hub.SendToUser(userID, b)
}

// Push delivers a stored notification in its API shape.
func (p *Publisher) Push(n notification.Notification) {
	p.PublishNotification(n.UserID, dto.NewNotificationResponse(n))
}
