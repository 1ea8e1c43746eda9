package usecase

import (
	"context"

	"hackmap/internal/domain/notification"
	"hackmap/internal/infrastructure/email"
)

// Notifier stores a notification and pushes it to the recipient's live
// connections.
type Notifier interface {
	Notify(ctx context.Context, d notification.Draft) (notification.Notification, error)
}

type Emailer interface {
	SendTeamInvite(ctx context.Context, to string, d email.TeamInviteData) error
	SendJoinRequest(ctx context.Context, to string, d email.JoinRequestData) error
	SendDeadlineReminder(ctx context.Context, to string, d email.DeadlineReminderData) error
	SendTeamUpdate(ctx context.Context, to string, d email.TeamUpdateData) error
}
