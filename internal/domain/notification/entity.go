package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeTeamInvite         Type = "TEAM_INVITE"
	TypeJoinRequest        Type = "JOIN_REQUEST"
	TypeDeadlineReminder   Type = "DEADLINE_REMINDER"
	TypeTeamUpdate         Type = "TEAM_UPDATE"
	TypeProjectComment     Type = "PROJECT_COMMENT"
	TypeProjectEndorsement Type = "PROJECT_ENDORSEMENT"
)

func (t Type) Valid() bool {
	switch t {
	case TypeTeamInvite, TypeJoinRequest, TypeDeadlineReminder, TypeTeamUpdate, TypeProjectComment, TypeProjectEndorsement:
		return true
	default:
		return false
	}
}

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	Read      bool
	ActorID   *uuid.UUID
	TeamID    *uuid.UUID
	CreatedAt time.Time
}

// Draft is a notification that has not been stored yet.
type Draft struct {
	UserID  uuid.UUID
	Type    Type
	Title   string
	Message string
	ActorID *uuid.UUID
	TeamID  *uuid.UUID
}
