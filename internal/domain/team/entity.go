package team

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleLeader = "LEADER"
	RoleMember = "MEMBER"
)

type Team struct {
	ID          uuid.UUID
	Name        string
	Description string
	HackathonID uuid.UUID
	LeaderID    uuid.UUID
	InviteCode  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Member struct {
	ID       uuid.UUID
	TeamID   uuid.UUID
	UserID   uuid.UUID
	Role     string
	JoinedAt time.Time
}

func IsMember(members []Member, userID uuid.UUID) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

const inviteCodeLength = 10

// NewInviteCode returns a short opaque code. Uniqueness is enforced by the
// store, callers retry on conflict.
func NewInviteCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:inviteCodeLength])
}
