package notification

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const commentPreviewLimit = 100

func TeamInvite(userID uuid.UUID, inviterName, teamName, hackathonTitle string) Draft {
	return Draft{
		UserID:  userID,
		Type:    TypeTeamInvite,
		Title:   "Team Invitation Received",
		Message: fmt.Sprintf("%s has invited you to join '%s' team for %s", inviterName, teamName, hackathonTitle),
	}
}

// JoinRequest records the requester and team so repeated requests can be
// detected without matching on message text.
func JoinRequest(leaderID, requesterID, teamID uuid.UUID, requesterName, teamName, hackathonTitle string) Draft {
	return Draft{
		UserID:  leaderID,
		Type:    TypeJoinRequest,
		Title:   "Team Join Request",
		Message: fmt.Sprintf("%s wants to join your team \"%s\" for %s", requesterName, teamName, hackathonTitle),
		ActorID: &requesterID,
		TeamID:  &teamID,
	}
}

func DeadlineReminder(userID uuid.UUID, hackathonTitle, deadlineType string, daysLeft int) Draft {
	return Draft{
		UserID: userID,
		Type:   TypeDeadlineReminder,
		Title:  deadlineType + " Deadline Approaching",
		Message: fmt.Sprintf("Only %d %s left for %s in %s. Don't miss out!",
			daysLeft, Pluralize(daysLeft, "day"), strings.ToLower(deadlineType), hackathonTitle),
	}
}

func TeamUpdate(userID uuid.UUID, updateType, teamName, message string) Draft {
	return Draft{
		UserID:  userID,
		Type:    TypeTeamUpdate,
		Title:   "Team Update: " + updateType,
		Message: fmt.Sprintf("%s - Team: %s", message, teamName),
	}
}

// NewTeamMember is the notice a leader receives when someone joins by code.
func NewTeamMember(leaderID uuid.UUID, memberName, teamName string) Draft {
	return Draft{
		UserID:  leaderID,
		Type:    TypeTeamUpdate,
		Title:   "New Team Member",
		Message: fmt.Sprintf("%s has joined your team \"%s\"", memberName, teamName),
	}
}

func ProjectComment(ownerID uuid.UUID, commenterName, projectTitle, comment string) Draft {
	return Draft{
		UserID:  ownerID,
		Type:    TypeProjectComment,
		Title:   "New Comment on Your Project",
		Message: fmt.Sprintf("%s commented on your project '%s': %s", commenterName, projectTitle, Preview(comment, commentPreviewLimit)),
	}
}

func ProjectEndorsement(ownerID uuid.UUID, endorserName, projectTitle string) Draft {
	return Draft{
		UserID:  ownerID,
		Type:    TypeProjectEndorsement,
		Title:   "Project Endorsed",
		Message: fmt.Sprintf("Your project '%s' received an endorsement from %s", projectTitle, endorserName),
	}
}

// Preview cuts s to limit runes and appends "..." when something was cut.
func Preview(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func Pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
