package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	TemplateTeamInvite       = "teamInvite"
	TemplateJoinRequest      = "joinRequest"
	TemplateDeadlineReminder = "deadlineReminder"
	TemplateTeamUpdate       = "teamUpdate"
)

type Message struct {
	To       string
	Subject  string
	HTML     string
	Template string
}

type TeamInviteData struct {
	InviterName    string
	TeamName       string
	HackathonTitle string
	InviteCode     string
}

type JoinRequestData struct {
	LeaderName     string
	RequesterName  string
	RequesterEmail string
	TeamName       string
	HackathonTitle string
}

type DeadlineReminderData struct {
	UserName       string
	HackathonID    uuid.UUID
	HackathonTitle string
	DeadlineType   string
	Deadline       time.Time
	DaysLeft       int
}

type TeamUpdateData struct {
	TeamID         uuid.UUID
	TeamName       string
	HackathonTitle string
	UpdateType     string
	Message        string
	MemberName     string
}

// Renderer turns typed payloads into ready-to-send messages. Links are
// absolute, rooted at baseURL.
type Renderer struct {
	baseURL string
	tmpl    *template.Template
}

func NewRenderer(baseURL string) (*Renderer, error) {
	tmpl, err := template.New("email").
		Funcs(template.FuncMap{"lower": strings.ToLower}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &Renderer{baseURL: strings.TrimRight(baseURL, "/"), tmpl: tmpl}, nil
}

func (r *Renderer) TeamInvite(to string, d TeamInviteData) (Message, error) {
	inviteURL := r.baseURL + "/teams/join?code=" + url.QueryEscape(d.InviteCode)
	return r.render(to, TemplateTeamInvite, "team_invite.html",
		fmt.Sprintf("🚀 You're invited to join team \"%s\"!", d.TeamName),
		struct {
			TeamInviteData
			InviteURL string
		}{d, inviteURL},
	)
}

func (r *Renderer) JoinRequest(to string, d JoinRequestData) (Message, error) {
	return r.render(to, TemplateJoinRequest, "join_request.html",
		fmt.Sprintf("📝 New join request for team \"%s\"", d.TeamName),
		struct {
			JoinRequestData
			DashboardURL string
		}{d, r.baseURL + "/dashboard"},
	)
}

func (r *Renderer) DeadlineReminder(to string, d DeadlineReminderData) (Message, error) {
	timeLeft := fmt.Sprintf("%d day", d.DaysLeft)
	if d.DaysLeft != 1 {
		timeLeft += "s"
	}
	return r.render(to, TemplateDeadlineReminder, "deadline_reminder.html",
		fmt.Sprintf("⏰ Reminder: %s deadline approaching for %s", d.DeadlineType, d.HackathonTitle),
		struct {
			DeadlineReminderData
			Deadline  string
			TimeLeft  string
			ActionURL string
		}{d, d.Deadline.Format("January 2, 2006"), timeLeft, r.baseURL + "/hackathons/" + d.HackathonID.String()},
	)
}

func (r *Renderer) TeamUpdate(to string, d TeamUpdateData) (Message, error) {
	return r.render(to, TemplateTeamUpdate, "team_update.html",
		fmt.Sprintf("🔔 Team update: %s - %s", d.UpdateType, d.TeamName),
		struct {
			TeamUpdateData
			TeamURL string
		}{d, r.baseURL + "/teams/" + d.TeamID.String()},
	)
}

func (r *Renderer) render(to, name, file, subject string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, file, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Message{To: to, Subject: subject, HTML: buf.String(), Template: name}, nil
}
