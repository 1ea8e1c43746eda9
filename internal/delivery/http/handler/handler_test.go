package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hackmap/internal/config"
	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/domain/hackathon"
	"hackmap/internal/domain/matching"
	"hackmap/internal/domain/team"
	"hackmap/internal/domain/user"
	"hackmap/internal/pkg/jwt"
	"hackmap/internal/repository"
	ucauth "hackmap/internal/usecase/auth"
	uchackathon "hackmap/internal/usecase/hackathon"
	ucmatchmaking "hackmap/internal/usecase/matchmaking"
	ucprofile "hackmap/internal/usecase/profile"
	ucreminder "hackmap/internal/usecase/reminder"
	ucstats "hackmap/internal/usecase/stats"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var testJWT = jwt.NewHMACService(config.JWTConfig{
	AccessSecret:     "test-access",
	RefreshSecret:    "test-refresh",
	AccessExpiresIn:  time.Minute,
	RefreshExpiresIn: time.Hour,
})

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(zerolog.Nop()).Middleware())
	return app
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	pair, err := testJWT.IssuePair(userID, "user@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + pair.AccessToken
}

func call(t *testing.T, app *fiber.App, method, path, body, auth string) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("decode %q: %v", string(b), err)
	}
	return resp.StatusCode, env
}

type fakeAuth struct {
	ucauth.Usecase
	registered ucauth.RegisterInput
}

func (f *fakeAuth) Register(_ context.Context, in ucauth.RegisterInput) (uuid.UUID, error) {
	if in.Email == "taken@example.com" {
		return uuid.Nil, ucauth.ErrUserExists
	}
	f.registered = in
	return uuid.New(), nil
}

func TestAuthHandler_Register(t *testing.T) {
	uc := &fakeAuth{}
	app := newApp()
	NewAuthHandler(uc).RegisterRoutes(app.Group("/auth"))

	status, env := call(t, app, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`, "")
	if status != fiber.StatusCreated || env.Message != "User created successfully" {
		t.Fatalf("unexpected response %d %+v", status, env)
	}
	if uc.registered.Name != "Alice" {
		t.Fatalf("expected input to reach the usecase, got %+v", uc.registered)
	}

	status, env = call(t, app, http.MethodPost, "/auth/register",
		`{"email":"taken@example.com","password":"password123"}`, "")
	if status != fiber.StatusBadRequest || env.Message != "User already exists" {
		t.Fatalf("unexpected response %d %+v", status, env)
	}

	status, _ = call(t, app, http.MethodPost, "/auth/register", `{"email":"not-an-email"}`, "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed email, got %d", status)
	}
}

type fakeHackathons struct {
	uchackathon.Usecase
	registeredBy uuid.UUID
}

func (f *fakeHackathons) List(_ context.Context, p uchackathon.ListParams) (uchackathon.ListResult, error) {
	return uchackathon.ListResult{
		Pagination: uchackathon.Pagination{Page: p.Page, Limit: uchackathon.PageSize},
	}, nil
}

func (f *fakeHackathons) Register(_ context.Context, userID, id uuid.UUID) (hackathon.Registration, error) {
	f.registeredBy = userID
	return hackathon.Registration{ID: uuid.New(), UserID: userID, HackathonID: id}, nil
}

func TestHackathonHandler_PublicAndProtected(t *testing.T) {
	uc := &fakeHackathons{}
	app := newApp()
	auth := middleware.NewAuthMiddleware(testJWT).Middleware()
	NewHackathonHandler(uc).RegisterRoutes(app.Group("/hackathons"), auth)

	status, env := call(t, app, http.MethodGet, "/hackathons?page=2", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected public listing, got %d %+v", status, env)
	}
	var list struct {
		Hackathons []any `json:"hackathons"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Pagination.Page != 2 || list.Pagination.Limit != 12 || list.Hackathons == nil {
		t.Fatalf("unexpected list %+v", list)
	}

	id := uuid.New()
	status, _ = call(t, app, http.MethodPost, "/hackathons/"+id.String()+"/register", "", "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	caller := uuid.New()
	status, _ = call(t, app, http.MethodPost, "/hackathons/"+id.String()+"/register", "", bearer(t, caller))
	if status != fiber.StatusCreated || uc.registeredBy != caller {
		t.Fatalf("expected 201 for caller, got %d (registeredBy=%s)", status, uc.registeredBy)
	}

	status, env = call(t, app, http.MethodPost, "/hackathons/not-a-uuid/register", "", bearer(t, caller))
	if status != fiber.StatusNotFound || env.Message != "Hackathon not found" {
		t.Fatalf("expected 404 for bad id, got %d %+v", status, env)
	}
}

type fakeProfile struct {
	ucprofile.Usecase
	got ucprofile.UpdateInput
}

func (f *fakeProfile) Update(_ context.Context, id uuid.UUID, in ucprofile.UpdateInput) (user.User, error) {
	f.got = in
	return user.User{ID: id, Skills: ucprofile.NormalizeSkills(in.Skills)}, nil
}

func TestProfileHandler_UpdateSkills(t *testing.T) {
	uc := &fakeProfile{}
	app := newApp()
	NewProfileHandler(uc).RegisterRoutes(app.Group("/profile", middleware.NewAuthMiddleware(testJWT).Middleware()))
	tok := bearer(t, uuid.New())

	status, env := call(t, app, http.MethodPut, "/profile", `{"skills":"Go"}`, tok)
	if status != fiber.StatusBadRequest || env.Message != "Skills must be an array" {
		t.Fatalf("expected array error, got %d %+v", status, env)
	}

	status, _ = call(t, app, http.MethodPut, "/profile", `{"name":"Bob"}`, tok)
	if status != fiber.StatusOK || uc.got.SkillsSet {
		t.Fatalf("omitted skills must not be set, got %d %+v", status, uc.got)
	}

	status, _ = call(t, app, http.MethodPut, "/profile", `{"skills":[" Go ",""]}`, tok)
	if status != fiber.StatusOK || !uc.got.SkillsSet || len(uc.got.Skills) != 2 {
		t.Fatalf("expected raw skills passed through, got %d %+v", status, uc.got)
	}
}

type fakeReminders struct {
	runs int
}

func (f *fakeReminders) Run(context.Context, time.Time) (ucreminder.Result, error) {
	f.runs++
	return ucreminder.Result{Success: true, Message: "Sent 0 deadline reminder emails"}, nil
}

func TestCronHandler_Secret(t *testing.T) {
	uc := &fakeReminders{}
	app := newApp()
	NewCronHandler(uc, "s3cret").RegisterRoutes(app.Group("/cron"))

	status, _ := call(t, app, http.MethodPost, "/cron/deadline-reminders", `{"authorization":"nope"}`, "")
	if status != fiber.StatusUnauthorized || uc.runs != 0 {
		t.Fatalf("expected 401, got %d (runs=%d)", status, uc.runs)
	}

	status, _ = call(t, app, http.MethodPost, "/cron/deadline-reminders", `{not json`, "")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", status)
	}

	status, env := call(t, app, http.MethodPost, "/cron/deadline-reminders", `{"authorization":"s3cret"}`, "")
	if status != fiber.StatusOK || uc.runs != 1 || env.Message != "Sent 0 deadline reminder emails" {
		t.Fatalf("expected authorized run, got %d %+v", status, env)
	}

	status, _ = call(t, app, http.MethodGet, "/cron/deadline-reminders", "", "")
	if status != fiber.StatusOK || uc.runs != 2 {
		t.Fatalf("expected GET to run, got %d", status)
	}
}

type fixedStats []ucstats.Stat

func (f fixedStats) Global(context.Context) []ucstats.Stat { return f }

func TestStatsHandler(t *testing.T) {
	app := newApp()
	NewStatsHandler(fixedStats(ucstats.Fallback)).RegisterRoutes(app.Group("/stats"))

	status, env := call(t, app, http.MethodGet, "/stats", "", "")
	if status != fiber.StatusOK {
		t.Fatalf("unexpected status %d", status)
	}
	var stats []ucstats.Stat
	if err := json.Unmarshal(env.Data, &stats); err != nil || len(stats) != 4 || stats[0].Value != "3+" {
		t.Fatalf("unexpected stats %s (%v)", string(env.Data), err)
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Database(t *testing.T) {
	app := fiber.New()
	NewHealthHandler(pingFunc(func(context.Context) error { return context.DeadlineExceeded })).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/db", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	var body dbHealth
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != fiber.StatusServiceUnavailable || body.Status != "unhealthy" || body.Database != "disconnected" {
		t.Fatalf("unexpected response %d %+v", resp.StatusCode, body)
	}
}

type fakeMatchmaking map[uuid.UUID]ucmatchmaking.Result

func (f fakeMatchmaking) Recommend(_ context.Context, userID uuid.UUID) (ucmatchmaking.Result, error) {
	return f[userID], nil
}

func TestTeamHandler_Matchmaking(t *testing.T) {
	skilled, unskilled := uuid.New(), uuid.New()
	leader := repository.TeamMemberDetail{
		Member: team.Member{ID: uuid.New(), UserID: uuid.New(), Role: team.RoleLeader},
		Name:   "Alice Johnson",
		Email:  "alice@example.com",
		Skills: []string{"React", "Node.js"},
	}
	alpha := repository.TeamDetail{
		Team:      team.Team{ID: uuid.New(), Name: "Alpha", InviteCode: "ABCDEF1234"},
		Hackathon: repository.TeamHackathon{Title: "AI Innovation Challenge 2024", MaxTeamSize: 4},
		Members:   []repository.TeamMemberDetail{leader},
	}
	uc := fakeMatchmaking{
		skilled: {
			Message:    "Found 1 recommended teams based on your skills",
			UserSkills: []string{"React", "Python"},
			Teams: []ucmatchmaking.Recommendation{{
				Team:                alpha,
				MatchScore:          8.75,
				CommonSkills:        []string{"React"},
				ComplementarySkills: []string{"Python"},
				TeamSkills:          []string{"React", "Node.js"},
			}},
		},
		unskilled: {
			Message:    matching.MessageNoSkills,
			UserSkills: []string{},
			Teams:      []ucmatchmaking.Recommendation{},
		},
	}

	app := newApp()
	auth := middleware.NewAuthMiddleware(testJWT).Middleware()
	NewTeamHandler(nil, uc).RegisterRoutes(app.Group("/api/v1/teams", auth))

	status, _ := call(t, app, http.MethodGet, "/api/v1/teams/matchmaking", "", "")
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}

	status, env := call(t, app, http.MethodGet, "/api/v1/teams/matchmaking", "", bearer(t, skilled))
	if status != fiber.StatusOK || env.Message != "Found 1 recommended teams based on your skills" {
		t.Fatalf("unexpected response %d %+v", status, env)
	}
	var got struct {
		Message    string   `json:"message"`
		UserSkills []string `json:"userSkills"`
		Teams      []struct {
			ID                  uuid.UUID `json:"id"`
			Name                string    `json:"name"`
			InviteCode          *string   `json:"inviteCode"`
			MatchScore          float64   `json:"matchScore"`
			CommonSkills        []string  `json:"commonSkills"`
			ComplementarySkills []string  `json:"complementarySkills"`
			TeamSkills          []string  `json:"teamSkills"`
			Hackathon           struct {
				Title string `json:"title"`
			} `json:"hackathon"`
			Members []struct {
				User map[string]json.RawMessage `json:"user"`
			} `json:"members"`
		} `json:"teams"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode %s: %v", string(env.Data), err)
	}
	if got.Message != env.Message || len(got.UserSkills) != 2 || len(got.Teams) != 1 {
		t.Fatalf("unexpected body %s", string(env.Data))
	}
	rec := got.Teams[0]
	if rec.ID != alpha.ID || rec.Name != "Alpha" || rec.MatchScore != 8.75 || rec.Hackathon.Title != "AI Innovation Challenge 2024" {
		t.Fatalf("scores must be merged onto the team record, got %+v", rec)
	}
	if len(rec.CommonSkills) != 1 || rec.CommonSkills[0] != "React" ||
		len(rec.ComplementarySkills) != 1 || rec.ComplementarySkills[0] != "Python" ||
		len(rec.TeamSkills) != 2 {
		t.Fatalf("unexpected skill breakdown %+v", rec)
	}
	if rec.InviteCode != nil {
		t.Fatalf("invite code leaked to a non-member")
	}
	if len(rec.Members) != 1 {
		t.Fatalf("expected members on the team record, got %+v", rec.Members)
	}
	if _, ok := rec.Members[0].User["email"]; ok {
		t.Fatalf("member email leaked: %s", string(env.Data))
	}
	if _, ok := rec.Members[0].User["skills"]; !ok {
		t.Fatalf("member skills missing: %s", string(env.Data))
	}

	status, env = call(t, app, http.MethodGet, "/api/v1/teams/matchmaking", "", bearer(t, unskilled))
	if status != fiber.StatusOK || env.Message != matching.MessageNoSkills {
		t.Fatalf("unexpected response %d %+v", status, env)
	}
	var empty map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &empty); err != nil {
		t.Fatalf("decode %s: %v", string(env.Data), err)
	}
	if string(empty["userSkills"]) != "[]" || string(empty["teams"]) != "[]" {
		t.Fatalf("empty lists must serialize as [], got %s", string(env.Data))
	}
}
