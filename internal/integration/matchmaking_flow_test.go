package integration

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hackmap/internal/app"
	"hackmap/internal/config"
	dbpostgres "hackmap/internal/database/postgres"
	"hackmap/internal/database/seeder"
	"hackmap/internal/infrastructure/cache"
	"hackmap/internal/infrastructure/metrics"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginData struct {
	AccessToken string `json:"accessToken"`
}

type teamData struct {
	ID uuid.UUID `json:"id"`
}

type hackathonList struct {
	Hackathons []struct {
		ID    uuid.UUID `json:"id"`
		Title string    `json:"title"`
	} `json:"hackathons"`
}

type matchmakingData struct {
	UserSkills []string `json:"userSkills"`
	Teams      []struct {
		ID           uuid.UUID `json:"id"`
		MatchScore   float64   `json:"matchScore"`
		CommonSkills []string  `json:"commonSkills"`
	} `json:"teams"`
}

// TestIntegration_SeededUsersMatchmaking seeds the sample data, lets Alice
// open a team and checks that Bob, who shares React with her, gets it
// recommended.
func TestIntegration_SeededUsersMatchmaking(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	c := newTestContainer(t, ctx)
	defer func() { _ = c.Close() }()

	if _, err := app.Migrate(ctx, c); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := app.Seed(ctx, c, time.Now()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc, err := app.NewServices(c, nil)
	if err != nil {
		t.Fatalf("services: %v", err)
	}
	f := app.NewHTTP(c, svc, nil)

	hackathonID := findHackathon(t, f, "AI Innovation Challenge 2024")

	alice := login(t, f, "alice@example.com")
	bob := login(t, f, "bob@example.com")

	var team teamData
	call(t, f, "POST", "/api/v1/teams", alice, map[string]any{
		"name":        "it-team-" + uuid.NewString()[:8],
		"hackathonId": hackathonID,
	}, fiber.StatusCreated, &team)
	defer func() {
		_, _ = c.DB.Exec(context.Background(), `DELETE FROM teams WHERE id = $1`, team.ID)
	}()

	var mm matchmakingData
	call(t, f, "GET", "/api/v1/teams/matchmaking", bob, nil, fiber.StatusOK, &mm)

	if len(mm.UserSkills) == 0 {
		t.Fatalf("matchmaking: expected Bob's skills to be echoed")
	}
	for i := 1; i < len(mm.Teams); i++ {
		if mm.Teams[i].MatchScore > mm.Teams[i-1].MatchScore {
			t.Fatalf("matchmaking: scores not descending at %d", i)
		}
	}
	for _, rt := range mm.Teams {
		if rt.ID != team.ID {
			continue
		}
		if !contains(rt.CommonSkills, "React") {
			t.Fatalf("matchmaking: expected React in common skills, got %v", rt.CommonSkills)
		}
		return
	}
	t.Fatalf("matchmaking: Alice's team %s not recommended to Bob", team.ID)
}

func newTestContainer(t *testing.T, ctx context.Context) *app.Container {
	t.Helper()

	host := firstNonEmpty(os.Getenv("HACKMAP_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := firstNonEmpty(os.Getenv("HACKMAP_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := firstNonEmpty(os.Getenv("HACKMAP_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := firstNonEmpty(os.Getenv("HACKMAP_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := firstNonEmpty(os.Getenv("HACKMAP_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set HACKMAP_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}

	cfg := config.Default()
	cfg.App.AppName = "HackMap"
	cfg.App.Environment = "test"
	cfg.Database.DBHost = host
	cfg.Database.DBPort = port
	cfg.Database.DBName = name
	cfg.Database.DBUser = user
	cfg.Database.DBPassword = pass
	cfg.JWT.AccessSecret = "it-access-secret"
	cfg.JWT.RefreshSecret = "it-refresh-secret"
	cfg.RateLimit.Requests = 1000

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	return &app.Container{
		Config:  cfg,
		Logger:  zerolog.Nop(),
		Metrics: metrics.New(),
		DB:      db,
		Cache:   cache.NewRedisWithClient(nil, cfg.Redis.TTL, zerolog.Nop()),
	}
}

func findHackathon(t *testing.T, f *fiber.App, title string) uuid.UUID {
	t.Helper()

	var list hackathonList
	call(t, f, "GET", "/api/v1/hackathons?search="+strings.ReplaceAll(title, " ", "%20"), "", nil, fiber.StatusOK, &list)
	for _, h := range list.Hackathons {
		if h.Title == title {
			return h.ID
		}
	}
	t.Fatalf("seeded hackathon %q not listed", title)
	return uuid.Nil
}

func login(t *testing.T, f *fiber.App, email string) string {
	t.Helper()

	var ld loginData
	call(t, f, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": seeder.DefaultPassword,
	}, fiber.StatusOK, &ld)
	if ld.AccessToken == "" {
		t.Fatalf("login %s: missing accessToken", email)
	}
	return ld.AccessToken
}

func call(t *testing.T, f *fiber.App, method, path, token string, body any, wantStatus int, out any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d (message=%s)", method, path, wantStatus, resp.StatusCode, env.Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("%s %s: data: %v", method, path, err)
		}
	}
}

func contains(items []string, want string) bool {
	for _, s := range items {
		if s == want {
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
