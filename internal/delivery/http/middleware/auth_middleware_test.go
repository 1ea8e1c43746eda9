package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hackmap/internal/config"
	"hackmap/internal/pkg/jwt"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{header: "Bearer abc", token: "abc", ok: true},
		{header: "  bearer   abc  ", token: "abc", ok: true},
		{header: "Basic abc"},
		{header: "Bearer "},
		{header: "abc"},
		{header: ""},
	}
	for _, tc := range cases {
		token, ok := BearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("BearerToken(%q) = %q, %v; want %q, %v", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService(config.JWTConfig{
		AccessSecret:     "access",
		RefreshSecret:    "refresh",
		AccessExpiresIn:  time.Minute,
		RefreshExpiresIn: time.Hour,
	})
	userID := uuid.New()
	pair, err := svc.IssuePair(userID, "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	app := fiber.New()
	app.Use(NewErrorMiddleware(zerolog.Nop()).Middleware())
	app.Get("/me", NewAuthMiddleware(svc).Middleware(), func(c fiber.Ctx) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return c.SendString(id.String() + " " + Email(c))
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing", header: "", status: fiber.StatusUnauthorized},
		{name: "refresh token rejected", header: "Bearer " + pair.RefreshToken, status: fiber.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", status: fiber.StatusUnauthorized},
		{name: "access token", header: "Bearer " + pair.AccessToken, status: fiber.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, resp.StatusCode)
		}
	}
}
