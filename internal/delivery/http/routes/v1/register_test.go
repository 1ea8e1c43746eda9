package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/handler"
)

func TestRegister_PartialHandlers(t *testing.T) {
	app := fiber.New()
	deny := func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusUnauthorized) }

	Register(app.Group("/api/v1"), Handlers{
		Teams: handler.NewTeamHandler(nil, nil),
	}, deny, nil)

	cases := []struct {
		path   string
		status int
	}{
		{path: "/api/v1/teams/matchmaking", status: fiber.StatusUnauthorized},
		{path: "/api/v1/stats", status: fiber.StatusNotFound},
		{path: "/api/v1/auth/login", status: fiber.StatusNotFound},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.status, resp.StatusCode)
		}
	}
}

func TestRegisterUsers_NilRouter(t *testing.T) {
	RegisterUsers(nil, handler.NewProfileHandler(nil), nil, nil)
	RegisterOps(nil, nil, nil)
	RegisterAuth(nil, nil, nil)
}
