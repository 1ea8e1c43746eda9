package v1

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/handler"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Profile       *handler.ProfileHandler
	Hackathons    *handler.HackathonHandler
	Teams         *handler.TeamHandler
	Projects      *handler.ProjectHandler
	Notifications *handler.NotificationHandler
	Stats         *handler.StatsHandler
	Cron          *handler.CronHandler
}

// Register mounts the /api/v1 surface. auth guards every private route and
// authLimit throttles the credential endpoints.
func Register(r fiber.Router, h Handlers, auth, authLimit fiber.Handler) {
	if r == nil {
		return
	}

	RegisterAuth(r, h.Auth, authLimit)
	RegisterOps(r, h.Stats, h.Cron)
	RegisterHackathons(r, h.Hackathons, auth)
	RegisterProjects(r, h.Projects, auth)
	RegisterUsers(r, h.Profile, h.Notifications, auth)
	RegisterTeams(r, h.Teams, auth)
}
