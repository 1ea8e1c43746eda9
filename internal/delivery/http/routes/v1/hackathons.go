package v1

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/handler"
)

// RegisterHackathons mounts browsing publicly; writes carry auth per route.
func RegisterHackathons(r fiber.Router, hackathonHandler *handler.HackathonHandler, auth fiber.Handler) {
	if r == nil || hackathonHandler == nil {
		return
	}
	hackathonHandler.RegisterRoutes(r.Group("/hackathons"), auth)
}
