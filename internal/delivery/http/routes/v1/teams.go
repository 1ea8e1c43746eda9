package v1

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/handler"
)

func RegisterTeams(r fiber.Router, teamHandler *handler.TeamHandler, auth fiber.Handler) {
	if r == nil || teamHandler == nil {
		return
	}
	teamHandler.RegisterRoutes(r.Group("/teams", auth))
}
