package v1

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/handler"
)

func RegisterProjects(r fiber.Router, projectHandler *handler.ProjectHandler, auth fiber.Handler) {
	if r == nil || projectHandler == nil {
		return
	}
	projectHandler.RegisterRoutes(r.Group("/projects"), auth)
}
