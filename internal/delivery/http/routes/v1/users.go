package v1

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/handler"
)

// RegisterUsers mounts the caller's own profile and notification inbox.
func RegisterUsers(r fiber.Router, profileHandler *handler.ProfileHandler, notificationHandler *handler.NotificationHandler, auth fiber.Handler) {
	if r == nil {
		return
	}
	if profileHandler != nil {
		profileHandler.RegisterRoutes(r.Group("/profile", auth))
	}
	if notificationHandler != nil {
		notificationHandler.RegisterRoutes(r.Group("/notifications", auth))
	}
}
