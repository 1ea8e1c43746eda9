package v1

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/handler"
)

// RegisterAuth mounts the credential endpoints behind the per-IP limiter.
func RegisterAuth(r fiber.Router, authHandler *handler.AuthHandler, limit fiber.Handler) {
	if r == nil || authHandler == nil {
		return
	}
	if limit != nil {
		authHandler.RegisterRoutes(r.Group("/auth", limit))
		return
	}
	authHandler.RegisterRoutes(r.Group("/auth"))
}
