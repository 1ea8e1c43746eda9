package v1

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/handler"
)

// RegisterOps mounts the public stats and the shared-secret cron trigger.
func RegisterOps(r fiber.Router, statsHandler *handler.StatsHandler, cronHandler *handler.CronHandler) {
	if r == nil {
		return
	}
	if statsHandler != nil {
		statsHandler.RegisterRoutes(r.Group("/stats"))
	}
	if cronHandler != nil {
		cronHandler.RegisterRoutes(r.Group("/cron"))
	}
}
