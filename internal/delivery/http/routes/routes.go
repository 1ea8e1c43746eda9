package routes

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/handler"
	v1 "hackmap/internal/delivery/http/routes/v1"
)

type Registry struct {
	Health    *handler.HealthHandler
	WS        fiber.Handler
	Metrics   fiber.Handler
	V1        v1.Handlers
	Auth      fiber.Handler
	AuthLimit fiber.Handler
}

func (r *Registry) Register(app *fiber.App, metricsPath string) {
	r.Health.RegisterRoutes(app)
	if r.Metrics != nil {
		app.Get(metricsPath, r.Metrics)
	}

	api := app.Group("/api")
	v := api.Group("/v1")
	if r.WS != nil {
		v.Get("/ws/notifications", r.WS)
	}
	RegisterV1(v, r.V1, r.Auth, r.AuthLimit)
}
