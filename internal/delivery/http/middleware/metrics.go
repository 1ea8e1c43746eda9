package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"hackmap/internal/infrastructure/metrics"
)

// Metrics records request counts and latency labelled by the matched route
// pattern, so path parameters do not explode cardinality.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		m.ObserveHTTP(c.Method(), route, c.Response().StatusCode(), time.Since(start))
		return err
	}
}
