package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"hackmap/internal/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	timeout time.Duration
	now     func() time.Time
}

type dbHealth struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Error     string    `json:"error,omitempty"`
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 3 * time.Second, now: time.Now}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/health", h.Health)
	r.Get("/health/db", h.Database)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"status": "ok"})
}

func (h *HealthHandler) Database(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	now := h.now().UTC()
	if h.db == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dbHealth{Status: "unhealthy", Timestamp: now, Database: "disconnected"})
	}
	if err := h.db.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dbHealth{
			Status:    "unhealthy",
			Timestamp: now,
			Database:  "disconnected",
			Error:     err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(dbHealth{Status: "healthy", Timestamp: now, Database: "connected"})
}
