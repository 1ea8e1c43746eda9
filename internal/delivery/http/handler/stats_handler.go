package handler

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/pkg/response"
	ucstats "hackmap/internal/usecase/stats"
)

type StatsHandler struct {
	uc ucstats.Usecase
}

func NewStatsHandler(uc ucstats.Usecase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

func (h *StatsHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.Global)
}

// Global never fails; a database error yields placeholder figures.
func (h *StatsHandler) Global(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Global(c.Context()))
}
