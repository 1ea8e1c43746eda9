package handler

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/pkg/response"
	ucreminder "hackmap/internal/usecase/reminder"
)

type CronHandler struct {
	reminders ucreminder.Usecase
	secret    string
	now       func() time.Time
}

type cronRequest struct {
	Authorization string `json:"authorization"`
}

func NewCronHandler(reminders ucreminder.Usecase, secret string) *CronHandler {
	return &CronHandler{reminders: reminders, secret: secret, now: time.Now}
}

func (h *CronHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/deadline-reminders", h.Run)
	r.Post("/deadline-reminders", h.RunAuthorized)
}

func (h *CronHandler) Run(c fiber.Ctx) error {
	res, err := h.reminders.Run(c.Context(), h.now())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "Failed to process deadline reminders", nil, err)
	}
	return response.Success(c, fiber.StatusOK, res.Message, res)
}

// RunAuthorized requires the configured cron secret in the body. An unset
// secret rejects every request.
func (h *CronHandler) RunAuthorized(c fiber.Ctx) error {
	var req cronRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request", nil, err)
	}
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(req.Authorization), []byte(h.secret)) != 1 {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return h.Run(c)
}
