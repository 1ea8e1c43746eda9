package handler

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/dto"
	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/pkg/response"
	ucprofile "hackmap/internal/usecase/profile"
)

type ProfileHandler struct {
	uc ucprofile.Usecase
}

func NewProfileHandler(uc ucprofile.Usecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
	r.Get("/stats", h.Stats)
	r.Get("/notifications", h.Preferences)
	r.Put("/notifications", h.SavePreferences)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	u, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(u))
}

func (h *ProfileHandler) Update(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	in := ucprofile.UpdateInput{Name: req.Name, Bio: req.Bio}
	if raw := bytes.TrimSpace(req.Skills); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, &in.Skills); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Skills must be an array", nil, err)
		}
		in.SkillsSet = true
	}

	u, err := h.uc.Update(c.Context(), userID, in)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "Profile updated successfully", dto.NewUserResponse(u))
}

func (h *ProfileHandler) Stats(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	stats, err := h.uc.Stats(c.Context(), userID)
	if err != nil {
		return err
	}

	out := make([]dto.StatResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.StatResponse{Label: s.Label, Value: s.Value, Icon: s.Icon})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ProfileHandler) Preferences(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	p, err := h.uc.Preferences(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewNotificationSettings(p))
}

func (h *ProfileHandler) SavePreferences(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.NotificationSettings
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	saved, err := h.uc.SavePreferences(c.Context(), userID, req.ToDomain())
	if err != nil {
		return err
	}

	const msg = "Notification preferences updated successfully"
	return response.Success(c, fiber.StatusOK, msg, dto.NotificationSettingsResponse{
		Message:              msg,
		NotificationSettings: dto.NewNotificationSettings(saved),
	})
}
