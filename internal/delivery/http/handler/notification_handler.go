package handler

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/dto"
	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/pkg/response"
	ucnotification "hackmap/internal/usecase/notification"
)

type NotificationHandler struct {
	uc ucnotification.Usecase
}

func NewNotificationHandler(uc ucnotification.Usecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/mark-all-read", h.MarkAllRead)
	r.Post("/:id/read", h.MarkRead)
}

func (h *NotificationHandler) List(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	inbox, err := h.uc.List(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NotificationListResponse{
		Notifications: dto.NewNotificationResponses(inbox.Notifications),
		UnreadCount:   inbox.UnreadCount,
	})
}

func (h *NotificationHandler) Create(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateNotificationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	n, err := h.uc.Create(c.Context(), userID, req.Type, req.Title, req.Message)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewNotificationResponse(n))
}

func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", "Notification not found")
	if err != nil {
		return err
	}

	n, err := h.uc.MarkRead(c.Context(), userID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewNotificationResponse(n))
}

func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	n, err := h.uc.MarkAllRead(c.Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MarkAllReadResponse{Success: true, UpdatedCount: n})
}
