package handler

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/dto"
	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/pkg/response"
	ucproject "hackmap/internal/usecase/project"
)

const msgProjectNotFound = "Project not found"

type ProjectHandler struct {
	uc ucproject.Usecase
}

func NewProjectHandler(uc ucproject.Usecase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

func (h *ProjectHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Get("/", h.List)
	r.Get("/:id", h.Get)

	r.Post("/", auth, h.Create)
	r.Post("/:id/comments", auth, h.Comment)
	r.Post("/:id/endorsements", auth, h.Endorse)
	r.Delete("/:id/endorsements", auth, h.RemoveEndorsement)
}

func (h *ProjectHandler) List(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProjectResponses(items))
}

func (h *ProjectHandler) Get(c fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgProjectNotFound)
	if err != nil {
		return err
	}
	d, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProjectDetailResponse(d))
}

func (h *ProjectHandler) Create(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateProjectRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	p, err := h.uc.Create(c.Context(), userID, req.ToInput())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Project created successfully", dto.NewProjectResponse(p))
}

func (h *ProjectHandler) Comment(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", msgProjectNotFound)
	if err != nil {
		return err
	}

	var req dto.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	cm, err := h.uc.Comment(c.Context(), userID, id, req.Content)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Comment added successfully", dto.NewCommentResponse(cm))
}

func (h *ProjectHandler) Endorse(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", msgProjectNotFound)
	if err != nil {
		return err
	}

	e, err := h.uc.Endorse(c.Context(), userID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Project endorsed", dto.NewEndorsementResponse(e))
}

func (h *ProjectHandler) RemoveEndorsement(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", msgProjectNotFound)
	if err != nil {
		return err
	}

	if err := h.uc.RemoveEndorsement(c.Context(), userID, id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SuccessResponse{Success: true})
}
