package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/dto"
	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/pkg/response"
	uchackathon "hackmap/internal/usecase/hackathon"
)

const msgHackathonNotFound = "Hackathon not found"

type HackathonHandler struct {
	uc uchackathon.Usecase
}

func NewHackathonHandler(uc uchackathon.Usecase) *HackathonHandler {
	return &HackathonHandler{uc: uc}
}

// RegisterRoutes mounts the hackathon routes. Browsing is public; auth
// guards the rest per route.
func (h *HackathonHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Get("/", h.List)
	r.Get("/:id", h.Get)

	r.Post("/", auth, h.Create)
	r.Post("/:id/register", auth, h.Register)
	r.Delete("/:id/register", auth, h.Unregister)
}

func (h *HackathonHandler) List(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	res, err := h.uc.List(c.Context(), uchackathon.ListParams{
		Search: c.Query("search"),
		Theme:  c.Query("theme"),
		Status: c.Query("status"),
		Page:   page,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewHackathonListResponse(res))
}

func (h *HackathonHandler) Get(c fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgHackathonNotFound)
	if err != nil {
		return err
	}
	hk, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewHackathonResponse(hk))
}

func (h *HackathonHandler) Create(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateHackathonRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	hk, err := h.uc.Create(c.Context(), userID, req.ToInput())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Hackathon created successfully", dto.NewHackathonResponse(hk))
}

func (h *HackathonHandler) Register(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", msgHackathonNotFound)
	if err != nil {
		return err
	}

	reg, err := h.uc.Register(c.Context(), userID, id)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, "Registered successfully", dto.NewRegistrationResponse(reg))
}

func (h *HackathonHandler) Unregister(c fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id", msgHackathonNotFound)
	if err != nil {
		return err
	}

	if err := h.uc.Unregister(c.Context(), userID, id); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SuccessResponse{Success: true})
}
