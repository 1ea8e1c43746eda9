package handler

import (
	"github.com/gofiber/fiber/v3"

	"hackmap/internal/delivery/http/dto"
	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/pkg/response"
	ucauth "hackmap/internal/usecase/auth"
)

type AuthHandler struct {
	uc ucauth.Usecase
}

func NewAuthHandler(uc ucauth.Usecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	id, err := h.uc.Register(c.Context(), ucauth.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusCreated, "User created successfully", dto.RegisterResponse{
		Message: "User created successfully",
		UserID:  id,
	})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	sess, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.LoginResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		User:         dto.NewUserResponse(sess.User),
	})
}

// Refresh takes the refresh token from the body, or from a bearer header
// for clients that send it that way.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &req); err != nil {
			return err
		}
	}
	if req.RefreshToken == "" {
		if tok, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization)); ok {
			req.RefreshToken = tok
		}
	}

	tokens, err := h.uc.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}
