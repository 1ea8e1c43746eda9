package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"hackmap/internal/pkg/jwt"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	emailKey
)

const (
	msgUnauthorized = "Unauthorized"
	msgTokenExpired = "Token expired"
	msgInvalidToken = "Invalid token"
)

// AuthMiddleware admits requests carrying a valid access token and records
// the caller for UserID and Email.
type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, msgUnauthorized, nil, nil)
		}

		claims, err := m.jwt.ParseAccess(token)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return NewAppError(fiber.StatusUnauthorized, msgTokenExpired, nil, err)
		case err != nil:
			return NewAppError(fiber.StatusUnauthorized, msgInvalidToken, nil, err)
		}

		c.Locals(userIDKey, claims.UserID)
		c.Locals(emailKey, claims.Email)
		return c.Next()
	}
}

func UserID(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, NewAppError(fiber.StatusUnauthorized, msgUnauthorized, nil, nil)
	}
	return id, nil
}

func Email(c fiber.Ctx) string {
	email, _ := c.Locals(emailKey).(string)
	return email
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
