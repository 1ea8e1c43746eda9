package ws

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/pkg/jwt"
)

type Handler struct {
	hub      *Hub
	jwt      jwt.Service
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the given origins. An empty list or "*"
// allows any origin, matching the CORS defaults.
func NewHandler(hub *Hub, jwtSvc jwt.Service, origins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		jwt:    jwtSvc,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
	}
}

func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.ContainsFunc(origins, func(o string) bool {
			return strings.EqualFold(strings.TrimRight(o, "/"), origin)
		})
	}
}

// HandleNotifications upgrades an authenticated request. Browsers cannot set
// headers on websocket requests, so the access token comes in ?token=.
func (h *Handler) HandleNotifications(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.jwt == nil {
		return fiber.ErrServiceUnavailable
	}

	claims, err := h.jwt.ParseAccess(strings.TrimSpace(c.Query("token")))
	if err != nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn().Err(err).Str("user_id", claims.UserID.String()).Msg("ws upgrade failed")
			return
		}

		client := NewClient(h.hub, conn, claims.UserID)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})(c)
}
