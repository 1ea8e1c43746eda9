package routes

import (
	"github.com/gofiber/fiber/v3"

	v1 "hackmap/internal/delivery/http/routes/v1"
)

func RegisterV1(r fiber.Router, h v1.Handlers, auth, authLimit fiber.Handler) {
	v1.Register(r, h, auth, authLimit)
}
