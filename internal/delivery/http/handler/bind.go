package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/pkg/validation"
)

const msgInvalidPayload = "Invalid request payload"

// bindJSON decodes the body into req and runs its validate tags.
func bindJSON(c fiber.Ctx, req any) error {
	if err := c.Bind().JSON(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidPayload, nil, err)
	}
	return validation.Struct(req)
}

func paramUUID(c fiber.Ctx, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusNotFound, notFound, nil, err)
	}
	return id, nil
}
