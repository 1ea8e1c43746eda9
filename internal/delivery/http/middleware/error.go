package middleware

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"hackmap/internal/pkg/response"
	"hackmap/internal/pkg/validation"
	"hackmap/internal/usecase"
)

// AppError is an HTTP-level failure raised by handlers and middleware that
// have no usecase error to return.
type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

func (e *AppError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Cause == nil:
		return e.Message
	default:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type ErrorMiddleware struct {
	logger zerolog.Logger
}

func NewErrorMiddleware(logger zerolog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			m.logger.Error().
				Interface("panic", r).
				Str("path", c.Path()).
				Str("request_id", RequestID(c)).
				Msg("panic recovered")
			err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
		}()

		if err = c.Next(); err == nil {
			return nil
		}

		f := classify(err)
		if f.status >= fiber.StatusInternalServerError {
			m.logger.Error().
				Err(err).
				Int("status", f.status).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("request_id", RequestID(c)).
				Msg("request failed")
		}
		return response.Error(c, f.status, f.message, f.data)
	}
}

// StatusForKind is the single mapping from usecase failure kinds to HTTP.
func StatusForKind(k usecase.Kind) int {
	switch k {
	case usecase.KindInvalid:
		return fiber.StatusBadRequest
	case usecase.KindUnauthorized:
		return fiber.StatusUnauthorized
	case usecase.KindForbidden:
		return fiber.StatusForbidden
	case usecase.KindNotFound:
		return fiber.StatusNotFound
	case usecase.KindConflict:
		return fiber.StatusConflict
	case usecase.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

type failure struct {
	status  int
	message string
	data    any
}

var internalFailure = failure{status: fiber.StatusInternalServerError, message: response.MessageInternalServerError}

// classify turns a handler error into the response it should produce. Usecase
// messages are written for clients and pass through; AppError and fiber.Error
// messages are hidden once the status is a server error.
func classify(err error) failure {
	var (
		verr     *validation.Error
		ucErr    *usecase.Error
		appErr   *AppError
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &verr):
		return failure{status: fiber.StatusBadRequest, message: "Validation failed", data: fiber.Map{"fields": verr.Fields}}

	case errors.As(err, &ucErr):
		return failure{status: StatusForKind(ucErr.Kind), message: ucErr.Message}

	case errors.As(err, &appErr):
		if appErr.StatusCode <= 0 || appErr.StatusCode >= fiber.StatusInternalServerError {
			return internalFailure
		}
		return failure{status: appErr.StatusCode, message: orDefault(appErr.Message, appErr.StatusCode), data: appErr.Data}

	case errors.As(err, &fiberErr):
		if fiberErr.Code <= 0 {
			return internalFailure
		}
		if fiberErr.Code >= fiber.StatusInternalServerError {
			return failure{status: fiberErr.Code, message: response.DefaultMessage(fiberErr.Code)}
		}
		return failure{status: fiberErr.Code, message: orDefault(fiberErr.Message, fiberErr.Code)}
	}

	return internalFailure
}

func orDefault(msg string, status int) string {
	if msg == "" {
		return response.DefaultMessage(status)
	}
	return msg
}
