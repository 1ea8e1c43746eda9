package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const CtxRequestIDKey = "request_id"

type AccessLogMiddleware struct {
	logger zerolog.Logger
}

func NewAccessLogMiddleware(logger zerolog.Logger) *AccessLogMiddleware {
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("X-Request-ID", rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		status := c.Response().StatusCode()
		ev := m.logger.Info()
		if status >= 500 {
			ev = m.logger.Error()
		} else if status >= 400 {
			ev = m.logger.Warn()
		}

		ev.Str("request_id", rid).
			Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("req_bytes", c.Request().Header.ContentLength()).
			Int("resp_bytes", len(c.Response().Body())).
			Str("ua", c.Get("User-Agent")).
			Msg("http access")

		return err
	}
}

func RequestID(c fiber.Ctx) string {
	if v, ok := c.Locals(CtxRequestIDKey).(string); ok {
		return v
	}
	return ""
}
