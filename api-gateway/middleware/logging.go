package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/clothing-store/pkg/logger"
)

// StructuredLoggingMiddleware writes one structured access line per request
// after the proxied response is known. Health probes log at debug so the
// orchestrator checks do not drown the access log.
func StructuredLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()

		event := logger.Info(c.UserContext())
		switch {
		case c.Path() == "/health" || c.Path() == "/health/services":
			event = logger.Debug(c.UserContext())
		case status >= 500:
			event = logger.Error(c.UserContext())
		case status >= 400:
			event = logger.Warn(c.UserContext())
		}

		event = event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Int("bytes_out", len(c.Response().Body())).
			Str("ip", c.IP()).
			Str("request_id", requestID(c))

		// The auth middleware runs per-route, so the identity is only
		// available once Next has returned.
		if customerID, ok := c.Locals("customer_id").(uint); ok {
			event = event.Uint("customer_id", customerID)
		}
		if cache := string(c.Response().Header.Peek("X-Cache")); cache != "" {
			event = event.Str("cache", cache)
		}
		if err != nil {
			event = event.Err(err)
		}

		event.Msg("Gateway request")
		return err
	}
}

// requestID prefers the id minted by the requestid middleware and falls back
// to whatever the caller sent.
func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return id
	}
	return c.Get("X-Request-Id")
}
