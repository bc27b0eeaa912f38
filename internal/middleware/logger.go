package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/parish_tools/pkg/logger"
)

// RequestLogger writes one access log line per request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		logger.Info("request completed",
			logger.F("method", c.Method()),
			logger.F("path", c.Path()),
			logger.F("status", c.Response().StatusCode()),
			logger.F("duration", time.Since(start)),
			logger.F("ip", c.IP()),
			logger.F("caller", Caller(c)),
		)

		return err
	}
}
