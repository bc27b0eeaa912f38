package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/logger"
)

// RateLimit counts requests of one class per caller, falling back to the
// client IP when the request carries no identity. Limiter errors let the
// request through.
func RateLimit(limiter service.RateLimiter, class string, metrics *service.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := Caller(c)
		if clientID == "" {
			clientID = "ip:" + c.IP()
		}

		allowed, err := limiter.Allow(c.UserContext(), class, clientID)
		if err != nil {
			logger.Warn("rate limiter unavailable", logger.F("class", class), logger.F("error", err))
		}
		if !allowed {
			logger.Warn("rate limit exceeded",
				logger.F("class", class),
				logger.F("clientId", clientID),
				logger.F("path", c.Path()),
			)
			metrics.Limited(class)
			return c.Status(fiber.StatusTooManyRequests).JSON(service.Error(constant.ErrTooManyRequests))
		}

		return c.Next()
	}
}
