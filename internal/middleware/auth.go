package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/logger"
)

// CallerKey is the Locals key holding the caller identity.
const CallerKey = "caller"

// NewAuthMiddleware verifies an HS256 bearer token and stores the value of
// callerClaim as the caller identity. Paths in skipPaths pass through.
func NewAuthMiddleware(secret []byte, callerClaim string, skipPaths []string) fiber.Handler {
	skipPathMap := make(map[string]bool)
	for _, path := range skipPaths {
		skipPathMap[path] = true
	}

	return func(c *fiber.Ctx) error {
		if skipPathMap[c.Path()] {
			return c.Next()
		}

		token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(service.Error(constant.ErrUnauthorized))
		}

		caller, err := verify(token, secret, callerClaim)
		if err != nil {
			logger.Debug("token rejected", logger.F("path", c.Path()), logger.F("error", err))
			return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
		}

		c.Locals(CallerKey, caller)
		return c.Next()
	}
}

func verify(tokenString string, secret []byte, callerClaim string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", constant.ErrTokenExpired
		}
		return "", constant.ErrInvalidToken
	}
	if !token.Valid {
		return "", constant.ErrInvalidToken
	}

	caller, _ := claims[callerClaim].(string)
	if caller == "" {
		return "", constant.ErrInvalidToken
	}
	return caller, nil
}

// Caller returns the identity stored by the auth middleware, or "".
func Caller(c *fiber.Ctx) string {
	caller, _ := c.Locals(CallerKey).(string)
	return caller
}
