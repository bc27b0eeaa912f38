package appapi

import "github.com/gofiber/fiber/v2"

var Handlers []Handler

// Handler routes are mounted on a group that already carries caller
// authentication and the export rate limit.
type Handler interface {
	RegisterRoutes(router fiber.Router)
}
