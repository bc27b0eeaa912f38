package sysapi

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/logger"
)

type LogHandler struct {
	logService service.LogService
}

func RegisterLogHandler(logService service.LogService) {
	Handlers = append(Handlers, &LogHandler{logService: logService})
}

func (h *LogHandler) RegisterRoutes(router fiber.Router, authMiddleware fiber.Handler) {
	r := router.Group("/log", authMiddleware)
	r.Get("/list", h.List)
}

// List takes an optional caller_id and a comma separated actions list.
func (h *LogHandler) List(c *fiber.Ctx) error {
	var actions []int
	if raw := c.Query("actions"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			action, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
			}
			actions = append(actions, action)
		}
	}
	offset, limit := pageParams(c)

	list, total, err := h.logService.ListLogs(c.Context(), c.Query("caller_id"), actions, offset, limit)
	if err != nil {
		logger.Error("list logs failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(service.NewListResponse(list, total, offset, limit)))
}
