package sysapi

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/middleware"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/logger"
)

var Handlers []Handler

type Handler interface {
	RegisterRoutes(router fiber.Router, authMiddleware fiber.Handler)
}

// reorderRequest carries ids as strings since they exceed the JSON number range.
type reorderRequest struct {
	EventTypeID uint64   `json:"eventTypeId,string"`
	ScriptID    uint64   `json:"scriptId,string"`
	IDs         []string `json:"ids"`
}

func (r *reorderRequest) orderedIDs() ([]uint64, bool) {
	ids := make([]uint64, 0, len(r.IDs))
	for _, s := range r.IDs {
		id := model.ParseID(s)
		if id == 0 {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func queryID(c *fiber.Ctx, key string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Query(key), 10, 64)
	return id, err == nil && id != 0
}

func pageParams(c *fiber.Ctx) (int, int) {
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	limit := c.QueryInt("limit", service.DefaultPageSize)
	if limit <= 0 {
		limit = service.DefaultPageSize
	}
	if limit > service.MaxPageSize {
		limit = service.MaxPageSize
	}
	return offset, limit
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
}

// audit records an operation log in the background. Request strings are
// copied since fiber reuses their buffers once the handler returns.
func audit(logService service.LogService, c *fiber.Ctx, action int, targetID uint64, err error) {
	if logService == nil {
		return
	}
	caller := utils.CopyString(middleware.Caller(c))
	ip := utils.CopyString(c.IP())
	ua := utils.CopyString(c.Get("User-Agent"))
	go func() {
		if e := logService.CreateOperationLog(context.Background(), caller, action, targetID, ip, ua, err != nil); e != nil {
			logger.Warn("write operation log failed", logger.F("action", action), logger.F("error", e))
		}
	}()
}
