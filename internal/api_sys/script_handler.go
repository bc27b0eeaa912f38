package sysapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/logger"
)

type ScriptHandler struct {
	scriptService service.ScriptService
	logService    service.LogService
}

func RegisterScriptHandler(
	scriptService service.ScriptService,
	logService service.LogService,
) {
	handler := &ScriptHandler{
		scriptService: scriptService,
		logService:    logService,
	}
	Handlers = append(Handlers, handler)
}

func (h *ScriptHandler) RegisterRoutes(router fiber.Router, authMiddleware fiber.Handler) {
	r := router.Group("/script", authMiddleware)
	{
		r.Post("/new", h.Create)
		r.Post("/update", h.Update)
		r.Post("/delete", h.Delete)
		r.Post("/reorder", h.Reorder)
		r.Get("/get", h.Get)
		r.Get("/list", h.List)
		r.Get("/lint", h.Lint)
	}
}

func (h *ScriptHandler) Create(c *fiber.Ctx) error {
	record := new(model.Script)
	if err := c.BodyParser(record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	record.ID = 0
	record.Sections = nil
	err := h.scriptService.Create(c.Context(), record)
	audit(h.logService, c, constant.LogActionCreateScript, record.ID, err)
	if err != nil {
		logger.Error("create script failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *ScriptHandler) Update(c *fiber.Ctx) error {
	record := new(model.Script)
	if err := c.BodyParser(record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	record.Sections = nil
	err := h.scriptService.Update(c.Context(), record)
	audit(h.logService, c, constant.LogActionUpdateScript, record.ID, err)
	if err != nil {
		logger.Error("update script failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *ScriptHandler) Delete(c *fiber.Ctx) error {
	record := new(model.Script)
	if err := c.BodyParser(record); err != nil || record.ID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	err := h.scriptService.Delete(c.Context(), record.ID)
	audit(h.logService, c, constant.LogActionDeleteScript, record.ID, err)
	if err != nil {
		logger.Error("delete script failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(nil))
}

// Reorder takes {"eventTypeId": "...", "ids": ["...", ...]} naming every
// script of the event type in the new order.
func (h *ScriptHandler) Reorder(c *fiber.Ctx) error {
	req := new(reorderRequest)
	if err := c.BodyParser(req); err != nil || req.EventTypeID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	ids, ok := req.orderedIDs()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	err := h.scriptService.Reorder(c.Context(), req.EventTypeID, ids)
	audit(h.logService, c, constant.LogActionReorderScripts, req.EventTypeID, err)
	if err != nil {
		logger.Error("reorder scripts failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(nil))
}

// Get returns the script with its sections in order.
func (h *ScriptHandler) Get(c *fiber.Ctx) error {
	id, ok := queryID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	record, err := h.scriptService.GetScriptWithSections(c.Context(), id)
	if err != nil {
		logger.Error("get script failed", logger.F("err", err))
		return fail(c, err)
	}
	if record == nil {
		return c.Status(fiber.StatusNotFound).JSON(service.Error(constant.ErrRecordNotFound))
	}
	return c.JSON(service.OK(record))
}

func (h *ScriptHandler) List(c *fiber.Ctx) error {
	condition := &model.Script{Name: c.Query("name")}
	if c.Query("event_type_id") != "" {
		id, ok := queryID(c, "event_type_id")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
		}
		condition.EventTypeID = id
	}
	offset, limit := pageParams(c)

	list, total, err := h.scriptService.List(c.Context(), condition, offset, limit)
	if err != nil {
		logger.Error("list scripts failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(service.NewListResponse(list, total, offset, limit)))
}

func (h *ScriptHandler) Lint(c *fiber.Ctx) error {
	id, ok := queryID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	issues, err := h.scriptService.Lint(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(issues))
}
