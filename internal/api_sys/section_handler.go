package sysapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/logger"
)

type SectionHandler struct {
	sectionService service.SectionService
	logService     service.LogService
}

func RegisterSectionHandler(
	sectionService service.SectionService,
	logService service.LogService,
) {
	handler := &SectionHandler{
		sectionService: sectionService,
		logService:     logService,
	}
	Handlers = append(Handlers, handler)
}

func (h *SectionHandler) RegisterRoutes(router fiber.Router, authMiddleware fiber.Handler) {
	r := router.Group("/section", authMiddleware)
	{
		r.Post("/new", h.Create)
		r.Post("/update", h.Update)
		r.Post("/delete", h.Delete)
		r.Post("/reorder", h.Reorder)
		r.Get("/get", h.Get)
		r.Get("/list", h.List)
	}
}

// Create appends a section to the end of its script.
func (h *SectionHandler) Create(c *fiber.Ctx) error {
	record := new(model.Section)
	if err := c.BodyParser(record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	record.ID = 0
	err := h.sectionService.Create(c.Context(), record)
	audit(h.logService, c, constant.LogActionCreateSection, record.ID, err)
	if err != nil {
		logger.Error("create section failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *SectionHandler) Update(c *fiber.Ctx) error {
	record := new(model.Section)
	if err := c.BodyParser(record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	err := h.sectionService.Update(c.Context(), record)
	audit(h.logService, c, constant.LogActionUpdateSection, record.ID, err)
	if err != nil {
		logger.Error("update section failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *SectionHandler) Delete(c *fiber.Ctx) error {
	record := new(model.Section)
	if err := c.BodyParser(record); err != nil || record.ID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	err := h.sectionService.Delete(c.Context(), record.ID)
	audit(h.logService, c, constant.LogActionDeleteSection, record.ID, err)
	if err != nil {
		logger.Error("delete section failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(nil))
}

func (h *SectionHandler) Reorder(c *fiber.Ctx) error {
	req := new(reorderRequest)
	if err := c.BodyParser(req); err != nil || req.ScriptID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	ids, ok := req.orderedIDs()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	err := h.sectionService.Reorder(c.Context(), req.ScriptID, ids)
	audit(h.logService, c, constant.LogActionReorderSections, req.ScriptID, err)
	if err != nil {
		logger.Error("reorder sections failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(nil))
}

func (h *SectionHandler) Get(c *fiber.Ctx) error {
	id, ok := queryID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	record, err := h.sectionService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *SectionHandler) List(c *fiber.Ctx) error {
	scriptID, ok := queryID(c, "script_id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	list, err := h.sectionService.ListByScript(c.Context(), scriptID)
	if err != nil {
		logger.Error("list sections failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(list))
}
