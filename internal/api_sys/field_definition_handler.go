package sysapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/logger"
)

type FieldDefinitionHandler struct {
	fieldDefinitionService service.FieldDefinitionService
	logService             service.LogService
}

func RegisterFieldDefinitionHandler(
	fieldDefinitionService service.FieldDefinitionService,
	logService service.LogService,
) {
	handler := &FieldDefinitionHandler{
		fieldDefinitionService: fieldDefinitionService,
		logService:             logService,
	}
	Handlers = append(Handlers, handler)
}

func (h *FieldDefinitionHandler) RegisterRoutes(router fiber.Router, authMiddleware fiber.Handler) {
	r := router.Group("/field_definition", authMiddleware)
	{
		r.Post("/new", h.Create)
		r.Post("/update", h.Update)
		r.Post("/delete", h.Delete)
		r.Get("/get", h.Get)
		r.Get("/list", h.List)
	}
}

func (h *FieldDefinitionHandler) Create(c *fiber.Ctx) error {
	record := new(model.FieldDefinition)
	if err := c.BodyParser(record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	record.ID = 0
	err := h.fieldDefinitionService.Create(c.Context(), record)
	audit(h.logService, c, constant.LogActionCreateFieldDefinition, record.ID, err)
	if err != nil {
		logger.Error("create field definition failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *FieldDefinitionHandler) Update(c *fiber.Ctx) error {
	record := new(model.FieldDefinition)
	if err := c.BodyParser(record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	err := h.fieldDefinitionService.Update(c.Context(), record)
	audit(h.logService, c, constant.LogActionUpdateFieldDefinition, record.ID, err)
	if err != nil {
		logger.Error("update field definition failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *FieldDefinitionHandler) Delete(c *fiber.Ctx) error {
	record := new(model.FieldDefinition)
	if err := c.BodyParser(record); err != nil || record.ID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	err := h.fieldDefinitionService.Delete(c.Context(), record.ID)
	audit(h.logService, c, constant.LogActionDeleteFieldDefinition, record.ID, err)
	if err != nil {
		logger.Error("delete field definition failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(nil))
}

func (h *FieldDefinitionHandler) Get(c *fiber.Ctx) error {
	id, ok := queryID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	record, err := h.fieldDefinitionService.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

// List filters by event_type_id and type. With only event_type_id it returns
// every definition of the event type in display order.
func (h *FieldDefinitionHandler) List(c *fiber.Ctx) error {
	condition := &model.FieldDefinition{Type: c.Query("type")}
	if c.Query("event_type_id") != "" {
		id, ok := queryID(c, "event_type_id")
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
		}
		condition.EventTypeID = id
	}
	offset, limit := pageParams(c)

	list, total, err := h.fieldDefinitionService.List(c.Context(), condition, offset, limit)
	if err != nil {
		logger.Error("list field definitions failed", logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(service.NewListResponse(list, total, offset, limit)))
}
