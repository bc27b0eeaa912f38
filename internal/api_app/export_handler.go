package appapi

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/middleware"
	"github.com/yockii/parish_tools/internal/service"
	"github.com/yockii/parish_tools/pkg/logger"
)

type ExportHandler struct {
	exportService service.ExportService
	rosterService service.RosterService
	logService    service.LogService
}

func RegisterExportHandler(
	exportService service.ExportService,
	rosterService service.RosterService,
	logService service.LogService,
) {
	handler := &ExportHandler{
		exportService: exportService,
		rosterService: rosterService,
		logService:    logService,
	}
	Handlers = append(Handlers, handler)
}

func (h *ExportHandler) RegisterRoutes(router fiber.Router) {
	r := router.Group("/export")
	{
		r.Get("/document", h.Document)
		r.Get("/view", h.View)
		r.Get("/preview", h.Preview)
		r.Get("/roster", h.Roster)
	}
}

func parseID(c *fiber.Ctx, key string, required bool) (uint64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, !required
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil && id != 0
}

// exportRequest reads entity_id, script_id, format and calendar_event_id.
func exportRequest(c *fiber.Ctx) (*service.ExportRequest, bool) {
	req := &service.ExportRequest{Format: c.Query("format")}
	var ok bool
	if req.EntityID, ok = parseID(c, "entity_id", true); !ok {
		return nil, false
	}
	if req.ScriptID, ok = parseID(c, "script_id", true); !ok {
		return nil, false
	}
	if req.CalendarEventID, ok = parseID(c, "calendar_event_id", false); !ok {
		return nil, false
	}
	return req, true
}

func (h *ExportHandler) audit(c *fiber.Ctx, action int, targetID uint64, err error) {
	if h.logService == nil {
		return
	}
	caller := utils.CopyString(middleware.Caller(c))
	ip := utils.CopyString(c.IP())
	ua := utils.CopyString(c.Get("User-Agent"))
	go func() {
		if e := h.logService.CreateOperationLog(context.Background(), caller, action, targetID, ip, ua, err != nil); e != nil {
			logger.Warn("write operation log failed", logger.F("action", action), logger.F("error", e))
		}
	}()
}

func sendFile(c *fiber.Ctx, res *service.ExportResult) error {
	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set(fiber.HeaderContentDisposition, res.Disposition)
	return c.Send(res.Data)
}

// Document renders the script for the event and returns it as an attachment.
func (h *ExportHandler) Document(c *fiber.Ctx) error {
	req, ok := exportRequest(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	res, err := h.exportService.Export(c.UserContext(), req)
	h.audit(c, constant.LogActionExportDocument, req.EntityID, err)
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}
	return sendFile(c, res)
}

func (h *ExportHandler) View(c *fiber.Ctx) error {
	req, ok := exportRequest(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	view, err := h.exportService.View(c.UserContext(), req)
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}
	return c.JSON(service.OK(view))
}

// Preview returns the printable page; print=1 opens the print dialog on load.
func (h *ExportHandler) Preview(c *fiber.Ctx) error {
	req, ok := exportRequest(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	page, err := h.exportService.Preview(c.UserContext(), req, c.QueryBool("print", false))
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

func (h *ExportHandler) Roster(c *fiber.Ctx) error {
	entityID, ok := parseID(c, "entity_id", true)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(service.Error(constant.ErrInvalidParams))
	}
	res, err := h.rosterService.Export(c.UserContext(), entityID)
	h.audit(c, constant.LogActionExportRoster, entityID, err)
	if err != nil {
		return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
	}
	return sendFile(c, res)
}
