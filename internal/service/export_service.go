package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/docgen"
	"github.com/yockii/parish_tools/pkg/htmlgen"
	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/logger"
	"github.com/yockii/parish_tools/pkg/pdfgen"
)

const (
	FormatHTML = "html"
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
	FormatTXT  = "txt"
)

var contentTypes = map[string]string{
	FormatHTML: "text/html; charset=utf-8",
	FormatDOCX: docgen.ContentType,
	FormatPDF:  pdfgen.ContentType,
	FormatTXT:  "text/plain; charset=utf-8",
}

type ExportRequest struct {
	EntityID uint64
	ScriptID uint64
	Format   string
	// CalendarEventID selects the occurrence whose fields override the
	// event's. 0 means the primary occurrence.
	CalendarEventID uint64
}

type ExportResult struct {
	Data        []byte
	Filename    string
	ContentType string
	Disposition string
}

// exportService fetches an event, its script and field definitions,
// assembles the script and hands the document to the renderer of the
// requested format. Nothing is returned until rendering succeeded.
type exportService struct {
	entities  EntityFetcher
	defs      FieldDefinitionFetcher
	scripts   ScriptFetcher
	html      *htmlgen.Renderer
	word      *docgen.WordRenderer
	pdf       *pdfgen.PDFRenderer
	formatter *liturgy.Formatter
	metrics   *Metrics
}

func NewExportService(
	entities EntityFetcher,
	defs FieldDefinitionFetcher,
	scripts ScriptFetcher,
	typo liturgy.Typography,
	locale string,
	metrics *Metrics,
) *exportService {
	return &exportService{
		entities:  entities,
		defs:      defs,
		scripts:   scripts,
		html:      htmlgen.NewRenderer(typo),
		word:      docgen.NewWordRenderer(typo),
		pdf:       pdfgen.NewPDFRenderer(typo),
		formatter: liturgy.NewFormatter(locale),
		metrics:   metrics,
	}
}

// prepared is everything one render needs, fetched and assembled.
type prepared struct {
	requestID string
	entity    *EntitySnapshot
	script    *model.Script
	defs      []*model.FieldDefinition
	occ       *OccurrenceSnapshot
	fields    liturgy.ResolvedFields
	doc       liturgy.Document
}

func (s *exportService) prepare(ctx context.Context, req *ExportRequest) (*prepared, error) {
	p := &prepared{requestID: xid.New().String()}

	entity, err := s.entities.GetEntityWithRelations(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, constant.ErrEntityNotFound
	}
	p.entity = entity

	if p.defs, err = s.defs.GetFieldDefinitions(ctx, entity.EventTypeID); err != nil {
		return nil, err
	}

	script, err := s.scripts.GetScriptWithSections(ctx, req.ScriptID)
	if err != nil {
		return nil, err
	}
	// a script of another event type is reported as missing
	if script == nil || script.EventTypeID != entity.EventTypeID {
		return nil, constant.ErrScriptNotFound
	}
	p.script = script
	if len(p.defs) == 0 && hasTokens(script) {
		return nil, constant.ErrFieldDefinitionsNotFound
	}

	p.occ = entity.Occurrence(req.CalendarEventID)
	if req.CalendarEventID != 0 && p.occ == nil {
		return nil, constant.ErrEntityNotFound
	}
	p.fields = entity.ResolvedFields
	if p.occ != nil {
		p.fields = liturgy.MergeFields(entity.ResolvedFields, p.occ.ResolvedFields)
	}
	bag := liturgy.BagFromFields(p.fields, entity.Parish)

	unresolved := 0
	compiler := &liturgy.Compiler{
		Formatter: s.formatter,
		OnUnresolved: func(tok liturgy.Token) {
			unresolved++
			logger.Debug("placeholder left unresolved",
				logger.F("requestId", p.requestID),
				logger.F("scriptId", script.ID),
				logger.F("token", tok.Raw),
			)
		},
	}
	p.doc = compiler.Assemble(toLiturgyScript(script), p.fields, bag)
	s.metrics.addUnresolved(unresolved)
	return p, nil
}

func (s *exportService) Export(ctx context.Context, req *ExportRequest) (*ExportResult, error) {
	started := time.Now()
	format := strings.ToLower(strings.TrimSpace(req.Format))
	contentType, ok := contentTypes[format]
	if !ok {
		s.metrics.observeExport("unknown", "unsupported", started)
		return nil, constant.ErrUnsupportedFormat
	}

	p, err := s.prepare(ctx, req)
	if err != nil {
		s.metrics.observeExport(format, "fetch_failed", started)
		return nil, err
	}

	data, err := s.render(format, p.doc)
	if err != nil {
		logger.Error("render document failed",
			logger.F("requestId", p.requestID),
			logger.F("entityId", req.EntityID),
			logger.F("scriptId", req.ScriptID),
			logger.F("format", format),
			logger.F("error", err),
		)
		s.metrics.observeExport(format, "render_failed", started)
		return nil, fmt.Errorf("%w: %v", constant.ErrRenderFailed, err)
	}
	s.metrics.observeExport(format, "ok", started)

	filename := exportFilename(p.entity, p.script.Name, p.defs, p.fields, p.occ) + "." + format
	logger.Info("document exported",
		logger.F("requestId", p.requestID),
		logger.F("entityId", req.EntityID),
		logger.F("scriptId", req.ScriptID),
		logger.F("format", format),
		logger.F("bytes", len(data)),
	)
	return &ExportResult{
		Data:        data,
		Filename:    filename,
		ContentType: contentType,
		Disposition: fmt.Sprintf("attachment; filename=%q", filename),
	}, nil
}

// render turns renderer panics into errors so a failing backend never takes
// the request down with it.
func (s *exportService) render(format string, doc liturgy.Document) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("renderer panic: %v", r)
		}
	}()
	switch format {
	case FormatHTML:
		return s.html.RenderPage(doc, false)
	case FormatDOCX:
		return s.word.Render(doc)
	case FormatPDF:
		return s.pdf.Render(doc)
	case FormatTXT:
		return htmlgen.RenderText(doc), nil
	}
	return nil, constant.ErrUnsupportedFormat
}

// View returns the structured on-screen form of the document.
func (s *exportService) View(ctx context.Context, req *ExportRequest) (*htmlgen.View, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	view, err := s.html.Render(p.doc)
	if err != nil {
		logger.Error("render view failed", logger.F("requestId", p.requestID), logger.F("error", err))
		return nil, fmt.Errorf("%w: %v", constant.ErrRenderFailed, err)
	}
	return view, nil
}

// Preview returns the printable page. autoPrint adds the script that opens
// the print dialog once the page has loaded.
func (s *exportService) Preview(ctx context.Context, req *ExportRequest, autoPrint bool) ([]byte, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	page, err := s.html.RenderPage(p.doc, autoPrint)
	if err != nil {
		logger.Error("render preview failed", logger.F("requestId", p.requestID), logger.F("error", err))
		return nil, fmt.Errorf("%w: %v", constant.ErrRenderFailed, err)
	}
	return page, nil
}
