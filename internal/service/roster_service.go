package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/logger"
	"github.com/yockii/parish_tools/pkg/util"
)

const (
	rosterSheet       = "Roster"
	rosterContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// rosterService lists every field of an event with its display value: one
// column for the event and one per calendar event.
type rosterService struct {
	entities  EntityFetcher
	defs      FieldDefinitionFetcher
	formatter *liturgy.Formatter
}

func NewRosterService(entities EntityFetcher, defs FieldDefinitionFetcher, locale string) *rosterService {
	return &rosterService{
		entities:  entities,
		defs:      defs,
		formatter: liturgy.NewFormatter(locale),
	}
}

func (s *rosterService) Export(ctx context.Context, entityID uint64) (*ExportResult, error) {
	entity, err := s.entities.GetEntityWithRelations(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, constant.ErrEntityNotFound
	}
	defs, err := s.defs.GetFieldDefinitions(ctx, entity.EventTypeID)
	if err != nil {
		return nil, err
	}

	data, err := s.build(entity, defs)
	if err != nil {
		logger.Error("build roster failed", logger.F("entityId", entityID), logger.F("error", err))
		return nil, fmt.Errorf("%w: %v", constant.ErrRenderFailed, err)
	}
	filename := joinName(orDefault(entity.EventTypeName, "Event"), util.Truncate(model.FormatID(entity.ID), 8), "Roster") + ".xlsx"
	return &ExportResult{
		Data:        data,
		Filename:    filename,
		ContentType: rosterContentType,
		Disposition: fmt.Sprintf("attachment; filename=%q", filename),
	}, nil
}

func (s *rosterService) build(entity *EntitySnapshot, defs []*model.FieldDefinition) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rosterSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#F2DCDB"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	headers := []any{"Field", "Type", orDefault(entity.Name, "Event")}
	for _, occ := range entity.CalendarEvents {
		layout := "2006-01-02 15:04"
		if occ.AllDay {
			layout = "2006-01-02"
		}
		headers = append(headers, occ.StartAt.Format(layout))
	}
	if err := f.SetSheetRow(rosterSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(rosterSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, d := range defs {
		row := []any{d.Name, d.Type, s.display(entity.ResolvedFields, d.PropertyName)}
		for _, occ := range entity.CalendarEvents {
			row = append(row, s.display(occ.ResolvedFields, d.PropertyName))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(rosterSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(rosterSheet, "A", lastCol, 24); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetPanes(rosterSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// display shows a field the way a coordinator reads it. Unresolved
// references show nothing rather than a raw id.
func (s *rosterService) display(fields liturgy.ResolvedFields, name string) string {
	f, ok := fields[name]
	if !ok {
		return ""
	}
	if c, ok := f.Value.(liturgy.ContentValue); ok && c.Title != "" {
		return c.Title
	}
	v, _ := liturgy.Display(f.Value, s.formatter)
	return v
}
