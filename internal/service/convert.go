package service

import (
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/liturgy"
)

// toLiturgyScript converts a stored script to the read-only engine form.
func toLiturgyScript(s *model.Script) liturgy.Script {
	out := liturgy.Script{
		ID:          s.IDString(),
		EventTypeID: model.FormatID(s.EventTypeID),
		Name:        s.Name,
		Sections:    make([]liturgy.Section, 0, len(s.Sections)),
	}
	for _, sec := range s.Sections {
		out.Sections = append(out.Sections, liturgy.Section{
			ID:             sec.IDString(),
			Name:           sec.Name,
			Content:        sec.Content,
			SectionType:    sec.SectionType,
			Order:          sec.Order,
			PageBreakAfter: sec.PageBreakAfter,
		})
	}
	return out
}

// toLiturgyDefinitions drops definitions with an unknown type tag.
func toLiturgyDefinitions(defs []*model.FieldDefinition) []liturgy.FieldDefinition {
	out := make([]liturgy.FieldDefinition, 0, len(defs))
	for _, d := range defs {
		ft, ok := liturgy.ParseFieldType(d.Type)
		if !ok {
			continue
		}
		out = append(out, liturgy.FieldDefinition{
			PropertyName:  d.PropertyName,
			Name:          d.Name,
			Type:          ft,
			Required:      d.Required,
			PerOccurrence: d.IsPerCalendarEvent,
			KeyPerson:     d.IsKeyPerson,
		})
	}
	return out
}

// hasTokens reports whether any section of s contains a placeholder that
// needs a field definition. Parish tokens resolve without one.
func hasTokens(s *model.Script) bool {
	for _, sec := range s.Sections {
		for _, tok := range liturgy.Tokens(sec.Content) {
			if tok.Field != liturgy.ParishField {
				return true
			}
		}
	}
	return false
}
