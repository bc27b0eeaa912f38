package service

import (
	"strings"

	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/util"
)

const noDate = "NoDate"

// exportFilename names a download without its extension. It only reads its
// arguments, so the same event always gets the same name.
//
//	mass             Mass-{Presider}-{YYYYMMDD}
//	special-liturgy  {Key1Last}-{Key2Last}-{YYYYMMDD}, or {Key1Last}-{EventType}-{YYYYMMDD}
//	otherwise        {EventType}-{Script}-{id[:8]}
func exportFilename(entity *EntitySnapshot, scriptName string, defs []*model.FieldDefinition, fields liturgy.ResolvedFields, occ *OccurrenceSnapshot) string {
	keys := keyPeople(defs)
	date := noDate
	if occ != nil && !occ.StartAt.IsZero() {
		date = occ.StartAt.Format("20060102")
	}

	switch entity.SystemType {
	case model.SystemTypeMass:
		presider := "Presider"
		if len(keys) > 0 {
			if p, ok := personOf(fields, keys[0]); ok && p.DisplayName() != "" {
				presider = p.DisplayName()
			}
		}
		return joinName("Mass", presider, date)
	case model.SystemTypeSpecialLiturgy:
		switch len(keys) {
		case 0:
		case 1:
			return joinName(lastNameOr(fields, keys[0]), orDefault(entity.EventTypeName, "Event"), date)
		default:
			return joinName(lastNameOr(fields, keys[0]), lastNameOr(fields, keys[1]), date)
		}
	}
	return joinName(orDefault(entity.EventTypeName, "Event"), orDefault(scriptName, "Script"), util.Truncate(model.FormatID(entity.ID), 8))
}

// keyPeople returns the key-person definitions in display order.
func keyPeople(defs []*model.FieldDefinition) []*model.FieldDefinition {
	var keys []*model.FieldDefinition
	for _, d := range defs {
		if ft, ok := liturgy.ParseFieldType(d.Type); ok && ft == liturgy.FieldTypePerson && d.IsKeyPerson {
			keys = append(keys, d)
		}
	}
	return keys
}

func personOf(fields liturgy.ResolvedFields, def *model.FieldDefinition) (liturgy.PersonValue, bool) {
	f, ok := fields[def.PropertyName]
	if !ok {
		return liturgy.PersonValue{}, false
	}
	p, ok := f.Value.(liturgy.PersonValue)
	return p, ok
}

// lastNameOr falls back to the field label, so an unassigned bride reads "Bride".
func lastNameOr(fields liturgy.ResolvedFields, def *model.FieldDefinition) string {
	if p, ok := personOf(fields, def); ok {
		if p.LastName != "" {
			return p.LastName
		}
		if name := p.DisplayName(); name != "" {
			return name
		}
	}
	return orDefault(def.Name, def.PropertyName)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func joinName(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := util.SanitizeFilename(p); s != "" {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return "document"
	}
	return strings.Join(clean, "-")
}
