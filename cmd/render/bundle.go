package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/yockii/parish_tools/pkg/liturgy"
)

var errInvalidBundle = errors.New("invalid bundle")

// bundle is everything needed to render one script without a database:
//
//	{
//	  "script": {"name": "...", "sections": [{"name", "content", "order", "pageBreakAfter"}]},
//	  "resolvedFields": {...},
//	  "calendarEvent": {"resolvedFields": {...}},
//	  "parish": {"name", "city", "state"},
//	  "fieldDefinitions": [{"propertyName", "name", "type"}]
//	}
//
// resolvedFields use the stored snapshot shape. calendarEvent fields override
// the event fields they share a name with.
type bundle struct {
	script liturgy.Script
	fields liturgy.ResolvedFields
	parish *liturgy.ParishValue
	defs   []liturgy.FieldDefinition
}

func loadBundle(path string) (*bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	return parseBundle(data)
}

func parseBundle(data []byte) (*bundle, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", errInvalidBundle)
	}
	root := gjson.ParseBytes(data)
	if !root.Get("script").IsObject() {
		return nil, fmt.Errorf("%w: script is required", errInvalidBundle)
	}

	b := &bundle{
		script: liturgy.Script{
			ID:   root.Get("script.id").String(),
			Name: root.Get("script.name").String(),
		},
	}
	root.Get("script.sections").ForEach(func(_, v gjson.Result) bool {
		b.script.Sections = append(b.script.Sections, liturgy.Section{
			ID:             v.Get("id").String(),
			Name:           v.Get("name").String(),
			Content:        v.Get("content").String(),
			SectionType:    v.Get("sectionType").String(),
			Order:          int(v.Get("order").Int()),
			PageBreakAfter: v.Get("pageBreakAfter").Bool(),
		})
		return true
	})

	fields, err := liturgy.ParseResolvedFields([]byte(root.Get("resolvedFields").Raw))
	if err != nil {
		return nil, fmt.Errorf("%w: resolvedFields: %v", errInvalidBundle, err)
	}
	occ, err := liturgy.ParseResolvedFields([]byte(root.Get("calendarEvent.resolvedFields").Raw))
	if err != nil {
		return nil, fmt.Errorf("%w: calendarEvent: %v", errInvalidBundle, err)
	}
	b.fields = liturgy.MergeFields(fields, occ)

	if p := root.Get("parish"); p.IsObject() {
		b.parish = &liturgy.ParishValue{
			Name:  p.Get("name").String(),
			City:  p.Get("city").String(),
			State: p.Get("state").String(),
		}
	}

	root.Get("fieldDefinitions").ForEach(func(_, v gjson.Result) bool {
		ft, ok := liturgy.ParseFieldType(v.Get("type").String())
		if !ok {
			return true
		}
		b.defs = append(b.defs, liturgy.FieldDefinition{
			PropertyName:  v.Get("propertyName").String(),
			Name:          v.Get("name").String(),
			Type:          ft,
			Required:      v.Get("required").Bool(),
			PerOccurrence: v.Get("isPerCalendarEvent").Bool(),
			KeyPerson:     v.Get("isKeyPerson").Bool(),
		})
		return true
	})
	return b, nil
}
