package liturgy

import (
	"sort"
)

const (
	SectionTypeText  = "text"
	SectionTypeOther = "other"
)

// Section is one block of a script as authored in settings.
type Section struct {
	ID             string
	Name           string
	Content        string
	SectionType    string
	Order          int
	PageBreakAfter bool
}

// Script is a read-only template for one event type.
type Script struct {
	ID          string
	EventTypeID string
	Name        string
	Sections    []Section
}

// DocumentSection is one assembled block. An empty Title means the section
// has no heading.
type DocumentSection struct {
	Title          string
	Content        string
	PageBreakAfter bool
}

// HasTitle reports whether a heading should be rendered.
func (s DocumentSection) HasTitle() bool {
	return s.Title != ""
}

// Document is the medium independent form every renderer consumes.
type Document struct {
	Name     string
	Sections []DocumentSection
}

// Assemble uses the default compiler.
func Assemble(script Script, fields ResolvedFields, bag *EntitiesBag) Document {
	return defaultCompiler.Assemble(script, fields, bag)
}

// Assemble orders the script's sections and compiles each one. The input
// script is not modified.
func (c *Compiler) Assemble(script Script, fields ResolvedFields, bag *EntitiesBag) Document {
	sections := SortSections(script.Sections)
	doc := Document{
		Name:     script.Name,
		Sections: make([]DocumentSection, 0, len(sections)),
	}
	for _, s := range sections {
		doc.Sections = append(doc.Sections, DocumentSection{
			Title:          s.Name,
			Content:        c.Compile(s.Content, fields, bag),
			PageBreakAfter: s.PageBreakAfter,
		})
	}
	return doc
}

// SortSections returns a copy sorted by Order. Ties keep their input order.
func SortSections(sections []Section) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
