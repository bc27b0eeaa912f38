// Package docgen writes assembled scripts as Word (.docx) documents.
package docgen

import (
	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/markup"
)

// ContentType is the MIME type of the generated documents.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// WordRenderer renders documents to DOCX
type WordRenderer struct {
	typo    liturgy.Typography
	builder *DocxBuilder
}

// NewWordRenderer creates a renderer with the shared typography.
func NewWordRenderer(typo liturgy.Typography) *WordRenderer {
	return &WordRenderer{
		typo:    typo,
		builder: NewDocxBuilder(typo),
	}
}

// Render lays the document out as WordprocessingML. A page-break paragraph
// follows the last paragraph of every section flagged PageBreakAfter.
// Malformed section content degrades to plain paragraphs.
func (r *WordRenderer) Render(doc liturgy.Document) ([]byte, error) {
	h := NewWordElementHandler(r.typo)
	for _, s := range doc.Sections {
		if s.HasTitle() {
			h.Title(s.Title)
		}
		blocks, _ := markup.ParseOrPlain(s.Content)
		for _, b := range blocks {
			h.Block(b)
		}
		if s.PageBreakAfter {
			h.PageBreak()
		}
	}
	return r.builder.BuildDocx(h.DocumentXML())
}
