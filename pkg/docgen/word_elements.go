package docgen

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/markup"
)

const (
	styleTitle = "SectionTitle"
	styleQuote = "Quote"
	styleList  = "ListParagraph"

	numBullet = 1
)

// pageBreakXML is the paragraph written after page-break sections.
const pageBreakXML = `<w:p><w:r><w:br w:type="page"/></w:r></w:p>`

// WordElementHandler accumulates the body paragraphs of a document.
type WordElementHandler struct {
	typo liturgy.Typography
	body strings.Builder
	red  string
}

// NewWordElementHandler creates an empty body.
func NewWordElementHandler(typo liturgy.Typography) *WordElementHandler {
	return &WordElementHandler{typo: typo, red: typo.RedHex()}
}

// Title writes a centered bold section title.
func (h *WordElementHandler) Title(title string) {
	h.body.WriteString(`<w:p><w:pPr><w:pStyle w:val="` + styleTitle + `"/></w:pPr>`)
	h.run(markup.Run{Text: title})
	h.body.WriteString("</w:p>")
}

// Block writes one paragraph-level element.
func (h *WordElementHandler) Block(b markup.Block) {
	h.body.WriteString("<w:p>")
	runs := b.Runs
	switch b.Kind {
	case markup.BlockHeading:
		fmt.Fprintf(&h.body, `<w:pPr><w:pStyle w:val="Heading%d"/></w:pPr>`, min(max(b.Level, 1), 3))
	case markup.BlockQuote:
		h.body.WriteString(`<w:pPr><w:pStyle w:val="` + styleQuote + `"/></w:pPr>`)
	case markup.BlockListItem:
		level := max(b.Level, 1) - 1
		if b.Ordered {
			fmt.Fprintf(&h.body, `<w:pPr><w:pStyle w:val="%s"/><w:ind w:left="%d" w:hanging="360"/></w:pPr>`,
				styleList, 720*(level+1))
			runs = append([]markup.Run{{Text: fmt.Sprintf("%d.\t", b.Number)}}, runs...)
		} else {
			fmt.Fprintf(&h.body, `<w:pPr><w:pStyle w:val="%s"/><w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr></w:pPr>`,
				styleList, min(level, 1), numBullet)
		}
	}
	for _, r := range runs {
		h.run(r)
	}
	h.body.WriteString("</w:p>")
}

// PageBreak writes a paragraph holding only a page break.
func (h *WordElementHandler) PageBreak() {
	h.body.WriteString(pageBreakXML)
}

func (h *WordElementHandler) run(r markup.Run) {
	h.body.WriteString("<w:r>")
	if r.Break {
		h.body.WriteString("<w:br/></w:r>")
		return
	}
	if r.Bold || r.Italic || r.Underline || r.Red {
		h.body.WriteString("<w:rPr>")
		if r.Bold {
			h.body.WriteString("<w:b/>")
		}
		if r.Italic {
			h.body.WriteString("<w:i/>")
		}
		if r.Underline {
			h.body.WriteString(`<w:u w:val="single"/>`)
		}
		if r.Red {
			h.body.WriteString(`<w:color w:val="` + h.red + `"/>`)
		}
		h.body.WriteString("</w:rPr>")
	}
	// tabs are written as w:tab so ordered list numbers align
	for i, part := range strings.Split(r.Text, "\t") {
		if i > 0 {
			h.body.WriteString("<w:tab/>")
		}
		if part == "" {
			continue
		}
		h.body.WriteString(`<w:t xml:space="preserve">`)
		h.body.WriteString(escapeText(part))
		h.body.WriteString("</w:t>")
	}
	h.body.WriteString("</w:r>")
}

// DocumentXML returns word/document.xml. An empty body still holds one
// paragraph so Word opens the file.
func (h *WordElementHandler) DocumentXML() string {
	body := h.body.String()
	if body == "" {
		body = "<w:p/>"
	}
	// US letter
	pageWidth, pageHeight := liturgy.Twips(612), liturgy.Twips(792)
	margin := liturgy.Twips(h.typo.Margin)
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<w:body>` + body + fmt.Sprintf(`<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`,
		pageWidth, pageHeight, margin, margin, margin, margin) + `</w:body>
</w:document>`
}

func escapeText(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on writer errors
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
