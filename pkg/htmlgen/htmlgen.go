// Package htmlgen renders assembled scripts for the screen, the browser's
// print dialog and plain text downloads.
package htmlgen

import (
	"bytes"
	"fmt"
	gohtml "html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/markup"
)

// ViewSection is one rendered section. HTML is already sanitised.
type ViewSection struct {
	Title          string `json:"title"`
	HTML           string `json:"html"`
	PageBreakAfter bool   `json:"pageBreakAfter"`
}

// View is the structured in-memory view of a script.
type View struct {
	Title    string        `json:"title"`
	Sections []ViewSection `json:"sections"`
}

// Renderer produces HTML views and pages.
type Renderer struct {
	typo liturgy.Typography
	md   goldmark.Markdown
}

// NewRenderer creates a renderer using the given typography for page CSS.
func NewRenderer(typo liturgy.Typography) *Renderer {
	return &Renderer{
		typo: typo,
		md: goldmark.New(
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(),
			),
		),
	}
}

// Render builds the view. Section order and page-break flags follow doc.
func (r *Renderer) Render(doc liturgy.Document) (*View, error) {
	v := &View{
		Title:    doc.Name,
		Sections: make([]ViewSection, 0, len(doc.Sections)),
	}
	for i, s := range doc.Sections {
		body, err := r.section(s.Content)
		if err != nil {
			return nil, fmt.Errorf("render section %d: %w", i, err)
		}
		v.Sections = append(v.Sections, ViewSection{
			Title:          s.Title,
			HTML:           body,
			PageBreakAfter: s.PageBreakAfter,
		})
	}
	return v, nil
}

func (r *Renderer) section(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	if _, err := markup.Parse(content); err != nil {
		return plainHTML(content), nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markup.RedToHTML(content)), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(markup.SanitizeHTML(buf.String())), nil
}

// plainHTML is the degraded rendering of malformed content: every tag is
// stripped and each line becomes an escaped paragraph.
func plainHTML(content string) string {
	var sb strings.Builder
	for _, b := range markup.Plain(content) {
		sb.WriteString("<p>")
		sb.WriteString(gohtml.EscapeString(b.Text()))
		sb.WriteString("</p>\n")
	}
	return strings.TrimSpace(sb.String())
}

// RenderText renders the document as plain text. Each title is followed by
// its content; sections are separated by a blank line and a form feed
// follows every page-break section.
func RenderText(doc liturgy.Document) []byte {
	var buf bytes.Buffer
	for i, s := range doc.Sections {
		if i > 0 {
			buf.WriteString("\n")
		}
		if s.HasTitle() {
			buf.WriteString(s.Title)
			buf.WriteString("\n")
		}
		if body := markup.PlainText(s.Content); body != "" {
			buf.WriteString(body)
			buf.WriteString("\n")
		}
		if s.PageBreakAfter {
			buf.WriteString("\f")
		}
	}
	// an empty document is still a valid, empty file
	return append([]byte{}, buf.Bytes()...)
}
