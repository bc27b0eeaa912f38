package htmlgen

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/markup"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: letter; margin: {{.Margin}}pt; }
body { font-family: "{{.Font}}", Times, serif; font-size: {{.BodySize}}pt; line-height: {{.LineHeight}}; margin: 0; }
.section-title { font-size: {{.TitleSize}}pt; font-weight: bold; text-align: center; margin: {{.SpaceBefore}}pt 0 {{.SpaceAfter}}pt; }
h1 { font-size: {{index .Headings 0}}pt; } h2 { font-size: {{index .Headings 1}}pt; } h3, h4, h5, h6 { font-size: {{index .Headings 2}}pt; }
.{{.RedClass}} { color: {{.Red}}; }
.page-break { page-break-after: always; break-after: page; }
@media screen { body { max-width: 8.5in; margin: 0 auto; padding: {{.Margin}}pt; } }
</style>
</head>
<body>
{{range .Sections}}<section{{if .PageBreakAfter}} class="page-break"{{end}}>
{{if .Title}}<div class="section-title">{{.Title}}</div>
{{end}}{{.HTML}}
</section>
{{end}}{{if .AutoPrint}}<script>window.addEventListener("load", function () { window.print(); });</script>
{{end}}</body>
</html>
`))

type pageSection struct {
	Title          string
	HTML           template.HTML
	PageBreakAfter bool
}

type pageData struct {
	Title       string
	Font        string
	BodySize    float64
	TitleSize   float64
	Headings    [3]float64
	Margin      float64
	SpaceBefore float64
	SpaceAfter  float64
	LineHeight  float64
	Red         template.CSS
	RedClass    string
	Sections    []pageSection
	AutoPrint   bool
}

// RenderPage renders a complete printable HTML page. When autoPrint is set
// the page opens the print dialog once loaded.
func (r *Renderer) RenderPage(doc liturgy.Document, autoPrint bool) ([]byte, error) {
	view, err := r.Render(doc)
	if err != nil {
		return nil, err
	}
	data := pageData{
		Title:       view.Title,
		Font:        r.typo.FontFamily,
		BodySize:    r.typo.BodySize,
		TitleSize:   r.typo.TitleSize,
		Headings:    r.typo.HeadingSizes,
		Margin:      r.typo.Margin,
		SpaceBefore: r.typo.SpaceBefore,
		SpaceAfter:  r.typo.SpaceAfter,
		LineHeight:  r.typo.LineHeight,
		Red:         template.CSS("#" + r.typo.RedHex()),
		RedClass:    markup.RedClass,
		AutoPrint:   autoPrint,
	}
	for _, s := range view.Sections {
		data.Sections = append(data.Sections, pageSection{
			Title: s.Title,
			// sanitised by Render
			HTML:           template.HTML(s.HTML),
			PageBreakAfter: s.PageBreakAfter,
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}
