package pdfgen

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/markup"
)

// ContentType is the MIME type of the generated documents.
const ContentType = "application/pdf"

// creationDate is fixed so identical input yields identical bytes.
var creationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const footerSize = 9

// PDFRenderer renders documents with fpdf core fonts.
type PDFRenderer struct {
	typo liturgy.Typography
}

func NewPDFRenderer(typo liturgy.Typography) *PDFRenderer {
	return &PDFRenderer{typo: typo}
}

// Render lays the document out on US letter pages. Text outside cp1252 is
// replaced by the translator.
func (r *PDFRenderer) Render(doc liturgy.Document) ([]byte, error) {
	pdf := r.layout(doc)
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) layout(doc liturgy.Document) *fpdf.Fpdf {
	t := r.typo
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(t.Margin, t.Margin, t.Margin)
	pdf.SetAutoPageBreak(true, t.Margin)
	pdf.SetCreationDate(creationDate)
	pdf.SetModificationDate(creationDate)
	pdf.SetCatalogSort(true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(doc.Name), false)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-t.Margin / 2)
		pdf.SetFont(t.PDFFont, "", footerSize)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, footerSize, fmt.Sprintf("%d", pdf.PageNo()), "", 0, AlignCenter, false, 0, "")
	})
	pdf.AddPage()

	nodes := BuildContent(doc, t)
	for i, n := range nodes {
		if n.Kind == NodePageBreak {
			// a break closing the document would only add a blank page
			if i < len(nodes)-1 {
				pdf.AddPage()
			}
			continue
		}
		r.node(pdf, tr, n)
	}
	return pdf
}

func (r *PDFRenderer) node(pdf *fpdf.Fpdf, tr func(string) string, n Node) {
	lineHeight := n.Size * r.typo.LineHeight
	if n.SpaceBefore > 0 && pdf.GetY() > r.typo.Margin {
		pdf.Ln(n.SpaceBefore)
	}

	if n.Align == AlignCenter {
		style := ""
		if n.Bold {
			style = "B"
		}
		pdf.SetFont(r.typo.PDFFont, style, n.Size)
		pdf.SetTextColor(0, 0, 0)
		var text strings.Builder
		for _, run := range n.Runs {
			if run.Break {
				text.WriteByte('\n')
				continue
			}
			text.WriteString(run.Text)
		}
		pdf.MultiCell(0, lineHeight, tr(text.String()), "", AlignCenter, false)
		pdf.Ln(n.SpaceAfter)
		return
	}

	left := r.typo.Margin + n.Indent
	pdf.SetLeftMargin(left)
	pdf.SetX(left)
	defer pdf.SetLeftMargin(r.typo.Margin)

	if n.Prefix != "" {
		pdf.SetFont(r.typo.PDFFont, "", n.Size)
		pdf.SetTextColor(0, 0, 0)
		pdf.Write(lineHeight, tr(n.Prefix))
	}
	for _, run := range n.Runs {
		if run.Break {
			pdf.Ln(lineHeight)
			continue
		}
		pdf.SetFont(r.typo.PDFFont, runStyle(run, n), n.Size)
		if run.Red {
			pdf.SetTextColor(r.typo.RedRGB())
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Write(lineHeight, tr(run.Text))
	}
	pdf.Ln(lineHeight)
	pdf.Ln(n.SpaceAfter)
}

func runStyle(run markup.Run, n Node) string {
	style := ""
	if run.Bold || n.Bold {
		style += "B"
	}
	if run.Italic || n.Italic {
		style += "I"
	}
	if run.Underline {
		style += "U"
	}
	return style
}
