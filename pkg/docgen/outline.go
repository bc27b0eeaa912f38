package docgen

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoDocument means the archive has no word/document.xml part.
var ErrNoDocument = errors.New("docx: word/document.xml not found")

// Paragraph is one body paragraph of a generated document as seen by Outline.
type Paragraph struct {
	Style     string
	Text      string
	PageBreak bool
}

// Outline reads back the body paragraphs of a DOCX: their style, text and
// whether they hold a page break. Line breaks read as "\n" and tabs as "\t".
func Outline(docx []byte) ([]Paragraph, error) {
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	var f *zip.File
	for _, zf := range zr.File {
		if zf.Name == "word/document.xml" {
			f = zf
			break
		}
	}
	if f == nil {
		return nil, ErrNoDocument
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var (
		out  []Paragraph
		cur  *Paragraph
		text strings.Builder
		inT  bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				cur = &Paragraph{}
				text.Reset()
			case "pStyle":
				if cur != nil {
					cur.Style = attr(t, "val")
				}
			case "t":
				inT = true
			case "tab":
				text.WriteByte('\t')
			case "br":
				if cur == nil {
					continue
				}
				if attr(t, "type") == "page" {
					cur.PageBreak = true
				} else {
					text.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inT = false
			case "p":
				if cur != nil {
					cur.Text = text.String()
					out = append(out, *cur)
					cur = nil
				}
			}
		case xml.CharData:
			if inT {
				text.Write(t)
			}
		}
	}
}

func attr(e xml.StartElement, local string) string {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
