// Package pdfgen lays assembled scripts out as PDF.
package pdfgen

import (
	"fmt"

	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/markup"
)

type NodeKind string

const (
	NodeTitle     NodeKind = "title"
	NodeParagraph NodeKind = "paragraph"
	NodeHeading   NodeKind = "heading"
	NodeListItem  NodeKind = "list_item"
	NodeQuote     NodeKind = "quote"
	NodePageBreak NodeKind = "page_break"
)

const (
	AlignLeft   = "L"
	AlignCenter = "C"
)

// listIndent is the indentation per list nesting level, in points.
const listIndent = 18

// Node is one entry of the content tree the layout engine walks.
type Node struct {
	Kind   NodeKind
	Runs   []markup.Run
	Size   float64
	Bold   bool
	Italic bool
	Align  string
	Indent float64
	// Prefix is the bullet or number written before a list item.
	Prefix      string
	SpaceBefore float64
	SpaceAfter  float64
}

// BuildContent converts the document to a flat content tree. Each section
// contributes its title, its content blocks and, when flagged, a page break.
func BuildContent(doc liturgy.Document, typo liturgy.Typography) []Node {
	nodes := make([]Node, 0, len(doc.Sections)*2)
	for _, s := range doc.Sections {
		if s.HasTitle() {
			nodes = append(nodes, Node{
				Kind:        NodeTitle,
				Runs:        []markup.Run{{Text: s.Title, Bold: true}},
				Size:        typo.TitleSize,
				Bold:        true,
				Align:       AlignCenter,
				SpaceBefore: typo.SpaceBefore,
				SpaceAfter:  typo.SpaceAfter,
			})
		}
		blocks, _ := markup.ParseOrPlain(s.Content)
		for _, b := range blocks {
			nodes = append(nodes, blockNode(b, typo))
		}
		if s.PageBreakAfter {
			nodes = append(nodes, Node{Kind: NodePageBreak})
		}
	}
	return nodes
}

func blockNode(b markup.Block, typo liturgy.Typography) Node {
	n := Node{
		Kind:       NodeParagraph,
		Runs:       b.Runs,
		Size:       typo.BodySize,
		Align:      AlignLeft,
		SpaceAfter: typo.SpaceAfter,
	}
	switch b.Kind {
	case markup.BlockHeading:
		n.Kind = NodeHeading
		n.Size = typo.HeadingSize(b.Level)
		n.Bold = true
		n.SpaceBefore = typo.SpaceBefore
	case markup.BlockListItem:
		n.Kind = NodeListItem
		n.Indent = float64(listIndent * max(b.Level, 1))
		n.Prefix = "• "
		if b.Ordered {
			n.Prefix = fmt.Sprintf("%d. ", b.Number)
		}
		n.SpaceAfter = typo.SpaceAfter / 2
	case markup.BlockQuote:
		n.Kind = NodeQuote
		n.Indent = 2 * listIndent
		n.Italic = true
	}
	return n
}
