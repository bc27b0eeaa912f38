// Package markup parses the restricted markup allowed in script sections:
// markdown emphasis and headings, a handful of inline HTML tags, HTML
// paragraphs pasted from the rich editor and {red}...{/red} rubrics.
package markup

import (
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
)

const (
	RedOpen  = "{red}"
	RedClose = "{/red}"
)

// ErrMalformed is returned when inline tags or red markers do not balance.
var ErrMalformed = errors.New("malformed markup")

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockQuote
)

// Run is a span of uniformly styled text. A Break run carries no text and
// stands for a line break inside the block.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Red       bool
	Break     bool
}

// Block is a paragraph-level element.
type Block struct {
	Kind BlockKind
	// Level is the heading level (1-3) or the list nesting depth (1-based).
	Level   int
	Ordered bool
	Number  int
	Runs    []Run
}

// Text returns the block's text with breaks as newlines.
func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		if r.Break {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}

var md = goldmark.New()

// Parse converts section content into blocks.
func Parse(content string) ([]Block, error) {
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	if !redBalanced(content) {
		return nil, ErrMalformed
	}
	source := []byte(content)
	root := md.Parser().Parse(text.NewReader(source))

	p := &parser{source: source}
	if err := p.blocks(root, 0); err != nil {
		return nil, err
	}
	return p.out, nil
}

// ParseOrPlain returns the parsed blocks, or the plain-text degradation and
// false when the content is malformed.
func ParseOrPlain(content string) ([]Block, bool) {
	blocks, err := Parse(content)
	if err != nil {
		return Plain(content), false
	}
	return blocks, true
}

// Plain strips every tag and marker and returns one paragraph per line.
func Plain(content string) []Block {
	var out []Block
	for _, line := range strings.Split(StripTags(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, Block{Kind: BlockParagraph, Runs: []Run{{Text: line}}})
	}
	return out
}

// PlainText renders content as text: markup removed, entities decoded,
// blocks separated by newlines.
func PlainText(content string) string {
	blocks, _ := ParseOrPlain(content)
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		t := strings.TrimSpace(b.Text())
		if b.Kind == BlockListItem {
			t = "- " + t
		}
		lines = append(lines, t)
	}
	return strings.Join(lines, "\n")
}

// StripTags removes HTML tags and red markers and decodes entities. Block
// level tags and <br> become newlines.
func StripTags(content string) string {
	content = strings.ReplaceAll(content, RedOpen, "")
	content = strings.ReplaceAll(content, RedClose, "")

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if isBlockTag(string(name)) || string(name) == "br" {
				sb.WriteByte('\n')
			}
		}
	}
}

// redBalanced checks that red markers open and close in order.
func redBalanced(s string) bool {
	depth := 0
	for {
		o := strings.Index(s, RedOpen)
		c := strings.Index(s, RedClose)
		switch {
		case o < 0 && c < 0:
			return depth == 0
		case c < 0 || (o >= 0 && o < c):
			depth++
			s = s[o+len(RedOpen):]
		default:
			depth--
			if depth < 0 {
				return false
			}
			s = s[c+len(RedClose):]
		}
	}
}

func isBlockTag(name string) bool {
	switch name {
	case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "blockquote", "ul", "ol", "tr", "section", "article":
		return true
	}
	return false
}

// parser walks the goldmark tree. Inline style state is tracked per block;
// red state spans blocks since markers may wrap several paragraphs.
type parser struct {
	source []byte
	out    []Block

	cur    *Block
	style  style
	tags   []string
	red    bool
	quoted bool
	// skip counts open elements whose content is dropped
	skip int
}

type style struct {
	bold, italic, underline int
}

func (p *parser) blocks(n ast.Node, depth int) error {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		var err error
		switch node := c.(type) {
		case *ast.Heading:
			level := node.Level
			if level > 3 {
				level = 3
			}
			err = p.inlineBlock(Block{Kind: BlockHeading, Level: level}, node)
		case *ast.Paragraph, *ast.TextBlock:
			kind := BlockParagraph
			if p.quoted {
				kind = BlockQuote
			}
			err = p.inlineBlock(Block{Kind: kind}, node)
		case *ast.List:
			err = p.list(node, depth+1)
		case *ast.Blockquote:
			prev := p.quoted
			p.quoted = true
			err = p.blocks(node, depth)
			p.quoted = prev
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			p.lines(node)
		case *ast.HTMLBlock:
			err = p.htmlBlock(node)
		case *ast.ThematicBreak:
		default:
			err = p.blocks(node, depth)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) list(l *ast.List, depth int) error {
	num := l.Start
	if num == 0 {
		num = 1
	}
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.List:
				if err := p.list(node, depth+1); err != nil {
					return err
				}
			case *ast.Paragraph, *ast.TextBlock:
				b := Block{Kind: BlockListItem, Level: depth, Ordered: l.IsOrdered(), Number: num}
				if err := p.inlineBlock(b, node); err != nil {
					return err
				}
			default:
				if err := p.blocks(node, depth); err != nil {
					return err
				}
			}
		}
		num++
	}
	return nil
}

func (p *parser) inlineBlock(b Block, n ast.Node) error {
	p.begin(b)
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if err := p.inline(c); err != nil {
			return err
		}
	}
	return p.end()
}

func (p *parser) begin(b Block) {
	p.cur = &b
	p.style = style{}
	p.tags = p.tags[:0]
}

func (p *parser) end() error {
	if len(p.tags) > 0 {
		return ErrMalformed
	}
	b := p.cur
	p.cur = nil
	// drop trailing breaks left by hard wraps
	for len(b.Runs) > 0 && b.Runs[len(b.Runs)-1].Break {
		b.Runs = b.Runs[:len(b.Runs)-1]
	}
	if len(b.Runs) > 0 {
		p.out = append(p.out, *b)
	}
	return nil
}

func (p *parser) inline(n ast.Node) error {
	switch node := n.(type) {
	case *ast.Text:
		v := node.Segment.Value(p.source)
		if !node.IsRaw() {
			v = util.UnescapePunctuations(v)
		}
		p.text(string(v))
		if node.SoftLineBreak() || node.HardLineBreak() {
			p.lineBreak()
		}
	case *ast.String:
		p.text(string(node.Value))
	case *ast.Emphasis:
		if node.Level >= 2 {
			p.style.bold++
			defer func() { p.style.bold-- }()
		} else {
			p.style.italic++
			defer func() { p.style.italic-- }()
		}
		return p.children(node)
	case *ast.AutoLink:
		p.text(string(node.Label(p.source)))
	case *ast.RawHTML:
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			if err := p.rawTag(string(seg.Value(p.source))); err != nil {
				return err
			}
		}
	default:
		return p.children(n)
	}
	return nil
}

func (p *parser) children(n ast.Node) error {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if err := p.inline(c); err != nil {
			return err
		}
	}
	return nil
}

// rawTag applies an inline HTML tag to the current style.
func (p *parser) rawTag(raw string) error {
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return nil
		case html.TextToken:
			p.text(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			if err := p.tag(string(name), tt); err != nil {
				return err
			}
		}
	}
}

func (p *parser) tag(name string, tt html.TokenType) error {
	if isDropped(name) {
		switch {
		case tt == html.StartTagToken:
			p.skip++
		case tt == html.EndTagToken && p.skip > 0:
			p.skip--
		}
		return nil
	}
	if p.skip > 0 {
		return nil
	}
	if name == "br" {
		p.lineBreak()
		return nil
	}
	counter := p.styleCounter(name)
	if counter == nil {
		return nil
	}
	switch tt {
	case html.StartTagToken:
		*counter++
		p.tags = append(p.tags, name)
	case html.EndTagToken:
		if len(p.tags) == 0 || p.tags[len(p.tags)-1] != name {
			return ErrMalformed
		}
		p.tags = p.tags[:len(p.tags)-1]
		*counter--
	}
	return nil
}

func (p *parser) styleCounter(name string) *int {
	switch name {
	case "b", "strong":
		return &p.style.bold
	case "i", "em":
		return &p.style.italic
	case "u":
		return &p.style.underline
	}
	return nil
}

// text appends s, splitting on red markers.
func (p *parser) text(s string) {
	s = html.UnescapeString(s)
	for s != "" {
		o := strings.Index(s, RedOpen)
		c := strings.Index(s, RedClose)
		next, marker := -1, ""
		switch {
		case o >= 0 && (c < 0 || o < c):
			next, marker = o, RedOpen
		case c >= 0:
			next, marker = c, RedClose
		}
		if next < 0 {
			p.appendRun(s)
			return
		}
		p.appendRun(s[:next])
		p.red = marker == RedOpen
		s = s[next+len(marker):]
	}
}

func (p *parser) appendRun(s string) {
	if s == "" || p.cur == nil || p.skip > 0 {
		return
	}
	r := Run{
		Text:      s,
		Bold:      p.style.bold > 0,
		Italic:    p.style.italic > 0,
		Underline: p.style.underline > 0,
		Red:       p.red,
	}
	runs := p.cur.Runs
	if n := len(runs); n > 0 {
		last := &runs[n-1]
		if !last.Break && last.Bold == r.Bold && last.Italic == r.Italic &&
			last.Underline == r.Underline && last.Red == r.Red {
			last.Text += s
			return
		}
	}
	p.cur.Runs = append(runs, r)
}

func (p *parser) lineBreak() {
	if p.cur == nil || len(p.cur.Runs) == 0 {
		return
	}
	p.cur.Runs = append(p.cur.Runs, Run{Break: true})
}

func (p *parser) lines(n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(p.source)), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		p.out = append(p.out, Block{Kind: BlockParagraph, Runs: []Run{{Text: line, Red: p.red}}})
	}
}

// htmlBlock handles HTML pasted from the rich text editor.
func (p *parser) htmlBlock(n *ast.HTMLBlock) error {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(p.source))
	}
	if n.HasClosure() {
		sb.Write(n.ClosureLine.Value(p.source))
	}

	type listState struct {
		ordered bool
		next    int
	}
	var lists []listState

	z := html.NewTokenizer(strings.NewReader(sb.String()))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if p.cur != nil {
				return p.end()
			}
			return nil
		case html.TextToken:
			if p.skip > 0 {
				continue
			}
			t := collapseSpace(string(z.Raw()))
			if strings.TrimSpace(t) == "" && (p.cur == nil || len(p.cur.Runs) == 0) {
				continue
			}
			if p.cur == nil {
				p.begin(Block{Kind: BlockParagraph})
			}
			p.text(t)
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			nameB, _ := z.TagName()
			name := string(nameB)
			if isDropped(name) || p.skip > 0 {
				if err := p.tag(name, tt); err != nil {
					return err
				}
				continue
			}
			switch name {
			case "ul", "ol":
				if tt == html.StartTagToken {
					lists = append(lists, listState{ordered: name == "ol", next: 1})
				} else if tt == html.EndTagToken && len(lists) > 0 {
					lists = lists[:len(lists)-1]
				}
				continue
			}
			if !isBlockTag(name) {
				if p.cur == nil && tt == html.StartTagToken {
					p.begin(Block{Kind: BlockParagraph})
				}
				if p.cur != nil {
					if err := p.tag(name, tt); err != nil {
						return err
					}
				}
				continue
			}
			// the editor wraps list item text in <p>
			if tt == html.StartTagToken && (name == "p" || name == "div") &&
				p.cur != nil && p.cur.Kind == BlockListItem && len(p.cur.Runs) == 0 {
				continue
			}
			if p.cur != nil {
				if err := p.end(); err != nil {
					return err
				}
			}
			if tt != html.StartTagToken {
				continue
			}
			b := Block{Kind: BlockParagraph}
			switch {
			case len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6':
				b.Kind = BlockHeading
				b.Level = min(int(name[1]-'0'), 3)
			case name == "li":
				b.Kind = BlockListItem
				b.Level = max(len(lists), 1)
				if len(lists) > 0 {
					top := &lists[len(lists)-1]
					b.Ordered = top.ordered
					b.Number = top.next
					top.next++
				}
			case name == "blockquote" || p.quoted:
				b.Kind = BlockQuote
			}
			p.begin(b)
		}
	}
}

// isDropped lists elements whose content never reaches the output.
func isDropped(name string) bool {
	switch name {
	case "script", "style", "iframe", "object", "noscript", "template", "textarea", "select", "button", "form":
		return true
	}
	return false
}

func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}
