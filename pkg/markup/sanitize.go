package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// RedClass is the CSS class used for rubrics in HTML output.
const RedClass = "liturgical-red"

// RedToHTML turns {red} markers into spans.
func RedToHTML(s string) string {
	s = strings.ReplaceAll(s, RedOpen, `<span class="`+RedClass+`">`)
	return strings.ReplaceAll(s, RedClose, "</span>")
}

// removed elements disappear with their content.
var removedElements = map[string]bool{
	"script": true, "style": true, "iframe": true, "object": true, "embed": true,
	"link": true, "form": true, "input": true, "button": true, "select": true,
	"textarea": true,
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "wbr": true,
}

var urlAttributes = map[string]bool{
	"href": true, "src": true, "action": true, "formaction": true, "xlink:href": true, "background": true,
}

// SanitizeHTML strips active content from rendered section HTML: dangerous
// elements, event handler attributes and script-capable URLs.
func SanitizeHTML(input string) string {
	var sb strings.Builder
	sb.Grow(len(input))
	skip := 0

	z := html.NewTokenizer(strings.NewReader(input))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			if skip == 0 {
				sb.WriteString(html.EscapeString(string(z.Text())))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if removedElements[tok.Data] {
				if tt == html.StartTagToken && !voidElements[tok.Data] {
					skip++
				}
				continue
			}
			if skip > 0 {
				continue
			}
			writeTag(&sb, tok, tt == html.SelfClosingTagToken)
		case html.EndTagToken:
			name, _ := z.TagName()
			if removedElements[string(name)] {
				if skip > 0 && !voidElements[string(name)] {
					skip--
				}
				continue
			}
			if skip == 0 {
				sb.WriteString("</")
				sb.Write(name)
				sb.WriteByte('>')
			}
		case html.CommentToken, html.DoctypeToken:
		}
	}
}

func writeTag(sb *strings.Builder, tok html.Token, selfClosing bool) {
	sb.WriteByte('<')
	sb.WriteString(tok.Data)
	for _, a := range tok.Attr {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if urlAttributes[key] && unsafeURL(a.Val) {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(key)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(a.Val))
		sb.WriteByte('"')
	}
	if selfClosing {
		sb.WriteString(" /")
	}
	sb.WriteByte('>')
}

func unsafeURL(v string) bool {
	var sb strings.Builder
	for _, r := range strings.ToLower(v) {
		if r > ' ' && r != 0x7f {
			sb.WriteRune(r)
		}
	}
	u := sb.String()
	for _, scheme := range []string{"javascript:", "data:", "vbscript:"} {
		if strings.HasPrefix(u, scheme) {
			return true
		}
	}
	return false
}
