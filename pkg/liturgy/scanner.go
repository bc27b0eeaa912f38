package liturgy

import (
	"iter"
	"strings"
)

// Token is one placeholder found in template text.
type Token struct {
	// Start and End are byte offsets of the whole token in the source text.
	Start int
	End   int
	// Raw is the exact source text, braces included.
	Raw      string
	Field    string
	Property string
	// Gendered tokens read {{field | male text | female text}}.
	Gendered bool
	Male     string
	Female   string
}

// Scan yields the placeholders of text from left to right. Malformed
// candidates such as "{{a.b.c}}" or an unterminated "{{" are skipped and
// stay part of the literal text.
func Scan(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		pos := 0
		for pos < len(text) {
			open := strings.Index(text[pos:], "{{")
			if open < 0 {
				return
			}
			open += pos
			end := strings.Index(text[open+2:], "}}")
			if end < 0 {
				return
			}
			end += open + 2
			tok, ok := parseToken(text[open+2 : end])
			if !ok {
				pos = open + 1
				continue
			}
			tok.Start = open
			tok.End = end + 2
			tok.Raw = text[open:tok.End]
			if !yield(tok) {
				return
			}
			pos = tok.End
		}
	}
}

// Tokens collects Scan into a slice.
func Tokens(text string) []Token {
	var out []Token
	for tok := range Scan(text) {
		out = append(out, tok)
	}
	return out
}

func parseToken(inner string) (Token, bool) {
	if strings.ContainsAny(inner, "{}") {
		return Token{}, false
	}
	var tok Token
	parts := strings.Split(inner, "|")
	switch len(parts) {
	case 1:
	case 3:
		tok.Gendered = true
		tok.Male = strings.TrimSpace(parts[1])
		tok.Female = strings.TrimSpace(parts[2])
	default:
		return Token{}, false
	}

	ref := strings.TrimSpace(parts[0])
	field, prop, hasProp := strings.Cut(ref, ".")
	if !isIdent(field) {
		return Token{}, false
	}
	if hasProp && !isIdent(prop) {
		return Token{}, false
	}
	tok.Field = field
	tok.Property = prop
	return tok, true
}

// isIdent matches \w+ in its ASCII sense.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}
