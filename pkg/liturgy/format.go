package liturgy

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	DateLayout = "Monday, January 2, 2006"
	TimeLayout = "3:04 PM"
)

var (
	dateInputLayouts     = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05", "01/02/2006"}
	timeInputLayouts     = []string{"15:04:05", "15:04", time.Kitchen, "3:04 PM"}
	dateTimeInputLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02T15:04"}
)

// Formatter turns scalar raw values into display text. The zero value
// formats for American English.
type Formatter struct {
	tag language.Tag
}

// NewFormatter parses a BCP 47 locale; unknown locales fall back to en-US.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	return &Formatter{tag: tag}
}

func (f *Formatter) printer() *message.Printer {
	if f == nil || f.tag == language.Und {
		return message.NewPrinter(language.AmericanEnglish)
	}
	return message.NewPrinter(f.tag)
}

// Scalar formats one scalar according to its type. Values that do not parse
// are shown as stored.
func (f *Formatter) Scalar(v ScalarValue) string {
	raw := strings.TrimSpace(v.Raw)
	switch v.Type {
	case FieldTypeDate:
		if t, ok := parseAny(raw, dateInputLayouts); ok {
			return t.Format(DateLayout)
		}
	case FieldTypeTime:
		if t, ok := parseAny(raw, timeInputLayouts); ok {
			return t.Format(TimeLayout)
		}
	case FieldTypeDateTime:
		if t, ok := parseAny(raw, dateTimeInputLayouts); ok {
			return t.Format(DateLayout) + " at " + t.Format(TimeLayout)
		}
	case FieldTypeBoolean:
		switch strings.ToLower(raw) {
		case "true", "yes", "1", "y":
			return "Yes"
		case "false", "no", "0", "n":
			return "No"
		}
	case FieldTypeNumber:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return f.printer().Sprintf("%d", n)
		}
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return f.printer().Sprintf("%v", n)
		}
	case FieldTypeText, FieldTypeRichText:
		return v.Raw
	}
	return v.Raw
}

func parseAny(raw string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
