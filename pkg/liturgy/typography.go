package liturgy

import (
	"fmt"
	"strconv"
	"strings"
)

// Typography is shared by every renderer so printed and downloaded copies
// look the same. Sizes are in points.
type Typography struct {
	FontFamily string
	// PDFFont is the core PDF font used in place of FontFamily.
	PDFFont       string
	TitleSize     float64
	BodySize      float64
	HeadingSizes  [3]float64
	Margin        float64
	SpaceBefore   float64
	SpaceAfter    float64
	LineHeight    float64
	LiturgicalRed string
}

// DefaultTypography 1-inch margins, Times 11pt body, 14pt section titles.
func DefaultTypography() Typography {
	return Typography{
		FontFamily:    "Times New Roman",
		PDFFont:       "Times",
		TitleSize:     14,
		BodySize:      11,
		HeadingSizes:  [3]float64{18, 16, 14},
		Margin:        72,
		SpaceBefore:   12,
		SpaceAfter:    6,
		LineHeight:    1.25,
		LiturgicalRed: "#c41e3a",
	}
}

// HeadingSize returns the size for heading level 1-3; deeper levels use the last one.
func (t Typography) HeadingSize(level int) float64 {
	switch {
	case level <= 1:
		return t.HeadingSizes[0]
	case level == 2:
		return t.HeadingSizes[1]
	default:
		return t.HeadingSizes[2]
	}
}

// Twips converts points to Word twentieths of a point.
func Twips(pt float64) int {
	return int(pt*20 + 0.5)
}

// HalfPoints converts points to Word's w:sz unit.
func HalfPoints(pt float64) int {
	return int(pt*2 + 0.5)
}

// RedRGB returns the liturgical red as R, G, B components.
func (t Typography) RedRGB() (int, int, int) {
	return parseHexColor(t.LiturgicalRed)
}

// RedHex returns the liturgical red without the leading '#', upper case.
func (t Typography) RedHex() string {
	r, g, b := t.RedRGB()
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

func parseHexColor(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if len(s) != 6 || err != nil {
		return 0xc4, 0x1e, 0x3a
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
