package service

import (
	"github.com/yockii/parish_tools/pkg/config"
	"github.com/yockii/parish_tools/pkg/liturgy"
)

// TypographyFromConfig overlays the render.* settings on the default
// typography. Heading sizes and spacing are fixed.
func TypographyFromConfig() liturgy.Typography {
	t := liturgy.DefaultTypography()
	if v := config.GetString("render.font_family"); v != "" {
		t.FontFamily = v
	}
	if v := config.GetString("render.pdf_font"); v != "" {
		t.PDFFont = v
	}
	if v := config.GetFloat64("render.title_size"); v > 0 {
		t.TitleSize = v
	}
	if v := config.GetFloat64("render.body_size"); v > 0 {
		t.BodySize = v
	}
	if config.IsSet("render.margin") {
		if v := config.GetFloat64("render.margin"); v >= 0 {
			t.Margin = v
		}
	}
	if v := config.GetString("render.liturgical_red"); v != "" {
		t.LiturgicalRed = v
	}
	return t
}
