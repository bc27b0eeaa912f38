package htmlgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/parish_tools/pkg/liturgy"
)

func testDoc() liturgy.Document {
	return liturgy.Document{
		Name: "Wedding & Vows",
		Sections: []liturgy.DocumentSection{
			{Title: "Cover", Content: "Reader: **Jane Doe**", PageBreakAfter: true},
			{Title: "", Content: "{red}All stand{/red}\nThe Lord be with you"},
			{Title: "Closing", Content: "Go in peace <script>alert(1)</script>"},
		},
	}
}

func TestRender_View(t *testing.T) {
	v, err := NewRenderer(liturgy.DefaultTypography()).Render(testDoc())
	require.NoError(t, err)
	require.Len(t, v.Sections, 3)

	assert.Equal(t, "Wedding & Vows", v.Title)
	assert.Equal(t, "Cover", v.Sections[0].Title)
	assert.Equal(t, "<p>Reader: <strong>Jane Doe</strong></p>", v.Sections[0].HTML)
	assert.True(t, v.Sections[0].PageBreakAfter)

	assert.Contains(t, v.Sections[1].HTML, `<span class="liturgical-red">All stand</span>`)
	assert.Contains(t, v.Sections[1].HTML, "<br>")
	assert.False(t, v.Sections[1].PageBreakAfter)

	assert.NotContains(t, v.Sections[2].HTML, "script")
	assert.NotContains(t, v.Sections[2].HTML, "alert")
	assert.Contains(t, v.Sections[2].HTML, "Go in peace")
}

func TestRender_MalformedDegradesToPlain(t *testing.T) {
	doc := liturgy.Document{Sections: []liturgy.DocumentSection{
		{Title: "Broken", Content: "<b>Lord & God\n{red}Kneel"},
	}}
	v, err := NewRenderer(liturgy.DefaultTypography()).Render(doc)
	require.NoError(t, err)
	assert.Equal(t, "<p>Lord &amp; God</p>\n<p>Kneel</p>", v.Sections[0].HTML)
}

func TestRender_Empty(t *testing.T) {
	v, err := NewRenderer(liturgy.DefaultTypography()).Render(liturgy.Document{Name: "Empty"})
	require.NoError(t, err)
	assert.NotNil(t, v.Sections)
	assert.Empty(t, v.Sections)
}

func TestRenderPage(t *testing.T) {
	r := NewRenderer(liturgy.DefaultTypography())
	page, err := r.RenderPage(testDoc(), false)
	require.NoError(t, err)
	out := string(page)

	assert.Contains(t, out, "<title>Wedding &amp; Vows</title>")
	assert.Contains(t, out, "page-break-after: always")
	assert.Equal(t, 1, strings.Count(out, `<section class="page-break">`))
	assert.Contains(t, out, "color: #C41E3A")
	assert.Contains(t, out, "<strong>Jane Doe</strong>")
	assert.NotContains(t, out, "window.print")

	printable, err := r.RenderPage(testDoc(), true)
	require.NoError(t, err)
	assert.Contains(t, string(printable), "window.print")
}

func TestRenderText(t *testing.T) {
	out := string(RenderText(testDoc()))
	assert.Equal(t, "Cover\nReader: Jane Doe\n\f\nAll stand\nThe Lord be with you\n\nClosing\nGo in peace\n", out)
}

func TestRenderText_EmptyDocument(t *testing.T) {
	out := RenderText(liturgy.Document{})
	require.NotNil(t, out)
	assert.Empty(t, out)
}
