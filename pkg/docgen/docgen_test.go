package docgen

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yockii/parish_tools/pkg/liturgy"
)

func render(t *testing.T, doc liturgy.Document) []byte {
	t.Helper()
	out, err := NewWordRenderer(liturgy.DefaultTypography()).Render(doc)
	require.NoError(t, err)
	return out
}

func readPart(t *testing.T, docx []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestRender_PageBreakFollowsFlaggedSection(t *testing.T) {
	doc := liturgy.Document{Name: "Wedding", Sections: []liturgy.DocumentSection{
		{Title: "A", Content: "First line\n\nSecond paragraph", PageBreakAfter: true},
		{Title: "B", Content: "Body of B"},
	}}
	paras, err := Outline(render(t, doc))
	require.NoError(t, err)
	require.Len(t, paras, 6)

	assert.Equal(t, Paragraph{Style: "SectionTitle", Text: "A"}, paras[0])
	assert.Equal(t, "First line", paras[1].Text)
	assert.Equal(t, "Second paragraph", paras[2].Text)
	assert.True(t, paras[3].PageBreak)
	assert.Empty(t, paras[3].Text)
	assert.Equal(t, Paragraph{Style: "SectionTitle", Text: "B"}, paras[4])
	assert.Equal(t, "Body of B", paras[5].Text)
}

func TestRender_PageBreakCountMatchesFlags(t *testing.T) {
	doc := liturgy.Document{Sections: []liturgy.DocumentSection{
		{Title: "1", Content: "a", PageBreakAfter: true},
		{Title: "2", Content: "b"},
		{Title: "3", Content: "", PageBreakAfter: true},
		{Title: "", Content: "d", PageBreakAfter: true},
	}}
	paras, err := Outline(render(t, doc))
	require.NoError(t, err)
	breaks := 0
	for _, p := range paras {
		if p.PageBreak {
			breaks++
		}
	}
	assert.Equal(t, 3, breaks)
	// the last break closes the body
	assert.True(t, paras[len(paras)-1].PageBreak)
}

func TestRender_Runs(t *testing.T) {
	doc := liturgy.Document{Sections: []liturgy.DocumentSection{
		{Content: "{red}Kneel{/red} **Lord** <u>have</u> *mercy* now\nAmen & \"so\" <be> it"},
	}}
	xml := readPart(t, render(t, doc), "word/document.xml")

	assert.Contains(t, xml, `<w:r><w:rPr><w:color w:val="C41E3A"/></w:rPr><w:t xml:space="preserve">Kneel</w:t></w:r>`)
	assert.Contains(t, xml, `<w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Lord</w:t>`)
	assert.Contains(t, xml, `<w:rPr><w:u w:val="single"/></w:rPr><w:t xml:space="preserve">have</w:t>`)
	assert.Contains(t, xml, `<w:rPr><w:i/></w:rPr><w:t xml:space="preserve">mercy</w:t>`)
	assert.Contains(t, xml, `<w:r><w:br/></w:r>`)
	assert.Contains(t, xml, `Amen &amp; &#34;so&#34;`)
	assert.NotContains(t, xml, "<be>")
}

func TestRender_MalformedFallsBackToPlain(t *testing.T) {
	doc := liturgy.Document{Sections: []liturgy.DocumentSection{
		{Title: "Broken", Content: "<b>Lord\n{red}Kneel"},
	}}
	paras, err := Outline(render(t, doc))
	require.NoError(t, err)
	require.Len(t, paras, 3)
	assert.Equal(t, "Lord", paras[1].Text)
	assert.Equal(t, "Kneel", paras[2].Text)
}

func TestRender_ListsAndHeadings(t *testing.T) {
	doc := liturgy.Document{Sections: []liturgy.DocumentSection{
		{Content: "## Readings\n\n1. First\n2. Second\n\n- Psalm"},
	}}
	paras, err := Outline(render(t, doc))
	require.NoError(t, err)
	require.Len(t, paras, 4)
	assert.Equal(t, "Heading2", paras[0].Style)
	assert.Equal(t, "1.\tFirst", paras[1].Text)
	assert.Equal(t, "ListParagraph", paras[3].Style)
	assert.Equal(t, "Psalm", paras[3].Text)
}

func TestRender_EmptyDocument(t *testing.T) {
	out := render(t, liturgy.Document{Name: "Empty"})
	paras, err := Outline(out)
	require.NoError(t, err)
	require.Len(t, paras, 1)
	assert.Empty(t, paras[0].Text)

	xml := readPart(t, out, "word/document.xml")
	assert.Contains(t, xml, `<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"`)
}

func TestRender_Deterministic(t *testing.T) {
	doc := liturgy.Document{Sections: []liturgy.DocumentSection{
		{Title: "Cover", Content: "Same **bytes**", PageBreakAfter: true},
		{Title: "Next", Content: "every time"},
	}}
	assert.Equal(t, render(t, doc), render(t, doc))
}

func TestStyles_FollowTypography(t *testing.T) {
	typo := liturgy.DefaultTypography()
	typo.FontFamily = "Garamond"
	out, err := NewWordRenderer(typo).Render(liturgy.Document{})
	require.NoError(t, err)
	styles := readPart(t, out, "word/styles.xml")

	assert.Contains(t, styles, `w:ascii="Garamond"`)
	// 11pt body, 14pt titles, 18pt heading 1
	assert.Contains(t, styles, `<w:sz w:val="22"/>`)
	assert.Contains(t, styles, `<w:sz w:val="28"/>`)
	assert.Contains(t, styles, `<w:sz w:val="36"/>`)
	assert.Equal(t, 1, strings.Count(styles, `w:styleId="SectionTitle"`))
}

func TestOutline_RejectsGarbage(t *testing.T) {
	_, err := Outline([]byte("not a zip"))
	assert.Error(t, err)
}
