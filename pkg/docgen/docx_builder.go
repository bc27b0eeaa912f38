package docgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/yockii/parish_tools/pkg/liturgy"
)

// modTime is stamped on every zip entry so identical input yields identical bytes.
var modTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DocxBuilder packages document XML into a DOCX archive
type DocxBuilder struct {
	typo liturgy.Typography
}

// NewDocxBuilder creates a builder whose styles follow typo.
func NewDocxBuilder(typo liturgy.Typography) *DocxBuilder {
	return &DocxBuilder{typo: typo}
}

type part struct {
	name    string
	content string
}

// BuildDocx writes the package parts in a fixed order.
func (b *DocxBuilder) BuildDocx(documentXML string) ([]byte, error) {
	outputBuffer := new(bytes.Buffer)
	zipWriter := zip.NewWriter(outputBuffer)

	parts := []part{
		{"[Content_Types].xml", getContentTypesXML()},
		{"_rels/.rels", getRelsXML()},
		{"word/document.xml", documentXML},
		{"word/_rels/document.xml.rels", getWordRelsXML()},
		{"word/styles.xml", b.getStylesXML()},
		{"word/numbering.xml", getNumberingXML()},
	}
	for _, p := range parts {
		entry, err := zipWriter.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: modTime,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err = entry.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		return nil, err
	}
	return outputBuffer.Bytes(), nil
}

func getContentTypesXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
  <Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
</Types>`
}

func getRelsXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
}

func getWordRelsXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>
</Relationships>`
}

func (b *DocxBuilder) getStylesXML() string {
	t := b.typo
	font := escapeText(t.FontFamily)
	body := liturgy.HalfPoints(t.BodySize)
	line := int(240*t.LineHeight + 0.5)

	heading := func(level int, before int) string {
		size := liturgy.HalfPoints(t.HeadingSize(level))
		return fmt.Sprintf(`  <w:style w:type="paragraph" w:styleId="Heading%[1]d">
    <w:name w:val="heading %[1]d"/>
    <w:basedOn w:val="Normal"/>
    <w:next w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:keepNext/>
      <w:spacing w:before="%[2]d" w:after="%[3]d"/>
      <w:outlineLvl w:val="%[4]d"/>
    </w:pPr>
    <w:rPr>
      <w:b/>
      <w:sz w:val="%[5]d"/>
      <w:szCs w:val="%[5]d"/>
    </w:rPr>
  </w:style>
`, level, before, liturgy.Twips(t.SpaceAfter), level-1, size)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:docDefaults>
    <w:rPrDefault>
      <w:rPr>
        <w:rFonts w:ascii="%[1]s" w:hAnsi="%[1]s" w:cs="%[1]s" w:eastAsia="%[1]s"/>
        <w:sz w:val="%[2]d"/>
        <w:szCs w:val="%[2]d"/>
      </w:rPr>
    </w:rPrDefault>
  </w:docDefaults>
  <w:style w:type="paragraph" w:default="1" w:styleId="Normal">
    <w:name w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:spacing w:after="%[3]d" w:line="%[4]d" w:lineRule="auto"/>
    </w:pPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="SectionTitle">
    <w:name w:val="Section Title"/>
    <w:basedOn w:val="Normal"/>
    <w:next w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:keepNext/>
      <w:jc w:val="center"/>
      <w:spacing w:before="%[5]d" w:after="%[3]d"/>
    </w:pPr>
    <w:rPr>
      <w:b/>
      <w:sz w:val="%[6]d"/>
      <w:szCs w:val="%[6]d"/>
    </w:rPr>
  </w:style>
%[7]s%[8]s%[9]s  <w:style w:type="paragraph" w:styleId="ListParagraph">
    <w:name w:val="List Paragraph"/>
    <w:basedOn w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:ind w:left="720"/>
      <w:contextualSpacing/>
    </w:pPr>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Quote">
    <w:name w:val="Quote"/>
    <w:basedOn w:val="Normal"/>
    <w:qFormat/>
    <w:pPr>
      <w:ind w:left="720" w:right="720"/>
    </w:pPr>
    <w:rPr>
      <w:i/>
    </w:rPr>
  </w:style>
</w:styles>`,
		font, body, liturgy.Twips(t.SpaceAfter), line, liturgy.Twips(t.SpaceBefore), liturgy.HalfPoints(t.TitleSize),
		heading(1, 480), heading(2, 360), heading(3, 280))
}

func getNumberingXML() string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:abstractNum w:abstractNumId="0">
    <w:multiLevelType w:val="hybridMultilevel"/>
    <w:lvl w:ilvl="0">
      <w:start w:val="1"/>
      <w:numFmt w:val="bullet"/>
      <w:lvlText w:val="•"/>
      <w:lvlJc w:val="left"/>
      <w:pPr>
        <w:ind w:left="720" w:hanging="360"/>
      </w:pPr>
    </w:lvl>
    <w:lvl w:ilvl="1">
      <w:start w:val="1"/>
      <w:numFmt w:val="bullet"/>
      <w:lvlText w:val="◦"/>
      <w:lvlJc w:val="left"/>
      <w:pPr>
        <w:ind w:left="1440" w:hanging="360"/>
      </w:pPr>
    </w:lvl>
  </w:abstractNum>
  <w:num w:numId="1">
    <w:abstractNumId w:val="0"/>
  </w:num>
</w:numbering>`
}
