package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
)

// EMU 换算：OOXML 图形尺寸单位，每英寸 914400
const emuPerInch = 914400

type docxImage struct {
	relID  string
	name   string
	data   []byte
	cx, cy int64
}

// docxBuilder 逐段拼接 document.xml 的正文，并登记内嵌图片
type docxBuilder struct {
	body   strings.Builder
	images []docxImage
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

func (b *docxBuilder) styledParagraph(style, text string) {
	fmt.Fprintf(&b.body,
		`<w:p><w:pPr><w:pStyle w:val="%s"/></w:pPr><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`,
		style, xmlEscape(text))
}

func (b *docxBuilder) emptyParagraph() {
	b.body.WriteString(`<w:p/>`)
}

// spansParagraph 输出带加粗/斜体内联标记的正文段
func (b *docxBuilder) spansParagraph(spans []Span) {
	b.body.WriteString(`<w:p><w:pPr><w:pStyle w:val="CustomNormal"/></w:pPr>`)
	for _, span := range spans {
		b.body.WriteString(`<w:r>`)
		if span.Bold || span.Italic {
			b.body.WriteString(`<w:rPr>`)
			if span.Bold {
				b.body.WriteString(`<w:b/>`)
			}
			if span.Italic {
				b.body.WriteString(`<w:i/>`)
			}
			b.body.WriteString(`</w:rPr>`)
		}
		fmt.Fprintf(&b.body, `<w:t xml:space="preserve">%s</w:t></w:r>`, xmlEscape(span.Text))
	}
	b.body.WriteString(`</w:p>`)
}

func (b *docxBuilder) bullet(level int, text string) {
	indent := 720 * level
	fmt.Fprintf(&b.body,
		`<w:p><w:pPr><w:pStyle w:val="CustomList"/><w:ind w:left="%d"/></w:pPr><w:r><w:t xml:space="preserve">%s %s</w:t></w:r></w:p>`,
		indent, "•", xmlEscape(text))
}

func (b *docxBuilder) table(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	b.body.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4" w:color="808080"/>` +
		`<w:left w:val="single" w:sz="4" w:color="808080"/>` +
		`<w:bottom w:val="single" w:sz="4" w:color="808080"/>` +
		`<w:right w:val="single" w:sz="4" w:color="808080"/>` +
		`<w:insideH w:val="single" w:sz="4" w:color="808080"/>` +
		`<w:insideV w:val="single" w:sz="4" w:color="808080"/>` +
		`</w:tblBorders></w:tblPr>`)
	for i, row := range rows {
		b.body.WriteString(`<w:tr>`)
		for _, cell := range row {
			b.body.WriteString(`<w:tc><w:tcPr>`)
			if i == 0 {
				b.body.WriteString(`<w:shd w:val="clear" w:fill="f0f0f0"/>`)
			}
			b.body.WriteString(`</w:tcPr><w:p><w:pPr><w:pStyle w:val="CustomNormal"/></w:pPr><w:r>`)
			if i == 0 {
				b.body.WriteString(`<w:rPr><w:b/></w:rPr>`)
			}
			fmt.Fprintf(&b.body, `<w:t xml:space="preserve">%s</w:t></w:r></w:p></w:tc>`, xmlEscape(cell))
		}
		b.body.WriteString(`</w:tr>`)
	}
	b.body.WriteString(`</w:tbl>`)
	b.emptyParagraph()
}

// tocField 插入 Word 原生目录域，打开文档后按 F9 更新
func (b *docxBuilder) tocField(title string) {
	b.styledParagraph("CustomTitle", title)
	b.body.WriteString(`<w:p><w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
		`<w:r><w:instrText xml:space="preserve">TOC \o "1-3" \h \z \u</w:instrText></w:r>` +
		`<w:r><w:fldChar w:fldCharType="end"/></w:r></w:p>`)
	b.emptyParagraph()
}

// inlineImage 登记图片并输出居中的图片段落
func (b *docxBuilder) inlineImage(name string, data []byte, widthInches float64, aspect float64) {
	id := len(b.images) + 1
	img := docxImage{
		relID: fmt.Sprintf("rId%d", 100+id),
		name:  name,
		data:  data,
		cx:    int64(widthInches * emuPerInch),
		cy:    int64(widthInches / aspect * emuPerInch),
	}
	b.images = append(b.images, img)

	fmt.Fprintf(&b.body,
		`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing>`+
			`<wp:inline distT="0" distB="0" distL="0" distR="0">`+
			`<wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="%s"/>`+
			`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
			`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
			`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
			`<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
			`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
			`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
			`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
			`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		img.cx, img.cy, id, img.name, id, img.name, img.relID, img.cx, img.cy)
	b.emptyParagraph()
}

// renderDOCX 把解析后的文档打包为 DOCX（OPC zip），带页眉横幅、页码域和目录域
func renderDOCX(doc *Document, language, logoPath string, tr Translator) ([]byte, error) {
	translate := func(s string) string {
		if tr == nil {
			return s
		}
		return tr.Translate(s, language)
	}

	b := &docxBuilder{}

	if logoPath != "" {
		if data, err := os.ReadFile(logoPath); err == nil {
			if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
				aspect := float64(cfg.Width) / float64(cfg.Height)
				b.inlineImage("logo."+format, data, 1.5, aspect)
			}
		}
	}

	b.tocField(translate("Índice"))

	for _, block := range doc.Blocks {
		switch block.Kind {
		case BlockSpacer:
			b.emptyParagraph()
		case BlockHeading:
			b.styledParagraph(fmt.Sprintf("CustomHeading%d", block.Level), block.Text)
		case BlockBullet:
			b.bullet(block.Level, block.Text)
		case BlockParagraph:
			b.spansParagraph(block.Spans)
		case BlockTable:
			b.table(block.Rows)
		}
	}

	if png := renderChart(doc.Chart); png != nil {
		b.inlineImage("chart.png", png, 5.0, 600.0/400.0)
	}

	banner := translate("Documento Generado Automáticamente - IA Generador")
	pageWord := translate("Página")

	return packDOCX(b, banner, pageWord)
}

func packDOCX(b *docxBuilder, banner, pageWord string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(content))
		return err
	}

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRootRels},
		{"word/document.xml", documentXML(b.body.String())},
		{"word/styles.xml", docxStyles},
		{"word/header1.xml", fmt.Sprintf(docxHeader, xmlEscape(banner))},
		{"word/footer1.xml", fmt.Sprintf(docxFooter, xmlEscape(pageWord))},
		{"word/_rels/document.xml.rels", documentRels(b.images)},
	}
	for _, part := range parts {
		if err := write(part.name, part.content); err != nil {
			return nil, fmt.Errorf("failed to write docx part %s: %w", part.name, err)
		}
	}
	for _, img := range b.images {
		w, err := zw.Create("word/media/" + img.name)
		if err != nil {
			return nil, fmt.Errorf("failed to write docx media: %w", err)
		}
		if _, err := w.Write(img.data); err != nil {
			return nil, fmt.Errorf("failed to write docx media: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx: %w", err)
	}
	return buf.Bytes(), nil
}

func documentXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">` +
		`<w:body>` + body +
		`<w:sectPr>` +
		`<w:headerReference w:type="default" r:id="rId2"/>` +
		`<w:footerReference w:type="default" r:id="rId3"/>` +
		`<w:pgSz w:w="12240" w:h="15840"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720"/>` +
		`</w:sectPr></w:body></w:document>`
}

func documentRels(images []docxImage) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>`)
	for _, img := range images {
		fmt.Fprintf(&sb,
			`<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/%s"/>`,
			img.relID, img.name)
	}
	sb.WriteString(`</Relationships>`)
	return sb.String()
}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Default Extension="png" ContentType="image/png"/>` +
	`<Default Extension="jpeg" ContentType="image/jpeg"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>` +
	`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>` +
	`</Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const docxHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:p><w:r><w:rPr><w:sz w:val="16"/></w:rPr><w:t xml:space="preserve">%s</w:t></w:r></w:p>` +
	`</w:hdr>`

const docxFooter = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:p><w:pPr><w:jc w:val="right"/></w:pPr>` +
	`<w:r><w:rPr><w:sz w:val="16"/></w:rPr><w:t xml:space="preserve">%s </w:t></w:r>` +
	`<w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
	`<w:r><w:instrText>PAGE</w:instrText></w:r>` +
	`<w:r><w:fldChar w:fldCharType="end"/></w:r>` +
	`</w:p></w:ftr>`

// 样式表：强调色 #4f46e5，正文 Calibri 11pt 两端对齐，行距 1.15
const docxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:styleId="CustomTitle"><w:name w:val="CustomTitle"/>` +
	`<w:pPr><w:jc w:val="center"/><w:spacing w:after="240"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="40"/><w:color w:val="4F46E5"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="CustomHeading1"><w:name w:val="CustomHeading1"/>` +
	`<w:pPr><w:spacing w:before="360" w:after="160"/><w:outlineLvl w:val="0"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="32"/><w:color w:val="4F46E5"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="CustomHeading2"><w:name w:val="CustomHeading2"/>` +
	`<w:pPr><w:spacing w:before="280" w:after="120"/><w:outlineLvl w:val="1"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="28"/><w:color w:val="4F46E5"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="CustomHeading3"><w:name w:val="CustomHeading3"/>` +
	`<w:pPr><w:spacing w:before="160" w:after="160"/><w:outlineLvl w:val="2"/></w:pPr>` +
	`<w:rPr><w:b/><w:sz w:val="24"/><w:color w:val="4F46E5"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="CustomNormal"><w:name w:val="CustomNormal"/>` +
	`<w:pPr><w:spacing w:after="200" w:line="276" w:lineRule="auto"/><w:jc w:val="both"/></w:pPr>` +
	`<w:rPr><w:sz w:val="22"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="CustomList"><w:name w:val="CustomList"/>` +
	`<w:pPr><w:spacing w:after="120" w:line="276" w:lineRule="auto"/><w:ind w:left="720"/></w:pPr>` +
	`<w:rPr><w:sz w:val="22"/></w:rPr></w:style>` +
	`</w:styles>`

// extractPlainText 生成 DOCX 的纯文本预览：编号标题、缩进列表和 [Tabla] 标记
func extractPlainText(doc *Document) string {
	var parts []string
	for _, block := range doc.Blocks {
		switch block.Kind {
		case BlockHeading:
			switch block.Level {
			case 1:
				parts = append(parts, "\n\n"+block.Text+"\n")
			case 2:
				parts = append(parts, "\n"+block.Text+"\n")
			default:
				parts = append(parts, block.Text+"\n")
			}
		case BlockBullet:
			indent := strings.Repeat("  ", block.Level-1)
			parts = append(parts, indent+"- "+block.Text)
		case BlockParagraph:
			parts = append(parts, block.Text)
		case BlockTable:
			parts = append(parts, "\n[Tabla]\n")
			for _, row := range block.Rows {
				parts = append(parts, strings.Join(row, " | "))
			}
			parts = append(parts, "\n")
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
