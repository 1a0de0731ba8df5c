package render

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
)

// PDF 版式常量，Letter 纸张以 pt 为单位
const (
	pdfMarginSide   = 54.0 // 0.75 英寸
	pdfMarginTop    = 72.0 // 1 英寸
	pdfMarginBottom = 72.0
	pdfPageWidth    = 612.0
	pdfLineHeight   = 14.0
)

var pdfHeadingColors = map[int][3]int{
	1: {0x1a, 0x3c, 0x34},
	2: {0x2e, 0x5e, 0x54},
	3: {0x43, 0x7f, 0x74},
}

var pdfHeadingSizes = map[int]float64{1: 16, 2: 14, 3: 12}

// renderPDF 把解析后的文档写为 PDF，带可点击的目录、页眉横幅和页码
func renderPDF(doc *Document, language, logoPath string, tr Translator) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pdfMarginSide, pdfMarginTop, pdfMarginSide)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	cp := pdf.UnicodeTranslatorFromDescriptor("")

	translate := func(s string) string {
		if tr == nil {
			return s
		}
		return tr.Translate(s, language)
	}
	banner := translate("Documento Generado Automáticamente - IA Generador")
	pageWord := translate("Página")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(51, 51, 51)
		pdf.SetXY(pdfMarginSide, 30)
		pdf.CellFormat(0, 10, cp(banner), "", 0, "L", false, 0, "")
		pdf.SetXY(pdfMarginSide, pdfMarginTop)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-50)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(51, 51, 51)
		pdf.CellFormat(0, 10, cp(fmt.Sprintf("%s %d", pageWord, pdf.PageNo())), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	if logoPath != "" {
		if _, err := os.Stat(logoPath); err == nil {
			pdf.ImageOptions(logoPath, pdfMarginSide, pdf.GetY(), 100, 50, true,
				fpdf.ImageOptions{}, 0, "")
			pdf.Ln(20)
		}
	}

	// 目录：为每个标题预建内部链接，正文输出时再定位
	links := make(map[int]int)
	var headingIdx []int
	for i, block := range doc.Blocks {
		if block.Kind == BlockHeading {
			headingIdx = append(headingIdx, i)
		}
	}
	if len(headingIdx) > 0 {
		writeHeadingPDF(pdf, cp, 1, translate("Índice"))
		for _, i := range headingIdx {
			id := pdf.AddLink()
			links[i] = id
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(0, 0, 255)
			pdf.WriteLinkID(pdfLineHeight, cp(doc.Blocks[i].Text), id)
			pdf.Ln(pdfLineHeight)
		}
		pdf.Ln(20)
	}

	for i, block := range doc.Blocks {
		switch block.Kind {
		case BlockSpacer:
			pdf.Ln(12)
		case BlockHeading:
			if id, ok := links[i]; ok {
				pdf.SetLink(id, -1, -1)
			}
			writeHeadingPDF(pdf, cp, block.Level, block.Text)
		case BlockBullet:
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(51, 51, 51)
			indent := ""
			if block.Level > 1 {
				indent = "    "
			}
			pdf.MultiCell(0, pdfLineHeight, cp(indent+"\x95 "+block.Text), "", "L", false)
		case BlockParagraph:
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(51, 51, 51)
			pdf.MultiCell(0, pdfLineHeight, cp(block.Text), "", "J", false)
		case BlockTable:
			writeTablePDF(pdf, cp, block.Rows)
		}
	}

	if png := renderChart(doc.Chart); png != nil {
		pdf.RegisterImageOptionsReader("chart.png",
			fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions("chart.png", (pdfPageWidth-400)/2, 0, 400, 300, true,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(20)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeadingPDF(pdf *fpdf.Fpdf, cp func(string) string, level int, text string) {
	color := pdfHeadingColors[level]
	pdf.SetFont("Helvetica", "B", pdfHeadingSizes[level])
	pdf.SetTextColor(color[0], color[1], color[2])
	pdf.MultiCell(0, pdfHeadingSizes[level]+6, cp(text), "", "L", false)
	pdf.Ln(float64(14 - 2*level))
}

func writeTablePDF(pdf *fpdf.Fpdf, cp func(string) string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	usable := pdfPageWidth - 2*pdfMarginSide
	colWidth := usable / float64(len(rows[0]))

	for i, row := range rows {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetFillColor(240, 244, 240)
		} else {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(51, 51, 51)
		for _, cell := range row {
			pdf.CellFormat(colWidth, 18, cp(cell), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(18)
	}
	pdf.Ln(12)
}
