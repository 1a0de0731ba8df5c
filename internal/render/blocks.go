package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Gabo9803/IA-GENERADOR/pkg/logger"
)

var inlinePattern = regexp.MustCompile(`\*\*.*?\*\*|\*.*?\*`)

// BlockKind 表示解析后内容块的类型
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockBullet
	BlockTable
	BlockSpacer
)

// Span 是段落内的一个内联片段，可能带有加粗或斜体标记
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

// Block 是 Markdown 文本解析出的一个内容块
type Block struct {
	Kind  BlockKind
	Level int // 标题层级 1-3，列表缩进深度 1-2
	Text  string
	Spans []Span
	Rows  [][]string
}

// Chart 描述文档中声明的图表指令
type Chart struct {
	Kind   string // "bar" 或 "line"
	Labels []string
	Values []float64
}

// Document 是渲染后端共用的中间表示
type Document struct {
	Blocks []Block
	Chart  *Chart
}

const (
	barDirective  = "gráfico de barras con datos:"
	lineDirective = "gráfico de líneas con datos:"
	dataMarker    = "con datos:"
)

// parseChartDirective 解析 "label:valor" 逗号对。任一数值无法解析即整条指令作废
func parseChartDirective(line, kind string) *Chart {
	idx := strings.Index(strings.ToLower(line), dataMarker)
	if idx < 0 {
		return nil
	}
	dataStr := strings.TrimSpace(line[idx+len(dataMarker):])
	chart := &Chart{Kind: kind}
	for _, pair := range strings.Split(dataStr, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			logger.Errorf("invalid chart data pair: %q", pair)
			return nil
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			logger.Errorf("invalid chart data value: %v", err)
			return nil
		}
		chart.Labels = append(chart.Labels, strings.TrimSpace(parts[0]))
		chart.Values = append(chart.Values, value)
	}
	if len(chart.Labels) == 0 {
		return nil
	}
	return chart
}

// Parse 把 Markdown 文本解析为内容块序列
//
// 一级和二级标题按出现顺序编号（"1. "、"1.1 "），三级标题不编号。
// 图表指令行在预扫描阶段摘除，不进入内容块；多条指令以最后一条为准。
func Parse(text string) *Document {
	lines := strings.Split(text, "\n")
	doc := &Document{}

	// 预扫描图表指令
	directive := make(map[int]bool)
	for i, raw := range lines {
		line := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case strings.Contains(line, barDirective):
			directive[i] = true
			doc.Chart = parseChartDirective(strings.TrimSpace(raw), "bar")
		case strings.Contains(line, lineDirective):
			directive[i] = true
			doc.Chart = parseChartDirective(strings.TrimSpace(raw), "line")
		}
	}

	section := 0
	subsection := 0
	var tableRows [][]string

	flushTable := func() {
		if len(tableRows) == 0 {
			return
		}
		width := len(tableRows[0])
		rows := make([][]string, 0, len(tableRows))
		for _, row := range tableRows {
			for len(row) < width {
				row = append(row, "")
			}
			rows = append(rows, row[:width])
		}
		doc.Blocks = append(doc.Blocks, Block{Kind: BlockTable, Rows: rows})
		tableRows = nil
	}

	for i, raw := range lines {
		if directive[i] {
			continue
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			flushTable()
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockSpacer})
			continue
		}

		switch {
		case strings.HasPrefix(line, "# "):
			flushTable()
			section++
			subsection = 0
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockHeading,
				Level: 1,
				Text:  fmt.Sprintf("%d. %s", section, strings.TrimSpace(line[2:])),
			})
		case strings.HasPrefix(line, "## "):
			flushTable()
			subsection++
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockHeading,
				Level: 2,
				Text:  fmt.Sprintf("%d.%d %s", section, subsection, strings.TrimSpace(line[3:])),
			})
		case strings.HasPrefix(line, "### "):
			flushTable()
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockHeading,
				Level: 3,
				Text:  strings.TrimSpace(line[4:]),
			})
		case strings.HasPrefix(raw, "  - ") || strings.HasPrefix(raw, "  * "):
			flushTable()
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockBullet,
				Level: 2,
				Text:  strings.TrimSpace(line[2:]),
			})
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			flushTable()
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockBullet,
				Level: 1,
				Text:  strings.TrimSpace(line[2:]),
			})
		case strings.HasPrefix(line, "|"):
			cells := splitTableRow(line)
			if len(cells) > 0 {
				tableRows = append(tableRows, cells)
			}
		default:
			flushTable()
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockParagraph,
				Text:  line,
				Spans: splitSpans(line),
			})
		}
	}
	flushTable()

	return doc
}

// splitTableRow 拆分表格行。任一单元格为空则整行丢弃（含分隔行 |---|---|）
func splitTableRow(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return nil
	}
	cells := make([]string, 0, len(parts)-2)
	for _, part := range parts[1 : len(parts)-1] {
		cell := strings.TrimSpace(part)
		if cell == "" || strings.Trim(cell, "-: ") == "" {
			return nil
		}
		cells = append(cells, cell)
	}
	return cells
}

// splitSpans 按 **加粗** 和 *斜体* 标记拆分段落文本
func splitSpans(line string) []Span {
	var spans []Span
	rest := line
	for rest != "" {
		loc := inlinePattern.FindStringIndex(rest)
		if loc == nil {
			spans = append(spans, Span{Text: rest})
			break
		}
		if loc[0] > 0 {
			spans = append(spans, Span{Text: rest[:loc[0]]})
		}
		match := rest[loc[0]:loc[1]]
		if strings.HasPrefix(match, "**") {
			spans = append(spans, Span{Text: match[2 : len(match)-2], Bold: true})
		} else {
			spans = append(spans, Span{Text: match[1 : len(match)-1], Italic: true})
		}
		rest = rest[loc[1]:]
	}
	return spans
}
