package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headings(doc *Document) []string {
	var out []string
	for _, b := range doc.Blocks {
		if b.Kind == BlockHeading {
			out = append(out, b.Text)
		}
	}
	return out
}

func tables(doc *Document) [][][]string {
	var out [][][]string
	for _, b := range doc.Blocks {
		if b.Kind == BlockTable {
			out = append(out, b.Rows)
		}
	}
	return out
}

func TestParseHeadingNumbering(t *testing.T) {
	doc := Parse("# A\n## B\n## C\n# D\n## E")

	assert.Equal(t, []string{"1. A", "1.1 B", "1.2 C", "2. D", "2.1 E"}, headings(doc))
}

func TestParseHeading3Unnumbered(t *testing.T) {
	doc := Parse("# A\n### Detalle")

	assert.Equal(t, []string{"1. A", "Detalle"}, headings(doc))
}

func TestParseNumberingPersistsAcrossParagraphs(t *testing.T) {
	doc := Parse("# A\n\nUn párrafo.\n\n## B")

	assert.Equal(t, []string{"1. A", "1.1 B"}, headings(doc))
}

func TestParseTable(t *testing.T) {
	doc := Parse("| Mes | Total |\n|---|---|\n| Enero | 10 |\n\nluego texto")

	all := tables(doc)
	require.Len(t, all, 1)
	// 分隔行被丢弃
	assert.Equal(t, [][]string{{"Mes", "Total"}, {"Enero", "10"}}, all[0])
}

func TestParseTableFlushedAtEndOfInput(t *testing.T) {
	doc := Parse("| a | b |\n| c | d |")

	all := tables(doc)
	require.Len(t, all, 1)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, all[0])
}

func TestParseRaggedTableRows(t *testing.T) {
	doc := Parse("| a | b |\n| c | d | e |\n| f |")

	all := tables(doc)
	require.Len(t, all, 1)
	// 第一行定宽：长行截断，短行补空
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"f", ""}}, all[0])
}

func TestParseBullets(t *testing.T) {
	doc := Parse("- primero\n  - anidado\n* segundo")

	var bullets []Block
	for _, b := range doc.Blocks {
		if b.Kind == BlockBullet {
			bullets = append(bullets, b)
		}
	}
	require.Len(t, bullets, 3)
	assert.Equal(t, 1, bullets[0].Level)
	assert.Equal(t, "primero", bullets[0].Text)
	assert.Equal(t, 2, bullets[1].Level)
	assert.Equal(t, "anidado", bullets[1].Text)
	assert.Equal(t, 1, bullets[2].Level)
	assert.Equal(t, "segundo", bullets[2].Text)
}

func TestParseInlineSpans(t *testing.T) {
	doc := Parse("Texto **negrita** y *cursiva*.")

	require.Len(t, doc.Blocks, 1)
	spans := doc.Blocks[0].Spans
	require.Len(t, spans, 5)
	assert.Equal(t, Span{Text: "Texto "}, spans[0])
	assert.Equal(t, Span{Text: "negrita", Bold: true}, spans[1])
	assert.Equal(t, Span{Text: " y "}, spans[2])
	assert.Equal(t, Span{Text: "cursiva", Italic: true}, spans[3])
	assert.Equal(t, Span{Text: "."}, spans[4])
}

func TestParseChartDirective(t *testing.T) {
	doc := Parse("# Ventas\nGráfico de barras con datos: Enero: 10, Febrero: 20.5\nTexto normal")

	require.NotNil(t, doc.Chart)
	assert.Equal(t, "bar", doc.Chart.Kind)
	assert.Equal(t, []string{"Enero", "Febrero"}, doc.Chart.Labels)
	assert.Equal(t, []float64{10, 20.5}, doc.Chart.Values)

	// 指令行不进入内容块
	for _, b := range doc.Blocks {
		assert.NotContains(t, b.Text, "con datos")
	}
}

func TestParseLineChartDirective(t *testing.T) {
	doc := Parse("gráfico de líneas con datos: q1: 1, q2: 2")

	require.NotNil(t, doc.Chart)
	assert.Equal(t, "line", doc.Chart.Kind)
	assert.Equal(t, []float64{1, 2}, doc.Chart.Values)
}

func TestParseMalformedChartDirective(t *testing.T) {
	doc := Parse("gráfico de barras con datos: Enero: abc")
	assert.Nil(t, doc.Chart)

	doc = Parse("gráfico de barras con datos: sinvalor")
	assert.Nil(t, doc.Chart)
}

func TestParseIsDeterministic(t *testing.T) {
	text := "# A\n## B\n- punto\n| x | y |\ngráfico de barras con datos: a: 1"

	assert.Equal(t, Parse(text), Parse(text))
}

func TestParseLastChartDirectiveWins(t *testing.T) {
	doc := Parse("gráfico de barras con datos: a: 1\ngráfico de líneas con datos: b: 2")

	require.NotNil(t, doc.Chart)
	assert.Equal(t, "line", doc.Chart.Kind)
	assert.Equal(t, []string{"b"}, doc.Chart.Labels)
}
