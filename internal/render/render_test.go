package render

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = "# Introducción\n\nUn párrafo con **énfasis**.\n\n| Mes | Total |\n| Enero | 10 |\n\n- punto uno"

func newTestRenderer() *Renderer {
	r := NewRenderer(nil)
	r.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	return r
}

func TestRenderTexto(t *testing.T) {
	result, err := newTestRenderer().Render(sampleText, "texto", "es", "informe", "")

	require.NoError(t, err)
	assert.Equal(t, sampleText, result.Display)
	assert.Equal(t, []byte(sampleText), result.Buffer)
	assert.Equal(t, "text/plain", result.MIMEType)
	assert.Equal(t, "informe.txt", result.FileName)
	assert.Empty(t, result.ArtifactID)
}

func TestRenderMarkdown(t *testing.T) {
	result, err := newTestRenderer().Render("# Hola\n\nTexto.", "markdown", "es", "informe", "")

	require.NoError(t, err)
	assert.Contains(t, result.Display, "<h1>Hola</h1>")
	assert.Contains(t, result.Display, "<p>Texto.</p>")
	assert.Equal(t, "informe.md", result.FileName)
	assert.Empty(t, result.ArtifactID)
	assert.Equal(t, result.Display, result.Preview)
}

func TestRenderHTMLPage(t *testing.T) {
	result, err := newTestRenderer().Render("# Hola", "html", "es", "informe", "")

	require.NoError(t, err)
	assert.NotEmpty(t, result.ArtifactID)
	assert.Equal(t, "informe.html", result.FileName)
	assert.Equal(t, "text/html", result.MIMEType)
	assert.Contains(t, result.Display, `<html lang="es">`)
	assert.Contains(t, result.Display, "Información sobre la IA")
	assert.Contains(t, result.Display, "GarBotGPT")
	assert.Contains(t, result.Display, "Configuración del Documento")
	assert.Contains(t, result.Display, "15 de Marzo de 2026")
	assert.Contains(t, result.Display, "<h1>Hola</h1>")
}

func TestRenderPDF(t *testing.T) {
	result, err := newTestRenderer().Render(sampleText, "pdf", "es", "informe", "")

	require.NoError(t, err)
	assert.Equal(t, "PDF generado. Usa el botón de descargar para obtener el archivo.", result.Display)
	assert.NotEmpty(t, result.ArtifactID)
	assert.Equal(t, "informe.pdf", result.FileName)
	assert.Equal(t, "application/pdf", result.MIMEType)
	require.True(t, len(result.Buffer) > 4)
	assert.Equal(t, "%PDF", string(result.Buffer[:4]))
}

func TestRenderDOCX(t *testing.T) {
	result, err := newTestRenderer().Render(sampleText, "docx", "es", "informe", "")

	require.NoError(t, err)
	assert.Equal(t, "DOCX generado. Usa el botón de descargar para obtener el archivo.", result.Display)
	assert.NotEmpty(t, result.ArtifactID)
	assert.Equal(t, "informe.docx", result.FileName)

	parts := readZip(t, result.Buffer)
	documentXML := parts["word/document.xml"]
	require.NotEmpty(t, documentXML)
	assert.Contains(t, documentXML, "1. Introducción")
	assert.Contains(t, documentXML, "CustomHeading1")
	assert.Contains(t, documentXML, "<w:tbl>")
	assert.Contains(t, documentXML, "Enero")
	assert.Contains(t, documentXML, "punto uno")

	assert.Contains(t, parts, "[Content_Types].xml")
	assert.Contains(t, parts, "word/styles.xml")
	assert.Contains(t, parts["word/header1.xml"], "Documento Generado Automáticamente")
	assert.Contains(t, parts["word/footer1.xml"], "Página")

	assert.Contains(t, result.Preview, "1. Introducción")
	assert.Contains(t, result.Preview, "[Tabla]")
	assert.Contains(t, result.Preview, "Mes | Total")
}

func TestRenderDOCXWithChart(t *testing.T) {
	text := "# Ventas\ngráfico de barras con datos: Enero: 10, Febrero: 20"
	result, err := newTestRenderer().Render(text, "docx", "es", "ventas", "")

	require.NoError(t, err)
	parts := readZip(t, result.Buffer)
	assert.Contains(t, parts["word/document.xml"], "<w:drawing>")
	assert.Contains(t, parts, "word/media/chart.png")
}

func TestRenderUnsupportedType(t *testing.T) {
	result, err := newTestRenderer().Render("texto", "xlsx", "es", "informe", "")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrRender)
}

func TestExtractPlainText(t *testing.T) {
	doc := Parse("# Uno\n## Dos\n- primero\n  - anidado")

	text := extractPlainText(doc)
	assert.True(t, strings.HasPrefix(text, "1. Uno"))
	assert.Contains(t, text, "1.1 Dos")
	assert.Contains(t, text, "- primero")
	assert.Contains(t, text, "  - anidado")
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	parts := make(map[string]string, len(reader.File))
	for _, file := range reader.File {
		rc, err := file.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		parts[file.Name] = string(content)
	}
	return parts
}
