package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabo9803/IA-GENERADOR/internal/model"
)

func TestTemplatePlaceholders(t *testing.T) {
	fields := TemplatePlaceholders(Templates["factura"])
	assert.Equal(t, []string{"numero", "cliente", "fecha", "total"}, fields)

	// {contenido} 与重复占位符都不出现
	fields = TemplatePlaceholders("Hola {nombre}, {nombre} firma el {fecha}. {contenido}")
	assert.Equal(t, []string{"nombre", "fecha"}, fields)

	assert.Empty(t, TemplatePlaceholders("sin campos"))
}

func TestApplyTemplate(t *testing.T) {
	result, err := ApplyTemplate(Templates["informe"],
		map[string]string{"titulo": "Ventas Q3"}, "Contenido del informe.")
	require.NoError(t, err)
	assert.Contains(t, result, "INFORME: Ventas Q3")
	assert.Contains(t, result, "Contenido del informe.")

	_, err = ApplyTemplate(Templates["informe"], map[string]string{}, "texto")
	assert.ErrorContains(t, err, "campo faltante titulo")

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestBuildSystemMessageDocument(t *testing.T) {
	req := &model.GenerateRequest{Level: "medio", Language: "en", Template: "informe"}
	msg := buildSystemMessage(req, "", "", false)

	assert.Contains(t, msg, "Genera el contenido en en.")
	assert.Contains(t, msg, levelInstructions["medio"])
	assert.Contains(t, msg, "Estructura para Nivel Medio")
	assert.Contains(t, msg, "al menos un encabezado")
	assert.Contains(t, msg, "Usa esta plantilla como base")
	assert.Contains(t, msg, "INFORME: {titulo}")
}

func TestBuildSystemMessageBasicoOmitsHeadingReminder(t *testing.T) {
	req := &model.GenerateRequest{Level: "basico", Language: "es"}
	msg := buildSystemMessage(req, "", "", false)

	assert.Contains(t, msg, "Estructura para Nivel Básico")
	assert.NotContains(t, msg, "Para niveles medio y profesional")
}

func TestBuildSystemMessageConversational(t *testing.T) {
	req := &model.GenerateRequest{Level: "basico", Language: "es", Template: "informe"}
	msg := buildSystemMessage(req, "resumen", "contexto", true)

	assert.Contains(t, msg, "breve, amigable y directa")
	assert.NotContains(t, msg, "plantilla")
	assert.NotContains(t, msg, "resumen")
	assert.NotContains(t, msg, "Estructura para Nivel")
}

func TestBuildContextSummaryTruncatesDocument(t *testing.T) {
	ctx := model.SessionContext{
		LastDocument: repeatRunes('a', 300),
		LastDocType:  "pdf",
		LastTemplate: "informe",
		LastLevel:    "medio",
		LastLanguage: "es",
	}
	summary := buildContextSummary(ctx)

	assert.Contains(t, summary, "Tipo de documento: pdf")
	assert.Contains(t, summary, repeatRunes('a', 200)+"...")
	assert.NotContains(t, summary, repeatRunes('a', 201))
	assert.Contains(t, summary, "aplica los cambios al documento anterior")
}

func repeatRunes(r rune, n int) string {
	runes := make([]rune, n)
	for i := range runes {
		runes[i] = r
	}
	return string(runes)
}

func TestPromptSuggestions(t *testing.T) {
	suggestions := PromptSuggestions("pdf", "contrato")
	require.Len(t, suggestions, 3)
	assert.Contains(t, suggestions[0], "contrato")

	fallback := PromptSuggestions("texto", "")
	assert.Equal(t, popularPrompts[:3], fallback)
}

func TestSuggestFields(t *testing.T) {
	// 占位符优先，常用字段补位，最多5个
	fields := SuggestFields("Estimado {destinatario}, {contenido}")
	assert.Equal(t, []string{"destinatario", "nombre", "fecha", "direccion", "empresa"}, fields)

	fields = SuggestFields(Templates["factura"])
	require.Len(t, fields, 5)
	assert.Equal(t, []string{"numero", "cliente", "fecha", "total", "nombre"}, fields)

	fields = SuggestFields("")
	assert.Equal(t, commonFields, fields)
}
