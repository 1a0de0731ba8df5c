package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Gabo9803/IA-GENERADOR/internal/model"
	"github.com/Gabo9803/IA-GENERADOR/internal/utils"
)

// 内置模板：{campo}占位符在生成后做字面替换，{contenido}为生成正文
var Templates = map[string]string{
	"carta_formal": `
Estimado/a {destinatario},

{contenido}

Atentamente,
{remitente}
`,
	"contrato": `
CONTRATO DE {tipo}

Entre {parte_a}, y {parte_b}, se acuerda lo siguiente:

{contenido}

Firmado en {lugar}, el {fecha}.

[Firma {parte_a}]                [Firma {parte_b}]
`,
	"informe": `
INFORME: {titulo}

{contenido}
`,
	"factura": `
FACTURA #{numero}

Emitida a: {cliente}
Fecha: {fecha}

{contenido}

Total: {total}
`,
}

var levelInstructions = map[string]string{
	"basico":      "Genera un documento simple, breve (máximo 500 palabras), con estructura mínima (introducción, cuerpo, conclusión) y formato básico.",
	"medio":       "Genera un documento estructurado, de longitud moderada (hasta 1000 palabras), con secciones claras (antecedentes, análisis, conclusiones) y formato limpio, incluyendo listas y tablas si es relevante.",
	"profesional": "Genera un documento extenso, altamente detallado (hasta 2000 palabras), con estructura avanzada (múltiples secciones, subsecciones, apéndices, referencias), formato profesional, tablas complejas y listas anidadas.",
}

// 每个级别的字数上限与补全token预算
var (
	levelMaxWords  = map[string]int{"basico": 500, "medio": 1000, "profesional": 2000}
	levelMaxTokens = map[string]int{"basico": 1000, "medio": 2000, "profesional": 4000}
)

const conversationalMaxTokens = 200

var levelOutlines = map[string]string{
	"basico": "\n**Estructura para Nivel Básico**:\n" +
		"Organiza el documento en las siguientes secciones:\n" +
		"- **# Introducción**: Proporciona una visión general del tema, su contexto y relevancia (mínimo 3-4 oraciones detalladas).\n" +
		"- **## Descripción**: Describe el tema en detalle, explicando qué es y cómo funciona (mínimo 2 párrafos).\n" +
		"- **## Conclusión**: Resume los puntos clave y menciona la importancia del tema (mínimo 2-3 oraciones).\n" +
		"Incluye al menos un ejemplo práctico simple en la sección de Descripción.",
	"medio": "\n**Estructura para Nivel Medio**:\n" +
		"Organiza el documento en las siguientes secciones:\n" +
		"- **# Introducción**: Proporciona una visión general del tema, su contexto y relevancia.\n" +
		"- **## Descripción**: Describe el tema en detalle, explicando qué es y cómo funciona.\n" +
		"- **## Historia o Evolución**: Explica el origen o la evolución del tema a lo largo del tiempo.\n" +
		"- **## Aplicaciones y Usos Prácticos**: Detalla cómo se aplica el tema en la vida real, con ejemplos concretos.\n" +
		"- **## Conclusión**: Resume los puntos clave y propone posibles direcciones futuras.\n" +
		"Incluye ejemplos prácticos en la sección de Aplicaciones y Usos Prácticos.",
	"profesional": "\n**Estructura para Nivel Profesional**:\n" +
		"Organiza el documento en las siguientes secciones:\n" +
		"- **# Introducción**: Proporciona una visión general del tema, su contexto y relevancia.\n" +
		"- **## Descripción**: Describe el tema en detalle, explicando qué es y cómo funciona.\n" +
		"- **## Historia o Evolución**: Explica el origen o la evolución del tema a lo largo del tiempo.\n" +
		"- **## Características Principales**: Detalla las características clave del tema.\n" +
		"- **## Aplicaciones y Usos Prácticos**: Describe aplicaciones reales, con ejemplos concretos.\n" +
		"- **## Beneficios**: Explica los beneficios del tema para los usuarios o la industria.\n" +
		"- **## Limitaciones**: Analiza las limitaciones o desafíos asociados con el tema.\n" +
		"- **## Consideraciones Éticas**: Aborda posibles riesgos éticos, como sesgos o problemas de privacidad (si aplica).\n" +
		"- **## Comparación con Alternativas**: Compara el tema con otras soluciones o tecnologías similares.\n" +
		"- **## Estudios de Caso**: Incluye un estudio de caso o ejemplo detallado de implementación.\n" +
		"- **## Impacto Futuro**: Discute cómo el tema podría evolucionar en el futuro.\n" +
		"- **## Recomendaciones**: Propón recomendaciones para su uso, implementación o mejora.\n" +
		"- **## Conclusión**: Resume los puntos clave y destaca la importancia del tema.\n" +
		"Asegúrate de incluir ejemplos prácticos, datos ficticios realistas, y análisis profundos en las secciones correspondientes.",
}

// buildSystemMessage 分层组装系统指令：人设 + 语言 + 级别指令 + 结构大纲 + 历史/上下文 + 模板参考
func buildSystemMessage(req *model.GenerateRequest, historySummary, contextSummary string, conversational bool) string {
	var sb strings.Builder

	if conversational {
		sb.WriteString("Eres una IA asistente amigable. Responde de manera breve, amigable y directa en el idioma especificado. ")
		sb.WriteString(fmt.Sprintf("Idioma: %s. ", req.Language))
		sb.WriteString("Evita generar documentos estructurados o encabezados a menos que se solicite explícitamente.")
	} else {
		sb.WriteString("Eres un asistente de IA especializado en la redacción de documentos profesionales, precisos y bien estructurados. ")
		sb.WriteString("Tu objetivo es generar contenido que sea claro, conciso y adaptado al propósito del documento. ")
		sb.WriteString(fmt.Sprintf("Genera el contenido en %s. ", req.Language))
		sb.WriteString(levelInstructions[req.Level])
		sb.WriteString(" Sigue estas reglas para estructurar el documento:\n")
		sb.WriteString("- **Organización Clara y Lógica**: Organiza el contenido en secciones bien diferenciadas con subtítulos claros (#, ##, etc.). ")
		sb.WriteString("Asegúrate de que cada sección siga un flujo coherente con transiciones suaves.\n")
		sb.WriteString("- **Introducción Ampliada**: Comienza con una **Introducción** que dé una visión general del tema, explique su contexto y su relevancia, preparando al lector para los puntos principales.\n")
		sb.WriteString("- **Contenido Detallado y Ejemplos Prácticos**: En las secciones principales, proporciona información detallada e incluye ejemplos prácticos, casos de uso o datos ficticios realistas.\n")
		sb.WriteString("- **Conclusión Clara y Concisa**: Termina con una **Conclusión** que resuma los puntos clave y, si corresponde, proponga futuras líneas de investigación o acción.\n")
		sb.WriteString("- Usa un tono formal y profesional, evitando repeticiones innecesarias.\n")
		sb.WriteString("- Usa listas con viñetas ('-') para enumerar elementos cuando sea necesario.\n")
		sb.WriteString("- Evita jerga innecesaria y asegúrate de que el lenguaje sea accesible para un público profesional.\n")
		sb.WriteString(historySummary)
		sb.WriteString("\n")
		sb.WriteString(contextSummary)

		sb.WriteString(levelOutlines[req.Level])

		if req.Level == "medio" || req.Level == "profesional" {
			sb.WriteString("\n- **Importante**: Para niveles medio y profesional, el documento debe incluir al menos un encabezado (por ejemplo, # Título, ## Subtítulo) " +
				"para estructurar el contenido de manera clara.")
		}
	}

	if skeleton, ok := Templates[req.Template]; ok && !conversational {
		sb.WriteString(fmt.Sprintf(" Usa esta plantilla como base:\n%s", skeleton))
	}

	return sb.String()
}

// buildContextSummary 拼接"上一个文档"的上下文块，指示模型按修改请求处理
func buildContextSummary(ctx model.SessionContext) string {
	return fmt.Sprintf(
		"\nContexto del documento anterior:\n"+
			"- Tipo de documento: %s\n"+
			"- Plantilla: %s\n"+
			"- Nivel: %s\n"+
			"- Idioma: %s\n"+
			"- Contenido previo (resumen): %s...\n"+
			"Si el usuario solicita modificaciones (por ejemplo, 'añade una cláusula'), aplica los cambios al documento anterior manteniendo su estructura y estilo.",
		ctx.LastDocType, ctx.LastTemplate, ctx.LastLevel, ctx.LastLanguage,
		utils.TruncateRunes(ctx.LastDocument, 200))
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// TemplatePlaceholders 提取模板中除{contenido}外的占位符名
func TemplatePlaceholders(templateContent string) []string {
	var fields []string
	seen := make(map[string]bool)
	for _, match := range placeholderPattern.FindAllStringSubmatch(templateContent, -1) {
		name := match[1]
		if name == "contenido" || seen[name] {
			continue
		}
		seen[name] = true
		fields = append(fields, name)
	}
	return fields
}

// ApplyTemplate 对已知模板做封闭式字段替换，{contenido}替换为生成正文
func ApplyTemplate(skeleton string, fields map[string]string, content string) (string, error) {
	var missing string
	result := placeholderPattern.ReplaceAllStringFunc(skeleton, func(match string) string {
		name := match[1 : len(match)-1]
		if name == "contenido" {
			return content
		}
		if value, ok := fields[name]; ok && value != "" {
			return value
		}
		if missing == "" {
			missing = name
		}
		return match
	})
	if missing != "" {
		return "", newValidationError("Error al aplicar la plantilla: campo faltante %s", missing)
	}
	return strings.TrimSpace(result), nil
}

var promptSuggestions = map[string][]string{
	"carta_formal": {
		"Redacta una carta formal invitando a un evento corporativo",
		"Escribe una carta de presentación para una solicitud de empleo",
		"Genera una carta formal de agradecimiento por una colaboración",
	},
	"informe": {
		"Crea un informe sobre el impacto de la inteligencia artificial en la industria",
		"Redacta un informe técnico sobre energías renovables",
		"Genera un informe de progreso para un proyecto de desarrollo",
	},
	"contrato": {
		"Escribe un contrato de prestación de servicios entre dos partes",
		"Redacta un contrato de arrendamiento para una propiedad",
		"Genera un contrato de confidencialidad para empleados",
	},
	"factura": {
		"Crea una factura para servicios de consultoría",
		"Redacta una factura para la venta de productos",
		"Genera una factura con detalles de impuestos incluidos",
	},
}

var popularPrompts = []string{
	"Redacta una carta formal invitando a un evento",
	"Escribe un informe sobre inteligencia artificial",
	"Crea un contrato de servicios profesionales",
	"Genera una factura para una venta",
}

// PromptSuggestions 根据模板返回最多3条建议，无匹配时使用通用列表
func PromptSuggestions(docType, template string) []string {
	suggestions, ok := promptSuggestions[template]
	if !ok {
		suggestions = popularPrompts
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	result := make([]string, len(suggestions))
	copy(result, suggestions)
	return result
}

var commonFields = []string{"nombre", "fecha", "direccion", "empresa"}

// SuggestFields 从模板内容提取占位符并补充常用字段，最多5个
func SuggestFields(templateContent string) []string {
	fields := TemplatePlaceholders(templateContent)
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f] = true
	}
	for _, f := range commonFields {
		if !seen[f] {
			fields = append(fields, f)
			seen[f] = true
		}
	}
	if len(fields) > 5 {
		fields = fields[:5]
	}
	return fields
}
