package service

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/Gabo9803/IA-GENERADOR/internal/config"
	"github.com/Gabo9803/IA-GENERADOR/internal/model"
)

var (
	validDocTypes  = map[string]bool{"texto": true, "markdown": true, "pdf": true, "docx": true, "html": true}
	validTemplates = map[string]bool{"carta_formal": true, "contrato": true, "informe": true, "factura": true}
	validLevels    = map[string]bool{"basico": true, "medio": true, "profesional": true}
	validLanguages = map[string]bool{"es": true, "en": true, "fr": true, "de": true, "it": true}
)

// IsValidDocType 校验输出格式枚举
func IsValidDocType(docType string) bool {
	return validDocTypes[docType]
}

// ValidDocTypes 返回支持的输出格式，用于错误提示
func ValidDocTypes() []string {
	return sortedKeys(validDocTypes)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SanitizeFields 对所有字段值做HTML转义，返回新map
func SanitizeFields(fields map[string]string) map[string]string {
	sanitized := make(map[string]string, len(fields))
	for key, value := range fields {
		sanitized[key] = html.EscapeString(value)
	}
	return sanitized
}

// NormalizeRequest 填充默认值并统一大小写，在校验之前调用
func NormalizeRequest(req *model.GenerateRequest) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	req.DocType = strings.ToLower(strings.TrimSpace(req.DocType))
	req.Template = strings.ToLower(strings.TrimSpace(req.Template))
	req.Level = strings.ToLower(strings.TrimSpace(req.Level))
	req.Language = strings.ToLower(strings.TrimSpace(req.Language))
	req.FileName = strings.TrimSpace(req.FileName)

	if req.DocType == "" {
		req.DocType = "texto"
	}
	if req.Level == "" {
		req.Level = "basico"
	}
	if req.Language == "" {
		req.Language = "es"
	}
	req.Fields = SanitizeFields(req.Fields)
}

// ValidateRequest 在任何生成工作之前校验全部枚举与长度限制
func ValidateRequest(req *model.GenerateRequest, limits config.LimitsConfig) error {
	if req.Prompt == "" {
		return newValidationError("El prompt está vacío.")
	}
	if len([]rune(req.Prompt)) > limits.MaxPromptLength {
		return newValidationError("El prompt excede el límite de %d caracteres.", limits.MaxPromptLength)
	}
	if !validDocTypes[req.DocType] {
		return newValidationError("Tipo de documento inválido: %s", strings.Join(sortedKeys(validDocTypes), ", "))
	}
	if req.Template != "" && !validTemplates[req.Template] {
		return newValidationError("Plantilla inválida: %s", strings.Join(sortedKeys(validTemplates), ", "))
	}
	if !validLevels[req.Level] {
		return newValidationError("Nivel inválido: %s", strings.Join(sortedKeys(validLevels), ", "))
	}
	if !validLanguages[req.Language] {
		return newValidationError("Idioma inválido: %s", strings.Join(sortedKeys(validLanguages), ", "))
	}
	for key, value := range req.Fields {
		if len([]rune(value)) > limits.MaxFieldLength {
			return newValidationError("El campo %s excede el límite de %d caracteres.", key, limits.MaxFieldLength)
		}
	}
	return nil
}

// CheckRequiredFields 已知模板的占位符必须全部提供且非空
func CheckRequiredFields(template string, fields map[string]string) error {
	skeleton, ok := Templates[template]
	if !ok {
		return nil
	}

	var missing []string
	for _, name := range TemplatePlaceholders(skeleton) {
		if value, present := fields[name]; !present || value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return newValidationError("Faltan campos: %s", strings.Join(missing, ", "))
	}
	return nil
}

var headingLinePattern = regexp.MustCompile(`(?m)^#{1,3} .+`)

// ValidateGeneratedText 校验生成内容：字数上限、50词下限、中高级别需要至少一个标题。
// 纯谓词，无副作用。
func ValidateGeneratedText(text, level string, conversational bool) (bool, string) {
	wordCount := len(strings.Fields(text))
	maxWords := levelMaxWords[level]

	if wordCount > maxWords {
		return false, fmt.Sprintf("El contenido excede el límite de palabras para el nivel %s (%d palabras). Tiene %d palabras.", level, maxWords, wordCount)
	}
	if wordCount < 50 && !conversational {
		return false, "El contenido es demasiado corto (menos de 50 palabras)."
	}
	if (level == "medio" || level == "profesional") && !conversational {
		if !headingLinePattern.MatchString(text) {
			return false, "El documento debe tener al menos un encabezado para niveles medio o profesional."
		}
	}
	return true, "Contenido válido."
}
