package model

type GenerateRequest struct {
	Prompt   string            `json:"prompt" binding:"required"`
	DocType  string            `json:"doc_type"`
	Template string            `json:"template"`
	Fields   map[string]string `json:"fields"`
	Level    string            `json:"level"`
	Language string            `json:"language"`
	FileName string            `json:"file_name"`
	LogoPath string            `json:"logo_path"`
}

type PreviewRequest struct {
	Text    string `json:"text" binding:"required"`
	DocType string `json:"doc_type"`
}

type SaveTemplateRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type PromptSuggestionsRequest struct {
	DocType  string `json:"doc_type"`
	Template string `json:"template"`
}

type SuggestFieldsRequest struct {
	TemplateContent string `json:"template_content"`
}
