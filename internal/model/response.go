package model

type GenerateResponse struct {
	Response       string `json:"response"`
	DocType        string `json:"doc_type"`
	IsDocument     bool   `json:"is_document"`
	PreviewContent string `json:"preview_content,omitempty"`
	FileName       string `json:"file_name,omitempty"`
	FileID         string `json:"file_id,omitempty"`
}

type PreviewResponse struct {
	Preview string `json:"preview"`
	FileID  string `json:"file_id,omitempty"`
}

type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

type TemplatesResponse struct {
	Templates []Template `json:"templates"`
}
