package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Gabo9803/IA-GENERADOR/internal/config"
	"github.com/Gabo9803/IA-GENERADOR/internal/utils"
	"github.com/Gabo9803/IA-GENERADOR/pkg/logger"
)

// Translator 把固定的界面文案翻译到目标语言。
// 约定：翻译失败或结果为空时返回原文，绝不报错。
type Translator struct {
	baseURL string
	client  *http.Client
}

func NewTranslator(cfg config.TranslatorConfig) *Translator {
	return &Translator{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  utils.NewHTTPClient(cfg.Timeout),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate 以es为源语言翻译text；targetLang为es或服务未配置时原样返回
func (t *Translator) Translate(text, targetLang string) string {
	if targetLang == "es" || t.baseURL == "" || text == "" {
		return text
	}

	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: "es",
		Target: targetLang,
		Format: "text",
	})
	if err != nil {
		return text
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, t.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return text
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		logger.Errorf("Failed to translate %q to %s: %v", text, targetLang, err)
		return text
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warnf("Translator returned status %d for %q", resp.StatusCode, text)
		return text
	}

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Errorf("Failed to decode translation of %q: %v", text, err)
		return text
	}
	if result.TranslatedText == "" {
		logger.Warnf("Empty translation for %q to %s, falling back to original", text, targetLang)
		return text
	}
	return result.TranslatedText
}
