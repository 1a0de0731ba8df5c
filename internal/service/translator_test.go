package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabo9803/IA-GENERADOR/internal/config"
)

func newTestTranslator(baseURL string) *Translator {
	return NewTranslator(config.TranslatorConfig{BaseURL: baseURL, Timeout: 2 * time.Second})
}

func TestTranslate(t *testing.T) {
	var got translateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/translate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(translateResponse{TranslatedText: "Index"})
	}))
	defer server.Close()

	tr := newTestTranslator(server.URL)
	assert.Equal(t, "Index", tr.Translate("Índice", "en"))
	assert.Equal(t, translateRequest{Q: "Índice", Source: "es", Target: "en", Format: "text"}, got)
}

func TestTranslateFallsBackToOriginal(t *testing.T) {
	// es为源语言，不请求服务
	tr := newTestTranslator("http://127.0.0.1:1")
	assert.Equal(t, "Índice", tr.Translate("Índice", "es"))

	// 未配置服务地址
	tr = newTestTranslator("")
	assert.Equal(t, "Índice", tr.Translate("Índice", "en"))

	// 服务不可达
	tr = newTestTranslator("http://127.0.0.1:1")
	assert.Equal(t, "Índice", tr.Translate("Índice", "en"))
}

func TestTranslateErrorResponses(t *testing.T) {
	status := http.StatusInternalServerError
	body := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	defer server.Close()
	tr := newTestTranslator(server.URL)

	// 非200状态
	assert.Equal(t, "Índice", tr.Translate("Índice", "en"))

	// 空翻译结果
	status = http.StatusOK
	body = `{"translatedText": ""}`
	assert.Equal(t, "Índice", tr.Translate("Índice", "en"))

	// 响应不是JSON
	body = `not json`
	assert.Equal(t, "Índice", tr.Translate("Índice", "en"))
}
