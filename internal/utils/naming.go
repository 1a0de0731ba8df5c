package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Gabo9803/IA-GENERADOR/internal/model"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// GenerateFileName 根据prompt前几个有意义的词生成文件基础名
func GenerateFileName(prompt, template, docType, level string) string {
	var words []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(prompt), -1) {
		if len([]rune(w)) > 3 {
			words = append(words, w)
		}
		if len(words) == 3 {
			break
		}
	}

	baseName := "documento"
	if len(words) > 0 {
		baseName = strings.Join(words, "_")
	}

	suffix := template
	if suffix == "" {
		suffix = docType
	}

	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s_%s", baseName, suffix, level, timestamp)
}

// GenerateCacheKey 为一次生成请求计算确定性的缓存键。
// fields用JSON序列化（map键有序），历史取SHA-256摘要。
func GenerateCacheKey(prompt, docType, template string, fields map[string]string, level string, history []model.HistoryEntry) string {
	type turn struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	turns := make([]turn, len(history))
	for i, h := range history {
		turns[i] = turn{Role: h.Role, Content: h.Content}
	}

	historyJSON, _ := json.Marshal(turns)
	fieldsJSON, _ := json.Marshal(fields)
	sum := sha256.Sum256(historyJSON)

	return fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		prompt, docType, template, fieldsJSON, level, hex.EncodeToString(sum[:]))
}

// SummarizeHistory 把最近的历史压缩成提供给模型的文字摘要
func SummarizeHistory(history []model.HistoryEntry) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Contexto previo de la conversación:\n")
	for _, entry := range history {
		switch entry.Role {
		case model.RoleUser:
			sb.WriteString(fmt.Sprintf("- El usuario dijo: %s...\n", TruncateRunes(entry.Content, 100)))
		case model.RoleAssistant:
			sb.WriteString(fmt.Sprintf("- La IA respondió: %s...\n", TruncateRunes(entry.Content, 100)))
		}
	}
	return sb.String()
}

// TruncateRunes 按Unicode字符截断，避免截断多字节字符
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
