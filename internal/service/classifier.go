package service

import (
	"regexp"
	"strings"
)

// 问候类短语：完整匹配时按闲聊处理，不生成正式文档
var conversationalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*hola\s*$`),
	regexp.MustCompile(`(?i)^\s*cómo estás\s*\??\s*$`),
	regexp.MustCompile(`(?i)^\s*hey\s*$`),
	regexp.MustCompile(`(?i)^\s*hi\s*$`),
	regexp.MustCompile(`(?i)^\s*qué tal\s*\??\s*$`),
	regexp.MustCompile(`(?i)^\s*hello\s*$`),
}

// IsConversationalPrompt 判断prompt是否为闲聊而非文档请求
func IsConversationalPrompt(prompt string) bool {
	prompt = strings.ToLower(strings.TrimSpace(prompt))
	for _, pattern := range conversationalPatterns {
		if pattern.MatchString(prompt) {
			return true
		}
	}
	return false
}
