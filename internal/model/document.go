package model

import "time"

// 会话历史中的角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// HistoryEntry 会话历史中的一条记录
type HistoryEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Template 可复用的字段替换模板
type Template struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// SessionContext 每个会话最近一次生成的文档快照，
// 用于让后续请求以"修改上一个文档"的方式工作
type SessionContext struct {
	LastDocument string
	LastPrompt   string
	LastDocType  string
	LastTemplate string
	LastLevel    string
	LastLanguage string
}
