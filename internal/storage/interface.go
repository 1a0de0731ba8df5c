package storage

import (
	"github.com/Gabo9803/IA-GENERADOR/internal/model"
)

// Storage 负责会话历史与自定义模板这两类需要跨请求保留的数据
type Storage interface {
	// 会话历史
	AppendHistory(sessionID, role, content string) error
	GetHistory(sessionID string, limit int) ([]model.HistoryEntry, error)
	ClearHistory(sessionID string) error

	// 模板管理
	SaveTemplate(tpl model.Template) error
	ListTemplates() ([]model.Template, error)

	// 存储管理
	Init() error
	Close() error
}
