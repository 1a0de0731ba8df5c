package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Gabo9803/IA-GENERADOR/internal/model"
)

type MemoryStorage struct {
	history   map[string][]model.HistoryEntry
	templates map[string]string
	mu        sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		history:   make(map[string][]model.HistoryEntry),
		templates: make(map[string]string),
	}
}

func (m *MemoryStorage) Init() error {
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) AppendHistory(sessionID, role, content string) error {
	if sessionID == "" {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.history[sessionID] = append(m.history[sessionID], model.HistoryEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return nil
}

// GetHistory 返回最近limit条记录，按时间正序；limit<=0时返回全部
func (m *MemoryStorage) GetHistory(sessionID string, limit int) ([]model.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.history[sessionID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	result := make([]model.HistoryEntry, len(entries))
	copy(result, entries)
	return result, nil
}

func (m *MemoryStorage) ClearHistory(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.history, sessionID)
	return nil
}

func (m *MemoryStorage) SaveTemplate(tpl model.Template) error {
	if strings.TrimSpace(tpl.Name) == "" || strings.TrimSpace(tpl.Content) == "" {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.templates[tpl.Name] = tpl.Content
	return nil
}

func (m *MemoryStorage) ListTemplates() ([]model.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.templates))
	for name := range m.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	templates := make([]model.Template, 0, len(names))
	for _, name := range names {
		templates = append(templates, model.Template{Name: name, Content: m.templates[name]})
	}
	return templates, nil
}
