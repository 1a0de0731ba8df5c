package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Gabo9803/IA-GENERADOR/internal/model"
	"github.com/Gabo9803/IA-GENERADOR/pkg/logger"
)

// DiskStorage 把历史与模板持久化为JSON文件，内存中保留完整副本。
// 目录结构：<dataDir>/history/<sessionID>.json 与 <dataDir>/templates.json
type DiskStorage struct {
	dataDir   string
	mu        sync.RWMutex
	history   map[string][]model.HistoryEntry
	templates map[string]string
}

func NewDiskStorage(dataDir string) *DiskStorage {
	return &DiskStorage{
		dataDir:   dataDir,
		history:   make(map[string][]model.HistoryEntry),
		templates: make(map[string]string),
	}
}

func (d *DiskStorage) Init() error {
	if err := os.MkdirAll(filepath.Join(d.dataDir, "history"), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	if err := d.loadHistory(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}
	if err := d.loadTemplates(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	logger.Info("Disk storage initialized successfully")
	return nil
}

func (d *DiskStorage) Close() error {
	return nil
}

func (d *DiskStorage) loadHistory() error {
	historyDir := filepath.Join(d.dataDir, "history")
	entries, err := os.ReadDir(historyDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		sessionID := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(historyDir, entry.Name()))
		if err != nil {
			logger.Errorf("Failed to load history for session %s: %v", sessionID, err)
			continue
		}

		var records []model.HistoryEntry
		if err := json.Unmarshal(data, &records); err != nil {
			logger.Errorf("Failed to parse history for session %s: %v", sessionID, err)
			continue
		}
		d.history[sessionID] = records
	}
	return nil
}

func (d *DiskStorage) loadTemplates() error {
	path := filepath.Join(d.dataDir, "templates.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &d.templates)
}

func (d *DiskStorage) saveHistoryLocked(sessionID string) error {
	path := filepath.Join(d.dataDir, "history", sessionID+".json")
	data, err := json.MarshalIndent(d.history[sessionID], "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	return nil
}

func (d *DiskStorage) saveTemplatesLocked() error {
	path := filepath.Join(d.dataDir, "templates.json")
	data, err := json.MarshalIndent(d.templates, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	return nil
}

func (d *DiskStorage) AppendHistory(sessionID, role, content string) error {
	if sessionID == "" {
		return ErrInvalidData
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.history[sessionID] = append(d.history[sessionID], model.HistoryEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return d.saveHistoryLocked(sessionID)
}

func (d *DiskStorage) GetHistory(sessionID string, limit int) ([]model.HistoryEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := d.history[sessionID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	result := make([]model.HistoryEntry, len(entries))
	copy(result, entries)
	return result, nil
}

func (d *DiskStorage) ClearHistory(sessionID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.history, sessionID)

	path := filepath.Join(d.dataDir, "history", sessionID+".json")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	return nil
}

func (d *DiskStorage) SaveTemplate(tpl model.Template) error {
	if strings.TrimSpace(tpl.Name) == "" || strings.TrimSpace(tpl.Content) == "" {
		return ErrInvalidData
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.templates[tpl.Name] = tpl.Content
	return d.saveTemplatesLocked()
}

func (d *DiskStorage) ListTemplates() ([]model.Template, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.templates))
	for name := range d.templates {
		names = append(names, name)
	}
	sort.Strings(names)

	templates := make([]model.Template, 0, len(names))
	for _, name := range names {
		templates = append(templates, model.Template{Name: name, Content: d.templates[name]})
	}
	return templates, nil
}
