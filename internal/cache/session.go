package cache

import (
	"sync"

	"github.com/Gabo9803/IA-GENERADOR/internal/model"
)

// ContextStore 按会话保存最近一次生成文档的快照。
// 没有TTL，只能通过Reset显式清除；超过上限时淘汰最早创建的会话。
type ContextStore struct {
	mu         sync.RWMutex
	contexts   map[string]model.SessionContext
	order      []string
	maxEntries int
}

func NewContextStore(maxEntries int) *ContextStore {
	return &ContextStore{
		contexts:   make(map[string]model.SessionContext),
		maxEntries: maxEntries,
	}
}

func (s *ContextStore) Get(sessionID string) (model.SessionContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, ok := s.contexts[sessionID]
	return ctx, ok
}

func (s *ContextStore) Update(sessionID string, ctx model.SessionContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contexts[sessionID]; !exists {
		if len(s.contexts) >= s.maxEntries && len(s.order) > 0 {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.contexts, oldest)
		}
		s.order = append(s.order, sessionID)
	}
	s.contexts[sessionID] = ctx
}

func (s *ContextStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contexts[sessionID]; !exists {
		return
	}
	delete(s.contexts, sessionID)
	for i, id := range s.order {
		if id == sessionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
