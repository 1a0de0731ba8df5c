package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabo9803/IA-GENERADOR/internal/model"
)

func TestContextStoreUpdateAndReset(t *testing.T) {
	s := NewContextStore(10)

	_, ok := s.Get("s1")
	assert.False(t, ok)

	s.Update("s1", model.SessionContext{LastDocument: "doc", LastLevel: "medio"})
	ctx, ok := s.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "doc", ctx.LastDocument)

	// 同一会话覆盖
	s.Update("s1", model.SessionContext{LastDocument: "doc2"})
	ctx, _ = s.Get("s1")
	assert.Equal(t, "doc2", ctx.LastDocument)

	s.Reset("s1")
	_, ok = s.Get("s1")
	assert.False(t, ok)

	// 重置不存在的会话无副作用
	s.Reset("s1")
}

func TestContextStoreEvictsOldestSession(t *testing.T) {
	s := NewContextStore(2)

	s.Update("s1", model.SessionContext{LastDocument: "d1"})
	s.Update("s2", model.SessionContext{LastDocument: "d2"})
	s.Update("s3", model.SessionContext{LastDocument: "d3"})

	_, ok := s.Get("s1")
	assert.False(t, ok, "oldest session must be evicted")
	_, ok = s.Get("s2")
	assert.True(t, ok)
	_, ok = s.Get("s3")
	assert.True(t, ok)
}

func TestContextStoreResetFreesCapacity(t *testing.T) {
	s := NewContextStore(2)
	for i := 1; i <= 2; i++ {
		s.Update(fmt.Sprintf("s%d", i), model.SessionContext{})
	}

	s.Reset("s1")
	s.Update("s3", model.SessionContext{})
	s.Update("s4", model.SessionContext{})

	// s2 作为现存最旧条目被淘汰，s3/s4 保留
	_, ok := s.Get("s2")
	assert.False(t, ok)
	_, ok = s.Get("s3")
	assert.True(t, ok)
	_, ok = s.Get("s4")
	assert.True(t, ok)
}
