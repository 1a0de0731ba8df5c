package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabo9803/IA-GENERADOR/internal/model"
)

// 两种后端共享同一套行为
func runStorageSuite(t *testing.T, newStore func(t *testing.T) Storage) {
	t.Run("history append and read", func(t *testing.T) {
		store := newStore(t)

		history, err := store.GetHistory("s1", 20)
		require.NoError(t, err)
		assert.Empty(t, history)

		require.NoError(t, store.AppendHistory("s1", model.RoleUser, "hola"))
		require.NoError(t, store.AppendHistory("s1", model.RoleAssistant, "¡Hola!"))
		require.NoError(t, store.AppendHistory("s2", model.RoleUser, "otra sesión"))

		history, err = store.GetHistory("s1", 20)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, model.RoleUser, history[0].Role)
		assert.Equal(t, "hola", history[0].Content)
		assert.Equal(t, "¡Hola!", history[1].Content)
		assert.False(t, history[0].Timestamp.IsZero())
	})

	t.Run("history limit keeps latest", func(t *testing.T) {
		store := newStore(t)
		for i := 0; i < 25; i++ {
			require.NoError(t, store.AppendHistory("s1", model.RoleUser, fmt.Sprintf("m%d", i)))
		}

		history, err := store.GetHistory("s1", 20)
		require.NoError(t, err)
		require.Len(t, history, 20)
		assert.Equal(t, "m5", history[0].Content)
		assert.Equal(t, "m24", history[19].Content)
	})

	t.Run("history clear", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AppendHistory("s1", model.RoleUser, "hola"))
		require.NoError(t, store.ClearHistory("s1"))

		history, err := store.GetHistory("s1", 20)
		require.NoError(t, err)
		assert.Empty(t, history)

		// 清空不存在的会话不报错
		require.NoError(t, store.ClearHistory("nunca"))
	})

	t.Run("empty session id rejected", func(t *testing.T) {
		store := newStore(t)
		assert.ErrorIs(t, store.AppendHistory("", model.RoleUser, "hola"), ErrInvalidData)
	})

	t.Run("templates upsert and list", func(t *testing.T) {
		store := newStore(t)

		templates, err := store.ListTemplates()
		require.NoError(t, err)
		assert.Empty(t, templates)

		require.NoError(t, store.SaveTemplate(model.Template{Name: "memo", Content: "Para: {destinatario}\n{contenido}"}))
		require.NoError(t, store.SaveTemplate(model.Template{Name: "acta", Content: "{contenido}"}))
		require.NoError(t, store.SaveTemplate(model.Template{Name: "memo", Content: "v2 {contenido}"}))

		templates, err = store.ListTemplates()
		require.NoError(t, err)
		require.Len(t, templates, 2)
		assert.Equal(t, "acta", templates[0].Name)
		assert.Equal(t, "memo", templates[1].Name)
		assert.Equal(t, "v2 {contenido}", templates[1].Content)
	})

	t.Run("template validation", func(t *testing.T) {
		store := newStore(t)
		assert.ErrorIs(t, store.SaveTemplate(model.Template{Name: "", Content: "x"}), ErrInvalidData)
		assert.ErrorIs(t, store.SaveTemplate(model.Template{Name: "x", Content: "  "}), ErrInvalidData)
	})
}

func TestMemoryStorage(t *testing.T) {
	runStorageSuite(t, func(t *testing.T) Storage {
		store := NewMemoryStorage()
		require.NoError(t, store.Init())
		return store
	})
}

func TestDiskStorage(t *testing.T) {
	runStorageSuite(t, func(t *testing.T) Storage {
		store := NewDiskStorage(t.TempDir())
		require.NoError(t, store.Init())
		return store
	})
}

func TestDiskStoragePersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()

	store := NewDiskStorage(dir)
	require.NoError(t, store.Init())
	require.NoError(t, store.AppendHistory("s1", model.RoleUser, "hola"))
	require.NoError(t, store.SaveTemplate(model.Template{Name: "memo", Content: "{contenido}"}))
	require.NoError(t, store.Close())

	// 新实例从磁盘恢复
	reopened := NewDiskStorage(dir)
	require.NoError(t, reopened.Init())

	history, err := reopened.GetHistory("s1", 20)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hola", history[0].Content)

	templates, err := reopened.ListTemplates()
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "memo", templates[0].Name)
}

func TestDiskStorageClearRemovesFile(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStorage(dir)
	require.NoError(t, store.Init())
	require.NoError(t, store.AppendHistory("s1", model.RoleUser, "hola"))

	path := filepath.Join(dir, "history", "s1.json")
	_, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, store.ClearHistory("s1"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
