package docstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "documents")

		store, err := NewStore(dir)

		require.NoError(t, err)
		assert.Equal(t, dir, store.Dir())
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects blank directory", func(t *testing.T) {
		_, err := NewStore("  ")
		assert.Error(t, err)
	})
}

func TestStore_Save(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	t.Run("writes content and returns document", func(t *testing.T) {
		doc, err := store.Save("notes.txt", strings.NewReader("hello"))

		require.NoError(t, err)
		assert.Equal(t, "notes.txt", doc.Source)
		assert.Equal(t, "hello", doc.Content)

		data, err := os.ReadFile(filepath.Join(store.Dir(), "notes.txt"))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("same name overwrites previous content", func(t *testing.T) {
		_, err := store.Save("notes.txt", strings.NewReader("updated"))
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(store.Dir(), "notes.txt"))
		require.NoError(t, err)
		assert.Equal(t, "updated", string(data))
	})

	t.Run("strips path traversal from the name", func(t *testing.T) {
		doc, err := store.Save("../../etc/evil.txt", strings.NewReader("x"))

		require.NoError(t, err)
		assert.Equal(t, "evil.txt", doc.Source)
		_, err = os.Stat(filepath.Join(store.Dir(), "evil.txt"))
		assert.NoError(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := store.Save("  ", strings.NewReader("x"))
		assert.Error(t, err)
	})
}

func TestStore_LoadAll(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	t.Run("empty directory loads nothing", func(t *testing.T) {
		docs, err := store.LoadAll()
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("loads txt files sorted by name", func(t *testing.T) {
		_, err := store.Save("b.txt", strings.NewReader("second"))
		require.NoError(t, err)
		_, err = store.Save("a.txt", strings.NewReader("first"))
		require.NoError(t, err)
		_, err = store.Save("skip.md", strings.NewReader("ignored"))
		require.NoError(t, err)

		docs, err := store.LoadAll()

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a.txt", docs[0].Source)
		assert.Equal(t, "first", docs[0].Content)
		assert.Equal(t, "b.txt", docs[1].Source)
	})
}
