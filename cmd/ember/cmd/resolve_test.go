package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberindex/ember/internal/cache"
	"github.com/emberindex/ember/internal/embed"
	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/store"
)

func newTestProject(t *testing.T) *project {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return &project{Root: dir, IndexDir: dir, Store: st, Embedder: embed.NewStaticEmbedder()}
}

func TestResolveChunk_ByIDPrefix(t *testing.T) {
	p := newTestProject(t)

	chunk := model.Chunk{
		ID:        "abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"[:64],
		Path:      "main.go",
		Lang:      "go",
		StartLine: 1,
		EndLine:   3,
		Content:   "package main\n",
	}
	require.NoError(t, p.Store.PutChunk(chunk))

	got, err := resolveChunk(p, chunk.ID[:12])
	require.NoError(t, err)
	assert.Equal(t, chunk.ID, got.ID)
	assert.Equal(t, "main.go", got.Path)
}

func TestResolveChunk_ByIDPrefix_NotFound(t *testing.T) {
	p := newTestProject(t)

	_, err := resolveChunk(p, "deadbeef")
	require.Error(t, err)
}

func TestResolveChunk_ByIndex_NoCachedSearch(t *testing.T) {
	p := newTestProject(t)

	_, err := resolveChunk(p, "1")
	require.Error(t, err)
}

func TestResolveChunk_ByIndex_OutOfRange(t *testing.T) {
	p := newTestProject(t)

	q := model.Query{Text: "foo", TopK: 5}
	_, err := cache.Save(p.IndexDir, q, nil)
	require.NoError(t, err)

	_, err = resolveChunk(p, "1")
	require.Error(t, err)
}
