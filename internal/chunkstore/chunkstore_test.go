package chunkstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/store"
)

// stubEmbedder returns a deterministic vector per call, and can be
// told to fail on demand.
type stubEmbedder struct {
	dims    int
	failAt  int // EmbedBatch call index that should fail, -1 never
	calls   int
	lenDiff int // shrink the returned batch by this many entries
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	defer func() { e.calls++ }()
	if e.failAt == e.calls {
		return nil, fmt.Errorf("embedding backend unavailable")
	}
	out := make([][]float32, len(texts)-e.lenDiff)
	for i := range out {
		v := make([]float32, e.dims)
		v[0] = 1
		out[i] = v
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int    { return e.dims }
func (e *stubEmbedder) Fingerprint() string { return "stub-v1" }
func (e *stubEmbedder) Close() error        { return nil }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testChunk(id, path, content string) model.Chunk {
	return model.Chunk{
		ID:          id,
		ProjectID:   "proj",
		Path:        path,
		Lang:        "go",
		Symbol:      "Foo",
		StartLine:   1,
		EndLine:     2,
		Content:     content,
		ContentHash: "hash-" + content,
		FileHash:    "filehash",
		TreeSHA:     "tree",
		Rev:         "worktree",
	}
}

func TestService_Store_PersistsNewChunks(t *testing.T) {
	st := newTestStore(t)
	svc := New(st, &stubEmbedder{dims: 8, failAt: -1}, nil)

	chunks := []model.Chunk{testChunk("c1", "a.go", "one"), testChunk("c2", "a.go", "two")}
	result, err := svc.Store(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ChunksCreated)
	assert.Equal(t, 0, result.ChunksUpdated)
	assert.Equal(t, 2, result.VectorsStored)
	assert.False(t, result.Failed)

	count, err := st.CountChunks()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestService_Store_ClassifiesUpdatedByContentHash(t *testing.T) {
	st := newTestStore(t)
	svc := New(st, &stubEmbedder{dims: 8, failAt: -1}, nil)
	ctx := context.Background()

	shared := testChunk("c1", "a.go", "same")
	_, err := svc.Store(ctx, []model.Chunk{shared})
	require.NoError(t, err)

	moved := shared
	moved.ID = "c1-moved"
	moved.Path = "b.go"
	result, err := svc.Store(ctx, []model.Chunk{moved})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ChunksUpdated)
	assert.Equal(t, 0, result.ChunksCreated)
}

func TestService_Store_EmbeddingFailure_WritesNothing(t *testing.T) {
	st := newTestStore(t)
	svc := New(st, &stubEmbedder{dims: 8, failAt: 0}, nil)

	chunks := []model.Chunk{testChunk("c1", "a.go", "one")}
	result, err := svc.Store(context.Background(), chunks)
	require.Error(t, err)
	assert.True(t, result.Failed)

	count, err := st.CountChunks()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestService_Store_EmbeddingCountMismatch_Fails(t *testing.T) {
	st := newTestStore(t)
	svc := New(st, &stubEmbedder{dims: 8, failAt: -1, lenDiff: 1}, nil)

	chunks := []model.Chunk{testChunk("c1", "a.go", "one"), testChunk("c2", "a.go", "two")}
	result, err := svc.Store(context.Background(), chunks)
	require.Error(t, err)
	assert.True(t, result.Failed)
}

func TestService_Store_EmptyInput_NoOp(t *testing.T) {
	st := newTestStore(t)
	svc := New(st, &stubEmbedder{dims: 8, failAt: -1}, nil)

	result, err := svc.Store(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
}
