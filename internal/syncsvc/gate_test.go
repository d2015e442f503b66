package syncsvc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/emberindex/ember/internal/chunk"
	"github.com/emberindex/ember/internal/embed"
	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/orchestrator"
	"github.com/emberindex/ember/internal/store"
	"github.com/emberindex/ember/internal/vcs"
)

func commitFile(t *testing.T, repo *git.Repository, dir, path, content string) {
	t.Helper()
	full := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(path)
	require.NoError(t, err)
	_, err = wt.Commit("update", &git.CommitOptions{
		Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)
}

func newTestGate(t *testing.T, dir string) *Gate {
	t.Helper()
	adapter, err := vcs.Open(dir)
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	o := &orchestrator.Orchestrator{
		VCS:      adapter,
		Store:    st,
		Embedder: embed.NewStaticEmbedder(),
		Chunker:  chunk.NewChunker(),
		Markdown: chunk.NewMarkdownChunker(),
	}
	return &Gate{VCS: adapter, Store: st, Orchestrator: o}
}

func TestGate_IsStale_TrueWhenNeverSynced(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "a.go", "package a\n")

	g := newTestGate(t, dir)
	stale, err := g.IsStale()
	require.NoError(t, err)
	require.True(t, stale)
}

func TestGate_EnsureFresh_SyncsWhenStale(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "a.go", "package a\n\nfunc A() {}\n")

	g := newTestGate(t, dir)
	outcome := g.EnsureFresh(context.Background(), orchestrator.Request{
		RepoRoot: dir, SyncMode: model.SyncModeWorktree,
	})
	require.True(t, outcome.Synced)
	require.Empty(t, outcome.Warning)

	stale, err := g.IsStale()
	require.NoError(t, err)
	require.False(t, stale)
}

func TestGate_EnsureFresh_NoOpWhenFresh(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "a.go", "package a\n")

	g := newTestGate(t, dir)
	req := orchestrator.Request{RepoRoot: dir, SyncMode: model.SyncModeWorktree}
	_ = g.EnsureFresh(context.Background(), req)

	outcome := g.EnsureFresh(context.Background(), req)
	require.False(t, outcome.Synced)
	require.Empty(t, outcome.Warning)
}
