package detect

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"github.com/emberindex/ember/internal/vcs"
)

func commit(t *testing.T, repo *git.Repository, dir, path, content, msg string) string {
	t.Helper()
	full := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(path)
	require.NoError(t, err)

	sha, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)
	return sha.String()
}

func TestDetect_NoLastTreeSHA_ReturnsAllFilesIncrementalFalse(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commit(t, repo, dir, "a.go", "package a", "initial")

	adapter, err := vcs.Open(dir)
	require.NoError(t, err)

	treeSHA, err := adapter.TreeSHA("HEAD")
	require.NoError(t, err)

	plan, err := Detect(adapter, treeSHA, "", false)
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.False(t, plan.Incremental)
	require.Equal(t, []string{"a.go"}, plan.Paths)
}

func TestDetect_ForceReindex_ReturnsAllFiles(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commit(t, repo, dir, "a.go", "package a", "initial")

	adapter, err := vcs.Open(dir)
	require.NoError(t, err)
	treeSHA, err := adapter.TreeSHA("HEAD")
	require.NoError(t, err)

	plan, err := Detect(adapter, treeSHA, treeSHA, true)
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.False(t, plan.Incremental)
}

func TestDetect_SameTreeSHA_ReturnsNilPlan(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commit(t, repo, dir, "a.go", "package a", "initial")

	adapter, err := vcs.Open(dir)
	require.NoError(t, err)
	treeSHA, err := adapter.TreeSHA("HEAD")
	require.NoError(t, err)

	plan, err := Detect(adapter, treeSHA, treeSHA, false)
	require.NoError(t, err)
	require.Nil(t, plan)
}

func TestDetect_ChangedTree_ReturnsChangedFilesIncrementalTrue(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commit(t, repo, dir, "a.go", "package a", "initial")

	adapter, err := vcs.Open(dir)
	require.NoError(t, err)
	firstSHA, err := adapter.TreeSHA("HEAD")
	require.NoError(t, err)

	commit(t, repo, dir, "b.go", "package b", "add b")
	secondSHA, err := adapter.TreeSHA("HEAD")
	require.NoError(t, err)

	plan, err := Detect(adapter, secondSHA, firstSHA, false)
	require.NoError(t, err)
	require.NotNil(t, plan)
	require.True(t, plan.Incremental)
	require.Equal(t, []string{"b.go"}, plan.Paths)
}

func TestDeletedFiles_NoPreviousSync_ReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commit(t, repo, dir, "a.go", "package a", "initial")

	adapter, err := vcs.Open(dir)
	require.NoError(t, err)
	treeSHA, err := adapter.TreeSHA("HEAD")
	require.NoError(t, err)

	deleted, err := DeletedFiles(adapter, treeSHA, "")
	require.NoError(t, err)
	require.Empty(t, deleted)
}
