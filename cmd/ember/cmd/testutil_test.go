package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// initGitRepo creates a git repository at dir with a single committed
// file, so vcs.Open and TreeSHA resolution have something to work with.
func initGitRepo(t *testing.T, dir string) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	filePath := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(filePath, []byte("package main\n\nfunc main() {}\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("main.go")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com"},
	})
	require.NoError(t, err)

	return repo
}

// isolateUserConfig redirects the user-global config directory used by
// projconfig.UserConfigPath into a scratch directory for the duration
// of the test, so tests never read or write the real machine's config.
func isolateUserConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}
