// Package vcs is the VCS adapter: tree SHAs for HEAD, the worktree, and
// arbitrary refs; tracked-file listing; diff-by-status between two
// trees; and file content at a ref. It wraps go-git for real git plumbing
// rather than shelling out or reimplementing a gitignore matcher.
package vcs

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"github.com/emberindex/ember/internal/errs"
)

// Adapter is the VCS adapter for one repository.
type Adapter struct {
	repo *git.Repository
	root string // absolute worktree root
}

// Open opens the git repository that contains dir, walking up to the
// first enclosing repository root.
func Open(dir string) (*Adapter, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errs.New(errs.Unknown, "resolve repository path", err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return nil, errs.New(errs.NotARepository, fmt.Sprintf("%s is not inside a git repository", abs), err).
				WithSuggestion("Run this command from inside a git repository, or `git init` one here.")
		}
		return nil, errs.New(errs.GitError, "open git repository", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errs.New(errs.GitError, "resolve worktree", err)
	}

	return &Adapter{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the absolute path to the repository's worktree root.
func (a *Adapter) Root() string {
	return a.root
}

// hasCommits reports whether HEAD resolves to a commit, distinguishing
// an empty repository — its own error state, separate from an invalid
// ref — from every other failure.
func (a *Adapter) hasCommits() bool {
	_, err := a.repo.Head()
	return err == nil
}

func (a *Adapter) noCommitsErr() error {
	return errs.New(errs.NoCommitsYet, "repository has no commits yet", nil).
		WithSuggestion("Make an initial commit before indexing.")
}
