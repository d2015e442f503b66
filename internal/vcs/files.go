package vcs

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/emberindex/ember/internal/errs"
)

// ListTrackedFiles lists every path a full reindex must chunk: every
// file tracked by HEAD, plus every untracked-but-not-gitignored file in
// the worktree. A file that exists only as an untracked addition has no
// HEAD tree entry, but WorktreeTreeSHA folds it into the tree SHA the
// staleness gate compares against, so omitting it here would make it
// permanently invisible to a full reindex.
func (a *Adapter) ListTrackedFiles() ([]string, error) {
	if !a.hasCommits() {
		return nil, a.noCommitsErr()
	}

	head, err := a.repo.Head()
	if err != nil {
		return nil, errs.New(errs.GitError, "resolve HEAD", err)
	}
	commit, err := a.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, errs.New(errs.GitError, "load HEAD commit", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errs.New(errs.GitError, "load HEAD tree", err)
	}

	seen := map[string]bool{}
	var paths []string

	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.New(errs.GitError, "walk HEAD tree", err)
		}
		if entry.Mode.IsFile() && !seen[name] {
			seen[name] = true
			paths = append(paths, name)
		}
	}

	wt, err := a.repo.Worktree()
	if err != nil {
		return nil, errs.New(errs.GitError, "resolve worktree", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, errs.New(errs.GitError, "compute worktree status", err)
	}
	for path, s := range status {
		// go-git's Status already omits gitignored paths while walking,
		// so anything Untracked here is fair game.
		if s.Worktree == git.Untracked && s.Staging == git.Untracked && !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// FileContent returns the raw bytes of path as it exists at ref.
func (a *Adapter) FileContent(path, ref string) ([]byte, error) {
	sha, err := a.TreeSHA(ref)
	if err != nil {
		return nil, err
	}
	tree, err := a.repo.TreeObject(plumbing.NewHash(sha))
	if err != nil {
		return nil, errs.New(errs.GitError, fmt.Sprintf("load tree for %s", ref), err)
	}

	file, err := tree.File(path)
	if err != nil {
		return nil, errs.New(errs.FileNotFoundAtRef, fmt.Sprintf("%s not found at %s", path, ref), err)
	}

	reader, err := file.Reader()
	if err != nil {
		return nil, errs.New(errs.GitError, "open blob reader", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errs.New(errs.GitError, "read blob content", err)
	}
	return data, nil
}
