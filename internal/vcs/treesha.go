package vcs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/emberindex/ember/internal/errs"
)

// TreeSHA resolves ref (a branch, tag, or commit-ish) to the SHA of its
// tree object.
func (a *Adapter) TreeSHA(ref string) (string, error) {
	if !a.hasCommits() {
		return "", a.noCommitsErr()
	}

	hash, err := a.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", errs.New(errs.InvalidRef, fmt.Sprintf("cannot resolve ref %q", ref), err).
			WithSuggestion("Check the ref name with `git rev-parse --verify <ref>`.")
	}

	commit, err := a.repo.CommitObject(*hash)
	if err != nil {
		return "", errs.New(errs.InvalidRef, fmt.Sprintf("%q does not point to a commit", ref), err)
	}

	return commit.TreeHash.String(), nil
}

// WorktreeTreeSHA computes the tree SHA that reflects exactly what an
// indexer would read right now: HEAD plus every staged and unstaged
// modification plus every untracked-but-not-gitignored file, while
// skipping gitignored paths entirely.
//
// It does this by backing up the git index, staging the worktree's
// current state into it, writing a tree object from it, and then
// restoring the backup — never leaving the repository's real index
// mutated, and reporting restoration failures as fatal
// (IndexRestorationFailed) rather than swallowing them.
func (a *Adapter) WorktreeTreeSHA() (sha string, err error) {
	wt, err := a.repo.Worktree()
	if err != nil {
		return "", errs.New(errs.GitError, "resolve worktree", err)
	}

	restore, err := a.backupIndex()
	if err != nil {
		return "", errs.New(errs.GitError, "back up git index", err)
	}
	defer func() {
		if restoreErr := restore(); restoreErr != nil {
			// A failed restore replaces whatever result was computed with an
			// IndexRestorationFailed error, and is also kept in a
			// package-level variable, so it is never silently dropped.
			lastIndexRestoreErr = errs.New(errs.IndexRestorationFailed,
				"failed to restore git index after worktree hashing", restoreErr).
				WithSuggestion("Run `git status` and `git reset` to inspect and repair the index by hand.")
			sha, err = "", lastIndexRestoreErr
		}
	}()
	lastIndexRestoreErr = nil

	status, err := wt.Status()
	if err != nil {
		return "", errs.New(errs.GitError, "compute worktree status", err)
	}

	for path, s := range status {
		if s.Worktree == git.Untracked && s.Staging == git.Untracked {
			// Untracked file: stage it unless gitignored. go-git's Status
			// already omits gitignored paths (it consults .gitignore while
			// walking), so anything surfaced here is fair game.
			if _, err := wt.Add(path); err != nil {
				return "", errs.New(errs.GitError, fmt.Sprintf("stage untracked file %s", path), err)
			}
			continue
		}
		if s.Worktree == git.Deleted {
			if _, err := wt.Add(path); err != nil {
				return "", errs.New(errs.GitError, fmt.Sprintf("stage deletion of %s", path), err)
			}
			continue
		}
		if s.Worktree != git.Unmodified {
			if _, err := wt.Add(path); err != nil {
				return "", errs.New(errs.GitError, fmt.Sprintf("stage modification of %s", path), err)
			}
		}
	}

	idx, err := a.repo.Storer.Index()
	if err != nil {
		return "", errs.New(errs.GitError, "read staged git index", err)
	}

	treeHash, err := writeTreeFromIndex(a.repo, idx)
	if err != nil {
		return "", errs.New(errs.GitError, "build tree from index", err)
	}

	if lastIndexRestoreErr != nil {
		return "", lastIndexRestoreErr
	}

	return treeHash.String(), nil
}

// lastIndexRestoreErr surfaces a restore failure detected in the
// deferred cleanup of WorktreeTreeSHA without swallowing it.
var lastIndexRestoreErr error

// StagedTreeSHA hashes only what is currently staged in the git index
// (no unstaged modifications, no untracked files) — the git index's
// tree, distinct from --worktree which layers the working directory
// on top.
func (a *Adapter) StagedTreeSHA() (string, error) {
	idx, err := a.repo.Storer.Index()
	if err != nil {
		return "", errs.New(errs.GitError, "read git index", err)
	}
	treeHash, err := writeTreeFromIndex(a.repo, idx)
	if err != nil {
		return "", errs.New(errs.GitError, "build tree from index", err)
	}
	return treeHash.String(), nil
}

// backupIndex copies the current .git/index bytes and returns a
// restore function that rewrites them verbatim. The restore is a
// scoped acquisition: the caller must defer it on every exit path so
// the VCS index is restored even when a later step fails.
func (a *Adapter) backupIndex() (func() error, error) {
	idx, err := a.repo.Storer.Index()
	if err != nil {
		return nil, err
	}
	// Deep-copy by round-tripping through the encoder so later mutations
	// to the live index (via wt.Add) cannot alias this snapshot.
	backupPath := filepath.Join(os.TempDir(), fmt.Sprintf("ember-index-backup-%d", os.Getpid()))
	f, err := os.Create(backupPath)
	if err != nil {
		return nil, err
	}
	enc := index.NewEncoder(f)
	if err := enc.Encode(idx); err != nil {
		_ = f.Close()
		_ = os.Remove(backupPath)
		return nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(backupPath)
		return nil, err
	}

	return func() error {
		defer os.Remove(backupPath)
		f, err := os.Open(backupPath)
		if err != nil {
			return err
		}
		defer f.Close()

		restored := &index.Index{}
		dec := index.NewDecoder(f)
		if err := dec.Decode(restored); err != nil {
			return err
		}
		return a.repo.Storer.SetIndex(restored)
	}, nil
}

// writeTreeFromIndex builds and persists the tree object graph implied
// by idx's entries, grouping entries by directory bottom-up, and
// returns the root tree's hash. go-git does not expose an "index to
// tree" call directly (that logic lives behind Worktree.Commit), so
// this mirrors what Commit does internally: build object.Tree values
// per directory and encode them via the repository's object storer.
func writeTreeFromIndex(repo *git.Repository, idx *index.Index) (plumbing.Hash, error) {
	type dirNode struct {
		entries map[string]object.TreeEntry // name -> entry
	}
	dirs := map[string]*dirNode{"": {entries: map[string]object.TreeEntry{}}}

	ensureDir := func(dir string) *dirNode {
		if n, ok := dirs[dir]; ok {
			return n
		}
		n := &dirNode{entries: map[string]object.TreeEntry{}}
		dirs[dir] = n
		return n
	}

	for _, e := range idx.Entries {
		dir := filepath.Dir(filepath.ToSlash(e.Name))
		if dir == "." {
			dir = ""
		}
		base := filepath.Base(filepath.ToSlash(e.Name))
		node := ensureDir(dir)
		mode := filemode.Regular
		if e.Mode == filemode.Executable {
			mode = filemode.Executable
		} else if e.Mode == filemode.Symlink {
			mode = filemode.Symlink
		}
		node.entries[base] = object.TreeEntry{Name: base, Mode: mode, Hash: e.Hash}

		// Register every ancestor directory so empty intermediate
		// directories still produce a tree node.
		d := dir
		for d != "" {
			parent := filepath.Dir(d)
			if parent == "." {
				parent = ""
			}
			ensureDir(parent)
			d = parent
		}
	}

	var writeDir func(dir string) (plumbing.Hash, error)
	writeDir = func(dir string) (plumbing.Hash, error) {
		node := ensureDir(dir)

		// Attach any direct child directories as tree entries, recursing
		// first so we know their hashes.
		childPrefix := dir
		for candidate := range dirs {
			if candidate == dir {
				continue
			}
			parent := filepath.Dir(candidate)
			if parent == "." {
				parent = ""
			}
			if parent != childPrefix {
				continue
			}
			childHash, err := writeDir(candidate)
			if err != nil {
				return plumbing.ZeroHash, err
			}
			name := filepath.Base(candidate)
			node.entries[name] = object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: childHash}
		}

		tree := &object.Tree{}
		for _, e := range node.entries {
			tree.Entries = append(tree.Entries, e)
		}
		sortTreeEntries(tree.Entries)

		obj := repo.Storer.NewEncodedObject()
		obj.SetType(plumbing.TreeObject)
		w, err := obj.Writer()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		if err := tree.Encode(obj); err != nil {
			_ = w.Close()
			return plumbing.ZeroHash, err
		}
		if err := w.Close(); err != nil {
			return plumbing.ZeroHash, err
		}
		return repo.Storer.SetEncodedObject(obj)
	}

	return writeDir("")
}

// sortTreeEntries sorts entries the way git does: byte-wise by name,
// with directory names treated as if suffixed by "/", so tree hashes
// are reproducible across runs.
func sortTreeEntries(entries []object.TreeEntry) {
	key := func(e object.TreeEntry) string {
		if e.Mode == filemode.Dir {
			return e.Name + "/"
		}
		return e.Name
	}
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && key(entries[j-1]) > key(entries[j]); j-- {
			entries[j-1], entries[j] = entries[j], entries[j-1]
		}
	}
}
