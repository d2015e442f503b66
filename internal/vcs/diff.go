package vcs

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/model"
)

// DiffFiles returns the status of every path that differs between the
// trees named by from and to. Pure renames — a delete paired with an
// add of identical blob content — are folded into a single
// FileStatusRenamed entry, since go-git's tree diff does not detect
// renames on its own.
func (a *Adapter) DiffFiles(from, to string) ([]model.FileDiff, error) {
	fromTree, err := a.treeByRef(from)
	if err != nil {
		return nil, err
	}
	toTree, err := a.treeByRef(to)
	if err != nil {
		return nil, err
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, errs.New(errs.GitError, "diff trees", err)
	}

	var added, deleted []*object.Change
	var result []model.FileDiff

	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			return nil, errs.New(errs.GitError, "classify tree change", err)
		}
		switch action {
		case merkletrie.Insert:
			added = append(added, c)
		case merkletrie.Delete:
			deleted = append(deleted, c)
		default: // merkletrie.Modify
			result = append(result, model.FileDiff{Status: model.FileStatusModified, Path: c.To.Name})
		}
	}

	renamedFrom := map[string]bool{}
	renamedTo := map[string]bool{}
	for _, d := range deleted {
		for _, ad := range added {
			if renamedTo[ad.To.Name] {
				continue
			}
			if d.From.TreeEntry.Hash == ad.To.TreeEntry.Hash {
				result = append(result, model.FileDiff{
					Status:  model.FileStatusRenamed,
					Path:    ad.To.Name,
					OldPath: d.From.Name,
				})
				renamedFrom[d.From.Name] = true
				renamedTo[ad.To.Name] = true
				break
			}
		}
	}

	for _, d := range deleted {
		if !renamedFrom[d.From.Name] {
			result = append(result, model.FileDiff{Status: model.FileStatusDeleted, Path: d.From.Name})
		}
	}
	for _, ad := range added {
		if !renamedTo[ad.To.Name] {
			result = append(result, model.FileDiff{Status: model.FileStatusAdded, Path: ad.To.Name})
		}
	}

	return result, nil
}

// DeletedFiles returns the paths deleted or renamed-away between from
// and to.
func (a *Adapter) DeletedFiles(from, to string) ([]string, error) {
	diffs, err := a.DiffFiles(from, to)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, d := range diffs {
		switch d.Status {
		case model.FileStatusDeleted:
			paths = append(paths, d.Path)
		case model.FileStatusRenamed:
			paths = append(paths, d.OldPath)
		}
	}
	return paths, nil
}

func (a *Adapter) treeByRef(ref string) (*object.Tree, error) {
	hash := plumbing.NewHash(ref)
	if !hash.IsZero() {
		if tree, err := a.repo.TreeObject(hash); err == nil {
			return tree, nil
		}
	}

	sha, err := a.TreeSHA(ref)
	if err != nil {
		return nil, err
	}
	tree, err := a.repo.TreeObject(plumbing.NewHash(sha))
	if err != nil {
		return nil, errs.New(errs.GitError, fmt.Sprintf("load tree object for %s", ref), err)
	}
	return tree, nil
}
