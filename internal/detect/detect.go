// Package detect implements the file-detection decision: given the
// current tree SHA and the last indexed tree SHA, decide which files
// need (re-)chunking, or that there is nothing to do. Driven entirely
// by ember's tree-SHA model rather than mtime/hash watch state.
package detect

import (
	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/vcs"
)

// Plan is the outcome of a detection decision: which paths to
// (re-)chunk and whether the sync is running incrementally.
type Plan struct {
	Paths       []string
	Incremental bool
}

// Detect decides which paths need (re-)chunking. lastTreeSHA is the
// empty string when no previous sync has run (model.RepoState.LastTreeSHA
// unset). A nil Plan means "nothing to do."
func Detect(adapter *vcs.Adapter, treeSHA, lastTreeSHA string, forceReindex bool) (*Plan, error) {
	if forceReindex || lastTreeSHA == "" {
		all, err := adapter.ListTrackedFiles()
		if err != nil {
			return nil, err
		}
		return &Plan{Paths: all, Incremental: false}, nil
	}

	if treeSHA == lastTreeSHA {
		return nil, nil
	}

	diffs, err := adapter.DiffFiles(lastTreeSHA, treeSHA)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, d := range diffs {
		switch d.Status {
		case model.FileStatusAdded, model.FileStatusModified, model.FileStatusRenamed:
			paths = append(paths, d.Path)
		}
	}
	return &Plan{Paths: paths, Incremental: true}, nil
}

// DeletedFiles returns the paths deleted between lastTreeSHA and
// treeSHA, or an empty slice if there is no previous sync to diff
// against.
func DeletedFiles(adapter *vcs.Adapter, treeSHA, lastTreeSHA string) ([]string, error) {
	if lastTreeSHA == "" {
		return nil, nil
	}
	return adapter.DeletedFiles(lastTreeSHA, treeSHA)
}
