package syncsvc

import (
	"context"
	"fmt"

	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/orchestrator"
	"github.com/emberindex/ember/internal/store"
	"github.com/emberindex/ember/internal/vcs"
)

// Gate implements the staleness gate: is_stale() runs before every
// search unless the caller opts out, and when stale it invokes the
// orchestrator. A failed refresh never aborts the calling search — it
// downgrades to a warning instead.
type Gate struct {
	VCS          *vcs.Adapter
	Store        *store.Store
	Orchestrator *orchestrator.Orchestrator
}

// Outcome reports what EnsureFresh did.
type Outcome struct {
	Synced  bool
	Warning string
	Kind    errs.Kind // empty when Warning is empty
}

// IsStale reports whether the worktree's current tree SHA differs from
// meta.last_tree_sha.
func (g *Gate) IsStale() (bool, error) {
	current, err := g.VCS.WorktreeTreeSHA()
	if err != nil {
		return false, err
	}
	last, found, err := g.Store.GetMeta(model.MetaLastTreeSHA)
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	return current != last, nil
}

// EnsureFresh runs is_stale and, if stale, triggers a sync with req.
// It never returns an error: refresh failures are reported as a
// warning so the caller can still search against the last good state.
func (g *Gate) EnsureFresh(ctx context.Context, req orchestrator.Request) Outcome {
	stale, err := g.IsStale()
	if err != nil {
		kind := ClassifyRefreshError(err)
		return Outcome{
			Warning: fmt.Sprintf("could not check index freshness (%s): %v", kind, err),
			Kind:    kind,
		}
	}
	if !stale {
		return Outcome{}
	}

	if _, err := g.Orchestrator.Run(ctx, req, nil); err != nil {
		kind := ClassifyRefreshError(err)
		return Outcome{
			Warning: fmt.Sprintf("index refresh failed (%s): %v; showing results from the last synced state", kind, err),
			Kind:    kind,
		}
	}
	return Outcome{Synced: true}
}
