package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/orchestrator"
	"github.com/emberindex/ember/internal/output"
	"github.com/emberindex/ember/internal/syncsvc"
	"github.com/emberindex/ember/internal/ui"
)

func newSyncCmd() *cobra.Command {
	var (
		worktree bool
		staged   bool
		rev      string
		reindex  bool
		in       []string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the indexing orchestrator over the repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, revArg, err := resolveSyncMode(worktree, staged, rev)
			if err != nil {
				return err
			}
			return runSync(cmd, mode, revArg, reindex, in)
		},
	}

	cmd.Flags().BoolVar(&worktree, "worktree", false, "Sync against the current worktree (default)")
	cmd.Flags().BoolVar(&staged, "staged", false, "Sync against the staging area")
	cmd.Flags().StringVar(&rev, "rev", "", "Sync against a specific git ref")
	cmd.Flags().BoolVar(&reindex, "reindex", false, "Force a full reindex, bypassing model-mismatch protection")
	cmd.Flags().StringArrayVar(&in, "in", nil, "Restrict sync to paths matching this glob (repeatable)")

	return cmd
}

func resolveSyncMode(worktree, staged bool, rev string) (model.SyncMode, string, error) {
	count := 0
	if worktree {
		count++
	}
	if staged {
		count++
	}
	if rev != "" {
		count++
	}
	if count > 1 {
		return "", "", usageErrorf("--worktree, --staged, and --rev are mutually exclusive")
	}
	switch {
	case staged:
		return model.SyncModeStaged, "", nil
	case rev != "":
		return model.SyncModeRev, rev, nil
	default:
		return model.SyncModeWorktree, "", nil
	}
}

func runSync(cmd *cobra.Command, mode model.SyncMode, rev string, reindex bool, in []string) error {
	p, err := openProject(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	lock := syncsvc.NewLock(p.IndexDir)
	locked, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !locked {
		return fmt.Errorf("another ember sync is already running against this index")
	}
	defer lock.Unlock()

	renderer := ui.NewRenderer(ui.NewConfig(os.Stdout, ui.WithProjectDir(p.Root)))
	progress, err := ui.NewSyncProgress(cmd.Context(), renderer)
	if err != nil {
		return err
	}

	req := orchestrator.Request{
		RepoRoot:     p.Root,
		SyncMode:     mode,
		Rev:          rev,
		PathFilters:  in,
		ForceReindex: reindex,
	}

	resp, err := p.newOrchestrator().Run(cmd.Context(), req, progress)
	_ = progress.Finish(resp.FilesIndexed, resp.ChunksCreated+resp.ChunksUpdated, resp.FilesFailed)
	if err != nil {
		return err
	}

	if err := writeStateFile(p.IndexDir, resp, mode, p.Embedder.Fingerprint()); err != nil {
		return err
	}

	out := output.New(cmd.OutOrStdout())
	summary := fmt.Sprintf("Synced %s: %d files indexed, %d failed, %d chunks created, %d updated, %d vectors stored",
		resp.TreeSHA[:min(12, len(resp.TreeSHA))], resp.FilesIndexed, resp.FilesFailed,
		resp.ChunksCreated, resp.ChunksUpdated, resp.VectorsStored)
	if resp.ChunksDeleted > 0 {
		summary += fmt.Sprintf(", %d deleted", resp.ChunksDeleted)
	}
	out.Success(summary)
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
