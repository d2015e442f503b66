package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/fsutil"
	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/orchestrator"
	"github.com/emberindex/ember/internal/output"
	"github.com/emberindex/ember/internal/projconfig"
	"github.com/emberindex/ember/internal/store"
	"github.com/emberindex/ember/internal/vcs"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the index directory and schema for this repository",
		Long: `init creates <repo>/.ember, opens a fresh index.db with the current
schema, and seeds a user-global config on first run. Refuses to
overwrite an existing index unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing index")
	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	out := output.New(cmd.OutOrStdout())

	cwd, err := os.Getwd()
	if err != nil {
		return errs.New(errs.Unknown, "get current directory", err)
	}

	adapter, err := vcs.Open(cwd)
	if err != nil {
		return err
	}

	indexDir := filepath.Join(adapter.Root(), indexDirName)
	dbPath := filepath.Join(indexDir, "index.db")

	if fsutil.Exists(dbPath) {
		if !force {
			return errs.New(errs.AlreadyInitialized, "this repository already has an ember index", nil).
				WithSuggestion("Run `ember init --force` to reinitialize.")
		}
		if err := os.RemoveAll(indexDir); err != nil {
			return errs.New(errs.PermissionError, "remove existing index directory", err)
		}
	}

	if err := fsutil.MkdirAll(indexDir); err != nil {
		return errs.New(errs.PermissionError, "create index directory", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := projconfig.SeedUserConfig(); err != nil {
		return err
	}

	// A freshly initialized repo has no sync history yet, but state.json
	// always exists once init has run, so `ember status` has a
	// well-formed (all-zero) snapshot to read before the first sync.
	if err := writeStateFile(indexDir, orchestrator.Response{}, model.SyncModeWorktree, ""); err != nil {
		return err
	}

	out.Success("Initialized ember index at " + indexDir)
	out.Status("", "Run `ember sync` to index the repository.")
	return nil
}
