// Package cmd provides ember's CLI commands, one file per verb: a
// NewXCmd() cobra constructor per file, shared project-opening plumbing
// in this file.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/emberindex/ember/internal/chunk"
	"github.com/emberindex/ember/internal/embed"
	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/fsutil"
	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/orchestrator"
	"github.com/emberindex/ember/internal/projconfig"
	"github.com/emberindex/ember/internal/store"
	"github.com/emberindex/ember/internal/syncsvc"
	"github.com/emberindex/ember/internal/vcs"
)

// indexDirName is the index directory's name under the repository root.
const indexDirName = ".ember"

// stateFileName is the human-inspectable JSON mirror of the store's
// sync metadata.
const stateFileName = "state.json"

// UsageError marks an argument/flag error, mapped to exit code 2,
// distinct from the recoverable runtime errors that map to exit code 1.
type UsageError struct{ msg string }

func (e *UsageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// project bundles the components every verb (other than init) needs:
// the repository adapter, the store, the embedder, and the directory
// layout rooted at <repo>/.ember.
type project struct {
	Root     string
	IndexDir string
	VCS      *vcs.Adapter
	Store    *store.Store
	Embedder embed.Embedder
	Config   projconfig.Config
}

// openProject resolves the enclosing repository, opens its index, and
// loads its configuration. It fails with NotInitialized if `ember init`
// has not been run there yet.
func openProject(ctx context.Context) (*project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errs.New(errs.Unknown, "get current directory", err)
	}

	adapter, err := vcs.Open(cwd)
	if err != nil {
		return nil, err
	}

	indexDir := filepath.Join(adapter.Root(), indexDirName)
	dbPath := filepath.Join(indexDir, "index.db")
	if !fsutil.Exists(dbPath) {
		return nil, errs.New(errs.NotInitialized, "no ember index found in this repository", nil).
			WithSuggestion("Run `ember init` in your project root to initialize one.")
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	cfg, err := projconfig.Load(indexDir)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &project{
		Root:     adapter.Root(),
		IndexDir: indexDir,
		VCS:      adapter,
		Store:    st,
		Embedder: embed.NewEmbedder(ctx),
		Config:   cfg,
	}, nil
}

func (p *project) Close() {
	_ = p.Embedder.Close()
	_ = p.Store.Close()
}

// newOrchestrator wires an orchestrator.Orchestrator from the project's
// components, the same set of dependencies the sync gate needs.
func (p *project) newOrchestrator() *orchestrator.Orchestrator {
	return &orchestrator.Orchestrator{
		VCS:      p.VCS,
		Store:    p.Store,
		Embedder: p.Embedder,
		Chunker:  chunkerFor(p.Config),
		Markdown: markdownChunkerFor(p.Config),
	}
}

func (p *project) newGate() *syncsvc.Gate {
	return &syncsvc.Gate{VCS: p.VCS, Store: p.Store, Orchestrator: p.newOrchestrator()}
}

func chunkerFor(cfg projconfig.Config) *chunk.Chunker {
	return chunk.NewChunkerWithOptions(chunk.Options{
		MaxChunkTokens: cfg.Chunk.MaxTokens,
		OverlapTokens:  cfg.Chunk.OverlapTokens,
	})
}

func markdownChunkerFor(cfg projconfig.Config) *chunk.MarkdownChunker {
	return chunk.NewMarkdownChunkerWithOptions(chunk.Options{
		MaxChunkTokens: cfg.Chunk.MaxTokens,
		OverlapTokens:  cfg.Chunk.OverlapTokens,
	})
}

// writeStateFile mirrors the store's sync metadata to state.json, a
// human-inspectable snapshot kept alongside index.db.
func writeStateFile(indexDir string, resp orchestrator.Response, syncMode model.SyncMode, modelFingerprint string) error {
	rs := model.RepoState{
		LastTreeSHA:      resp.TreeSHA,
		LastSyncMode:     string(syncMode),
		ModelFingerprint: modelFingerprint,
		Version:          model.CurrentSchemaVersion,
		IndexedAt:        time.Now(),
	}
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return errs.New(errs.Unknown, "marshal state.json", err)
	}
	return fsutil.WriteFile(filepath.Join(indexDir, stateFileName), data, 0o644)
}

func readStateFile(indexDir string) (model.RepoState, error) {
	var rs model.RepoState
	data, err := fsutil.ReadFile(filepath.Join(indexDir, stateFileName))
	if err != nil {
		return rs, err
	}
	if err := json.Unmarshal(data, &rs); err != nil {
		return rs, errs.New(errs.Unknown, "parse state.json", err)
	}
	return rs, nil
}
