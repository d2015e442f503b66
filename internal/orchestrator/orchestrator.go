// Package orchestrator runs the indexing pipeline: verify model, detect
// changed files, delete removed files' chunks, load the embedder, index
// surviving files, and finalize the synced tree SHA. Phased around
// ember's single-store, git-tree-SHA model.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emberindex/ember/internal/chunk"
	"github.com/emberindex/ember/internal/chunkstore"
	"github.com/emberindex/ember/internal/detect"
	"github.com/emberindex/ember/internal/embed"
	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/filter"
	"github.com/emberindex/ember/internal/hashing"
	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/preprocess"
	"github.com/emberindex/ember/internal/store"
	"github.com/emberindex/ember/internal/vcs"
)

// Request is one sync invocation's input.
type Request struct {
	RepoRoot     string
	SyncMode     model.SyncMode
	Rev          string // only meaningful when SyncMode == SyncModeRev
	PathFilters  []string
	ForceReindex bool
}

// Response is the aggregated outcome of a sync.
type Response struct {
	TreeSHA       string
	IsIncremental bool
	FilesIndexed  int
	FilesFailed   int
	ChunksCreated int
	ChunksUpdated int
	ChunksDeleted int
	VectorsStored int
}

// Progress reports per-file-boundary progress during indexing, so a UI
// can render a live bar; progress is only reported at file boundaries,
// never mid-file.
type Progress interface {
	FileStarted(path string, index, total int)
	FileDone(path string, err error)
}

type noopProgress struct{}

func (noopProgress) FileStarted(string, int, int) {}
func (noopProgress) FileDone(string, error)       {}

// Orchestrator wires together the components a sync needs.
type Orchestrator struct {
	VCS      *vcs.Adapter
	Store    *store.Store
	Embedder embed.Embedder
	Chunker  *chunk.Chunker
	Markdown *chunk.MarkdownChunker
	Logger   *slog.Logger
}

// Run executes one full sync in six phases: verify, detect, delete,
// embed-load, index, finalize.
func (o *Orchestrator) Run(ctx context.Context, req Request, progress Progress) (Response, error) {
	if progress == nil {
		progress = noopProgress{}
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Phase: verify model.
	if err := o.verifyModel(req.ForceReindex); err != nil {
		return Response{}, err
	}

	// Phase: detect.
	treeSHA, err := o.resolveTreeSHA(req)
	if err != nil {
		return Response{}, err
	}
	lastTreeSHA, _, err := o.Store.GetMeta(model.MetaLastTreeSHA)
	if err != nil {
		return Response{}, errs.New(errs.DatabaseError, "read last tree sha", err)
	}

	plan, err := detect.Detect(o.VCS, treeSHA, lastTreeSHA, req.ForceReindex)
	if err != nil {
		return Response{}, err
	}
	if plan == nil {
		return Response{TreeSHA: treeSHA, IsIncremental: true}, nil
	}

	paths := filterCodeFiles(plan.Paths)
	paths = filter.ApplyPathFilters(paths, req.PathFilters, req.RepoRoot)

	// Phase: delete.
	var chunksDeleted int
	if plan.Incremental {
		deleted, err := detect.DeletedFiles(o.VCS, treeSHA, lastTreeSHA)
		if err != nil {
			return Response{}, err
		}
		for _, path := range deleted {
			ids, err := o.Store.DeleteChunksForPath(path)
			if err != nil {
				return Response{}, err
			}
			chunksDeleted += len(ids)
			if err := o.Store.DeleteFileState(path); err != nil {
				return Response{}, err
			}
		}
	}

	// Phase: load model (forces any lazy one-time load before the first file).
	if _, err := o.Embedder.Embed(ctx, ""); err != nil {
		return Response{}, errs.New(errs.Unknown, "load embedder", err)
	}

	// Phase: index files.
	resp := Response{TreeSHA: treeSHA, IsIncremental: plan.Incremental, ChunksDeleted: chunksDeleted}
	svc := chunkstore.New(o.Store, o.Embedder, logger)

	for i, path := range paths {
		select {
		case <-ctx.Done():
			return resp, ctx.Err()
		default:
		}

		progress.FileStarted(path, i+1, len(paths))
		err := o.indexFile(ctx, svc, req.RepoRoot, path, treeSHA, req.SyncMode, &resp)
		progress.FileDone(path, err)
		if err != nil {
			if errs.IsFatal(err) {
				return resp, err
			}
			resp.FilesFailed++
			logger.Warn("indexing file failed", "path", path, "error", err)
			continue
		}
		resp.FilesIndexed++
	}

	// Phase: finalize.
	if err := o.Store.SetMeta(model.MetaModelFingerprint, o.Embedder.Fingerprint()); err != nil {
		return resp, errs.New(errs.DatabaseError, "write model fingerprint", err)
	}
	if err := o.Store.SetMeta(model.MetaLastSyncMode, string(req.SyncMode)); err != nil {
		return resp, errs.New(errs.DatabaseError, "write last sync mode", err)
	}
	if err := o.Store.SetMeta(model.MetaLastTreeSHA, treeSHA); err != nil {
		return resp, errs.New(errs.DatabaseError, "write last tree sha", err)
	}

	return resp, nil
}

func (o *Orchestrator) verifyModel(forceReindex bool) error {
	stored, found, err := o.Store.GetMeta(model.MetaModelFingerprint)
	if err != nil {
		return errs.New(errs.DatabaseError, "read model fingerprint", err)
	}
	if !found {
		return nil
	}
	if stored == o.Embedder.Fingerprint() {
		return nil
	}
	if forceReindex {
		return nil
	}
	return errs.New(errs.ModelMismatch, "embedding model has changed since the last sync", nil).
		WithSuggestion("Run `ember sync --reindex` to rebuild the index with the current model.")
}

func (o *Orchestrator) resolveTreeSHA(req Request) (string, error) {
	switch req.SyncMode {
	case model.SyncModeStaged:
		return o.VCS.StagedTreeSHA()
	case model.SyncModeRev:
		return o.VCS.TreeSHA(req.Rev)
	default:
		return o.VCS.WorktreeTreeSHA()
	}
}

func (o *Orchestrator) indexFile(ctx context.Context, svc *chunkstore.Service, repoRoot, path, treeSHA string, mode model.SyncMode, resp *Response) error {
	pre, err := preprocess.Preprocess(repoRoot, path)
	if err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}

	results, err := o.chunkFile(ctx, path, pre)
	if err != nil {
		return fmt.Errorf("chunk: %w", err)
	}

	if _, err := o.Store.DeleteChunksForPath(path); err != nil {
		return fmt.Errorf("delete old chunks: %w", err)
	}

	projectID := hashing.ProjectID(repoRoot)
	rev := model.RevWorktree
	if mode == model.SyncModeRev {
		rev = treeSHA
	}

	chunks := make([]model.Chunk, 0, len(results))
	for _, r := range results {
		if len(strings.TrimSpace(r.Content)) == 0 {
			continue
		}
		contentHash := hashing.Sum([]byte(r.Content))
		chunks = append(chunks, model.Chunk{
			ID: hashing.ChunkID(hashing.ChunkFields{
				ProjectID: projectID,
				Path:      pre.RelPath,
				Lang:      pre.Lang,
				Symbol:    r.Symbol,
				StartLine: r.StartLine,
				EndLine:   r.EndLine,
				Content:   r.Content,
			}),
			ProjectID:   projectID,
			Path:        pre.RelPath,
			Lang:        pre.Lang,
			Symbol:      r.Symbol,
			StartLine:   r.StartLine,
			EndLine:     r.EndLine,
			Content:     r.Content,
			ContentHash: contentHash,
			FileHash:    pre.FileHash,
			TreeSHA:     treeSHA,
			Rev:         rev,
		})
	}

	result, err := svc.Store(ctx, chunks)
	if err != nil {
		return err
	}
	resp.ChunksCreated += result.ChunksCreated
	resp.ChunksUpdated += result.ChunksUpdated
	resp.VectorsStored += result.VectorsStored

	return o.Store.PutFileState(model.FileState{
		Path:     pre.RelPath,
		FileHash: pre.FileHash,
		Size:     pre.FileSize,
		ModTime:  time.Now(),
	})
}

func (o *Orchestrator) chunkFile(ctx context.Context, path string, pre preprocess.File) ([]chunk.Result, error) {
	if pre.Lang == "md" {
		return o.Markdown.Chunk(ctx, []byte(pre.Content)), nil
	}
	return o.Chunker.Chunk(ctx, path, pre.Lang, []byte(pre.Content))
}

func filterCodeFiles(paths []string) []string {
	var out []string
	for _, p := range paths {
		if filter.IsCodeFile(p) {
			out = append(out, p)
		}
	}
	return out
}
