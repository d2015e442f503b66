// Package chunkstore implements the transactional heart of indexing:
// embed a file's chunks, classify each as new or updated by content
// hash, persist chunk+vector pairs, and roll back every chunk it wrote
// if anything after the embedding step fails. Writes go through
// ember's single combined store rather than separate text and vector
// writers.
package chunkstore

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/emberindex/ember/internal/embed"
	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/store"
)

// Result reports what one Store call did.
type Result struct {
	ChunksCreated int
	ChunksUpdated int
	VectorsStored int
	Failed        bool
}

// Service is the chunk storage service: one embedder and the index
// store it writes into.
type Service struct {
	store    *store.Store
	embedder embed.Embedder
	logger   *slog.Logger
}

// New creates a chunk storage Service. A nil logger falls back to
// slog.Default().
func New(st *store.Store, embedder embed.Embedder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, embedder: embedder, logger: logger}
}

// Store persists chunks for one path: embed first (one batch,
// fail-fast), validate the embedding count matches the chunk count,
// classify each chunk as new or updated by content hash, then persist
// chunk+vector pairs in order. Any failure from classification onward
// rolls back every chunk this call inserted.
//
// Old chunks for path must already be deleted by the caller (the
// orchestrator's delete phase) before this runs, to give replacement
// semantics.
func (s *Service) Store(ctx context.Context, chunks []model.Chunk) (Result, error) {
	if len(chunks) == 0 {
		return Result{}, nil
	}

	contents := make([]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
	}

	vectors, err := s.embedder.EmbedBatch(ctx, contents)
	if err != nil {
		return Result{Failed: true}, errs.New(errs.Unknown, "embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return Result{Failed: true}, errs.New(errs.Unknown, "embedding count mismatch", nil).
			WithDetail("chunks", strconv.Itoa(len(chunks))).
			WithDetail("vectors", strconv.Itoa(len(vectors)))
	}

	fingerprint := s.embedder.Fingerprint()
	var written []string
	result, err := s.persist(chunks, vectors, fingerprint, &written)
	if err != nil {
		s.rollback(written)
		result.Failed = true
		return result, err
	}
	return result, nil
}

func (s *Service) persist(chunks []model.Chunk, vectors [][]float32, fingerprint string, written *[]string) (Result, error) {
	var result Result
	for i, c := range chunks {
		_, found, err := s.store.FindByContentHash(c.ContentHash)
		if err != nil {
			return result, errs.New(errs.DatabaseError, "classify chunk", err)
		}
		if found {
			result.ChunksUpdated++
		} else {
			result.ChunksCreated++
		}

		if err := s.store.PutChunk(c); err != nil {
			return result, errs.New(errs.DatabaseError, "persist chunk", err)
		}
		*written = append(*written, c.ID)

		if err := s.store.PutVector(c.ID, vectors[i], fingerprint); err != nil {
			return result, errs.New(errs.DatabaseError, "persist vector", err)
		}
		result.VectorsStored++
	}
	return result, nil
}

// rollback deletes every chunk id this call wrote. Individual delete
// failures are logged and do not short-circuit the rest of the
// rollback.
func (s *Service) rollback(chunkIDs []string) {
	if len(chunkIDs) == 0 {
		return
	}
	if err := s.store.DeleteVectors(chunkIDs); err != nil {
		s.logger.Warn("rollback: delete vectors failed", "error", err, "count", len(chunkIDs))
	}
	if err := s.store.DeleteChunksByID(chunkIDs); err != nil {
		s.logger.Warn("rollback: delete chunks failed", "error", err, "count", len(chunkIDs))
	}
}
