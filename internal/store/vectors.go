package store

import (
	"fmt"

	"github.com/emberindex/ember/internal/errs"
)

// PutVector stores embedding for chunkID, persisting it to the vectors
// table (the durable copy) and inserting it into the in-memory HNSW
// graph (the queryable copy). At most one vector exists per chunk_id:
// re-adding an existing chunk ID lazily orphans its old graph node
// rather than deleting it, working around a coder/hnsw bug where
// deleting the last node corrupts the graph.
func (s *Store) PutVector(chunkID string, embedding []float32, modelFingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dims != 0 && len(embedding) != s.dims {
		return errs.New(errs.ModelMismatch,
			fmt.Sprintf("embedding for %s has %d dimensions, index expects %d", chunkID, len(embedding), s.dims)).
			WithSuggestion("Run `ember sync --force` to reindex with the current embedding model.")
	}

	blob := encodeEmbedding(embedding)
	_, err := s.db.Exec(`
		INSERT INTO vectors (chunk_id, embedding, dims, model_fingerprint)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET embedding = excluded.embedding, dims = excluded.dims, model_fingerprint = excluded.model_fingerprint
	`, chunkID, blob, len(embedding), modelFingerprint)
	if err != nil {
		return errs.New(errs.DatabaseError, fmt.Sprintf("put vector for %s", chunkID), err)
	}

	s.dims = len(embedding)
	s.insertIntoGraph(chunkID, embedding)
	return nil
}

// DeleteVectors removes the vectors for the given chunk IDs, both from
// the durable table and (lazily) from the in-memory graph.
func (s *Store) DeleteVectors(chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := make([]string, len(chunkIDs))
	args := make([]any, len(chunkIDs))
	for i, id := range chunkIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := "DELETE FROM vectors WHERE chunk_id IN (" + joinPlaceholders(placeholders) + ")"
	if _, err := s.db.Exec(query, args...); err != nil {
		return errs.New(errs.DatabaseError, "delete vectors", err)
	}

	for _, id := range chunkIDs {
		if key, ok := s.idMap[id]; ok {
			delete(s.keyMap, key)
			delete(s.idMap, id)
		}
	}
	return nil
}

// VectorCount returns the number of live (non-orphaned) vectors.
func (s *Store) VectorCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.idMap)
}

// AllVectorChunkIDs returns the chunk IDs with a live vector, used by
// the consistency check to compare against chunk table IDs.
func (s *Store) AllVectorChunkIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.idMap))
	for id := range s.idMap {
		ids = append(ids, id)
	}
	return ids
}

func joinPlaceholders(ph []string) string {
	out := ph[0]
	for _, p := range ph[1:] {
		out += "," + p
	}
	return out
}
