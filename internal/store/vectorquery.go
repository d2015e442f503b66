package store

import (
	"fmt"

	"github.com/emberindex/ember/internal/errs"
)

// VectorResult is one hit from the vector side of a hybrid search.
type VectorResult struct {
	ChunkID string
	Score   float64 // cosine similarity, higher is better
}

// QueryVector runs an approximate nearest-neighbor search over the
// in-memory HNSW graph: orphaned (lazily deleted) nodes are filtered
// out by the keyMap lookup, and cosine distance is converted to a 0..1
// similarity score.
func (s *Store) QueryVector(embedding []float32, k int) ([]VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dims != 0 && len(embedding) != s.dims {
		return nil, errs.New(errs.ModelMismatch,
			fmt.Sprintf("query embedding has %d dimensions, index expects %d", len(embedding), s.dims))
	}
	if s.graph.Len() == 0 {
		return nil, nil
	}

	query := make([]float32, len(embedding))
	copy(query, embedding)
	normalizeInPlace(query)

	nodes := s.graph.Search(query, k)
	results := make([]VectorResult, 0, len(nodes))
	for _, node := range nodes {
		chunkID, ok := s.keyMap[node.Key]
		if !ok {
			continue // orphaned by lazy deletion
		}
		distance := s.graph.Distance(query, node.Value)
		results = append(results, VectorResult{
			ChunkID: chunkID,
			Score:   1.0 - float64(distance)/2.0,
		})
	}
	return results, nil
}
