// Package embed implements the embedder capability: embed_texts(strings)
// -> L2-normalized fixed-dim vectors, plus a fingerprint that changes if
// and only if the model or its effective configuration changes. This
// repo ships a single local hash-based model — see DESIGN.md for why
// network-backed embedding backends were dropped.
package embed

import (
	"context"
	"math"
)

const (
	// Dimensions is the embedding dimension produced by every Embedder
	// in this package. Kept fixed so vectors from different syncs of
	// the same model remain comparable.
	Dimensions = 768

	// DefaultCacheSize is the default LRU cache size for CachedEmbedder.
	DefaultCacheSize = 1000
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for N texts, returning N vectors
	// in the same order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension.
	Dimensions() int

	// Fingerprint is a short stable string identifying the model and
	// its effective configuration. Stored alongside vectors so a model
	// change is detectable when the next sync starts.
	Fingerprint() string

	// Close releases resources held by the embedder.
	Close() error
}

// normalizeVector L2-normalizes v, returning a new unit-length slice.
// A zero vector is returned unchanged.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}
	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, val := range v {
		out[i] = float32(float64(val) / magnitude)
	}
	return out
}
