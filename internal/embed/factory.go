package embed

import (
	"context"
	"os"
	"strings"
)

// NewEmbedder builds ember's embedder: a StaticEmbedder wrapped in an
// LRU cache, unless the cache is disabled via EMBER_EMBED_CACHE.
//
// ember ships a single local embedder backend (no network model
// download, no external provider dependency — see DESIGN.md), so this
// factory has nothing to select between; it exists to keep embedder
// construction in one place and to give callers a context.Context for
// symmetry with a future backend.
func NewEmbedder(_ context.Context) Embedder {
	var embedder Embedder = NewStaticEmbedder()
	if !isCacheDisabled() {
		embedder = NewCachedEmbedderWithDefaults(embedder)
	}
	return embedder
}

func isCacheDisabled() bool {
	v := strings.ToLower(os.Getenv("EMBER_EMBED_CACHE"))
	return v == "false" || v == "0" || v == "off" || v == "disabled"
}
