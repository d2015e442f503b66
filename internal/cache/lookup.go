package cache

import (
	"fmt"
	"strings"

	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/model"
)

// maxAmbiguousListing caps how many candidates an AmbiguousIDPrefix
// error enumerates.
const maxAmbiguousListing = 5

// ChunkFinder is the subset of *store.Store the prefix lookup needs.
type ChunkFinder interface {
	FindByIDPrefix(prefix string) ([]model.Chunk, error)
}

// ByIDPrefix resolves a (possibly short) chunk id prefix to the one
// chunk it identifies, bypassing the result cache entirely.
func ByIDPrefix(store ChunkFinder, prefix string) (model.Chunk, error) {
	matches, err := store.FindByIDPrefix(prefix)
	if err != nil {
		return model.Chunk{}, err
	}
	if len(matches) == 0 {
		return model.Chunk{}, errs.New(errs.IndexOutOfRange,
			fmt.Sprintf("no chunk found with id prefix %q", prefix), nil)
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	listed := matches
	if len(listed) > maxAmbiguousListing {
		listed = listed[:maxAmbiguousListing]
	}
	ids := make([]string, len(listed))
	for i, c := range listed {
		ids[i] = shortID(c.ID)
	}
	return model.Chunk{}, errs.New(errs.AmbiguousIDPrefix,
		fmt.Sprintf("%q matches %d chunks: %s", prefix, len(matches), strings.Join(ids, ", ")), nil).
		WithSuggestion("Use more characters of the id to disambiguate.")
}

func shortID(id string) string {
	const n = 12
	if len(id) <= n {
		return id
	}
	return id[:n]
}
