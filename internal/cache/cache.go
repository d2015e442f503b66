// Package cache implements the result cache and its two lookup paths.
// After every successful search, the ranked result list is serialized to
// `.last_search.json` inside the index directory. Lookup by numeric index
// reads that file; lookup by identifier prefix bypasses it entirely and
// queries the store. The run is tagged with a google/uuid id so repeated
// queries during debugging can be told apart.
package cache

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/fsutil"
	"github.com/emberindex/ember/internal/model"
)

// FileName is the cache file's name inside the index directory.
const FileName = ".last_search.json"

// PathFor returns the cache file path for an index directory.
func PathFor(indexDir string) string {
	return filepath.Join(indexDir, FileName)
}

// Save serializes a ranked result list, tagging it with a fresh run id.
func Save(indexDir string, q model.Query, results []*model.SearchResult) (model.CachedSearch, error) {
	cs := model.CachedSearch{
		RunID:   uuid.NewString(),
		Query:   q,
		Results: results,
	}
	data, err := json.MarshalIndent(cs, "", "  ")
	if err != nil {
		return cs, errs.New(errs.Unknown, "serialize search cache", err)
	}
	if err := fsutil.WriteFile(PathFor(indexDir), data, 0o644); err != nil {
		return cs, errs.New(errs.PermissionError, "write search cache", err)
	}
	return cs, nil
}

// Load reads the last cached search, or errs.NotInitialized if no
// search has ever been cached.
func Load(indexDir string) (model.CachedSearch, error) {
	path := PathFor(indexDir)
	if !fsutil.Exists(path) {
		return model.CachedSearch{}, errs.New(errs.NotInitialized, "no cached search results", nil).
			WithSuggestion("Run `ember find <query>` first.")
	}
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return model.CachedSearch{}, errs.New(errs.PermissionError, "read search cache", err)
	}
	var cs model.CachedSearch
	if err := json.Unmarshal(data, &cs); err != nil {
		return model.CachedSearch{}, errs.New(errs.DatabaseError, "parse search cache", err)
	}
	return cs, nil
}

// ByIndex returns the n-th (1-based) result from a cached search.
func ByIndex(cs model.CachedSearch, n int) (*model.SearchResult, error) {
	if n < 1 || n > len(cs.Results) {
		return nil, errs.New(errs.IndexOutOfRange,
			fmt.Sprintf("result %d is out of range (last search had %d results)", n, len(cs.Results)), nil).
			WithSuggestion("Run `ember find <query>` again and pick a number from its output.")
	}
	return cs.Results[n-1], nil
}
