package cmd

import (
	"strconv"

	"github.com/emberindex/ember/internal/cache"
	"github.com/emberindex/ember/internal/model"
)

// resolveChunk implements the dual lookup shared by `cat`/`open`: a
// bare integer indexes into the last cached search, anything else is
// treated as a chunk id prefix against the store.
func resolveChunk(p *project, arg string) (model.Chunk, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		cs, err := cache.Load(p.IndexDir)
		if err != nil {
			return model.Chunk{}, err
		}
		r, err := cache.ByIndex(cs, n)
		if err != nil {
			return model.Chunk{}, err
		}
		return *r.Chunk, nil
	}
	return cache.ByIDPrefix(p.Store, arg)
}
