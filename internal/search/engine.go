// Package search implements hybrid search: embed the query, fetch
// candidates from both the text and vector sides of the store, fuse
// them with Reciprocal Rank Fusion, hydrate the survivors into full
// chunks, and attach a preview and a one-line explanation of which
// signal dominated. Deliberately single-pass — no query classifier,
// expander, reranker, or multi-query stages.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/emberindex/ember/internal/embed"
	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/filter"
	"github.com/emberindex/ember/internal/model"
	"github.com/emberindex/ember/internal/store"
)

// Store is the subset of *store.Store the engine needs, named so tests
// can substitute a fake.
type Store interface {
	QueryText(query string, limit int) ([]store.TextResult, error)
	QueryVector(embedding []float32, k int) ([]store.VectorResult, error)
	GetChunk(id string) (model.Chunk, bool, error)
}

// Engine runs hybrid search over a store and an embedder.
type Engine struct {
	store    Store
	embedder embed.Embedder
	fusion   *RRFFusion
}

// New creates a hybrid search Engine.
func New(st Store, embedder embed.Embedder) *Engine {
	return &Engine{store: st, embedder: embedder, fusion: NewRRFFusion()}
}

// Search embeds the query, fetches and fuses candidates, and returns a
// strictly ordered, fully hydrated result list.
func (e *Engine) Search(ctx context.Context, q model.Query) ([]*model.SearchResult, error) {
	topK := q.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	overfetch := topK * OverfetchFactor

	queryVec, err := e.embedder.Embed(ctx, q.Text)
	if err != nil {
		return nil, errs.New(errs.Unknown, "embed query", err)
	}

	textHits, err := e.store.QueryText(q.Text, overfetch)
	if err != nil {
		return nil, err
	}
	vecHits, err := e.store.QueryVector(queryVec, overfetch)
	if err != nil {
		return nil, err
	}

	fused := e.fusion.Fuse(toTextHits(textHits), toVectorHits(vecHits))

	results := make([]*model.SearchResult, 0, topK)
	for _, f := range fused {
		if len(results) >= topK {
			break
		}
		c, found, err := e.store.GetChunk(f.ChunkID)
		if err != nil {
			return nil, err
		}
		if !found {
			continue // stale fusion candidate; its chunk was deleted since indexing
		}
		if !matchesFilters(c, q) {
			continue
		}
		results = append(results, &model.SearchResult{
			Rank:        len(results) + 1,
			Score:       f.RRFScore,
			Chunk:       &c,
			Preview:     preview(c),
			Explanation: explain(f),
		})
	}
	return results, nil
}

func matchesFilters(c model.Chunk, q model.Query) bool {
	if q.LangFilter != "" && c.Lang != q.LangFilter {
		return false
	}
	if q.PathFilter != "" {
		matched := filter.ApplyPathFilters([]string{c.Path}, []string{q.PathFilter}, "")
		if len(matched) == 0 {
			return false
		}
	}
	return true
}

// preview is the chunk's symbol signature if it has one, otherwise its
// first non-blank line.
func preview(c model.Chunk) string {
	if c.Symbol != "" {
		return c.Symbol
	}
	for _, line := range strings.Split(c.Content, "\n") {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// explain names which signal dominated the fused score.
func explain(f *FusedResult) string {
	switch {
	case f.InBothLists:
		return "matched both text and semantic search"
	case f.TextRank > 0:
		return "matched text search"
	case f.VecRank > 0:
		return "matched semantic search"
	default:
		return fmt.Sprintf("rank score %.3f", f.RRFScore)
	}
}

func toTextHits(in []store.TextResult) []TextHit {
	out := make([]TextHit, len(in))
	for i, r := range in {
		out[i] = TextHit{ChunkID: r.ChunkID, Score: r.Score}
	}
	return out
}

func toVectorHits(in []store.VectorResult) []VectorHit {
	out := make([]VectorHit, len(in))
	for i, r := range in {
		out[i] = VectorHit{ChunkID: r.ChunkID, Score: r.Score}
	}
	return out
}
