// Package search implements hybrid search: fuse the store's full-text
// and vector result lists with Reciprocal Rank Fusion, then hydrate the
// top results into full chunks.
package search

import "sort"

// DefaultRRFConstant is the standard RRF smoothing parameter, k=60,
// matching Azure AI Search / OpenSearch (see DESIGN.md).
const DefaultRRFConstant = 60

// FusedResult is one candidate after RRF fusion, before hydration.
type FusedResult struct {
	ChunkID     string
	RRFScore    float64
	TextScore   float64
	TextRank    int
	VecScore    float64
	VecRank     int
	InBothLists bool
}

// RRFFusion combines text and vector result lists.
type RRFFusion struct {
	K int
}

// NewRRFFusion creates an RRF fusion instance with the default k=60.
func NewRRFFusion() *RRFFusion {
	return &RRFFusion{K: DefaultRRFConstant}
}

// Fuse combines text and vector results, sorted by RRFScore (desc) →
// InBothLists → TextScore (desc) → ChunkID (asc) for a deterministic
// ordering given identical inputs.
func (f *RRFFusion) Fuse(text []TextHit, vec []VectorHit) []*FusedResult {
	if len(text) == 0 && len(vec) == 0 {
		return []*FusedResult{}
	}

	scores := make(map[string]*FusedResult, len(text)+len(vec))

	for rank, r := range text {
		result := f.getOrCreate(scores, r.ChunkID)
		result.TextScore = r.Score
		result.TextRank = rank + 1
		result.RRFScore += 1.0 / float64(f.K+rank+1)
	}

	for rank, r := range vec {
		result := f.getOrCreate(scores, r.ChunkID)
		result.VecScore = r.Score
		result.VecRank = rank + 1
		result.RRFScore += 1.0 / float64(f.K+rank+1)
		if result.TextRank > 0 {
			result.InBothLists = true
		}
	}

	missingRank := f.missingRank(len(text), len(vec))
	for _, r := range scores {
		if r.TextRank == 0 && r.VecRank > 0 {
			r.RRFScore += 1.0 / float64(f.K+missingRank)
		}
		if r.VecRank == 0 && r.TextRank > 0 {
			r.RRFScore += 1.0 / float64(f.K+missingRank)
		}
	}

	results := f.sorted(scores)
	f.normalize(results)
	return results
}

// TextHit mirrors store.TextResult without importing internal/store,
// keeping this package's fusion core independent of the store.
type TextHit struct {
	ChunkID string
	Score   float64
}

// VectorHit mirrors store.VectorResult.
type VectorHit struct {
	ChunkID string
	Score   float64
}

func (f *RRFFusion) getOrCreate(m map[string]*FusedResult, id string) *FusedResult {
	if r, ok := m[id]; ok {
		return r
	}
	r := &FusedResult{ChunkID: id}
	m[id] = r
	return r
}

func (f *RRFFusion) missingRank(textLen, vecLen int) int {
	if textLen > vecLen {
		return textLen + 1
	}
	return vecLen + 1
}

func (f *RRFFusion) sorted(m map[string]*FusedResult) []*FusedResult {
	results := make([]*FusedResult, 0, len(m))
	for _, r := range m {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return f.less(results[i], results[j])
	})
	return results
}

func (f *RRFFusion) less(a, b *FusedResult) bool {
	if a.RRFScore != b.RRFScore {
		return a.RRFScore > b.RRFScore
	}
	if a.InBothLists != b.InBothLists {
		return a.InBothLists
	}
	if a.TextScore != b.TextScore {
		return a.TextScore > b.TextScore
	}
	return a.ChunkID < b.ChunkID
}

func (f *RRFFusion) normalize(results []*FusedResult) {
	if len(results) == 0 {
		return
	}
	maxScore := results[0].RRFScore
	if maxScore == 0 {
		return
	}
	for _, r := range results {
		r.RRFScore /= maxScore
	}
}
