package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRRFFusion_Fuse_EmptyBothSides(t *testing.T) {
	f := NewRRFFusion()
	results := f.Fuse(nil, nil)
	assert.Empty(t, results)
}

func TestRRFFusion_Fuse_PrefersDocumentInBothLists(t *testing.T) {
	f := NewRRFFusion()
	text := []TextHit{{ChunkID: "a", Score: 10}, {ChunkID: "b", Score: 9}}
	vec := []VectorHit{{ChunkID: "b", Score: 0.9}}

	results := f.Fuse(text, vec)
	assert.Len(t, results, 2)
	assert.Equal(t, "b", results[0].ChunkID)
	assert.True(t, results[0].InBothLists)
}

func TestRRFFusion_Fuse_TiesBreakByChunkID(t *testing.T) {
	f := NewRRFFusion()
	text := []TextHit{{ChunkID: "z", Score: 5}, {ChunkID: "a", Score: 5}}
	vec := []VectorHit{{ChunkID: "a", Score: 0.5}, {ChunkID: "z", Score: 0.5}}

	results := f.Fuse(text, vec)
	assert.Equal(t, "a", results[0].ChunkID)
}

func TestRRFFusion_Fuse_Deterministic(t *testing.T) {
	f := NewRRFFusion()
	text := []TextHit{{ChunkID: "a", Score: 3}, {ChunkID: "b", Score: 2}}
	vec := []VectorHit{{ChunkID: "c", Score: 0.5}, {ChunkID: "a", Score: 0.4}}

	r1 := f.Fuse(text, vec)
	r2 := f.Fuse(text, vec)
	assertSameOrder(t, r1, r2)
}

func assertSameOrder(t *testing.T, a, b []*FusedResult) {
	t.Helper()
	assert.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ChunkID, b[i].ChunkID)
	}
}

func TestRRFFusion_Fuse_NormalizesToUnitMax(t *testing.T) {
	f := NewRRFFusion()
	text := []TextHit{{ChunkID: "a", Score: 1}, {ChunkID: "b", Score: 1}}

	results := f.Fuse(text, nil)
	assert.Equal(t, 1.0, results[0].RRFScore)
}
