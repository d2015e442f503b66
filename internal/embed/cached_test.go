package embed

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEmbedder is a test double that counts calls.
type mockEmbedder struct {
	embedCalls     atomic.Int64
	batchCalls     atomic.Int64
	dimensions     int
	fingerprint    string
	returnedVector []float32
}

func newMockEmbedder(dims int) *mockEmbedder {
	vec := make([]float32, dims)
	for i := range vec {
		vec[i] = float32(i) * 0.001
	}
	return &mockEmbedder{
		dimensions:     dims,
		fingerprint:    "mock-model",
		returnedVector: vec,
	}
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.embedCalls.Add(1)
	return m.returnedVector, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.batchCalls.Add(1)
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.returnedVector
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int {
	return m.dimensions
}

func (m *mockEmbedder) Fingerprint() string {
	return m.fingerprint
}

func (m *mockEmbedder) Close() error {
	return nil
}

func TestCachedEmbedder_ImplementsEmbedderInterface(t *testing.T) {
	inner := newMockEmbedder(768)
	cached := NewCachedEmbedder(inner, 100)
	defer func() { _ = cached.Close() }()

	var _ Embedder = cached
}

func TestCachedEmbedder_CacheHit_ReturnsWithoutCallingInner(t *testing.T) {
	inner := newMockEmbedder(768)
	cached := NewCachedEmbedder(inner, 100)
	defer func() { _ = cached.Close() }()

	ctx := context.Background()
	text := "func add(a, b int) int { return a + b }"

	result1, err1 := cached.Embed(ctx, text)
	result2, err2 := cached.Embed(ctx, text)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, int64(1), inner.embedCalls.Load(), "inner should be called once")
	assert.Equal(t, result1, result2)
}

func TestCachedEmbedder_CacheMiss_CallsInnerForNewText(t *testing.T) {
	inner := newMockEmbedder(768)
	cached := NewCachedEmbedder(inner, 100)
	defer func() { _ = cached.Close() }()

	ctx := context.Background()
	_, err1 := cached.Embed(ctx, "text one")
	_, err2 := cached.Embed(ctx, "text two")
	_, err3 := cached.Embed(ctx, "text three")

	require.NoError(t, err1)
	require.NoError(t, err2)
	require.NoError(t, err3)
	assert.Equal(t, int64(3), inner.embedCalls.Load())
}

func TestCachedEmbedder_Dimensions_ReturnsInnerDimensions(t *testing.T) {
	inner := newMockEmbedder(1024)
	cached := NewCachedEmbedder(inner, 100)
	defer func() { _ = cached.Close() }()

	assert.Equal(t, 1024, cached.Dimensions())
}

func TestCachedEmbedder_Fingerprint_ReturnsInnerFingerprint(t *testing.T) {
	inner := newMockEmbedder(768)
	inner.fingerprint = "custom-model-v2"
	cached := NewCachedEmbedder(inner, 100)
	defer func() { _ = cached.Close() }()

	assert.Equal(t, "custom-model-v2", cached.Fingerprint())
}

func TestCachedEmbedder_EmbedBatch_CachesIndividualResults(t *testing.T) {
	inner := newMockEmbedder(768)
	cached := NewCachedEmbedder(inner, 100)
	defer func() { _ = cached.Close() }()

	ctx := context.Background()
	texts := []string{"text1", "text2", "text3"}

	_, err1 := cached.EmbedBatch(ctx, texts)
	require.NoError(t, err1)

	_, err2 := cached.Embed(ctx, "text1")
	require.NoError(t, err2)
	assert.Equal(t, int64(0), inner.embedCalls.Load(), "individual Embed should hit batch cache")
}

func TestCachedEmbedder_Close_ClosesInner(t *testing.T) {
	inner := newMockEmbedder(768)
	cached := NewCachedEmbedder(inner, 100)

	err := cached.Close()
	assert.NoError(t, err)
}

func TestNewCachedEmbedderWithDefaults_UsesDefaultCacheSize(t *testing.T) {
	inner := newMockEmbedder(768)
	cached := NewCachedEmbedderWithDefaults(inner)
	defer func() { _ = cached.Close() }()

	_, err := cached.Embed(context.Background(), "test")
	require.NoError(t, err)
}

func TestCachedEmbedder_CacheEviction_OldestEvictedFirst(t *testing.T) {
	inner := newMockEmbedder(768)
	cached := NewCachedEmbedder(inner, 3)
	defer func() { _ = cached.Close() }()

	ctx := context.Background()
	_, _ = cached.Embed(ctx, "text1")
	_, _ = cached.Embed(ctx, "text2")
	_, _ = cached.Embed(ctx, "text3")
	_, _ = cached.Embed(ctx, "text4")

	inner.embedCalls.Store(0)
	_, err := cached.Embed(ctx, "text1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), inner.embedCalls.Load(), "evicted text should require new embedding")

	inner.embedCalls.Store(0)
	_, _ = cached.Embed(ctx, "text3")
	_, _ = cached.Embed(ctx, "text4")
	assert.Equal(t, int64(0), inner.embedCalls.Load(), "recent texts should be cached")
}

func TestCachedEmbedder_Inner_ReturnsUnderlyingEmbedder(t *testing.T) {
	inner := newMockEmbedder(768)
	inner.fingerprint = "test-model-for-inner"
	cached := NewCachedEmbedder(inner, 100)
	defer func() { _ = cached.Close() }()

	gotInner := cached.Inner()
	assert.NotNil(t, gotInner)
	assert.Equal(t, inner, gotInner)
	assert.Equal(t, "test-model-for-inner", gotInner.Fingerprint())
}

func TestCachedEmbedder_ConcurrentAccess_NoRace(t *testing.T) {
	inner := newMockEmbedder(768)
	cached := NewCachedEmbedder(inner, 100)
	defer func() { _ = cached.Close() }()

	ctx := context.Background()
	texts := []string{"a", "b", "c", "d", "e"}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				text := texts[j%len(texts)]
				_, _ = cached.Embed(ctx, text)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
