package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEmbedder_Embed_ReturnsCorrectDimensions(t *testing.T) {
	embedder := NewStaticEmbedder()
	defer func() { _ = embedder.Close() }()

	embedding, err := embedder.Embed(context.Background(), "func main() {}")
	require.NoError(t, err)
	assert.Len(t, embedding, Dimensions)
}

func TestStaticEmbedder_Embed_VectorIsNormalized(t *testing.T) {
	embedder := NewStaticEmbedder()
	defer func() { _ = embedder.Close() }()

	embedding, err := embedder.Embed(context.Background(), "func main() {}")
	require.NoError(t, err)

	magnitude := vectorMagnitude(embedding)
	assert.InDelta(t, 1.0, magnitude, 0.001, "vector should be normalized to unit length")
}

func TestStaticEmbedder_Embed_IsDeterministic(t *testing.T) {
	embedder := NewStaticEmbedder()
	defer func() { _ = embedder.Close() }()

	text := "func add(a, b int) int { return a + b }"
	emb1, err1 := embedder.Embed(context.Background(), text)
	emb2, err2 := embedder.Embed(context.Background(), text)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, emb1, emb2)
}

func TestStaticEmbedder_Embed_DifferentTextDifferentVector(t *testing.T) {
	embedder := NewStaticEmbedder()
	defer func() { _ = embedder.Close() }()

	emb1, err1 := embedder.Embed(context.Background(), "func add(a, b int) int")
	emb2, err2 := embedder.Embed(context.Background(), "class UserRepository")

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, emb1, emb2)
}

func TestStaticEmbedder_Embed_SimilarCodeHasHigherSimilarity(t *testing.T) {
	embedder := NewStaticEmbedder()
	defer func() { _ = embedder.Close() }()

	ctx := context.Background()
	base, _ := embedder.Embed(ctx, "func calculateTotal(items []Item) float64")
	similar, _ := embedder.Embed(ctx, "func computeTotal(items []Item) float64")
	unrelated, _ := embedder.Embed(ctx, "import \"net/http\"")

	simSimilar := cosineSimilarity(base, similar)
	simUnrelated := cosineSimilarity(base, unrelated)
	assert.Greater(t, simSimilar, simUnrelated)
}

func TestStaticEmbedder_Embed_EmptyText_ReturnsZeroVector(t *testing.T) {
	embedder := NewStaticEmbedder()
	defer func() { _ = embedder.Close() }()

	embedding, err := embedder.Embed(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, embedding, Dimensions)
	for _, v := range embedding {
		assert.Zero(t, v)
	}
}

func TestStaticEmbedder_EmbedBatch_MatchesIndividualEmbed(t *testing.T) {
	embedder := NewStaticEmbedder()
	defer func() { _ = embedder.Close() }()

	ctx := context.Background()
	texts := []string{"func a()", "func b()", "func c()"}

	batch, err := embedder.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, batch, len(texts))

	for i, text := range texts {
		single, err := embedder.Embed(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func TestStaticEmbedder_EmbedBatch_Empty(t *testing.T) {
	embedder := NewStaticEmbedder()
	defer func() { _ = embedder.Close() }()

	batch, err := embedder.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestStaticEmbedder_Close_RejectsFurtherCalls(t *testing.T) {
	embedder := NewStaticEmbedder()
	require.NoError(t, embedder.Close())

	_, err := embedder.Embed(context.Background(), "text")
	assert.Error(t, err)
}

func TestStaticEmbedder_Fingerprint_StableAcrossInstances(t *testing.T) {
	a := NewStaticEmbedder()
	b := NewStaticEmbedder()
	defer func() { _ = a.Close() }()
	defer func() { _ = b.Close() }()

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEmpty(t, a.Fingerprint())
}

func TestSplitCamelCase(t *testing.T) {
	assert.Equal(t, []string{"get", "User", "Name"}, splitCamelCase("getUserName"))
	assert.Equal(t, []string{}, splitCamelCase(""))
}

func TestSplitCodeToken_SnakeCase(t *testing.T) {
	assert.Equal(t, []string{"user", "Id"}, splitCodeToken("user_Id"))
}
