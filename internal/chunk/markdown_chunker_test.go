package chunk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownChunker_Chunk_HeaderBasedSplitting(t *testing.T) {
	chunker := NewMarkdownChunker()

	content := `# Title

Welcome to the project.

## Section 1

Content for section 1.

## Section 2

Content for section 2.
`
	results := chunker.Chunk(context.Background(), []byte(content))
	require.Len(t, results, 3)

	assert.Contains(t, results[0].Content, "# Title")
	assert.Equal(t, "Title", results[0].Symbol)
	assert.Contains(t, results[1].Content, "Section 1")
	assert.Equal(t, "Title > Section 1", results[1].Symbol)
	assert.Contains(t, results[2].Content, "Section 2")
	assert.Equal(t, "Title > Section 2", results[2].Symbol)
}

func TestMarkdownChunker_Chunk_NoHeaders_SplitsByParagraph(t *testing.T) {
	chunker := NewMarkdownChunker()

	content := "Just a paragraph of text with no headers at all."
	results := chunker.Chunk(context.Background(), []byte(content))
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Content, "Just a paragraph")
}

func TestMarkdownChunker_Chunk_EmptyContent(t *testing.T) {
	chunker := NewMarkdownChunker()
	results := chunker.Chunk(context.Background(), []byte("   \n  "))
	assert.Empty(t, results)
}

func TestMarkdownChunker_Chunk_LargeSection_SplitsByParagraphs(t *testing.T) {
	chunker := NewMarkdownChunkerWithOptions(Options{MaxChunkTokens: 20})

	content := "# Big\n\nFirst paragraph here with some words.\n\nSecond paragraph here with more words.\n\nThird paragraph with even more words than before.\n"
	results := chunker.Chunk(context.Background(), []byte(content))
	require.True(t, len(results) > 1, "large section should split into multiple chunks")
	for _, r := range results {
		assert.Equal(t, "Big", r.Symbol)
	}
}

func TestMarkdownChunker_SupportedExtensions(t *testing.T) {
	chunker := NewMarkdownChunker()
	assert.Contains(t, chunker.SupportedExtensions(), ".md")
	assert.Contains(t, chunker.SupportedExtensions(), ".mdx")
}
