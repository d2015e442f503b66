package chunk

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_ChunkGoFile_ReturnsFunctionChunks(t *testing.T) {
	source := `package main

import "fmt"

func Hello() {
	fmt.Println("Hello")
}

func Goodbye() {
	fmt.Println("Goodbye")
}
`
	c := NewChunker()
	defer c.Close()

	results, err := c.Chunk(context.Background(), "main.go", "go", []byte(source))
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Hello", results[0].Symbol)
	assert.Contains(t, results[0].Content, "Hello")
	assert.Equal(t, "Goodbye", results[1].Symbol)
}

func TestChunker_UnsupportedLanguage_FallsBackToLines(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "line of plain text content"
	}
	source := strings.Join(lines, "\n")

	c := NewChunker()
	defer c.Close()

	results, err := c.Chunk(context.Background(), "notes.txt", "txt", []byte(source))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].StartLine)
	assert.Equal(t, 10, results[0].EndLine)
}

func TestChunker_EmptyContent_ReturnsNoChunks(t *testing.T) {
	c := NewChunker()
	defer c.Close()

	results, err := c.Chunk(context.Background(), "empty.go", "go", []byte("   \n  "))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestChunker_OversizedSymbol_IsSubdivided(t *testing.T) {
	var body strings.Builder
	body.WriteString("func Big() {\n")
	for i := 0; i < 400; i++ {
		body.WriteString("\tdoSomething()\n")
	}
	body.WriteString("}\n")

	c := NewChunkerWithOptions(Options{MaxChunkTokens: 64, OverlapTokens: 8})
	defer c.Close()

	results, err := c.Chunk(context.Background(), "big.go", "go", []byte(body.String()))
	require.NoError(t, err)
	require.True(t, len(results) > 1, "oversized symbol should split into multiple chunks")
	for _, r := range results {
		assert.Equal(t, "Big", r.Symbol)
	}
}
