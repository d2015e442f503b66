package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnippetWithContext_ShortContentReturnedWhole(t *testing.T) {
	content := "a\nb\nc"
	assert.Equal(t, content, snippetWithContext(content, 5))
}

func TestSnippetWithContext_LongContentTruncated(t *testing.T) {
	content := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10"
	got := snippetWithContext(content, 2)
	assert.Contains(t, got, "1\n2")
	assert.Contains(t, got, "...")
	assert.Contains(t, got, "9\n10")
	assert.NotContains(t, got, "5\n6")
}
