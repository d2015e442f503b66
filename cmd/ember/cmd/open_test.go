package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/model"
)

func TestEditorArgs(t *testing.T) {
	tests := []struct {
		editor string
		path   string
		line   int
		want   []string
	}{
		{"code", "/repo/main.go", 42, []string{"--goto", "/repo/main.go:42"}},
		{"/usr/local/bin/code-insiders", "/repo/main.go", 7, []string{"--goto", "/repo/main.go:7"}},
		{"subl", "/repo/main.go", 3, []string{"/repo/main.go:3"}},
		{"idea", "/repo/main.go", 9, []string{"--line", "9", "/repo/main.go"}},
		{"vim", "/repo/main.go", 1, []string{"+1", "/repo/main.go"}},
		{"nvim", "/repo/main.go", 12, []string{"+12", "/repo/main.go"}},
	}

	for _, tt := range tests {
		got := editorArgs(tt.editor, tt.path, tt.line)
		assert.Equal(t, tt.want, got, tt.editor)
	}
}

func TestRunOpen_NoEditorConfigured(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")

	p := newTestProject(t)
	chunkID := "abcdef0123456789abcdef0123456789abcdef0123456789abcdef01234567"
	require.NoError(t, p.Store.PutChunk(model.Chunk{
		ID: chunkID, Path: "main.go", Lang: "go", StartLine: 1, EndLine: 1, Content: "package main\n",
	}))

	cmd := silentCmd()
	cmd.SetContext(context.Background())

	err := runOpen(cmd, chunkID[:12])
	require.Error(t, err)
	assert.Equal(t, errs.EditorNotFound, errs.KindOf(err))
}
