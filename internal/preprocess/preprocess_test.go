package preprocess

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess_ReadsHashesAndResolvesLang(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))

	f, err := Preprocess(dir, "main.go")
	require.NoError(t, err)
	assert.Equal(t, "main.go", f.RelPath)
	assert.Equal(t, "package main\n", f.Content)
	assert.Equal(t, "go", f.Lang)
	assert.Equal(t, int64(len("package main\n")), f.FileSize)
	assert.NotEmpty(t, f.FileHash)
}

func TestPreprocess_UnknownExtension_DefaultsToTxt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.xyz"), []byte("hello"), 0o644))

	f, err := Preprocess(dir, "data.xyz")
	require.NoError(t, err)
	assert.Equal(t, "txt", f.Lang)
}

func TestPreprocess_MarkdownExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Title"), 0o644))

	f, err := Preprocess(dir, "README.md")
	require.NoError(t, err)
	assert.Equal(t, "md", f.Lang)
}

func TestPreprocess_InvalidUTF8_ReplacesWithReplacementChar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin.go"), []byte{0xff, 0xfe, 'a'}, 0o644))

	f, err := Preprocess(dir, "bin.go")
	require.NoError(t, err)
	assert.Contains(t, f.Content, "�")
	assert.Contains(t, f.Content, "a")
}

func TestPreprocess_MissingFile_PropagatesError(t *testing.T) {
	dir := t.TempDir()
	_, err := Preprocess(dir, "missing.go")
	assert.Error(t, err)
}
