package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCodeFile(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"main.go", true},
		{"lib.rs", true},
		{"module.py", true},
		{"app.tsx", true},
		{"README.md", true},
		{"notes.mdx", true},
		{"config.toml", false},
		{"data.json", false},
		{"image.png", false},
		{"noext", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsCodeFile(c.path), c.path)
	}
}

func TestApplyPathFilters_NoPatterns_KeepsAll(t *testing.T) {
	files := []string{"a.go", "b.go"}
	assert.Equal(t, files, ApplyPathFilters(files, nil, "/repo"))
}

func TestApplyPathFilters_MatchesGlob(t *testing.T) {
	files := []string{"/repo/internal/a.go", "/repo/cmd/main.go", "/repo/docs/readme.md"}
	got := ApplyPathFilters(files, []string{"internal/*.go"}, "/repo")
	assert.Equal(t, []string{"/repo/internal/a.go"}, got)
}

func TestApplyPathFilters_DropsFilesOutsideRoot(t *testing.T) {
	files := []string{"/repo/a.go", "/other/b.go"}
	got := ApplyPathFilters(files, []string{"*.go"}, "/repo")
	assert.Equal(t, []string{"/repo/a.go"}, got)
}

func TestApplyPathFilters_DoubleStarPrefix(t *testing.T) {
	files := []string{"/repo/a/b/c.go", "/repo/a/b/c.md"}
	got := ApplyPathFilters(files, []string{"**/*.go"}, "/repo")
	assert.Equal(t, []string{"/repo/a/b/c.go"}, got)
}
