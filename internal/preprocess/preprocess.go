// Package preprocess reads one file's bytes, hashes them, decodes to
// UTF-8 with a replacement fallback, and resolves its language from the
// chunker's extension registry.
package preprocess

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/emberindex/ember/internal/chunk"
	"github.com/emberindex/ember/internal/fsutil"
	"github.com/emberindex/ember/internal/hashing"
)

// File is the result of preprocessing one tracked file.
type File struct {
	RelPath  string
	Content  string
	FileHash string
	FileSize int64
	Lang     string
}

// Preprocess reads relPath (relative to repoRoot), hashes the raw
// bytes, decodes them to UTF-8 (replacing invalid sequences), and
// resolves the language from the extension registry, defaulting to
// "txt" when the extension is unrecognized by either the code chunker
// or the markdown chunker.
func Preprocess(repoRoot, relPath string) (File, error) {
	abs := filepath.Join(repoRoot, relPath)
	raw, err := fsutil.ReadFile(abs)
	if err != nil {
		return File{}, err
	}

	return File{
		RelPath:  relPath,
		Content:  decodeUTF8(raw),
		FileHash: hashing.Sum(raw),
		FileSize: int64(len(raw)),
		Lang:     resolveLang(relPath),
	}, nil
}

// decodeUTF8 returns b as valid UTF-8, substituting the Unicode
// replacement character for any invalid byte sequence rather than
// failing the whole file.
func decodeUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var out strings.Builder
	out.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		out.WriteRune(r)
		b = b[size:]
	}
	return out.String()
}

var markdownLangs = map[string]string{
	".md": "md", ".markdown": "md", ".mdx": "md",
}

// resolveLang maps relPath's extension to a short language code via
// the chunker's registry, falling back to "txt".
func resolveLang(relPath string) string {
	ext := strings.ToLower(filepath.Ext(relPath))
	if lang, ok := markdownLangs[ext]; ok {
		return lang
	}
	if cfg, ok := chunk.DefaultRegistry().GetByExtension(ext); ok {
		return cfg.Name
	}
	return "txt"
}
