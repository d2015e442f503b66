// Package filter decides which files are code (by extension, against
// the chunker's language registry) and applies user-supplied path
// filters via path/filepath.Match, since ember's filters are plain
// shell globs, not gitignore syntax (see DESIGN.md for why gobwas/glob
// stayed unwired).
package filter

import (
	"path/filepath"
	"strings"

	"github.com/emberindex/ember/internal/chunk"
)

var markdownExtensions = map[string]bool{
	".md": true, ".markdown": true, ".mdx": true,
}

// IsCodeFile reports whether path's extension is recognized by the
// chunker's language registry or is a markdown variant. Everything
// else — config, data, binary, doc files not in either set — is not
// code.
func IsCodeFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	if markdownExtensions[ext] {
		return true
	}
	_, ok := chunk.DefaultRegistry().GetByExtension(ext)
	return ok
}

// ApplyPathFilters keeps files whose path, relative to repoRoot,
// matches at least one of patterns. Files outside repoRoot, or that
// cannot be made relative to it, are silently dropped. A nil/empty
// patterns list keeps every file.
func ApplyPathFilters(files []string, patterns []string, repoRoot string) []string {
	if len(patterns) == 0 {
		return files
	}

	var out []string
	for _, f := range files {
		rel, err := relativeTo(f, repoRoot)
		if err != nil {
			continue
		}
		if matchesAny(rel, patterns) {
			out = append(out, f)
		}
	}
	return out
}

// relativeTo returns path expressed relative to root, erroring if path
// escapes root.
func relativeTo(path, root string) (string, error) {
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(rel, "..") {
			return "", filepath.ErrBadPattern
		}
		return filepath.ToSlash(rel), nil
	}
	return filepath.ToSlash(path), nil
}

func matchesAny(relPath string, patterns []string) bool {
	base := filepath.Base(relPath)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if strings.Contains(pattern, "/") {
			if matched, _ := filepath.Match(pattern, relPath); matched {
				return true
			}
		}
		if strings.HasPrefix(pattern, "**/") {
			suffix := strings.TrimPrefix(pattern, "**/")
			if matched, _ := filepath.Match(suffix, base); matched {
				return true
			}
			if strings.Contains(relPath, "/") {
				if matched, _ := filepath.Match(suffix, relPath); matched {
					return true
				}
			}
		}
	}
	return false
}
