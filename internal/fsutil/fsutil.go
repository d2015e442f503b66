// Package fsutil is the filesystem adapter: a thin, narrow collaborator
// around os/path so every other package goes through one seam for disk
// access instead of calling os directly.
package fsutil

import (
	"bufio"
	"os"
	"path/filepath"
)

// ReadFile reads the entire contents of path.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

// Exists reports whether path exists (file or directory).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// MkdirAll creates path and any necessary parents.
func MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// Glob returns files in root matching pattern, relative to root.
func Glob(root, pattern string) ([]string, error) {
	return filepath.Glob(filepath.Join(root, pattern))
}

// ReadLines reads path and returns its content split into lines,
// without trailing newline characters.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
