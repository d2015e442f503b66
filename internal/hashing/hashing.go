// Package hashing centralizes the BLAKE3 content-addressing primitives
// used throughout ember: chunk IDs, project IDs, and content/file hashes.
package hashing

import (
	"encoding/hex"
	"strconv"
	"strings"

	"lukechampine.com/blake3"
)

// Sum returns the hex-encoded BLAKE3-256 digest of data.
func Sum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SumString is a convenience wrapper over Sum for string inputs.
func SumString(s string) string {
	return Sum([]byte(s))
}

// ChunkFields are the fields that make up a chunk's content-addressed ID.
// Two chunks with identical fields must produce identical IDs, so a
// chunk's identity is stable across resyncs that don't change it.
type ChunkFields struct {
	ProjectID string
	Path      string
	Lang      string
	Symbol    string
	StartLine int
	EndLine   int
	Content   string
}

// ChunkID computes the 64-hex-character content-addressed chunk ID.
// The field separator is a control character that cannot appear in any
// field, so concatenation cannot produce collisions across differently
// split inputs.
func ChunkID(f ChunkFields) string {
	var b strings.Builder
	b.WriteString(f.ProjectID)
	b.WriteByte(0x1f)
	b.WriteString(f.Path)
	b.WriteByte(0x1f)
	b.WriteString(f.Lang)
	b.WriteByte(0x1f)
	b.WriteString(f.Symbol)
	b.WriteByte(0x1f)
	b.WriteString(strconv.Itoa(f.StartLine))
	b.WriteByte(0x1f)
	b.WriteString(strconv.Itoa(f.EndLine))
	b.WriteByte(0x1f)
	b.WriteString(f.Content)
	return SumString(b.String())
}

// ProjectID computes the project identifier from an absolute repository
// root path.
func ProjectID(absRootPath string) string {
	return SumString(absRootPath)
}
