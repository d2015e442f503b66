// Package model defines the data types shared by every ember subsystem:
// Chunk, Vector, FileState, RepoState, Query, SearchResult, and
// CachedSearch, plus the Meta* key constants for the store's key/value
// table. These are plain structs with no behavior; the store,
// chunker, and search packages own the operations over them.
package model

import "time"

// Chunk is one searchable unit of source code.
type Chunk struct {
	ID          string // BLAKE3 content-addressed id, 64 hex chars
	ProjectID   string // BLAKE3 of the absolute repository root path
	Path        string // repository-relative
	Lang        string // short language code: py, ts, go, rs, cpp, txt, ...
	Symbol      string // optional enclosing identifier
	StartLine   int    // 1-based, inclusive
	EndLine     int    // 1-based, inclusive
	Content     string // decoded text of the chunk
	ContentHash string // BLAKE3 of Content bytes, the deduplication key
	FileHash    string // BLAKE3 of the whole source file at chunking time
	TreeSHA     string // tree SHA under which the chunk was captured
	Rev         string // "worktree" or a commit SHA
}

// Vector is the embedding for a chunk.
type Vector struct {
	ChunkID          string
	Embedding        []float32
	ModelFingerprint string
}

// FileState is the last-seen metadata used for incremental decisions.
type FileState struct {
	Path     string
	FileHash string
	Size     int64
	ModTime  time.Time
}

// RepoState is the persisted JSON snapshot for human inspection
// (<repo>/.ember/state.json).
type RepoState struct {
	LastTreeSHA    string    `json:"last_tree_sha"`
	LastSyncMode   string    `json:"last_sync_mode"`
	ModelFingerprint string  `json:"model_fingerprint"`
	Version        int       `json:"version"`
	IndexedAt      time.Time `json:"indexed_at"`
}

// Query is a search request.
type Query struct {
	Text       string
	TopK       int
	PathFilter string
	LangFilter string
}

// SearchResult is one ranked, hydrated hit.
type SearchResult struct {
	Rank        int
	Score       float64
	Chunk       *Chunk
	Preview     string
	Explanation string
}

// CachedSearch is what gets written to .last_search.json after every
// successful search.
type CachedSearch struct {
	RunID   string          `json:"run_id"`
	Query   Query           `json:"query"`
	Results []*SearchResult `json:"results"`
}

// Metadata keys for the store's key-value table.
const (
	MetaLastTreeSHA       = "last_tree_sha"
	MetaModelFingerprint  = "model_fingerprint"
	MetaSchemaVersion     = "schema_version"
	MetaLastSyncMode      = "last_sync_mode"
)

// CurrentSchemaVersion is the schema version this build of ember writes
// and expects on open.
const CurrentSchemaVersion = 1

// SyncMode names the three ways a sync can compute its tree SHA.
type SyncMode string

const (
	SyncModeWorktree SyncMode = "worktree"
	SyncModeStaged   SyncMode = "staged"
	SyncModeRev      SyncMode = "rev"
)

// RevWorktree is the sentinel Rev value for chunks captured from the
// current working tree rather than a specific commit.
const RevWorktree = "worktree"

// FileStatus is the status of one path in a tree-to-tree diff.
type FileStatus string

const (
	FileStatusAdded    FileStatus = "added"
	FileStatusModified FileStatus = "modified"
	FileStatusDeleted  FileStatus = "deleted"
	FileStatusRenamed  FileStatus = "renamed"
)

// FileDiff is one entry in a diff between two trees.
type FileDiff struct {
	Status FileStatus
	Path   string
	// OldPath is set for renames: the path the file had in "from".
	OldPath string
}
