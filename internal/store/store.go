// Package store is the Store component: the single embedded database —
// one index.db file per project, under .ember/index.db — that durably
// holds chunks, their vectors, file metadata, and small key/value
// settings, plus a full-text index that the schema's triggers keep
// automatically consistent with the chunks table. WAL-mode SQLite plus
// FTS5 backs the text side; an in-memory coder/hnsw graph with
// lazy-deletion id mapping backs the vector side, both folded into the
// same file rather than split across separate stores.
package store

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"

	"github.com/emberindex/ember/internal/errs"
)

// Store owns the index.db connection and the in-memory HNSW graph
// derived from its vectors table. SQLite is the durable source of
// truth; the HNSW graph is rebuilt from the vectors table at Open and
// kept in sync thereafter.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string

	graph   *hnsw.Graph[uint64]
	idMap   map[string]uint64 // chunk ID -> hnsw key
	keyMap  map[uint64]string // hnsw key -> chunk ID
	nextKey uint64
	dims    int

	closed bool
}

// Open opens (creating if necessary) the index.db at path, applies the
// schema, and rebuilds the in-memory vector index from whatever rows
// are already present.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.New(errs.PermissionError, fmt.Sprintf("create directory for %s", path), err)
		}
	}

	dsn := path
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errs.New(errs.DatabaseError, "open index.db", err)
	}
	// Single-writer discipline: SQLite serializes writers anyway, and a
	// single connection keeps WAL-mode pragmas and in-process state
	// (like the prepared schema) consistent without a connection pool
	// silently racing PRAGMA statements against each other.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errs.New(errs.DatabaseError, "apply index.db schema", err)
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 20
	graph.Ml = 0.25

	s := &Store{
		db:     db,
		path:   path,
		graph:  graph,
		idMap:  make(map[string]uint64),
		keyMap: make(map[uint64]string),
	}

	if err := s.rebuildVectorIndex(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// rebuildVectorIndex loads every row of the vectors table into the
// in-memory HNSW graph. Called once at Open, since the graph itself is
// never persisted to disk — only the rows that generate it are.
func (s *Store) rebuildVectorIndex() error {
	rows, err := s.db.Query(`SELECT chunk_id, embedding, dims FROM vectors ORDER BY chunk_id`)
	if err != nil {
		return errs.New(errs.DatabaseError, "load vectors for index rebuild", err)
	}
	defer rows.Close()

	for rows.Next() {
		var chunkID string
		var blob []byte
		var dims int
		if err := rows.Scan(&chunkID, &blob, &dims); err != nil {
			return errs.New(errs.DatabaseError, "scan vector row", err)
		}
		vec := decodeEmbedding(blob, dims)
		s.insertIntoGraph(chunkID, vec)
		s.dims = dims
	}
	return rows.Err()
}

func (s *Store) insertIntoGraph(chunkID string, vec []float32) {
	if existingKey, ok := s.idMap[chunkID]; ok {
		// Lazy delete: orphan the old key rather than call graph.Delete,
		// which breaks coder/hnsw when it empties the last node.
		delete(s.keyMap, existingKey)
		delete(s.idMap, chunkID)
	}
	key := s.nextKey
	s.nextKey++
	normalized := make([]float32, len(vec))
	copy(normalized, vec)
	normalizeInPlace(normalized)
	s.graph.Add(hnsw.MakeNode(key, normalized))
	s.idMap[chunkID] = key
	s.keyMap[key] = chunkID
}

// Close checkpoints the WAL and closes the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

// Path returns the filesystem path of the underlying database file.
func (s *Store) Path() string { return s.path }

func normalizeInPlace(v []float32) {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sumSquares))
	for i := range v {
		v[i] *= inv
	}
}
