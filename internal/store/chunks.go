package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/model"
)

// PutChunk inserts or replaces a chunk row.
func (s *Store) PutChunk(c model.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO chunks (id, project_id, path, lang, symbol, start_line, end_line, content, content_hash, file_hash, tree_sha, rev)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id, path = excluded.path, lang = excluded.lang,
			symbol = excluded.symbol, start_line = excluded.start_line, end_line = excluded.end_line,
			content = excluded.content, content_hash = excluded.content_hash,
			file_hash = excluded.file_hash, tree_sha = excluded.tree_sha, rev = excluded.rev
	`, c.ID, c.ProjectID, c.Path, c.Lang, c.Symbol, c.StartLine, c.EndLine, c.Content, c.ContentHash, c.FileHash, c.TreeSHA, c.Rev)
	if err != nil {
		return errs.New(errs.DatabaseError, fmt.Sprintf("put chunk %s", c.ID), err)
	}
	return nil
}

// GetChunk fetches a single chunk by its full ID.
func (s *Store) GetChunk(id string) (model.Chunk, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT id, project_id, path, lang, symbol, start_line, end_line, content, content_hash, file_hash, tree_sha, rev FROM chunks WHERE id = ?`, id)
	return scanChunk(row)
}

// FindByContentHash returns an existing chunk sharing content_hash, used
// to dedup identical chunk bodies across files: a chunk with matching
// content is reused rather than re-embedded.
func (s *Store) FindByContentHash(contentHash string) (model.Chunk, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT id, project_id, path, lang, symbol, start_line, end_line, content, content_hash, file_hash, tree_sha, rev FROM chunks WHERE content_hash = ? LIMIT 1`, contentHash)
	return scanChunk(row)
}

// FindByIDPrefix returns every chunk whose ID starts with prefix, used
// to resolve the short IDs the CLI prints against full chunk IDs.
// All matches are returned, ordered by ID; deciding whether more than
// one match is an error is left to the caller.
func (s *Store) FindByIDPrefix(prefix string) ([]model.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, project_id, path, lang, symbol, start_line, end_line, content, content_hash, file_hash, tree_sha, rev FROM chunks WHERE id LIKE ? ESCAPE '\' ORDER BY id`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, errs.New(errs.DatabaseError, "find chunks by id prefix", err)
	}
	defer rows.Close()

	var out []model.Chunk
	for rows.Next() {
		c, _, err := scanChunkRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteChunksForPath removes every chunk belonging to path, returning
// their IDs so callers can also drop the matching vectors.
func (s *Store) DeleteChunksForPath(path string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id FROM chunks WHERE path = ?`, path)
	if err != nil {
		return nil, errs.New(errs.DatabaseError, fmt.Sprintf("list chunks for %s", path), err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, errs.New(errs.DatabaseError, "scan chunk id", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if _, err := s.db.Exec(`DELETE FROM chunks WHERE path = ?`, path); err != nil {
		return nil, errs.New(errs.DatabaseError, fmt.Sprintf("delete chunks for %s", path), err)
	}
	return ids, nil
}

// DeleteChunksByID removes the given chunk rows by id, used by the
// chunk storage service to roll back a partially written file.
func (s *Store) DeleteChunksByID(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`DELETE FROM chunks WHERE id IN (%s)`, strings.Join(placeholders, ","))
	if _, err := s.db.Exec(query, args...); err != nil {
		return errs.New(errs.DatabaseError, "delete chunks by id", err)
	}
	return nil
}

// CountChunks returns the total number of chunks in the project.
func (s *Store) CountChunks() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, errs.New(errs.DatabaseError, "count chunks", err)
	}
	return n, nil
}

// CountUniqueFiles returns the number of distinct paths with at least
// one chunk.
func (s *Store) CountUniqueFiles() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT path) FROM chunks`).Scan(&n); err != nil {
		return 0, errs.New(errs.DatabaseError, "count indexed files", err)
	}
	return n, nil
}

// AllChunkIDs returns every chunk ID currently stored, used by the
// consistency check (`ember status --verify`) to compare against the
// vector index's ID set.
func (s *Store) AllChunkIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`SELECT id FROM chunks ORDER BY id`)
	if err != nil {
		return nil, errs.New(errs.DatabaseError, "list all chunk ids", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errs.New(errs.DatabaseError, "scan chunk id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChunk(row rowScanner) (model.Chunk, bool, error) {
	c, err := scanChunkRows(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Chunk{}, false, nil
		}
		return model.Chunk{}, false, errs.New(errs.DatabaseError, "scan chunk", err)
	}
	return c, true, nil
}

func scanChunkRows(row rowScanner) (model.Chunk, error) {
	var c model.Chunk
	err := row.Scan(&c.ID, &c.ProjectID, &c.Path, &c.Lang, &c.Symbol, &c.StartLine, &c.EndLine, &c.Content, &c.ContentHash, &c.FileHash, &c.TreeSHA, &c.Rev)
	return c, err
}

// escapeLike escapes LIKE metacharacters in a user-controlled prefix.
func escapeLike(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_")
	return r.Replace(s)
}
