package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/model"
)

// PutFileState records the hash, size, and mtime last observed for
// path, used by detection to short-circuit unchanged files.
func (s *Store) PutFileState(st model.FileState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO files (path, file_hash, size, mtime) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET file_hash = excluded.file_hash, size = excluded.size, mtime = excluded.mtime
	`, st.Path, st.FileHash, st.Size, st.ModTime.UnixNano())
	if err != nil {
		return errs.New(errs.DatabaseError, fmt.Sprintf("put file state for %s", st.Path), err)
	}
	return nil
}

// GetFileState returns the last recorded state for path.
func (s *Store) GetFileState(path string) (model.FileState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st model.FileState
	var mtimeNano int64
	err := s.db.QueryRow(`SELECT path, file_hash, size, mtime FROM files WHERE path = ?`, path).
		Scan(&st.Path, &st.FileHash, &st.Size, &mtimeNano)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FileState{}, false, nil
	}
	if err != nil {
		return model.FileState{}, false, errs.New(errs.DatabaseError, fmt.Sprintf("get file state for %s", path), err)
	}
	st.ModTime = time.Unix(0, mtimeNano)
	return st, true, nil
}

// DeleteFileState removes the tracked state for path.
func (s *Store) DeleteFileState(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return errs.New(errs.DatabaseError, fmt.Sprintf("delete file state for %s", path), err)
	}
	return nil
}

// AllTrackedFiles returns every path the store has recorded state for.
func (s *Store) AllTrackedFiles() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`SELECT path FROM files ORDER BY path`)
	if err != nil {
		return nil, errs.New(errs.DatabaseError, "list tracked files", err)
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, errs.New(errs.DatabaseError, "scan tracked file path", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
