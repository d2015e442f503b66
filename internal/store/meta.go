package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/emberindex/ember/internal/errs"
)

// GetMeta reads a single key/value setting (e.g. model.MetaLastTreeSHA),
// returning ok=false if the key has never been set.
func (s *Store) GetMeta(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.New(errs.DatabaseError, fmt.Sprintf("read meta key %s", key), err)
	}
	return value, true, nil
}

// SetMeta upserts a key/value setting.
func (s *Store) SetMeta(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return errs.New(errs.DatabaseError, fmt.Sprintf("set meta key %s", key), err)
	}
	return nil
}

// DeleteMeta removes a key, used when a force reindex clears
// MetaLastTreeSHA.
func (s *Store) DeleteMeta(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM meta WHERE key = ?`, key); err != nil {
		return errs.New(errs.DatabaseError, fmt.Sprintf("delete meta key %s", key), err)
	}
	return nil
}
