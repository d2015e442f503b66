// Package syncsvc implements the staleness gate that runs before every
// search, and the exclusive advisory lock that serializes sync
// attempts: a sync acquires an exclusive advisory lock for its
// lifetime, and concurrent sync attempts fail fast. Built on gofrs/flock.
package syncsvc

import (
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/emberindex/ember/internal/errs"
	"github.com/emberindex/ember/internal/fsutil"
)

// LockFileName is the advisory lock file's name inside the index
// directory.
const LockFileName = ".lock"

// Lock is an exclusive, cross-process advisory lock over one index
// directory.
type Lock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewLock creates a Lock for the given index directory.
func NewLock(indexDir string) *Lock {
	path := filepath.Join(indexDir, LockFileName)
	return &Lock{path: path, flock: flock.New(path)}
}

// TryLock attempts to acquire the lock without blocking. A false
// result with a nil error means another process already holds it.
func (l *Lock) TryLock() (bool, error) {
	if err := fsutil.MkdirAll(filepath.Dir(l.path)); err != nil {
		return false, errs.New(errs.PermissionError, "create lock directory", err)
	}
	ok, err := l.flock.TryLock()
	if err != nil {
		return false, errs.New(errs.PermissionError, "acquire sync lock", err)
	}
	l.locked = ok
	return ok, nil
}

// Unlock releases the lock. Safe to call when not held.
func (l *Lock) Unlock() error {
	if !l.locked {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return errs.New(errs.Unknown, "release sync lock", err)
	}
	l.locked = false
	return nil
}
