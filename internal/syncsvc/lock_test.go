package syncsvc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_TryLockUnlock(t *testing.T) {
	dir := t.TempDir()
	l := NewLock(dir)

	ok, err := l.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = os.Stat(filepath.Join(dir, LockFileName))
	assert.NoError(t, err)

	require.NoError(t, l.Unlock())
}

func TestLock_UnlockWithoutLock_NoError(t *testing.T) {
	l := NewLock(t.TempDir())
	assert.NoError(t, l.Unlock())
}

func TestLock_DoubleUnlock_NoError(t *testing.T) {
	dir := t.TempDir()
	l := NewLock(dir)
	_, err := l.TryLock()
	require.NoError(t, err)
	require.NoError(t, l.Unlock())
	assert.NoError(t, l.Unlock())
}

func TestLock_TryLock_FailsWhenAlreadyHeld(t *testing.T) {
	dir := t.TempDir()

	l1 := NewLock(dir)
	ok, err := l1.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer l1.Unlock()

	l2 := NewLock(dir)
	ok, err = l2.TryLock()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLock_TryLock_CreatesDirectory(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "nested", "index")

	l := NewLock(nested)
	ok, err := l.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer l.Unlock()

	_, err = os.Stat(nested)
	assert.NoError(t, err)
}
