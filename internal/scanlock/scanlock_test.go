package scanlock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_ExclusiveWithinProcess(t *testing.T) {
	lock := New(filepath.Join(t.TempDir(), "scan.lock"))

	release, err := lock.TryAcquire()
	require.NoError(t, err)

	_, err = lock.TryAcquire()
	assert.ErrorIs(t, err, ErrBusy)

	release()
	release()

	again, err := lock.TryAcquire()
	require.NoError(t, err)
	again()
}

func TestLock_ExclusiveAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.lock")
	first := New(path)
	second := New(path)

	release, err := first.TryAcquire()
	require.NoError(t, err)

	_, err = second.TryAcquire()
	assert.ErrorIs(t, err, ErrBusy)

	release()

	release, err = second.TryAcquire()
	require.NoError(t, err)
	release()
}

func TestLock_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "scan.lock")
	lock := New(path)

	release, err := lock.TryAcquire()
	require.NoError(t, err)
	defer release()

	assert.FileExists(t, path)
	assert.Equal(t, path, lock.Path())
}
