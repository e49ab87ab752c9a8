package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestWalker_Walk(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.jpg"))
	touch(t, filepath.Join(root, "a.CR2"))
	touch(t, filepath.Join(root, "2021", "summer", "c.jpg"))
	touch(t, filepath.Join(root, "versions", "a.jpg"))
	touch(t, filepath.Join(root, ".cache", "d.jpg"))
	touch(t, filepath.Join(root, ".DS_Store"))

	paths, err := New().Walk(context.Background(), root, []string{filepath.Join(root, "versions")})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "2021", "summer", "c.jpg"),
		filepath.Join(root, "a.CR2"),
		filepath.Join(root, "b.jpg"),
	}, paths)
}

func TestWalker_Walk_IncludeHidden(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, ".cache", "d.jpg"))

	w := &Walker{IncludeHidden: true}
	paths, err := w.Walk(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, ".cache", "d.jpg")}, paths)
}

func TestWalker_Walk_SkipsDirectorySymlinks(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()
	touch(t, filepath.Join(other, "outside.jpg"))
	touch(t, filepath.Join(root, "inside.jpg"))
	require.NoError(t, os.Symlink(other, filepath.Join(root, "linked")))
	require.NoError(t, os.Symlink(filepath.Join(other, "outside.jpg"), filepath.Join(root, "alias.jpg")))

	paths, err := New().Walk(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "alias.jpg"),
		filepath.Join(root, "inside.jpg"),
	}, paths)
}

func TestWalker_Walk_Errors(t *testing.T) {
	_, err := New().Walk(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	assert.ErrorContains(t, err, "directory not found")

	file := filepath.Join(t.TempDir(), "file.jpg")
	touch(t, file)
	_, err = New().Walk(context.Background(), file, nil)
	assert.ErrorContains(t, err, "not a directory")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New().Walk(ctx, t.TempDir(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
