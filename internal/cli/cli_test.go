package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliTestEnv struct {
	configPath string
	library    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	library := filepath.Join(base, "library")
	require.NoError(t, os.MkdirAll(library, 0o755))

	configPath := filepath.Join(base, "lightbox.yaml")
	content := fmt.Sprintf(`library_root: %q
temp_dir: %q
thumbs_dir: %q
thumbs250_dir: %q
lock_path: %q
database_path: %q
log_level: error
`,
		library,
		filepath.Join(base, "tmp"),
		filepath.Join(base, "thumbs"),
		filepath.Join(base, "thumbs250"),
		filepath.Join(base, "scan.lock"),
		filepath.Join(base, "lightbox.db"),
	)
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	return &cliTestEnv{configPath: configPath, library: library}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test", "abc123")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *cliTestEnv) addPhoto(t *testing.T, name string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 24)), nil))
	require.NoError(t, os.WriteFile(filepath.Join(e.library, name), buf.Bytes(), 0o644))
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCommand("1.2.3", "deadbeef")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--config", "/does/not/exist.yaml"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "lightbox 1.2.3 (deadbeef)\n", out.String())
}

func TestRootCommand_BadConfig(t *testing.T) {
	cmd := NewRootCommand("test", "abc123")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"photos", "--config", filepath.Join(t.TempDir(), "absent.yaml")})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestScanThenListPhotos(t *testing.T) {
	env := setupCLITestEnv(t)
	env.addPhoto(t, "harbour.jpg")
	env.addPhoto(t, "market.jpg")

	out, err := env.run(t, "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported")
	assert.Contains(t, out, env.library)

	out, err = env.run(t, "photos")
	require.NoError(t, err)
	assert.Contains(t, out, "harbour")
	assert.Contains(t, out, "market")
	assert.Contains(t, out, "2 of 2 photos")

	out, err = env.run(t, "photos", "harb")
	require.NoError(t, err)
	assert.Contains(t, out, "harbour")
	assert.NotContains(t, out, "market")
	assert.Contains(t, out, "1 of 1 photos")
}

func TestScanCommand_ExplicitDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	other := t.TempDir()

	out, err := env.run(t, "scan", other)
	require.NoError(t, err)
	assert.Contains(t, out, other)
}

func TestScanCommand_MissingDirectory(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := env.run(t, "scan", filepath.Join(env.library, "absent"))
	assert.ErrorContains(t, err, "directory not found")
}

func TestPhotosCommand_Empty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "photos")
	require.NoError(t, err)
	assert.Contains(t, out, "No photos found")
}

func TestPhotosCommand_InvalidLimit(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := env.run(t, "photos", "--limit", "0")
	assert.ErrorContains(t, err, "--limit must be at least 1")
}

func TestTagsCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "tags")
	require.NoError(t, err)
	assert.Contains(t, out, "No tags found")

	out, err = env.run(t, "tags", "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 orphan tags")
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Title"}, [][]string{{"1", "beach"}, {"2"}}, []columnAlignment{alignRight})
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "beach")

	assert.Empty(t, renderTable(nil, nil, nil))
}
