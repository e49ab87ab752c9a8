package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scannerFixture struct {
	*pipelineFixture
	walker  *fakeWalker
	scanner *Scanner
}

func newScannerFixture(t *testing.T, paths ...string) *scannerFixture {
	pf := newPipelineFixture(t)
	w := &fakeWalker{paths: paths}
	s := NewScanner(pf.cfg, Deps{
		Walker:   w,
		Renderer: pf.renderer,
		Metadata: pf.metadata,
		Catalog:  pf.catalog,
	})
	s.pipeline.birthTime = pf.pipeline.birthTime
	s.newID = func() string { return "scan-test" }
	return &scannerFixture{pipelineFixture: pf, walker: w, scanner: s}
}

func TestScanner_Scan_Scenario(t *testing.T) {
	f := newScannerFixture(t, "/lib/a.CR2", "/lib/a.jpg", "/lib/b.jpg", "/lib/c.CR2", "/lib/notes.txt")

	result, err := f.scanner.Scan(context.Background(), "/lib", f.sink)
	require.NoError(t, err)

	assert.Equal(t, "scan-test", result.ScanID)
	assert.Equal(t, 5, result.Discovered)
	assert.Equal(t, 3, result.Units)
	assert.Equal(t, 3, result.Imported)
	assert.Zero(t, result.Failed)

	a := f.catalog.photo("a")
	require.NotNil(t, a)
	assert.Equal(t, "/lib/a.CR2", a.Master)
	assert.Equal(t, filepath.Join(f.cfg.ThumbsDir, "a.thumb.jpg"), a.Thumb)

	b := f.catalog.photo("b")
	require.NotNil(t, b)
	assert.Equal(t, "/lib/b.jpg", b.Thumb)

	c := f.catalog.photo("c")
	require.NotNil(t, c)
	assert.Equal(t, "/lib/c.CR2", c.Master)
	require.Len(t, f.renderer.previews, 1, "only c needs an extracted preview")

	snaps := f.sink.all()
	require.NotEmpty(t, snaps)
	assert.Equal(t, Snapshot{ScanID: "scan-test", RootPath: "/lib", Total: 3}, snaps[0])
	assert.Equal(t, Snapshot{ScanID: "scan-test", RootPath: "/lib", Processed: 3, Total: 3}, f.sink.last())
	for _, s := range snaps {
		assert.Equal(t, 3, s.Total, "total is fixed before any unit runs")
	}
}

func TestScanner_Scan_RerunFindsNothing(t *testing.T) {
	f := newScannerFixture(t, "/lib/a.CR2", "/lib/a.jpg", "/lib/b.jpg", "/lib/c.CR2")

	_, err := f.scanner.Scan(context.Background(), "/lib", f.sink)
	require.NoError(t, err)
	rendersAfterFirst := len(f.renderer.calls())

	second := &recordingSink{}
	result, err := f.scanner.Scan(context.Background(), "/lib", second)
	require.NoError(t, err)

	assert.Zero(t, result.Units)
	assert.Equal(t, 3, result.Skipped)
	assert.Len(t, f.renderer.calls(), rendersAfterFirst, "no pipeline work on re-run")
	require.Len(t, second.all(), 1)
	assert.Equal(t, 0, second.all()[0].Total)
	assert.Equal(t, 3, f.catalog.count())
}

func TestScanner_Scan_FailuresDoNotStopBatch(t *testing.T) {
	f := newScannerFixture(t, "/lib/a.jpg", "/lib/b.jpg", "/lib/c.jpg")
	f.metadata.fail["/lib/b.jpg"] = true

	result, err := f.scanner.Scan(context.Background(), "/lib", f.sink)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	last := f.sink.last()
	assert.Equal(t, 3, last.Processed)
	assert.Equal(t, 1, last.Failed)
	assert.Nil(t, f.catalog.photo("b"))
}

func TestScanner_Scan_WalkErrorIsFatal(t *testing.T) {
	f := newScannerFixture(t)
	f.walker.err = errors.New("permission denied")

	_, err := f.scanner.Scan(context.Background(), "/lib", f.sink)

	assert.ErrorContains(t, err, "permission denied")
	assert.Empty(t, f.sink.all())
}

func TestScanner_Scan_DedupErrorIsFatal(t *testing.T) {
	f := newScannerFixture(t, "/lib/a.jpg")
	f.catalog.lookErr = errors.New("no such table: photos")

	_, err := f.scanner.Scan(context.Background(), "/lib", f.sink)

	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, f.renderer.calls())
	assert.Empty(t, f.sink.all())
}

func TestScanner_Scan_ExcludesVersionsPath(t *testing.T) {
	pf := newPipelineFixture(t)
	pf.cfg.VersionsPath = "/lib/versions"
	w := &fakeWalker{}
	var gotExclude []string
	s := NewScanner(pf.cfg, Deps{
		Walker: walkerFunc(func(_ context.Context, root string, exclude []string) ([]string, error) {
			gotExclude = exclude
			return w.Walk(context.Background(), root, exclude)
		}),
		Renderer: pf.renderer,
		Metadata: pf.metadata,
		Catalog:  pf.catalog,
	})

	_, err := s.Scan(context.Background(), "/lib", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/lib/versions"}, gotExclude)
}

type walkerFunc func(ctx context.Context, root string, exclude []string) ([]string, error)

func (f walkerFunc) Walk(ctx context.Context, root string, exclude []string) ([]string, error) {
	return f(ctx, root, exclude)
}

func TestScanner_Scan_BoundedConcurrency(t *testing.T) {
	var paths []string
	for i := 0; i < 5; i++ {
		paths = append(paths, fmt.Sprintf("/lib/img_%d.jpg", i))
	}
	f := newScannerFixture(t, paths...)
	f.renderer.delay = 20 * time.Millisecond

	result, err := f.scanner.Scan(context.Background(), "/lib", f.sink)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Imported)
	assert.LessOrEqual(t, f.renderer.maxInflight.Load(), int64(2))
	assert.Equal(t, int64(2), f.renderer.maxInflight.Load(), "the pool should actually run two at once")
}

func TestSchedule_RunsEveryUnit(t *testing.T) {
	units := make([]Unit, 20)
	for i := range units {
		units[i] = Unit{Path: fmt.Sprintf("/u/%d.jpg", i)}
	}

	seen := make(chan string, len(units))
	Schedule(context.Background(), units, 0, func(_ context.Context, u Unit) {
		seen <- u.Path
	})
	close(seen)

	count := 0
	for range seen {
		count++
	}
	assert.Equal(t, len(units), count)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		RawExtensions: []string{"cr2"},
		TempDir:       "/tmp",
		ThumbsDir:     "/t",
		Thumbs250Dir:  "/t250",
		WorkExt:       "jpg",
		Concurrency:   1,
	}
	assert.NoError(t, valid.Validate())

	invalid := valid
	invalid.Concurrency = 0
	invalid.WorkExt = ""
	err := invalid.Validate()
	assert.ErrorContains(t, err, "concurrency must be at least 1")
	assert.ErrorContains(t, err, "derivative extension")
}
