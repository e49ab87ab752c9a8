package progress

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lightbox/internal/database"
	syncrepo "github.com/mrlokans/lightbox/internal/database/sync"
	"github.com/mrlokans/lightbox/internal/entities"
	"github.com/mrlokans/lightbox/internal/importer"
)

func snap(id string, processed, total, failed int) importer.Snapshot {
	return importer.Snapshot{ScanID: id, RootPath: "/lib", Processed: processed, Total: total, Failed: failed}
}

type collectSink struct{ got []importer.Snapshot }

func (c *collectSink) Notify(s importer.Snapshot) { c.got = append(c.got, s) }

func TestMulti_FansOutAndSkipsNil(t *testing.T) {
	a, b := &collectSink{}, &collectSink{}
	sink := Multi(a, nil, b)

	sink.Notify(snap("s1", 1, 2, 0))

	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}

func TestNewer(t *testing.T) {
	assert.True(t, newer(snap("s1", 3, 5, 0), snap("s2", 0, 1, 0)), "new scan always wins")
	assert.True(t, newer(snap("s1", 3, 5, 0), snap("s1", 4, 5, 0)))
	assert.False(t, newer(snap("s1", 4, 5, 0), snap("s1", 3, 5, 0)), "late snapshot is dropped")
	assert.True(t, newer(snap("s1", 4, 5, 0), snap("s1", 4, 5, 1)))
	assert.False(t, newer(snap("s1", 4, 5, 1), snap("s1", 4, 5, 1)))
}

func TestLogSink_Milestones(t *testing.T) {
	assert.True(t, milestone(snap("s", 0, 100, 0)))
	assert.True(t, milestone(snap("s", 10, 100, 0)))
	assert.False(t, milestone(snap("s", 11, 100, 0)))
	assert.True(t, milestone(snap("s", 100, 100, 0)))
	assert.True(t, milestone(snap("s", 1, 3, 0)))

	// Must not panic with an empty scan.
	NewLogSink().Notify(snap("s", 0, 0, 0))
}

func TestTracker_KeepsHighestSnapshot(t *testing.T) {
	tr := NewTracker()
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed }

	tr.Notify(snap("s1", 0, 3, 0))
	tr.Notify(snap("s1", 2, 3, 1))
	tr.Notify(snap("s1", 1, 3, 0))

	status := tr.Status()
	assert.True(t, status.Running)
	assert.Equal(t, snap("s1", 2, 3, 1), status.Progress)
	require.NotNil(t, status.StartedAt)
	assert.Equal(t, fixed, *status.StartedAt)
}

func TestTracker_Finish(t *testing.T) {
	tr := NewTracker()
	tr.Notify(snap("s1", 3, 3, 0))

	result := &importer.Result{ScanID: "s1", RootPath: "/lib", Imported: 3}
	tr.Finish(result, nil)

	status := tr.Status()
	assert.False(t, status.Running)
	assert.Equal(t, result, status.Result)
	assert.Empty(t, status.Error)
	assert.NotNil(t, status.FinishedAt)

	tr.Finish(nil, errors.New("walk /lib: permission denied"))
	assert.Equal(t, "walk /lib: permission denied", tr.Status().Error)
}

func TestTracker_NewScanResets(t *testing.T) {
	tr := NewTracker()
	tr.Notify(snap("s1", 3, 3, 0))
	tr.Finish(&importer.Result{ScanID: "s1"}, nil)

	tr.Notify(snap("s2", 0, 7, 0))

	status := tr.Status()
	assert.True(t, status.Running)
	assert.Nil(t, status.Result)
	assert.Nil(t, status.FinishedAt)
	assert.Equal(t, 7, status.Progress.Total)
}

func setupRecorder(t *testing.T) (*Recorder, *syncrepo.Repository, func()) {
	t.Helper()
	db, err := database.NewDatabaseWithOptions(filepath.Join(t.TempDir(), "progress.db"), database.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	repo := syncrepo.NewRepository(db.DB)
	return NewRecorder(repo), repo, func() { db.Close() }
}

func TestRecorder_PersistsProgress(t *testing.T) {
	rec, repo, cleanup := setupRecorder(t)
	defer cleanup()

	rec.Notify(snap("s1", 0, 3, 0))
	rec.Notify(snap("s1", 2, 3, 1))
	rec.Notify(snap("s1", 1, 3, 0))

	row, err := repo.GetProgress()
	require.NoError(t, err)
	assert.Equal(t, "s1", row.ScanID)
	assert.Equal(t, "/lib", row.RootPath)
	assert.Equal(t, entities.SyncStatusRunning, row.Status)
	assert.Equal(t, 2, row.Processed)
	assert.Equal(t, 1, row.Failed)
	assert.Equal(t, 3, row.TotalItems)

	rec.Notify(snap("s1", 3, 3, 1))
	require.NoError(t, rec.Finish("/lib", nil))

	row, err = repo.GetProgress()
	require.NoError(t, err)
	assert.Equal(t, entities.SyncStatusCompleted, row.Status)
	assert.Equal(t, 3, row.Processed)
	assert.NotNil(t, row.CompletedAt)
}

func TestRecorder_FinishWithoutProgress(t *testing.T) {
	rec, repo, cleanup := setupRecorder(t)
	defer cleanup()

	require.NoError(t, rec.Finish("/lib", nil))
	_, err := repo.GetProgress()
	assert.Error(t, err, "a clean finish with no progress writes nothing")

	require.NoError(t, rec.Finish("/lib", errors.New("walk /lib: no such directory")))
	row, err := repo.GetProgress()
	require.NoError(t, err)
	assert.Equal(t, entities.SyncStatusFailed, row.Status)
	assert.Equal(t, "/lib", row.RootPath)
	assert.Equal(t, "walk /lib: no such directory", row.Error)
}

func TestRecorder_NewScanResetsRow(t *testing.T) {
	rec, repo, cleanup := setupRecorder(t)
	defer cleanup()

	rec.Notify(snap("s1", 3, 3, 2))
	require.NoError(t, rec.Finish("/lib", nil))

	rec.Notify(snap("s2", 0, 5, 0))

	row, err := repo.GetProgress()
	require.NoError(t, err)
	assert.Equal(t, "s2", row.ScanID)
	assert.Equal(t, 0, row.Processed)
	assert.Equal(t, 0, row.Failed)
	assert.Equal(t, 5, row.TotalItems)
	assert.Equal(t, entities.SyncStatusRunning, row.Status)
}
