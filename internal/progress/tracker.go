package progress

import (
	"sync"
	"time"

	"github.com/mrlokans/lightbox/internal/importer"
)

// Status is what the Tracker knows about the current or last scan.
type Status struct {
	Running    bool              `json:"running"`
	Progress   importer.Snapshot `json:"progress"`
	StartedAt  *time.Time        `json:"started_at,omitempty"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
	Result     *importer.Result  `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Tracker keeps the latest snapshot in memory for the HTTP API.
type Tracker struct {
	mu     sync.RWMutex
	status Status
	now    func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

func (t *Tracker) Notify(s importer.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s.ScanID != t.status.Progress.ScanID {
		started := t.now()
		t.status = Status{Running: true, Progress: s, StartedAt: &started}
		return
	}
	if newer(t.status.Progress, s) {
		t.status.Progress = s
	}
}

// Finish records the outcome of the scan the tracker last saw.
func (t *Tracker) Finish(result *importer.Result, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	finished := t.now()
	t.status.Running = false
	t.status.FinishedAt = &finished
	t.status.Result = result
	t.status.Error = ""
	if err != nil {
		t.status.Error = err.Error()
	}
	if result != nil && result.ScanID != t.status.Progress.ScanID {
		// The scan failed or finished before reporting any progress.
		t.status.Progress = importer.Snapshot{ScanID: result.ScanID, RootPath: result.RootPath}
	}
}

// Status returns a copy of the current status.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}
