package progress

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/lightbox/internal/importer"
)

// Store persists scan progress. It is implemented by the sync repository.
type Store interface {
	StartScan(scanID, rootPath string) error
	UpdateProgress(processed, failed, total int) error
	CompleteScan(succeeded bool, errorMsg string) error
}

// Recorder writes snapshots to a Store. A write failure is logged and never
// interrupts the scan.
type Recorder struct {
	store Store

	mu      sync.Mutex
	started bool
	last    importer.Snapshot
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Notify(s importer.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started || s.ScanID != r.last.ScanID {
		if err := r.store.StartScan(s.ScanID, s.RootPath); err != nil {
			log.Warn().Err(err).Str("scan_id", s.ScanID).Msg("Failed to record scan start")
		}
		r.started = true
		r.last = importer.Snapshot{ScanID: s.ScanID, RootPath: s.RootPath, Processed: -1}
	}
	if !newer(r.last, s) {
		return
	}
	r.last = s
	if err := r.store.UpdateProgress(s.Processed, s.Failed, s.Total); err != nil {
		log.Warn().Err(err).Str("scan_id", s.ScanID).Msg("Failed to record scan progress")
	}
}

// Finish marks the recorded scan as completed, or failed when err is set.
// A scan that failed before reporting any progress is recorded under rootPath.
func (r *Recorder) Finish(rootPath string, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		if err == nil {
			return nil
		}
		if startErr := r.store.StartScan("", rootPath); startErr != nil {
			return startErr
		}
	}
	r.started = false

	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return r.store.CompleteScan(err == nil, msg)
}
