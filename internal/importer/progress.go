package importer

import (
	"sync/atomic"
)

// Snapshot is a point-in-time view of scan progress.
type Snapshot struct {
	ScanID    string `json:"scan_id"`
	RootPath  string `json:"root_path"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Failed    int    `json:"failed"`
}

// Done reports whether every scheduled unit has been processed.
func (s Snapshot) Done() bool {
	return s.Processed >= s.Total
}

// Accounter tracks per-scan progress and forwards every change to a sink.
// All methods are safe for concurrent use.
type Accounter struct {
	scanID   string
	rootPath string
	sink     ProgressSink

	total     atomic.Int64
	totalSet  atomic.Bool
	processed atomic.Int64
	failed    atomic.Int64
}

// NewAccounter creates an accounter for one scan. A nil sink discards updates.
func NewAccounter(scanID, rootPath string, sink ProgressSink) *Accounter {
	if sink == nil {
		sink = discardSink{}
	}
	return &Accounter{scanID: scanID, rootPath: rootPath, sink: sink}
}

// SetTotal fixes the number of units in the scan and notifies the sink.
// Only the first call has an effect; it reports whether it did.
func (a *Accounter) SetTotal(n int) bool {
	if !a.totalSet.CompareAndSwap(false, true) {
		return false
	}
	a.total.Store(int64(n))
	a.sink.Notify(a.Snapshot())
	return true
}

// Increment records one finished unit, failed or not, and notifies the sink.
func (a *Accounter) Increment(failed bool) Snapshot {
	// processed is bumped before failed so that readers, which load failed
	// first, never observe failed > processed.
	processed := a.processed.Add(1)
	if failed {
		a.failed.Add(1)
	}
	s := Snapshot{
		ScanID:    a.scanID,
		RootPath:  a.rootPath,
		Processed: int(processed),
		Total:     int(a.total.Load()),
		Failed:    int(a.failed.Load()),
	}
	if s.Failed > s.Processed {
		s.Failed = s.Processed
	}
	a.sink.Notify(s)
	return s
}

// Snapshot returns the current counters.
func (a *Accounter) Snapshot() Snapshot {
	failed := a.failed.Load()
	processed := a.processed.Load()
	return Snapshot{
		ScanID:    a.scanID,
		RootPath:  a.rootPath,
		Processed: int(processed),
		Total:     int(a.total.Load()),
		Failed:    int(failed),
	}
}
