// Package progress provides observers for scan progress.
//
// The importer reports a Snapshot after the total is known and after every
// finished unit. Notifications come from worker goroutines and may arrive
// slightly out of order, so every sink here keeps the snapshot with the
// highest processed count for the current scan.
//
// # Usage
//
//	tracker := progress.NewTracker()
//	recorder := progress.NewRecorder(sync.NewRepository(db.DB))
//	sink := progress.Multi(progress.NewLogSink(), tracker, recorder)
//	result, err := scanner.Scan(ctx, root, sink)
//	tracker.Finish(result, err)
//	recorder.Finish(root, err)
package progress

import (
	"github.com/mrlokans/lightbox/internal/importer"
)

// Multi fans every snapshot out to sinks in order. Nil sinks are ignored.
func Multi(sinks ...importer.ProgressSink) importer.ProgressSink {
	filtered := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

type multi []importer.ProgressSink

func (m multi) Notify(s importer.Snapshot) {
	for _, sink := range m {
		sink.Notify(s)
	}
}

// newer reports whether next should replace cur.
func newer(cur, next importer.Snapshot) bool {
	if next.ScanID != cur.ScanID {
		return true
	}
	if next.Processed != cur.Processed {
		return next.Processed > cur.Processed
	}
	return next.Failed > cur.Failed || next.Total != cur.Total
}
