package progress

import (
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/lightbox/internal/importer"
)

// LogSink writes snapshots to the global logger. Every snapshot is logged at
// debug level; the start, every tenth of the way, and the end at info.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (LogSink) Notify(s importer.Snapshot) {
	event := log.Debug()
	if milestone(s) {
		event = log.Info()
	}
	event.
		Str("scan_id", s.ScanID).
		Int("processed", s.Processed).
		Int("total", s.Total).
		Int("failed", s.Failed).
		Msg("Scan progress")
}

func milestone(s importer.Snapshot) bool {
	if s.Processed == 0 || s.Done() {
		return true
	}
	step := max(s.Total/10, 1)
	return s.Processed%step == 0
}
