package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/lightbox/internal/importer"
	"github.com/mrlokans/lightbox/internal/progress"
	"github.com/mrlokans/lightbox/internal/scanlock"
)

// ErrScanRunning is returned when a scan is requested while one is running.
var ErrScanRunning = scanlock.ErrBusy

// ScanService runs library scans one at a time and reports their progress
// to the log, the in-memory tracker and the progress table.
type ScanService struct {
	scanner  LibraryScanner
	lock     *scanlock.Lock
	tracker  *progress.Tracker
	recorder *progress.Recorder
	// defaultRoot is scanned when a request names no root.
	defaultRoot string
}

// NewScanService creates a ScanService. recorder may be nil.
func NewScanService(scanner LibraryScanner, lock *scanlock.Lock, tracker *progress.Tracker, recorder *progress.Recorder, defaultRoot string) *ScanService {
	if tracker == nil {
		tracker = progress.NewTracker()
	}
	return &ScanService{
		scanner:     scanner,
		lock:        lock,
		tracker:     tracker,
		recorder:    recorder,
		defaultRoot: defaultRoot,
	}
}

// Scan imports every new photo under root, or under the default root when
// root is empty. extra sinks receive the same snapshots as the built-in ones.
func (s *ScanService) Scan(ctx context.Context, root string, extra ...importer.ProgressSink) (*importer.Result, error) {
	if root == "" {
		root = s.defaultRoot
	}
	if root == "" {
		return nil, errors.New("no library root given")
	}

	release, err := s.lock.TryAcquire()
	if err != nil {
		return nil, err
	}
	defer release()

	sinks := []importer.ProgressSink{progress.NewLogSink(), s.tracker}
	if s.recorder != nil {
		sinks = append(sinks, s.recorder)
	}
	sinks = append(sinks, extra...)

	result, err := s.scanner.Scan(ctx, root, progress.Multi(sinks...))

	s.tracker.Finish(result, err)
	if s.recorder != nil {
		if recErr := s.recorder.Finish(root, err); recErr != nil {
			log.Warn().Err(recErr).Str("root", root).Msg("Failed to record scan completion")
		}
	}
	if err != nil {
		log.Error().Err(err).Str("root", root).Msg("Scan failed")
		return nil, err
	}
	return result, nil
}

// Status returns the progress of the current or last scan run by this process.
func (s *ScanService) Status() progress.Status {
	return s.tracker.Status()
}

// DefaultRoot returns the configured library root.
func (s *ScanService) DefaultRoot() string {
	return s.defaultRoot
}
