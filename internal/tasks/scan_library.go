package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/lightbox/internal/importer"
	"github.com/mrlokans/lightbox/internal/scanlock"
)

// LibraryScanner runs a guarded scan. It is implemented by services.ScanService.
type LibraryScanner interface {
	Scan(ctx context.Context, root string, extra ...importer.ProgressSink) (*importer.Result, error)
}

// ScanLibraryTask imports every new photo under Root. An empty Root scans
// the configured library root.
type ScanLibraryTask struct {
	Root string `json:"root,omitempty"`
}

// Config returns the queue configuration for scan tasks.
func (t ScanLibraryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "scan_library",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     2 * time.Hour, // Large libraries with RAW extraction
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ScanLibraryProcessor creates a processor function for ScanLibraryTask.
// A task that finds another scan running is dropped rather than retried;
// the running scan will pick up the same files.
func ScanLibraryProcessor(scanner LibraryScanner) backlite.QueueProcessor[ScanLibraryTask] {
	return func(ctx context.Context, task ScanLibraryTask) error {
		if scanner == nil {
			return fmt.Errorf("library scanner not configured")
		}

		result, err := scanner.Scan(ctx, task.Root)
		if errors.Is(err, scanlock.ErrBusy) {
			log.Info().Str("root", task.Root).Msg("Scan skipped, another scan is running")
			return nil
		}
		if err != nil {
			return fmt.Errorf("scan library: %w", err)
		}

		log.Info().
			Str("scan_id", result.ScanID).
			Int("imported", result.Imported).
			Int("skipped", result.Skipped).
			Int("failed", result.Failed).
			Msg("Scan task complete")
		return nil
	}
}

// NewScanLibraryQueue creates a backlite queue for scan tasks.
func NewScanLibraryQueue(scanner LibraryScanner) backlite.Queue {
	return backlite.NewQueue(ScanLibraryProcessor(scanner))
}
