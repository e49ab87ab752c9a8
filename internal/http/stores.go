package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/lightbox/internal/entities"
	"github.com/mrlokans/lightbox/internal/progress"
)

// PhotoStore provides read access to the catalog.
// It is implemented by photos.Repository.
type PhotoStore interface {
	List(ctx context.Context, query string, limit, offset int) ([]entities.Photo, error)
	Count(ctx context.Context, query string) (int64, error)
	GetByID(ctx context.Context, id uint) (*entities.Photo, error)
	ListByTag(ctx context.Context, tagTitle string) ([]entities.Photo, error)
}

// TagStore provides read access to tags. It is implemented by tags.Repository.
type TagStore interface {
	ListTags(ctx context.Context) ([]entities.Tag, error)
	SearchTags(ctx context.Context, query string) ([]entities.Tag, error)
}

// ScanStatusProvider reports the scan running in this process.
// It is implemented by services.ScanService.
type ScanStatusProvider interface {
	Status() progress.Status
}

// ProgressStore reads the persisted progress of the last scan.
// It is implemented by the sync repository.
type ProgressStore interface {
	GetProgress() (*entities.SyncProgress, error)
}

// TaskQueue enqueues background work. It is implemented by tasks.Client.
type TaskQueue interface {
	EnqueueScan(root string) (string, error)
	EnqueueTagCleanup() (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
