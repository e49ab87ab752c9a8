// Package importer orchestrates photo library imports.
//
// A scan walks the library root, classifies the discovered paths into RAW
// and rendered-image files, pairs each RAW with its same-named companion,
// drops units already in the catalog, and runs the remaining units through
// the import pipeline on a bounded worker pool.
//
//	walk → classify → pair → dedup → set total → schedule → pipeline → progress
//
// A failed unit is logged and counted; it never aborts the batch. Only walk
// and dedup failures end a scan with an error.
//
// # Collaborators
//
// The package depends on small interfaces for everything that touches the
// outside world: Walker, Renderer, MetadataReader, Catalog and ProgressSink.
// Concrete implementations live in the walker, render, photometa, database
// and progress packages.
//
// # Usage
//
//	scanner := importer.NewScanner(cfg, importer.Deps{
//		Walker:   walker.New(),
//		Renderer: render.NewEngine(),
//		Metadata: photometa.NewReader(),
//		Catalog:  database.NewCatalog(db.DB),
//	})
//	result, err := scanner.Scan(ctx, "/photos", progress.NewLogSink())
package importer

import (
	"context"

	"github.com/mrlokans/lightbox/internal/entities"
	"github.com/mrlokans/lightbox/internal/photometa"
	"github.com/mrlokans/lightbox/internal/render"
)

// Walker lists candidate files under root, skipping the excluded subtrees.
type Walker interface {
	Walk(ctx context.Context, root string, exclude []string) ([]string, error)
}

// Renderer produces derivative images.
type Renderer interface {
	// ExtractPreview writes the embedded preview of a RAW file to destPath
	// and returns the path written.
	ExtractPreview(ctx context.Context, rawPath, destPath string) (string, error)
	RenderThumbnail(ctx context.Context, src render.Source, destPath string, opts render.Options) error
}

// MetadataReader extracts capture metadata from a file.
type MetadataReader interface {
	ReadTags(ctx context.Context, path string) (*photometa.Metadata, error)
}

// Catalog is the photo store. Lookups return nil, nil when nothing matches.
type Catalog interface {
	FindPhotoByTitle(ctx context.Context, title string) (*entities.Photo, error)
	FindPhotoByMasterPath(ctx context.Context, path string) (*entities.Photo, error)
	// InsertPhoto stores photo unless its title is taken. It returns the
	// stored row and whether this call created it.
	InsertPhoto(ctx context.Context, photo *entities.Photo) (*entities.Photo, bool, error)
	FindOrCreateTag(ctx context.Context, title string) (*entities.Tag, error)
	// LinkTagToPhoto is idempotent.
	LinkTagToPhoto(ctx context.Context, photoID, tagID uint) error
}

// ProgressSink observes scan progress. Notify must not block for long; it
// is called from worker goroutines.
type ProgressSink interface {
	Notify(Snapshot)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Snapshot)

func (f SinkFunc) Notify(s Snapshot) { f(s) }

type discardSink struct{}

func (discardSink) Notify(Snapshot) {}

// Deps bundles the collaborators of a Scanner.
type Deps struct {
	Walker   Walker
	Renderer Renderer
	Metadata MetadataReader
	Catalog  Catalog
}
