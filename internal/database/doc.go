// Package database provides the photo catalog storage layer.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── catalog.go       # importer.Catalog adapter over the repositories
//	├── photos/          # Photo records
//	├── tags/            # Tags and photo/tag links
//	└── sync/            # Persisted scan progress
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./lightbox.db")
//
//	photosRepo := photos.NewRepository(db.DB)
//	tagsRepo := tags.NewRepository(db.DB)
//
//	photo, err := photosRepo.FindByTitle(ctx, "IMG_0001")
//
// The import pipeline never talks to the repositories directly; it goes
// through Catalog, which maps gorm.ErrRecordNotFound to a nil result.
//
// # Concurrency
//
// The sqlite connection pool is capped at one connection. Photo titles and
// tag titles carry unique indexes, and inserts use ON CONFLICT DO NOTHING
// followed by a re-read, so concurrent workers racing on the same key
// converge on a single row.
package database
