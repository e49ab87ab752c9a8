// Package interfaces documents the core abstractions used throughout the application.
//
// It holds no runtime code; checks.go pins every concrete type to the
// interfaces it is wired through, so a signature drift fails the build here
// instead of at the wiring site.
//
// # Interface Categories
//
// ## Import Pipeline (internal/importer/importer.go)
//
//   - Walker: lists candidate files under a root (internal/walker)
//   - Renderer: extracts RAW previews and renders thumbnails (internal/render)
//   - MetadataReader: EXIF and XMP capture metadata (internal/photometa)
//   - Catalog: photo and tag persistence (internal/database/catalog.go)
//   - ProgressSink: receives per-scan snapshots (internal/progress)
//
// ## Background Work
//
//   - LibraryScanner: one guarded scan (internal/services, internal/tasks)
//   - OrphanTagsCleaner: tag cleanup task (internal/tasks/cleanup_tags.go)
//   - ScanEnqueuer: cron rescans (internal/scheduler/rescan.go)
//
// ## HTTP Stores (internal/http/stores.go)
//
//   - PhotoStore, TagStore: catalog reads
//   - ProgressStore, ScanStatusProvider: persisted and live scan progress
//   - TaskQueue: enqueue scans and cleanups, poll task status
//
// # Adding a New Preview Extractor
//
// RAW previews come from a chain of render.PreviewExtractor values tried in
// order until one succeeds.
//
//  1. Implement the interface in internal/render/
//
//     type DcrawExtractor struct{ Binary string }
//
//     func (e *DcrawExtractor) Name() string { return "dcraw" }
//
//     func (e *DcrawExtractor) Extract(ctx context.Context, rawPath, destPath string) error {
//         // Write a JPEG preview of rawPath to destPath
//     }
//
//  2. Add it to render.DefaultExtractors, or pass it explicitly:
//
//     engine := render.NewEngine(render.WithExtractors(&DcrawExtractor{}, &render.EmbeddedJPEGExtractor{}))
//
//  3. Register a compile-time check in checks.go
//
//     var _ render.PreviewExtractor = (*render.DcrawExtractor)(nil)
package interfaces
