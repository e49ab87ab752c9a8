package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/lightbox/internal/database"
	"github.com/mrlokans/lightbox/internal/database/photos"
	"github.com/mrlokans/lightbox/internal/database/sync"
	"github.com/mrlokans/lightbox/internal/database/tags"
	"github.com/mrlokans/lightbox/internal/http"
	"github.com/mrlokans/lightbox/internal/importer"
	"github.com/mrlokans/lightbox/internal/photometa"
	"github.com/mrlokans/lightbox/internal/progress"
	"github.com/mrlokans/lightbox/internal/render"
	"github.com/mrlokans/lightbox/internal/scheduler"
	"github.com/mrlokans/lightbox/internal/services"
	"github.com/mrlokans/lightbox/internal/tasks"
	"github.com/mrlokans/lightbox/internal/walker"
)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importer.Walker = (*walker.Walker)(nil)
var _ importer.Renderer = (*render.Engine)(nil)
var _ importer.MetadataReader = (*photometa.Reader)(nil)
var _ importer.Catalog = (*database.Catalog)(nil)

var _ render.PreviewExtractor = (*render.ExiftoolExtractor)(nil)
var _ render.PreviewExtractor = (*render.EmbeddedJPEGExtractor)(nil)

// =============================================================================
// Progress Tracking
// =============================================================================

var _ importer.ProgressSink = (*progress.LogSink)(nil)
var _ importer.ProgressSink = (*progress.Tracker)(nil)
var _ importer.ProgressSink = (*progress.Recorder)(nil)
var _ progress.Store = (*sync.Repository)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ services.LibraryScanner = (*importer.Scanner)(nil)
var _ tasks.LibraryScanner = (*services.ScanService)(nil)
var _ tasks.OrphanTagsCleaner = (*tags.Repository)(nil)
var _ scheduler.ScanEnqueuer = (*tasks.Client)(nil)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.PhotoStore = (*photos.Repository)(nil)
var _ http.TagStore = (*tags.Repository)(nil)
var _ http.ProgressStore = (*sync.Repository)(nil)
var _ http.ScanStatusProvider = (*services.ScanService)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
