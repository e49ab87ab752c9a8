package http

import (
	"github.com/mrlokans/lightbox/internal/database"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
// Nil stores disable the routes that need them.
type RouterConfig struct {
	Database *database.Database
	Version  string

	Photos PhotoStore
	Tags   TagStore

	// Scan progress and control
	ScanStatus  ScanStatusProvider
	Progress    ProgressStore
	TaskQueue   TaskQueue
	LibraryRoot string
}
