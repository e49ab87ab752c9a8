package services

import (
	"context"

	"github.com/mrlokans/lightbox/internal/importer"
)

// LibraryScanner runs one scan over a directory tree.
// It is implemented by importer.Scanner.
type LibraryScanner interface {
	Scan(ctx context.Context, root string, sink importer.ProgressSink) (*importer.Result, error)
}
