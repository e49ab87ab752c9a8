// Package walker lists candidate photo files under a library root.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Walker recursively lists regular files. It implements importer.Walker.
type Walker struct {
	// IncludeHidden disables skipping of dot-files and dot-directories.
	IncludeHidden bool
}

// New creates a walker with default settings.
func New() *Walker {
	return &Walker{}
}

// Walk returns the absolute paths of all regular files under root, sorted.
// Directories listed in exclude (and everything below them) are skipped, as
// are symlinks to directories. Unreadable entries are logged and skipped.
func (w *Walker) Walk(ctx context.Context, root string, exclude []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s", root)
		}
		return nil, fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	excluded := make([]string, 0, len(exclude))
	for _, e := range exclude {
		if e == "" {
			continue
		}
		abs, err := filepath.Abs(e)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve excluded path %q: %w", e, err)
		}
		excluded = append(excluded, abs)
	}

	var paths []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error accessing path, skipping")
			if d != nil && d.IsDir() && path != absRoot {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if isExcluded(path, excluded) {
				log.Debug().Str("path", path).Msg("Skipping excluded directory")
				return fs.SkipDir
			}
			if !w.IncludeHidden && isHidden(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if !w.IncludeHidden && isHidden(d.Name()) {
			return nil
		}

		// Follow file symlinks, skip directory symlinks
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("Failed to resolve symlink, skipping")
				return nil
			}
			if target.IsDir() {
				log.Debug().Str("path", path).Msg("Skipping symlink to directory")
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(paths)

	log.Info().
		Str("directory", absRoot).
		Int("files", len(paths)).
		Msg("Directory walk complete")

	return paths, nil
}

func isExcluded(path string, excluded []string) bool {
	for _, e := range excluded {
		if path == e || strings.HasPrefix(path, e+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
