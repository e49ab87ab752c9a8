//go:build !linux && !darwin

package photometa

import (
	"fmt"
	"os"
	"time"
)

// BirthTime returns the modification time of the file at path; creation
// time is not exposed portably on this platform.
func BirthTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.ModTime(), nil
}
