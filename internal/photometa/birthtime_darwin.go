//go:build darwin

package photometa

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// BirthTime returns the creation time of the file at path.
func BirthTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return time.Unix(st.Birthtimespec.Unix()), nil
}
