package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// derivatives tracks thumbnails rendered next to their final location. They
// replace the final files only once the photo row is created, so a title that
// loses to another import never overwrites the winner's thumbnails.
type derivatives struct {
	pending map[string]string // staged path -> final path
}

func newDerivatives() *derivatives {
	return &derivatives{pending: make(map[string]string)}
}

// stage reserves a temporary file in final's directory and returns its path.
func (d *derivatives) stage(u Unit, final string) (string, error) {
	dir := filepath.Dir(final)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+u.Name+"-*"+filepath.Ext(final))
	if err != nil {
		return "", fmt.Errorf("stage %s: %w", final, err)
	}
	staged := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(staged)
		return "", err
	}
	d.pending[staged] = final
	return staged, nil
}

func (d *derivatives) promote() error {
	var errs []error
	for staged, final := range d.pending {
		if err := os.Rename(staged, final); err != nil {
			errs = append(errs, fmt.Errorf("promote %s: %w", final, err))
			continue
		}
		delete(d.pending, staged)
	}
	return errors.Join(errs...)
}

// discard removes whatever was not promoted.
func (d *derivatives) discard() {
	for staged := range d.pending {
		os.Remove(staged)
	}
	clear(d.pending)
}
