package importer

import (
	"context"
	"fmt"
)

// FilterStored drops units whose source path is already cataloged. It
// returns the remaining units in order and the number dropped. A lookup
// error aborts the whole filter.
func FilterStored(ctx context.Context, catalog Catalog, units []Unit) ([]Unit, int, error) {
	kept := make([]Unit, 0, len(units))
	for _, u := range units {
		photo, err := catalog.FindPhotoByMasterPath(ctx, u.Path)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: lookup %s: %w", ErrStorage, u.Path, err)
		}
		if photo != nil {
			continue
		}
		kept = append(kept, u)
	}
	return kept, len(units) - len(kept), nil
}
