package importer

// Unit is one import work item: a RAW file with an optional rendered
// companion, or a standalone image.
type Unit struct {
	Path string
	// Name is the file name without its extension; it becomes the photo title.
	Name  string
	IsRaw bool
	// CompanionPath is the rendered image paired with a RAW, if any.
	CompanionPath string
}

// HasCompanion reports whether the unit is a RAW with a paired image.
func (u Unit) HasCompanion() bool {
	return u.CompanionPath != ""
}

// Pair builds import units. Each RAW claims the first unclaimed image with
// the same base name; unclaimed images become standalone units. RAW-derived
// units come first, then standalone images, both in input order.
func Pair(raws, images []string) []Unit {
	claimed := make([]bool, len(images))
	byName := make(map[string][]int, len(images))
	for i, img := range images {
		name := BaseName(img)
		byName[name] = append(byName[name], i)
	}

	units := make([]Unit, 0, len(raws)+len(images))
	for _, raw := range raws {
		u := Unit{Path: raw, Name: BaseName(raw), IsRaw: true}
		for _, i := range byName[u.Name] {
			if !claimed[i] {
				claimed[i] = true
				u.CompanionPath = images[i]
				break
			}
		}
		units = append(units, u)
	}

	for i, img := range images {
		if claimed[i] {
			continue
		}
		units = append(units, Unit{Path: img, Name: BaseName(img)})
	}
	return units
}
