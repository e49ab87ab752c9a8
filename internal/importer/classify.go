package importer

import (
	"path/filepath"
	"strings"
)

// Kind is the classification of a discovered path.
type Kind int

const (
	KindOther Kind = iota
	KindRaw
	KindImage
)

// Classifier sorts paths by extension. Matching is case-insensitive and an
// extension listed as both RAW and image is treated as RAW.
type Classifier struct {
	raw   map[string]struct{}
	image map[string]struct{}
}

// NewClassifier builds a classifier from extension lists. Entries may be
// given with or without the leading dot.
func NewClassifier(rawExts, imageExts []string) *Classifier {
	c := &Classifier{
		raw:   make(map[string]struct{}, len(rawExts)),
		image: make(map[string]struct{}, len(imageExts)),
	}
	for _, ext := range rawExts {
		c.raw[normalizeExt(ext)] = struct{}{}
	}
	for _, ext := range imageExts {
		ext = normalizeExt(ext)
		if _, ok := c.raw[ext]; !ok {
			c.image[ext] = struct{}{}
		}
	}
	return c
}

// Kind classifies a single path by its final extension.
func (c *Classifier) Kind(path string) Kind {
	ext := normalizeExt(filepath.Ext(path))
	if ext == "" {
		return KindOther
	}
	if _, ok := c.raw[ext]; ok {
		return KindRaw
	}
	if _, ok := c.image[ext]; ok {
		return KindImage
	}
	return KindOther
}

// Classify partitions paths into RAW and image subsets, each in input order.
// Paths with any other extension are dropped.
func (c *Classifier) Classify(paths []string) (raws, images []string) {
	for _, p := range paths {
		switch c.Kind(p) {
		case KindRaw:
			raws = append(raws, p)
		case KindImage:
			images = append(images, p)
		}
	}
	return raws, images
}

// BaseName returns the file name of path without its final extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
