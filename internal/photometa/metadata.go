// Package photometa reads capture metadata from photo files.
//
// EXIF is decoded with imagemeta, which understands JPEG, TIFF, HEIC and the
// TIFF-based RAW containers (CR2, NEF, ARW, DNG, ...). Keywords and fallback
// dates come from XMP, either the packet embedded in the file or a sidecar
// next to it. A file without any metadata is not an error; only I/O failures
// are reported.
package photometa

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// Metadata is the subset of capture metadata the catalog stores.
type Metadata struct {
	// CreatedAt is the capture timestamp, nil when the file carries none.
	CreatedAt    *time.Time
	Orientation  int
	ExposureTime string
	ISO          int
	FNumber      float64
	FocalLength  float64
	Make         string
	Model        string
	Keywords     []string
}

// maxXMPScan bounds how much of a file is searched for an embedded XMP packet.
const maxXMPScan = 16 << 20

// Reader extracts Metadata from files on disk.
type Reader struct {
	// SidecarExts are tried, in order, as XMP sidecar locations. For a
	// file a.CR2 the candidates are a.xmp and a.CR2.xmp.
	SidecarExts []string
}

// NewReader creates a reader that looks for ".xmp" sidecars.
func NewReader() *Reader {
	return &Reader{SidecarExts: []string{".xmp", ".XMP"}}
}

// ReadTags reads EXIF and XMP metadata for the file at path.
func (r *Reader) ReadTags(ctx context.Context, path string) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	md := &Metadata{}
	if err := readEXIF(f, md); err != nil {
		log.Debug().Str("path", path).Err(err).Msg("No EXIF metadata")
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind %s: %w", path, err)
	}
	head, err := io.ReadAll(io.LimitReader(f, maxXMPScan))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if packet := FindXMPPacket(head); packet != nil {
		mergeXMP(md, packet, path)
	}

	for _, sidecar := range r.sidecarPaths(path) {
		data, err := os.ReadFile(sidecar)
		if err != nil {
			continue
		}
		mergeXMP(md, data, sidecar)
		break
	}

	log.Debug().
		Str("path", path).
		Bool("has_date", md.CreatedAt != nil).
		Int("keywords", len(md.Keywords)).
		Msg("Metadata extraction complete")

	return md, nil
}

func (r *Reader) sidecarPaths(path string) []string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	var paths []string
	for _, ext := range r.SidecarExts {
		paths = append(paths, base+ext, path+ext)
	}
	return paths
}

// readEXIF fills md from the EXIF block of rs.
func readEXIF(rs io.ReadSeeker, md *Metadata) error {
	exif, err := imagemeta.Decode(rs)
	if err != nil {
		return err
	}

	// Priority: DateTimeOriginal > CreateDate > ModifyDate
	for _, t := range []time.Time{exif.DateTimeOriginal(), exif.CreateDate(), exif.ModifyDate()} {
		if !t.IsZero() {
			md.CreatedAt = &t
			break
		}
	}

	md.Orientation = int(exif.Orientation)
	md.ISO = int(exif.ISOSpeed)
	md.FNumber = float64(exif.FNumber)
	md.FocalLength = float64(exif.FocalLength)
	md.ExposureTime = formatExposure(exif.ExposureTime)
	md.Make = strings.TrimSpace(exif.Make)
	md.Model = strings.TrimSpace(exif.Model)
	return nil
}

// formatExposure renders an exposure value such as "1/250", or "" when unset.
func formatExposure(v any) string {
	s := strings.TrimSpace(fmt.Sprint(v))
	switch s {
	case "", "0", "0s", "0/0", "0/1":
		return ""
	}
	return s
}

func mergeXMP(md *Metadata, data []byte, source string) {
	x, err := ParseXMP(data)
	if err != nil {
		log.Debug().Str("source", source).Err(err).Msg("Unparseable XMP")
		return
	}
	if md.CreatedAt == nil && x.CreatedAt != nil {
		md.CreatedAt = x.CreatedAt
	}
	md.Keywords = appendUnique(md.Keywords, x.Keywords...)
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
