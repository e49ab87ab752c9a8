package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// PreviewExtractor pulls a displayable JPEG out of a RAW file.
type PreviewExtractor interface {
	Name() string
	Extract(ctx context.Context, rawPath, destPath string) error
}

// DefaultExtractors returns exiftool (when found on PATH) followed by the
// embedded JPEG scanner.
func DefaultExtractors() []PreviewExtractor {
	var extractors []PreviewExtractor
	if path, err := exec.LookPath("exiftool"); err == nil {
		extractors = append(extractors, &ExiftoolExtractor{Binary: path})
	} else {
		log.Debug().Msg("exiftool not found, using embedded JPEG scanner only")
	}
	return append(extractors, &EmbeddedJPEGExtractor{})
}

// ExiftoolExtractor shells out to exiftool to dump the largest preview tag.
type ExiftoolExtractor struct {
	Binary string
}

var exiftoolTags = []string{"-PreviewImage", "-JpgFromRaw", "-ThumbnailImage"}

func (x *ExiftoolExtractor) Name() string { return "exiftool" }

func (x *ExiftoolExtractor) Extract(ctx context.Context, rawPath, destPath string) error {
	for _, tag := range exiftoolTags {
		cmd := exec.CommandContext(ctx, x.Binary, "-b", tag, rawPath)
		out, err := cmd.Output()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		if !isJPEG(out) {
			continue
		}
		return writeAtomic(destPath, func(w io.Writer) error {
			_, err := w.Write(out)
			return err
		})
	}
	return errors.New("exiftool returned no preview")
}

// maxCandidates bounds how many embedded JPEG headers are probed per file.
const maxCandidates = 64

// EmbeddedJPEGExtractor scans the RAW container for embedded baseline JPEG
// streams and re-encodes the largest one that decodes.
type EmbeddedJPEGExtractor struct {
	// Quality of the re-encoded preview. Defaults to 95.
	Quality int
}

func (x *EmbeddedJPEGExtractor) Name() string { return "embedded" }

func (x *EmbeddedJPEGExtractor) Extract(ctx context.Context, rawPath, destPath string) error {
	data, err := os.ReadFile(rawPath)
	if err != nil {
		return fmt.Errorf("failed to read raw file: %w", err)
	}

	best, bestArea := -1, 0
	for i, off := range jpegOffsets(data) {
		if i >= maxCandidates {
			break
		}
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data[off:]))
		if err != nil {
			continue
		}
		if area := cfg.Width * cfg.Height; area > bestArea {
			best, bestArea = off, area
		}
	}
	if best < 0 {
		return errors.New("no decodable JPEG stream")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := jpeg.Decode(bytes.NewReader(data[best:]))
	if err != nil {
		return fmt.Errorf("failed to decode embedded JPEG: %w", err)
	}

	quality := x.Quality
	if quality == 0 {
		quality = 95
	}
	return writeAtomic(destPath, func(w io.Writer) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	})
}

var soi = []byte{0xFF, 0xD8, 0xFF}

// jpegOffsets returns the offsets of every JPEG start-of-image marker in data.
func jpegOffsets(data []byte) []int {
	var offsets []int
	for pos := 0; pos < len(data); {
		i := bytes.Index(data[pos:], soi)
		if i < 0 {
			break
		}
		offsets = append(offsets, pos+i)
		pos += i + len(soi)
	}
	return offsets
}

func isJPEG(b []byte) bool {
	return bytes.HasPrefix(b, soi)
}
