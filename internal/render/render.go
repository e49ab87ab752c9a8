// Package render produces photo derivatives: oriented thumbnails and
// previews extracted from RAW containers.
//
// Decoding supports JPEG, PNG, GIF, BMP, TIFF and WebP sources. Output is
// encoded by the destination extension (JPEG or PNG) and written atomically,
// so a crashed import never leaves a half-written thumbnail behind.
//
// # Usage
//
//	engine := render.NewEngine()
//	err := engine.RenderThumbnail(ctx, render.Source{Path: "/photos/a.jpg"},
//		"/thumbs250/a.jpg", render.Options{MaxWidth: 250, MaxHeight: 250, Quality: 100, AutoOrient: true})
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultQuality is used when Options.Quality is zero.
const DefaultQuality = 90

var (
	// ErrUnsupportedFormat is returned for destination extensions we cannot encode.
	ErrUnsupportedFormat = errors.New("unsupported output format")
	// ErrNoPreview is returned when no extractor could pull a preview from a RAW file.
	ErrNoPreview = errors.New("no embedded preview found")
)

// Source identifies the image to render.
type Source struct {
	Path string
	// Orientation is the EXIF orientation (1-8) to apply. Zero means read it
	// from the source file.
	Orientation int
}

// Options controls thumbnail rendering.
type Options struct {
	// MaxWidth and MaxHeight bound the output. Zero leaves that axis unbounded.
	// Images are never upscaled.
	MaxWidth  int
	MaxHeight int
	// Quality is the JPEG quality (1-100).
	Quality    int
	AutoOrient bool
}

// Engine renders thumbnails and extracts RAW previews.
type Engine struct {
	extractors []PreviewExtractor
}

// Option configures an Engine.
type Option func(*Engine)

// WithExtractors replaces the preview extractor chain.
func WithExtractors(extractors ...PreviewExtractor) Option {
	return func(e *Engine) {
		e.extractors = extractors
	}
}

// NewEngine creates an engine with the default extractor chain: exiftool when
// it is installed, then the built-in embedded JPEG scanner.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{extractors: DefaultExtractors()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RenderThumbnail decodes src, optionally normalizes its orientation, fits it
// within the configured bounds and writes it to destPath.
func (e *Engine) RenderThumbnail(ctx context.Context, src Source, destPath string, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := decodeFile(src.Path)
	if err != nil {
		return err
	}

	if opts.AutoOrient {
		orientation := src.Orientation
		if orientation == 0 {
			orientation = ReadOrientation(src.Path)
		}
		img = Orient(img, orientation)
	}

	bounds := img.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), opts.MaxWidth, opts.MaxHeight)
	if width != bounds.Dx() || height != bounds.Dy() {
		resized := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
	}

	if err := writeImage(destPath, img, opts.Quality); err != nil {
		return err
	}

	log.Debug().
		Str("source", src.Path).
		Str("dest", destPath).
		Int("orig_width", bounds.Dx()).
		Int("orig_height", bounds.Dy()).
		Int("width", width).
		Int("height", height).
		Msg("Thumbnail rendered")
	return nil
}

// ExtractPreview pulls the embedded preview out of a RAW file into destPath,
// trying each extractor in turn. Returns the written path.
func (e *Engine) ExtractPreview(ctx context.Context, rawPath, destPath string) (string, error) {
	var errs []error
	for _, extractor := range e.extractors {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		err := extractor.Extract(ctx, rawPath, destPath)
		if err == nil {
			if err := uprightPreview(rawPath, destPath); err != nil {
				log.Warn().Err(err).Str("raw", rawPath).Msg("Failed to orient preview")
			}
			log.Debug().
				Str("raw", rawPath).
				Str("extractor", extractor.Name()).
				Msg("Preview extracted")
			return destPath, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", extractor.Name(), err))
	}
	return "", fmt.Errorf("%w in %s: %w", ErrNoPreview, rawPath, errors.Join(errs...))
}

// uprightPreview applies the RAW file's orientation to an extracted preview
// that carries none of its own, so later renders need no RAW context.
func uprightPreview(rawPath, previewPath string) error {
	orientation := ReadOrientation(rawPath)
	if orientation == 1 || ReadOrientation(previewPath) != 1 {
		return nil
	}
	img, err := decodeFile(previewPath)
	if err != nil {
		return err
	}
	return writeImage(previewPath, Orient(img, orientation), 95)
}

// FitWithin returns the largest size with the same aspect ratio as w×h that
// fits within maxW×maxH. Sizes already inside the box are returned unchanged.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if maxW <= 0 {
		maxW = w
	}
	if maxH <= 0 {
		maxH = h
	}
	if w <= maxW && h <= maxH {
		return w, h
	}

	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := int(math.Round(float64(w) * scale))
	nh := int(math.Round(float64(h) * scale))
	return max(nw, 1), max(nh, 1)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	log.Debug().Str("path", path).Str("format", format).Msg("Image decoded")
	return img, nil
}

func writeImage(destPath string, img image.Image, quality int) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(destPath), "."))
	var encode func(io.Writer) error
	switch ext {
	case "jpg", "jpeg":
		encode = func(w io.Writer) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: clampQuality(quality)})
		}
	case "png":
		encode = func(w io.Writer) error {
			return png.Encode(w, img)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return writeAtomic(destPath, encode)
}

// writeAtomic writes to a temp file in the destination directory and renames
// it into place.
func writeAtomic(destPath string, write func(io.Writer) error) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".render-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode %s: %w", destPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

func clampQuality(q int) int {
	if q <= 0 {
		return DefaultQuality
	}
	return min(q, 100)
}
