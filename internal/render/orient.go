package render

import (
	"image"
	"os"

	"github.com/evanoberholster/imagemeta"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ReadOrientation returns the EXIF orientation of the file at path, or 1
// when the file carries none.
func ReadOrientation(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 1
	}
	defer f.Close()

	exif, err := imagemeta.Decode(f)
	if err != nil {
		return 1
	}
	o := int(exif.Orientation)
	if o < 1 || o > 8 {
		return 1
	}
	return o
}

// Orient returns img transformed so that it displays upright for the given
// EXIF orientation. Orientation 1 and unknown values return img unchanged.
func Orient(img image.Image, orientation int) image.Image {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	// Source-to-destination transforms, in source coordinates relative to b.Min.
	var m f64.Aff3
	swap := false
	switch orientation {
	case 2: // mirror horizontal
		m = f64.Aff3{-1, 0, w, 0, 1, 0}
	case 3: // rotate 180
		m = f64.Aff3{-1, 0, w, 0, -1, h}
	case 4: // mirror vertical
		m = f64.Aff3{1, 0, 0, 0, -1, h}
	case 5: // transpose
		m, swap = f64.Aff3{0, 1, 0, 1, 0, 0}, true
	case 6: // rotate 90 clockwise
		m, swap = f64.Aff3{0, -1, h, 1, 0, 0}, true
	case 7: // transverse
		m, swap = f64.Aff3{0, -1, h, -1, 0, w}, true
	case 8: // rotate 90 counter-clockwise
		m, swap = f64.Aff3{0, 1, 0, -1, 0, w}, true
	default:
		return img
	}

	// Shift so that b.Min maps like the origin.
	minX, minY := float64(b.Min.X), float64(b.Min.Y)
	m[2] -= m[0]*minX + m[1]*minY
	m[5] -= m[3]*minX + m[4]*minY

	dw, dh := b.Dx(), b.Dy()
	if swap {
		dw, dh = dh, dw
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.NearestNeighbor.Transform(dst, m, img, b, draw.Src, nil)
	return dst
}
