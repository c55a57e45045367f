// Package rle implements the run-length encoding used for layer bitmaps.
//
// A bitmap is a sequence of (color, length) byte pairs. A length byte of
// 0xFF is a saturated run of 16384 pixels, any other value n is a run of
// n+1 pixels. Pixels are stored row-major.
package rle

import (
	"fmt"
	"image"

	"github.com/akeil/sntool/internal/errors"
)

const (
	// Protocol is the layer protocol tag for this encoding.
	Protocol = "RATTA_RLE"

	saturatedMarker = 0xff
	// SaturatedRun is the number of pixels in a run with length byte 0xFF.
	SaturatedRun = 0x4000
	// maxShortRun is the longest run a single non-saturated pair holds.
	maxShortRun = 0xfe + 1
)

// Bitmap is a raster of palette colour codes.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte
}

// NewBitmap creates a bitmap filled with the given colour code.
func NewBitmap(width, height int, code byte) *Bitmap {
	pix := make([]byte, width*height)
	if code != 0 {
		for i := range pix {
			pix[i] = code
		}
	}
	return &Bitmap{Width: width, Height: height, Pix: pix}
}

// At returns the colour code at x, y.
func (b *Bitmap) At(x, y int) byte {
	return b.Pix[y*b.Width+x]
}

// Set sets the colour code at x, y.
func (b *Bitmap) Set(x, y int, code byte) {
	b.Pix[y*b.Width+x] = code
}

// IsBlank tells if every pixel has the given (background) code.
func (b *Bitmap) IsBlank(background byte) bool {
	for _, c := range b.Pix {
		if c != background {
			return false
		}
	}
	return true
}

// Image converts the bitmap to an image using the palette colours.
// Background pixels are fully transparent.
func (b *Bitmap) Image(p *Palette) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			img.Set(x, y, p.Color(b.At(x, y)))
		}
	}
	return img
}

// Decode reads an encoded bitmap of exactly width x height pixels.
//
// Every colour code must be part of the palette. Work is bounded by the
// length of data and by the declared size.
func Decode(data []byte, width, height int, p *Palette) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.NewValidationError("invalid bitmap size %dx%d", width, height)
	}
	total := width * height
	pix := make([]byte, total)
	n := 0

	i := 0
	for ; i+1 < len(data); i += 2 {
		code := data[i]
		if !p.Contains(code) {
			return nil, errors.NewFormatError(errors.CorruptBitmap, int64(i),
				"colour code of palette "+p.Name, fmt.Sprintf("0x%02x", code))
		}

		run := int(data[i+1]) + 1
		if data[i+1] == saturatedMarker {
			run = SaturatedRun
		}
		if n+run > total {
			return nil, errors.NewFormatError(errors.CorruptBitmap, int64(i),
				fmt.Sprintf("%d pixels", total), fmt.Sprintf("at least %d", n+run))
		}

		fill(pix[n:n+run], code)
		n += run
	}

	if i < len(data) {
		return nil, errors.NewFormatError(errors.TruncatedBitmap, int64(i), "length byte", "end of data")
	}
	if n < total {
		return nil, errors.NewFormatError(errors.TruncatedBitmap, int64(len(data)),
			fmt.Sprintf("%d pixels", total), fmt.Sprintf("%d", n))
	}

	return &Bitmap{Width: width, Height: height, Pix: pix}, nil
}

func fill(dst []byte, code byte) {
	for i := range dst {
		dst[i] = code
	}
}

// Encode writes the canonical encoding of a width x height buffer of
// colour codes.
//
// Each maximal run becomes as many saturated pairs as fit, followed by
// pairs for the remainder. Other producers may chunk runs differently; the
// decoded pixels are what counts when comparing files.
func Encode(pix []byte, width, height int, p *Palette) ([]byte, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height {
		return nil, errors.NewValidationError("buffer of %d pixels does not match size %dx%d", len(pix), width, height)
	}

	out := make([]byte, 0, 64)
	for i := 0; i < len(pix); {
		code := pix[i]
		if !p.Contains(code) {
			return nil, errors.NewValidationError("colour code 0x%02x at pixel %d is not in palette %v", code, i, p.Name)
		}
		j := i + 1
		for j < len(pix) && pix[j] == code {
			j++
		}
		out = appendRun(out, code, j-i)
		i = j
	}
	return out, nil
}

// EncodeBitmap is Encode for a Bitmap.
func EncodeBitmap(b *Bitmap, p *Palette) ([]byte, error) {
	return Encode(b.Pix, b.Width, b.Height, p)
}

// appendRun writes remainders above 255 pixels as pairs of 255.
//
// Some producers write runs above 128 pixels as two pairs, the first with
// the high bit set on the length byte (high|0x80, then low 7 bits). Devices
// may read length bytes of 0x80 and above that way, so the single pairs
// written here for 129..255 pixels are an interop risk until checked
// against device firmware.
func appendRun(out []byte, code byte, run int) []byte {
	for ; run >= SaturatedRun; run -= SaturatedRun {
		out = append(out, code, saturatedMarker)
	}
	for ; run > maxShortRun; run -= maxShortRun {
		out = append(out, code, byte(maxShortRun-1))
	}
	if run > 0 {
		out = append(out, code, byte(run-1))
	}
	return out
}

// Blank encodes a bitmap where every pixel is the palette background.
func Blank(width, height int, p *Palette) []byte {
	out := make([]byte, 0, 2*(width*height/SaturatedRun+2))
	return appendRun(out, p.Background, width*height)
}
