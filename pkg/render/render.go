// Package render exports assembled notebook pages as PNG and PDF.
package render

import (
	"image"
	"image/png"
	"io"

	"github.com/akeil/sntool"
	"github.com/akeil/sntool/internal/imaging"
	"github.com/akeil/sntool/internal/logging"
)

// Options control page export.
type Options struct {
	// Portrait turns landscape pages upright so that all pages of a PDF
	// share one size.
	Portrait bool

	// Width scales exported pages to the given pixel width, keeping the
	// aspect ratio. Zero keeps the device resolution.
	Width int
}

// PNG assembles the given page and writes the PNG data to the given writer.
func PNG(p *sntool.Page, w io.Writer, opts Options) error {
	img, err := pageImage(p, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func pageImage(p *sntool.Page, opts Options) (image.Image, error) {
	img, err := p.Assemble()
	if err != nil {
		return nil, err
	}
	var out image.Image = img
	if opts.Portrait && p.Landscape() {
		logging.Debug("Rotate landscape page %d", p.Index+1)
		out = imaging.Rotate(1, img)
	}
	return scale(out, opts.Width), nil
}

// scale stretches to width with nearest neighbour so ink stays crisp.
func scale(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || width == b.Dx() {
		return img
	}
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	return imaging.Scale(img, width, height)
}
