package sntool

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/akeil/sntool/internal/errors"
	"github.com/akeil/sntool/internal/imaging"
	"github.com/akeil/sntool/internal/logging"
	"github.com/akeil/sntool/pkg/note"
)

// Paper is the color of the canvas below all layers.
var Paper color.Color = color.White

// Assemble composes the layers of the page into one image.
//
// Layers are painted back to front on white paper: the background, the
// extra layers in reverse LAYERSEQ order, then the main layer. The
// background code of the palette is transparent. Images that do not match
// the page geometry (like a PNG background from a different device) are
// scaled to fit.
func (p *Page) Assemble() (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Paper), image.Point{}, draw.Src)

	for _, l := range p.paintOrder() {
		img, err := l.Image()
		if err != nil {
			return nil, errors.Wrap(err, "assemble page %d", p.Index+1)
		}
		if img == nil {
			continue
		}
		if img.Bounds().Dx() != p.Width || img.Bounds().Dy() != p.Height {
			logging.Debug("Scale layer %v from %v to %dx%d", l.Slot, img.Bounds().Size(), p.Width, p.Height)
			img = imaging.Fit(img, p.Width, p.Height, color.Transparent)
		}
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Over)
	}
	return dst, nil
}

// paintOrder lists the present layers back to front.
func (p *Page) paintOrder() []*Layer {
	var out []*Layer
	if bg := p.Background(); bg != nil {
		out = append(out, bg)
	}

	listed := make(map[string]bool)
	for i := len(p.LayerSeq) - 1; i >= 0; i-- {
		slot := p.LayerSeq[i]
		if slot == note.LayerMain || slot == note.LayerBackground || listed[slot] {
			continue
		}
		listed[slot] = true
		if l := p.Layer(slot); l != nil {
			out = append(out, l)
		}
	}
	for _, slot := range []string{note.Layer1, note.Layer2, note.Layer3} {
		if l := p.Layer(slot); l != nil && !listed[slot] {
			logging.Debug("Skip layer %v, not in layer sequence of page %d", slot, p.Index+1)
		}
	}

	if m := p.Main(); m != nil {
		out = append(out, m)
	}
	return out
}
