package sntool

import (
	"bytes"
	"image"
	"image/png"

	"github.com/akeil/sntool/internal/errors"
	"github.com/akeil/sntool/pkg/meta"
	"github.com/akeil/sntool/pkg/note"
	"github.com/akeil/sntool/pkg/rle"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// Page is one page of a notebook.
type Page struct {
	Index       int
	Address     uint32
	ID          string
	Style       string
	StyleHash   string
	Orientation int

	// Width and Height of the layer bitmaps; swapped for landscape pages.
	Width  int
	Height int

	// LayerSeq lists layer slots front to back.
	LayerSeq  []string
	LayerInfo []note.LayerInfo

	// Opaque holds stroke path, text box and recognition blocks by page
	// key. They are kept byte for byte and never interpreted.
	Opaque map[string][]byte
	Record *meta.Record

	layers  map[string]*Layer
	palette *rle.Palette
}

func readPage(d *note.Directory, index int, addr uint32) (*Page, error) {
	rec, err := d.Metadata(addr)
	if err != nil {
		return nil, err
	}
	pr, err := note.ParsePageRecord(rec, d.Strict())
	if err != nil {
		return nil, err
	}

	pg := &Page{
		Index:       index,
		Address:     addr,
		ID:          pr.ID,
		Style:       pr.Style,
		StyleHash:   pr.StyleHash,
		Orientation: pr.Orientation,
		Width:       d.Profile.Width,
		Height:      d.Profile.Height,
		LayerSeq:    pr.LayerSeq,
		LayerInfo:   pr.LayerInfo,
		Opaque:      make(map[string][]byte),
		Record:      pr.Record,
		layers:      make(map[string]*Layer),
		palette:     d.Profile.Palette,
	}
	if pr.Landscape() {
		pg.Width, pg.Height = pg.Height, pg.Width
	}

	for _, slot := range note.LayerNames {
		a := pr.Layers[slot]
		if a == 0 {
			continue
		}
		l, err := readLayer(d, pg, slot, a)
		if err != nil {
			return nil, errors.Wrap(err, "layer %v", slot)
		}
		pg.layers[slot] = l
	}

	for key, a := range pr.Opaque {
		if a == 0 {
			continue
		}
		data, err := d.Block(a)
		if err != nil {
			return nil, errors.Wrap(err, "page key %v", key)
		}
		pg.Opaque[key] = data
	}

	return pg, nil
}

// Landscape tells if the page is rotated.
func (p *Page) Landscape() bool {
	return p.Orientation == note.OrientationLandscape
}

// Layer returns the layer in the given slot, nil if absent.
func (p *Page) Layer(slot string) *Layer {
	return p.layers[slot]
}

// Main is the main drawing layer, nil if absent.
func (p *Page) Main() *Layer {
	return p.layers[note.LayerMain]
}

// Background is the background layer, nil if absent.
func (p *Page) Background() *Layer {
	return p.layers[note.LayerBackground]
}

// Layers lists the present layers front to back by slot.
func (p *Page) Layers() []*Layer {
	var out []*Layer
	for _, slot := range note.LayerNames {
		if l := p.layers[slot]; l != nil {
			out = append(out, l)
		}
	}
	return out
}

// Layer is one plane of a page.
type Layer struct {
	dir     *note.Directory
	palette *rle.Palette
	width   int
	height  int

	Slot     string
	Name     string
	Type     string
	Protocol string

	// Address of the layer metadata.
	Address uint32

	// BitmapAddress is 0 for a layer without content.
	BitmapAddress uint32

	// Recogn and Vector are the opaque recognition and stroke vector
	// blocks of the layer, nil if absent.
	Recogn []byte
	Vector []byte
	Record *meta.Record
}

func readLayer(d *note.Directory, pg *Page, slot string, addr uint32) (*Layer, error) {
	rec, err := d.Metadata(addr)
	if err != nil {
		return nil, err
	}
	lr, err := note.ParseLayerRecord(rec, d.Strict())
	if err != nil {
		return nil, err
	}
	l := &Layer{
		dir:           d,
		palette:       pg.palette,
		width:         pg.Width,
		height:        pg.Height,
		Slot:          slot,
		Name:          lr.Name,
		Type:          lr.Type,
		Protocol:      lr.Protocol,
		Address:       addr,
		BitmapAddress: lr.Bitmap,
		Record:        lr.Record,
	}

	// resolve now so that later lookups cannot fail on bounds
	if _, err := d.Block(lr.Bitmap); err != nil {
		return nil, err
	}
	if l.Recogn, err = d.Block(lr.Recogn); err != nil {
		return nil, err
	}
	if l.Vector, err = d.Block(lr.VectorGraph); err != nil {
		return nil, err
	}
	return l, nil
}

// Raw returns the undecoded bitmap block, nil for a layer without content.
func (l *Layer) Raw() ([]byte, error) {
	return l.dir.Block(l.BitmapAddress)
}

// IsPNG tells if the layer content is a PNG image rather than RLE data.
// Background layers referencing a custom style are stored like this.
func (l *Layer) IsPNG() bool {
	raw, err := l.Raw()
	return err == nil && isPNG(raw)
}

func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngMagic)
}

// Bitmap decodes the RLE content of the layer.
// A layer without content yields a blank bitmap.
func (l *Layer) Bitmap() (*rle.Bitmap, error) {
	raw, err := l.Raw()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return rle.NewBitmap(l.width, l.height, l.palette.Background), nil
	}
	if isPNG(raw) {
		return nil, errors.NewValidationError("layer %v holds a PNG image, not a bitmap", l.Slot)
	}
	b, err := rle.Decode(raw, l.width, l.height, l.palette)
	if err != nil {
		return nil, errors.Wrap(err, "decode layer %v at %d", l.Slot, l.BitmapAddress)
	}
	return b, nil
}

// Image decodes the layer content into an image. The palette background
// is transparent. A layer without content yields nil.
func (l *Layer) Image() (image.Image, error) {
	raw, err := l.Raw()
	if err != nil || raw == nil {
		return nil, err
	}
	if isPNG(raw) {
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.NewFormatError(errors.CorruptBitmap, int64(l.BitmapAddress), "PNG image", err.Error())
		}
		return img, nil
	}
	b, err := l.Bitmap()
	if err != nil {
		return nil, err
	}
	return b.Image(l.palette), nil
}
