package sntool

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/akeil/sntool/internal/errors"
	"github.com/akeil/sntool/internal/imaging"
	"github.com/akeil/sntool/pkg/meta"
	"github.com/akeil/sntool/pkg/note"
	"github.com/akeil/sntool/pkg/rle"
)

// PageContent describes one page to be written.
//
// At most one background source is used, in this order: BackgroundPNG,
// Background, BackgroundBitmap, Template. At most one ink source is used:
// InkBitmap, then Ink. Without ink the main layer is a blank run.
type PageContent struct {
	// ID is generated if empty.
	ID        string
	Landscape bool

	// BackgroundPNG is stored as is if it has the page geometry.
	BackgroundPNG []byte
	Background    image.Image

	// BackgroundBitmap is an RLE background, as written for built-in
	// templates.
	BackgroundBitmap *rle.Bitmap

	// Template names a built-in page style when no background data is given.
	Template string

	// Style is the style name for the background asset; pages with the same
	// style name and identical background share one block.
	Style string

	Ink       image.Image
	InkBitmap *rle.Bitmap

	// Extras holds bitmaps for LAYER1..LAYER3 carried over from a parsed page.
	// Decompose leaves the extra layers absent.
	Extras map[string]*rle.Bitmap

	// LayerSeq and LayerInfo override the defaults.
	LayerSeq  []string
	LayerInfo []note.LayerInfo

	// Record holds page values to carry over. Keys outside the page field
	// table and keys for layout or addresses are ignored.
	Record *meta.Record

	// Opaque blocks by page key (TOTALPATH, PAGETEXTBOX, RECOGNTEXT,
	// RECOGNFILE), written byte for byte.
	Opaque map[string][]byte

	// MainRecogn is the opaque recognition block of the main layer.
	MainRecogn []byte

	// Vectors holds opaque stroke vector blocks by layer slot.
	Vectors map[string][]byte
}

// DecomposePolicy controls how images are turned into layers.
// Zero values are replaced with defaults.
type DecomposePolicy struct {
	// Threshold is the highest gray value that becomes ink.
	Threshold uint8

	// Grays maps mid-tones to the gray palette codes instead of black.
	Grays bool

	// StyleName is used for backgrounds of pages without a Style.
	StyleName string
}

const (
	defaultThreshold = 127
	defaultStyleName = "user_sntool"
	defaultTemplate  = "style_white"
)

func (p DecomposePolicy) norm() DecomposePolicy {
	if p.Threshold == 0 {
		p.Threshold = defaultThreshold
	}
	if p.StyleName == "" {
		p.StyleName = defaultStyleName
	}
	return p
}

// LayerData is the encoded content of one layer.
// Data is nil for a present layer without content.
type LayerData struct {
	Protocol string
	Data     []byte
}

// Layers is the result of decomposing a page.
type Layers struct {
	Main       *LayerData
	Background *LayerData

	// Style is the name of the background style; if IsAsset is set the
	// background data is stored as a style asset.
	Style   string
	IsAsset bool
	Width   int
	Height  int
}

// Decompose turns page content into encoded layers for the given profile.
//
// The main layer is always present: without ink it is a single blank run,
// because devices treat a missing main layer differently from an empty one.
// The background layer is present with a data block for imagery and
// without one for a template reference. Extra layers are not produced.
func Decompose(c PageContent, p *note.Profile, policy DecomposePolicy) (*Layers, error) {
	if p == nil {
		p = note.DefaultProfile
	}
	policy = policy.norm()

	w, h := p.Width, p.Height
	if c.Landscape {
		w, h = h, w
	}
	out := &Layers{Width: w, Height: h}

	main, err := decomposeInk(c, w, h, p.Palette, policy)
	if err != nil {
		return nil, err
	}
	out.Main = &LayerData{Protocol: rle.Protocol, Data: main}

	bg, err := decomposeBackground(c, w, h, p.Palette)
	if err != nil {
		return nil, err
	}
	out.Background = &LayerData{Protocol: note.ProtocolBackground, Data: bg}

	switch {
	case bg != nil && isPNG(bg):
		out.IsAsset = true
		out.Style = c.Style
		if out.Style == "" {
			out.Style = policy.StyleName
		}
	case c.Template != "":
		out.Style = c.Template
	default:
		out.Style = defaultTemplate
	}
	return out, nil
}

func decomposeInk(c PageContent, w, h int, pal *rle.Palette, policy DecomposePolicy) ([]byte, error) {
	switch {
	case c.InkBitmap != nil:
		if c.InkBitmap.Width != w || c.InkBitmap.Height != h {
			return nil, errors.NewValidationError("ink bitmap is %dx%d, page is %dx%d",
				c.InkBitmap.Width, c.InkBitmap.Height, w, h)
		}
		return rle.EncodeBitmap(c.InkBitmap, pal)
	case c.Ink != nil:
		img := c.Ink
		if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
			img = imaging.Fit(img, w, h, color.White)
		}
		return rle.Encode(imaging.Quantize(img, inkLevels(pal, policy)), w, h, pal)
	default:
		return rle.Blank(w, h, pal), nil
	}
}

// inkLevels maps gray values to palette codes; everything brighter than
// the threshold is background.
func inkLevels(pal *rle.Palette, policy DecomposePolicy) []imaging.Level {
	t := policy.Threshold
	levels := []imaging.Level{
		{Max: t, Code: pal.Ink},
		{Max: 255, Code: pal.Background},
	}
	if policy.Grays && t > 2 {
		// split the ink range in thirds: black, dark gray, gray
		third := t / 3
		levels = []imaging.Level{
			{Max: third, Code: pal.Ink},
			{Max: 2 * third, Code: rle.CodeDarkGray},
			{Max: t, Code: rle.CodeGray},
			{Max: 255, Code: pal.Background},
		}
	}
	return levels
}

func decomposeBackground(c PageContent, w, h int, pal *rle.Palette) ([]byte, error) {
	switch {
	case c.BackgroundPNG != nil:
		if !isPNG(c.BackgroundPNG) {
			return nil, errors.NewValidationError("background is not a PNG image")
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(c.BackgroundPNG))
		if err != nil {
			return nil, errors.NewValidationError("invalid background PNG: %v", err)
		}
		if cfg.Width == w && cfg.Height == h {
			return c.BackgroundPNG, nil
		}
		img, err := png.Decode(bytes.NewReader(c.BackgroundPNG))
		if err != nil {
			return nil, errors.NewValidationError("invalid background PNG: %v", err)
		}
		return encodePNG(imaging.Fit(img, w, h, color.White))
	case c.Background != nil:
		img := c.Background
		if img.Bounds().Dx() != w || img.Bounds().Dy() != h || img.Bounds().Min != (image.Point{}) {
			img = imaging.Fit(img, w, h, color.White)
		}
		return encodePNG(img)
	case c.BackgroundBitmap != nil:
		b := c.BackgroundBitmap
		if b.Width != w || b.Height != h {
			return nil, errors.NewValidationError("background bitmap is %dx%d, page is %dx%d", b.Width, b.Height, w, h)
		}
		return rle.EncodeBitmap(b, pal)
	default:
		return nil, nil
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	err := png.Encode(&buf, img)
	if err != nil {
		return nil, errors.Wrap(err, "encode background")
	}
	return buf.Bytes(), nil
}
