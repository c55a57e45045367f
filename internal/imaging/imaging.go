package imaging

import (
	"image"
	"image/color"
	"math"
	"sort"

	"golang.org/x/image/draw"
)

// Fit scales the given image to fit into width x height, keeping the aspect
// ratio, and centers it on a canvas filled with bg.
// Returns the canvas.
func Fit(i image.Image, width, height int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	src := i.Bounds()
	if src.Empty() {
		return dst
	}
	scale := math.Min(float64(width)/float64(src.Dx()), float64(height)/float64(src.Dy()))
	w := int(math.Round(float64(src.Dx()) * scale))
	h := int(math.Round(float64(src.Dy()) * scale))
	x0 := (width - w) / 2
	y0 := (height - h) / 2
	r := image.Rect(x0, y0, x0+w, y0+h)

	if src.Dx() == w && src.Dy() == h {
		draw.Draw(dst, r, i, src.Min, draw.Over)
		return dst
	}
	draw.CatmullRom.Scale(dst, r, i, src, draw.Over, nil)
	return dst
}

// Scale creates a copy of the given image, stretched to the given size.
// Nearest neighbour keeps hard edges of palette bitmaps.
func Scale(i image.Image, width, height int) *image.RGBA {
	r := image.Rect(0, 0, width, height)
	dst := image.NewRGBA(r)
	draw.NearestNeighbor.Scale(dst, r, i, i.Bounds(), draw.Over, nil)
	return dst
}

// ToGray creates a grayscale version of the given image.
// Transparent pixels count as white paper.
func ToGray(i image.Image) *image.Gray {
	b := i.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(g, g.Bounds(), i, b.Min, draw.Over)
	return g
}

// Level maps gray values up to and including Max to Code.
type Level struct {
	Max  uint8
	Code byte
}

// Quantize maps every pixel of the given image to the code of the first
// level whose Max is not below the pixel's gray value. Gray values above
// every level get the code of the brightest level.
// Returns the codes in row-major order.
func Quantize(i image.Image, levels []Level) []byte {
	sorted := make([]Level, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Max < sorted[b].Max })

	var table [256]byte
	n := 0
	for v := 0; v < 256; v++ {
		for n < len(sorted)-1 && uint8(v) > sorted[n].Max {
			n++
		}
		if len(sorted) > 0 {
			table[v] = sorted[n].Code
		}
	}

	g := ToGray(i)
	out := make([]byte, len(g.Pix))
	for y := 0; y < g.Rect.Dy(); y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+g.Rect.Dx()]
		for x, v := range row {
			out[y*g.Rect.Dx()+x] = table[v]
		}
	}
	return out
}

// Rotate the given image clockwise (as displayed) by quarters * 90 degrees.
// Returns an image with the rotated pixels; width and height are swapped for
// odd quarters.
func Rotate(quarters int, i image.Image) *image.RGBA {
	quarters = ((quarters % 4) + 4) % 4
	box := i.Bounds()
	a := float64(box.Dx())
	b := float64(box.Dy())

	w, h := box.Dx(), box.Dy()
	if quarters%2 == 1 {
		w, h = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	// Map destination pixels back to the source, around the pixel centers:
	// translate - rotate - translate
	t0 := translation(-float64(w)/2, -float64(h)/2)
	rot := rotation(-float64(quarters) * math.Pi / 2)
	t1 := translation(a/2, b/2)
	m := multiply(t1, multiply(rot, t0))

	var sx, sy float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy = transform(m, float64(x)+0.5, float64(y)+0.5)
			px := box.Min.X + int(math.Floor(sx))
			py := box.Min.Y + int(math.Floor(sy))
			dst.Set(x, y, i.At(px, py))
		}
	}

	return dst
}
