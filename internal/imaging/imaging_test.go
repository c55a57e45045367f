package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(x, y, color.Black)
		}
	}

	dst := Fit(src, 20, 40, color.White)
	assert.Equal(t, image.Rect(0, 0, 20, 40), dst.Bounds())
	// scaled to 20x20, centered vertically
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(10, 5))
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, dst.RGBAAt(10, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(10, 35))
}

func TestFitSameSize(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(1, 1, color.Gray{Y: 200})
	dst := Fit(src, 4, 4, color.White)
	assert.Equal(t, color.RGBA{200, 200, 200, 255}, dst.RGBAAt(1, 1))
}

func TestScale(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 0})
	src.SetGray(1, 0, color.Gray{Y: 255})
	dst := Scale(src, 4, 2)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, dst.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(2, 0))
}

func TestToGrayTransparent(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(6, 5, color.NRGBA{0, 0, 0, 255})
	g := ToGray(src)
	assert.Equal(t, image.Rect(0, 0, 2, 1), g.Bounds())
	assert.Equal(t, uint8(255), g.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), g.GrayAt(1, 0).Y)
}

func TestQuantize(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 1))
	for x, v := range []uint8{0, 100, 128, 255} {
		src.SetGray(x, 0, color.Gray{Y: v})
	}
	levels := []Level{
		{Max: 255, Code: 'w'},
		{Max: 127, Code: 'b'},
	}
	assert.Equal(t, []byte("bbww"), Quantize(src, levels))
}

func TestRotate(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	left := color.RGBA{255, 0, 0, 255}
	right := color.RGBA{0, 0, 255, 255}
	src.SetRGBA(0, 0, left)
	src.SetRGBA(1, 0, right)

	dst := Rotate(1, src)
	assert.Equal(t, image.Rect(0, 0, 1, 2), dst.Bounds())
	assert.Equal(t, left, dst.RGBAAt(0, 0))
	assert.Equal(t, right, dst.RGBAAt(0, 1))

	dst = Rotate(2, src)
	assert.Equal(t, right, dst.RGBAAt(0, 0))
	assert.Equal(t, left, dst.RGBAAt(1, 0))

	dst = Rotate(4, src)
	assert.Equal(t, left, dst.RGBAAt(0, 0))
}
