package rle

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/sntool/internal/errors"
)

func TestBlankPage(t *testing.T) {
	data := Blank(1920, 2560, X2)
	require.Len(t, data, 600)
	for i := 0; i < len(data); i += 2 {
		if data[i] != CodeBackground || data[i+1] != 0xff {
			t.Fatalf("unexpected pair at %d: %x %x", i, data[i], data[i+1])
		}
	}

	enc, err := Encode(NewBitmap(1920, 2560, CodeBackground).Pix, 1920, 2560, X2)
	require.NoError(t, err)
	assert.Equal(t, data, enc)

	b, err := Decode(data, 1920, 2560, X2)
	require.NoError(t, err)
	assert.True(t, b.IsBlank(CodeBackground))
}

func TestRoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	codes := []byte{CodeBlack, CodeBackground, CodeGray, CodeDarkGray, CodeWhite}

	sizes := [][2]int{{1, 1}, {7, 3}, {128, 128}, {300, 200}}
	for _, size := range sizes {
		w, h := size[0], size[1]
		pix := make([]byte, w*h)
		// long runs with occasional changes, so that every chunk kind appears
		code := codes[0]
		for i := range pix {
			if rnd.Intn(500) == 0 {
				code = codes[rnd.Intn(len(codes))]
			}
			pix[i] = code
		}

		data, err := Encode(pix, w, h, X)
		require.NoError(t, err)

		b, err := Decode(data, w, h, X)
		require.NoError(t, err)
		if !bytes.Equal(pix, b.Pix) {
			t.Errorf("round trip mismatch for %dx%d", w, h)
		}
	}
}

func TestEncodeRuns(t *testing.T) {
	cases := []struct {
		run      int
		expected []byte
	}{
		{1, []byte{CodeBlack, 0x00}},
		{255, []byte{CodeBlack, 0xfe}},
		{256, []byte{CodeBlack, 0xfe, CodeBlack, 0x00}},
		{SaturatedRun, []byte{CodeBlack, 0xff}},
		{SaturatedRun + 3, []byte{CodeBlack, 0xff, CodeBlack, 0x02}},
	}
	for _, c := range cases {
		pix := bytes.Repeat([]byte{CodeBlack}, c.run)
		data, err := Encode(pix, c.run, 1, X)
		require.NoError(t, err)
		assert.Equal(t, c.expected, data, "run of %d", c.run)
	}
}

func TestDecodeOtherChunking(t *testing.T) {
	// 20 pixels as 10+10 instead of the canonical single pair
	foreign := []byte{CodeBlack, 9, CodeBlack, 9, CodeBackground, 4}
	canonical, err := Encode(append(bytes.Repeat([]byte{CodeBlack}, 20), bytes.Repeat([]byte{CodeBackground}, 5)...), 5, 5, X)
	require.NoError(t, err)
	assert.NotEqual(t, foreign, canonical)

	a, err := Decode(foreign, 5, 5, X)
	require.NoError(t, err)
	b, err := Decode(canonical, 5, 5, X)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode([]byte{CodeBlack, 0x02}, 2, 2, X)
	assert.True(t, errors.IsFormatError(err, errors.TruncatedBitmap))

	// dangling colour byte without length
	_, err = Decode([]byte{CodeBlack, 0x02, CodeBlack}, 2, 2, X)
	assert.True(t, errors.IsFormatError(err, errors.TruncatedBitmap))
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := Decode([]byte{CodeBlack, 0x04}, 2, 2, X)
	assert.True(t, errors.IsFormatError(err, errors.CorruptBitmap))

	_, err = Decode([]byte{CodeBlack, 0x03, CodeBlack, 0x00}, 2, 2, X)
	assert.True(t, errors.IsFormatError(err, errors.CorruptBitmap))

	_, err = Decode([]byte{0x01, 0x03}, 2, 2, X)
	assert.True(t, errors.IsFormatError(err, errors.CorruptBitmap))
}

func TestCompatCodes(t *testing.T) {
	data := []byte{CodeGrayCompat, 0x03}
	_, err := Decode(data, 2, 2, X)
	assert.True(t, errors.IsFormatError(err, errors.CorruptBitmap))

	b, err := Decode(data, 2, 2, X2)
	require.NoError(t, err)
	assert.Equal(t, CodeGrayCompat, b.At(1, 1))
}

func TestImageTransparentBackground(t *testing.T) {
	b := NewBitmap(2, 1, CodeBackground)
	b.Set(1, 0, CodeBlack)
	img := b.Image(X)

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
	r, _, _, a := img.At(1, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Zero(t, r)
}
