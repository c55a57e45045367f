package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/sntool"
	"github.com/akeil/sntool/pkg/note"
	"github.com/akeil/sntool/pkg/rle"
)

func testNotebook(t *testing.T) *sntool.Notebook {
	p := note.ProfileX
	ink := rle.NewBitmap(p.Width, p.Height, rle.CodeBackground)
	ink.Set(3, 4, rle.CodeBlack)
	bg := image.NewGray(image.Rect(0, 0, p.Width, p.Height))

	data, err := sntool.Create(sntool.NotebookContent{
		Profile: p,
		Pages: []sntool.PageContent{
			{ID: "P1", InkBitmap: ink, Background: bg},
			{ID: "P2", Template: "style_dots", Opaque: map[string][]byte{note.KeyRecognText: []byte("{}")}},
		},
	})
	require.NoError(t, err)
	n, err := sntool.Parse(data)
	require.NoError(t, err)
	return n
}

func TestVerify(t *testing.T) {
	issues, err := verify(testNotebook(t))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestDigestDiff(t *testing.T) {
	n := testNotebook(t)
	a, err := pageDigest(n.Pages[0])
	require.NoError(t, err)
	b, err := pageDigest(n.Pages[1])
	require.NoError(t, err)

	assert.Empty(t, a.diff(a))
	assert.NotEmpty(t, a.diff(b))
}

func TestDescribe(t *testing.T) {
	out := describe("test.note", testNotebook(t))
	assert.Contains(t, out, "test.note\n")
	assert.Contains(t, out, "2 pages, 1 styles")
	assert.Contains(t, out, "page 2 P2, portrait, style style_dots")
	assert.Contains(t, out, note.KeyRecognText)
}

func TestCreateFromImages(t *testing.T) {
	dir := t.TempDir()
	wide := filepath.Join(dir, "wide.png")
	f, err := os.Create(wide)
	require.NoError(t, err)
	img := image.NewRGBA(image.Rect(0, 0, 80, 40))
	img.Set(1, 1, color.Black)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "out.note")
	s := settings{profile: note.ProfileX2, jobs: 1}
	err = doCreate(s, out, []string{wide}, createOptions{style: "user_test"})
	require.NoError(t, err)

	n, err := readNotebook(s, out)
	require.NoError(t, err)
	require.Len(t, n.Pages, 1)
	assert.Equal(t, note.ProfileX2, n.Profile)
	assert.True(t, n.Pages[0].Landscape())
	assert.Equal(t, "user_test", n.Pages[0].Style)
	assert.True(t, n.Pages[0].Background().IsPNG())
}

func TestForEach(t *testing.T) {
	seen := make(chan string, 3)
	err := forEach(settings{jobs: 2}, []string{"a", "b", "c"}, func(p string) error {
		seen <- p
		return nil
	})
	require.NoError(t, err)
	close(seen)

	var got []string
	for p := range seen {
		got = append(got, p)
	}
	assert.ElementsMatch(t, []string{"a", "b", "c"}, got)
}
