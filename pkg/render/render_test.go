package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/sntool"
	"github.com/akeil/sntool/pkg/note"
)

func testNotebook(t *testing.T) *sntool.Notebook {
	data, err := sntool.Create(sntool.NotebookContent{
		Profile: note.ProfileX,
		Pages: []sntool.PageContent{
			{},
			{Landscape: true},
		},
	})
	require.NoError(t, err)
	n, err := sntool.Parse(data)
	require.NoError(t, err)
	return n
}

func TestPNG(t *testing.T) {
	n := testNotebook(t)

	var buf bytes.Buffer
	require.NoError(t, PNG(n.Pages[1], &buf, Options{}))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1872, cfg.Width)
	assert.Equal(t, 1404, cfg.Height)

	buf.Reset()
	require.NoError(t, PNG(n.Pages[1], &buf, Options{Portrait: true}))
	cfg, err = png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1404, cfg.Width)
	assert.Equal(t, 1872, cfg.Height)
}

func TestPNGWidth(t *testing.T) {
	n := testNotebook(t)

	var buf bytes.Buffer
	require.NoError(t, PNG(n.Pages[0], &buf, Options{Width: 702}))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 702, cfg.Width)
	assert.Equal(t, 936, cfg.Height)

	buf.Reset()
	require.NoError(t, PNG(n.Pages[1], &buf, Options{Portrait: true, Width: 351}))
	cfg, err = png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 351, cfg.Width)
	assert.Equal(t, 468, cfg.Height)
}

func TestPDF(t *testing.T) {
	n := testNotebook(t)

	var buf bytes.Buffer
	require.NoError(t, PDF(n, &buf, Options{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, PDFPage(n.Pages[0], &buf, Options{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
