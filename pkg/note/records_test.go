package note

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/sntool/internal/errors"
	"github.com/akeil/sntool/pkg/meta"
	"github.com/akeil/sntool/pkg/rle"
)

func decode(t *testing.T, s string) *meta.Record {
	r, err := meta.Decode([]byte(s))
	require.NoError(t, err)
	return r
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader(decode(t, "<FILE_TYPE:MARK><FILE_ID:F123><VENDOR:x>"), false)
	require.NoError(t, err)
	assert.Equal(t, "MARK", h.FileType)
	assert.Equal(t, "F123", h.FileID)
	assert.Equal(t, "N5", h.Equipment)
	assert.Equal(t, "x", h.Record.Get("VENDOR"))

	_, err = ParseHeader(decode(t, "<VENDOR:x>"), true)
	assert.True(t, errors.IsFormatError(err, errors.UnknownField))
}

func TestNewHeader(t *testing.T) {
	r := NewHeader(KindMark, ProfileX2, "F1", 3)
	assert.Equal(t, "MARK", r.Get("FILE_TYPE"))
	assert.Equal(t, "A6X2", r.Get("APPLY_EQUIPMENT"))
	assert.Equal(t, "3", r.Get("FINALOPERATION_PAGE"))
	assert.Equal(t, len(HeaderSchema.Fields), r.Len())
	assert.Equal(t, "MODULE_LABEL", r.Keys()[0])
}

func TestParsePageRecordDefaults(t *testing.T) {
	p, err := ParsePageRecord(decode(t, "<PAGEID:P1><MAINLAYER:100>"), false)
	require.NoError(t, err)
	assert.Equal(t, "P1", p.ID)
	assert.Equal(t, "style_white", p.Style)
	assert.False(t, p.Landscape())
	assert.Equal(t, []string{LayerMain, LayerBackground}, p.LayerSeq)
	assert.Equal(t, uint32(100), p.Layers[LayerMain])
	assert.Equal(t, uint32(0), p.Layers[LayerBackground])
	assert.Equal(t, uint32(0), p.Opaque[KeyTextBox])
	assert.Empty(t, p.LayerInfo)
}

func TestParsePageRecordLayerInfo(t *testing.T) {
	colon := `<ORIENTATION:1090><LAYERSEQ:LAYER1,MAINLAYER,BGLAYER>` +
		`<LAYERINFO:[{"layerId":0,"name":"Main Layer","isCurrentLayer":true,"isVisible":true}]>`
	hash := `<ORIENTATION:1090><LAYERSEQ:LAYER1,MAINLAYER,BGLAYER>` +
		`<LAYERINFO:[{"layerId"#0,"name"#"Main Layer","isCurrentLayer"#true,"isVisible"#true}]>`

	for _, s := range []string{colon, hash} {
		p, err := ParsePageRecord(decode(t, s), false)
		require.NoError(t, err)
		assert.True(t, p.Landscape())
		assert.Equal(t, []string{Layer1, LayerMain, LayerBackground}, p.LayerSeq)
		require.Len(t, p.LayerInfo, 1)
		assert.Equal(t, LayerInfo{Name: "Main Layer", IsCurrent: true, IsVisible: true}, p.LayerInfo[0])
	}
}

func TestParsePageRecordInvalid(t *testing.T) {
	_, err := ParsePageRecord(decode(t, "<ORIENTATION:up>"), false)
	assert.True(t, errors.IsFormatError(err, errors.InvalidValue))

	_, err = ParsePageRecord(decode(t, "<MAINLAYER:-1>"), false)
	assert.True(t, errors.IsFormatError(err, errors.InvalidValue))
}

func TestLayerRecord(t *testing.T) {
	rec := NewLayerRecord(LayerBackground, ProtocolBackground, 42)
	l, err := ParseLayerRecord(rec, true)
	require.NoError(t, err)
	assert.Equal(t, LayerBackground, l.Name)
	assert.Equal(t, ProtocolBackground, l.Protocol)
	assert.Equal(t, uint32(42), l.Bitmap)

	l, err = ParseLayerRecord(decode(t, "<LAYERBITMAP:7>"), false)
	require.NoError(t, err)
	assert.Equal(t, rle.Protocol, l.Protocol)
	assert.Equal(t, LayerMain, l.Name)

	_, err = ParseLayerRecord(decode(t, "<LAYERNAME:MAINLAYER>"), false)
	assert.True(t, errors.IsFormatError(err, errors.MissingField))
}

func TestIDs(t *testing.T) {
	re := regexp.MustCompile(`^[FP]\d{17}[0-9a-f]{16}$`)
	assert.Regexp(t, re, NewFileID())
	assert.Regexp(t, re, NewPageID())
	assert.NotEqual(t, NewPageID(), NewPageID())

	ts := time.Date(2023, 4, 5, 6, 7, 8, 9_000_000, time.UTC)
	id := newID("F", ts)
	assert.Equal(t, "F20230405060708009", id[:18])
}

func TestProfiles(t *testing.T) {
	p, ok := LookupProfile("SN_FILE_VER_20220013")
	assert.True(t, ok)
	assert.Equal(t, ProfileX, p)

	_, ok = LookupProfile("SN_FILE_VER_20990101")
	assert.False(t, ok)

	p, ok = ProfileByName("manta")
	assert.True(t, ok)
	assert.Equal(t, 1920*2560, p.Pixels())

	p, ok = ProfileByName("SN_FILE_VER_20230014")
	assert.True(t, ok)
	assert.Equal(t, ProfileX2, p)

	_, ok = ProfileByName("nope")
	assert.False(t, ok)

	assert.True(t, validSignature("SN_FILE_VER_20230015"))
	assert.False(t, validSignature("SN_FILE_VER_2023001x"))
	assert.False(t, validSignature("XX_FILE_VER_20230015"))
}

func TestPageName(t *testing.T) {
	assert.Equal(t, "PAGE12", PageName(12))
}
