package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/sntool/internal/errors"
)

var testSchema = Schema{
	Kind: "layer",
	Fields: []Field{
		{Key: "LAYERNAME", Required: true},
		{Key: "LAYERPROTOCOL", Default: "RATTA_RLE"},
		{Key: "LAYERBITMAP", Default: "0"},
	},
}

func TestSchemaApplyDefaults(t *testing.T) {
	r := NewRecord()
	r.Set("LAYERNAME", "MAINLAYER")

	out, err := testSchema.Apply(r, true)
	require.NoError(t, err)
	assert.Equal(t, "RATTA_RLE", out.Get("LAYERPROTOCOL"))
	assert.Equal(t, "0", out.Get("LAYERBITMAP"))
	assert.False(t, r.Has("LAYERBITMAP"), "input record must not change")
}

func TestSchemaApplyRequired(t *testing.T) {
	_, err := testSchema.Apply(NewRecord(), false)
	require.Error(t, err)
	assert.True(t, errors.IsFormatError(err, errors.MissingField))
}

func TestSchemaApplyUnknown(t *testing.T) {
	r := NewRecord()
	r.Set("LAYERNAME", "MAINLAYER")
	r.Set("VENDOR_EXTRA", "1")

	_, err := testSchema.Apply(r, true)
	assert.True(t, errors.IsFormatError(err, errors.UnknownField))

	out, err := testSchema.Apply(r, false)
	require.NoError(t, err)
	assert.Equal(t, "1", out.Get("VENDOR_EXTRA"))
}

func TestSchemaTemplate(t *testing.T) {
	o := NewRecord()
	o.Set("LAYERBITMAP", "99")
	o.Set("EXTRA", "x")

	r := testSchema.Template(o)
	assert.Equal(t, []string{"LAYERNAME", "LAYERPROTOCOL", "LAYERBITMAP", "EXTRA"}, r.Keys())
	assert.Equal(t, "99", r.Get("LAYERBITMAP"))
	assert.Equal(t, "RATTA_RLE", r.Get("LAYERPROTOCOL"))
}
