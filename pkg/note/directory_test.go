package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeil/sntool/internal/errors"
)

// container assembles a stream by hand. The last block is the footer.
func container(kind, sig string, blocks ...string) []byte {
	data := []byte(kind + sig)
	var footer uint32
	for _, b := range blocks {
		footer = uint32(len(data))
		var n [4]byte
		endianess.PutUint32(n[:], uint32(len(b)))
		data = append(data, n[:]...)
		data = append(data, b...)
	}
	data = append(data, tailMarker...)
	return append(data, putAddr(footer)...)
}

const testSig = "SN_FILE_VER_20230014"

func TestOpenHandmade(t *testing.T) {
	data := container("note", testSig, "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24><COVER_0:0>")
	d, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, ProfileX2, d.Profile)
	assert.Equal(t, len(data), d.Len())
}

func TestOpenUnknownType(t *testing.T) {
	data := container("abcd", testSig, "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24>")
	_, err := Open(data)
	assert.True(t, errors.IsFormatError(err, errors.UnknownType), "got %v", err)

	_, err = Open([]byte("no"))
	assert.True(t, errors.IsFormatError(err, errors.UnknownType))
}

func TestOpenMissingTail(t *testing.T) {
	data := container("note", testSig, "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24>")
	copy(data[len(data)-8:], "xxxx")
	_, err := Open(data)
	assert.True(t, errors.IsFormatError(err, errors.MissingTail), "got %v", err)

	// marker removed, footer address kept
	data = container("note", testSig, "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24>")
	cut := append(append([]byte{}, data[:len(data)-8]...), data[len(data)-4:]...)
	_, err = Open(cut)
	assert.True(t, errors.IsFormatError(err, errors.MissingTail), "got %v", err)

	_, err = Open([]byte("note" + testSig))
	assert.True(t, errors.IsFormatError(err, errors.MissingTail))
}

func TestOpenFooterOutOfBounds(t *testing.T) {
	data := container("note", testSig, "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24>")
	copy(data[len(data)-4:], putAddr(uint32(len(data)+100)))
	_, err := Open(data)
	assert.True(t, errors.IsFormatError(err, errors.UnresolvedAddress), "got %v", err)

	copy(data[len(data)-4:], putAddr(0))
	_, err = Open(data)
	assert.True(t, errors.IsFormatError(err, errors.UnresolvedAddress))
}

func TestOpenEntryOutOfBounds(t *testing.T) {
	data := container("note", testSig, "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24><PAGE1:99999>")
	_, err := Open(data)
	assert.True(t, errors.IsFormatError(err, errors.UnresolvedAddress), "got %v", err)

	var fe *errors.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, int64(99999), fe.Offset)
}

func TestOpenBlockLengthPastEnd(t *testing.T) {
	data := container("note", testSig, "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24>")
	// header length now reaches into the trailer
	endianess.PutUint32(data[24:28], uint32(len(data)))
	d := &Directory{data: data}
	_, err := d.Block(24)
	assert.True(t, errors.IsFormatError(err, errors.UnresolvedAddress))
}

func TestOpenUnknownSignature(t *testing.T) {
	data := container("note", "SN_FILE_VER_20991231", "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24>")
	d, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, GenericProfile, d.Profile)
	require.Len(t, d.Warnings, 1)

	var w *errors.CompatibilityWarning
	require.ErrorAs(t, d.Warnings[0], &w)
	assert.Equal(t, errors.UnknownSignature, w.Kind)
	assert.Equal(t, "SN_FILE_VER_20991231", w.Detail)
}

func TestOpenMalformedFooter(t *testing.T) {
	data := container("note", testSig, "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24")
	_, err := Open(data)
	assert.True(t, errors.IsFormatError(err, errors.MalformedMetadataToken), "got %v", err)
}

func TestOpenLimits(t *testing.T) {
	data := container("note", testSig, "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24>")

	_, err := Open(data, WithLimits(Limits{MaxContainerLen: 10}))
	assert.True(t, errors.IsFormatError(err, errors.LimitExceeded))

	_, err = Open(data, WithLimits(Limits{MaxMetadataLen: 4}))
	assert.True(t, errors.IsFormatError(err, errors.LimitExceeded))
}

func TestPagesOrdered(t *testing.T) {
	// the header block doubles as page metadata
	data := container("note", testSig, "<FILE_TYPE:NOTE>",
		"<FILE_FEATURE:24><PAGE10:24><PAGE2:24><PAGE1:24><PAGESTYLE_X:0>")
	d, err := Open(data)
	require.NoError(t, err)

	entries := d.Entries(PrefixPage)
	require.Len(t, entries, 4)
	assert.Equal(t, "PAGE10", entries[0].Key)

	pages, err := d.Pages()
	require.NoError(t, err)
	assert.Len(t, pages, 3)

	d.cfg.limits.MaxPages = 2
	_, err = d.Pages()
	assert.True(t, errors.IsFormatError(err, errors.LimitExceeded))
}

func TestHeaderAddressMissing(t *testing.T) {
	data := container("note", testSig, "<FILE_TYPE:NOTE>", "<COVER_0:0>")
	d, err := Open(data)
	require.NoError(t, err)
	_, err = d.HeaderAddress()
	assert.True(t, errors.IsFormatError(err, errors.MissingField))
}

func TestBlockZero(t *testing.T) {
	data := container("note", testSig, "<FILE_TYPE:NOTE>", "<FILE_FEATURE:24>")
	d, err := Open(data)
	require.NoError(t, err)
	b, err := d.Block(0)
	assert.NoError(t, err)
	assert.Nil(t, b)
}
