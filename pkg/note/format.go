// Package note reads and writes the notebook container.
//
// A container starts with a 4 byte type tag and the format signature,
// followed by length-prefixed blocks that reference each other by byte
// offset. It ends with the footer directory, the tail marker and the
// footer's own offset:
//
//	note SN_FILE_VER_20230015 [len header] [len block]... [len footer] tail [addr]
//
// All integers are little endian.
package note

import (
	"encoding/binary"
	"fmt"
)

var endianess = binary.LittleEndian

// Kind is the type tag of a container.
type Kind string

const (
	// KindNote is a notebook.
	KindNote Kind = "note"
	// KindMark is an annotation file for a document.
	KindMark Kind = "mark"
)

func (k Kind) valid() bool {
	return k == KindNote || k == KindMark
}

const (
	typeLen       = 4
	signaturePref = "SN_FILE_VER_"
	signatureLen  = len(signaturePref) + 8
	tailMarker    = "tail"
	tailLen       = len(tailMarker)
	addrLen       = 4
	lenPrefix     = 4
	trailerLen    = tailLen + addrLen
	minContainer  = typeLen + signatureLen + lenPrefix + trailerLen
)

// Reserved block paths. They never appear in the footer directory.
const (
	pathType          = "__type__"
	pathSignature     = "__signature__"
	pathHeader        = "__header__"
	pathFooter        = "__footer__"
	pathTail          = "__tail__"
	pathFooterAddress = "__footer_address__"
)

// Footer directory keys.
const (
	KeyHeader     = "FILE_FEATURE"
	PrefixPage    = "PAGE"
	PrefixStyle   = "STYLE_"
	PrefixCover   = "COVER_"
	PrefixKeyword = "KEYWORD_"
	PrefixTitle   = "TITLE_"
	PrefixLinkOut = "LINKO_"
	PrefixLinkIn  = "LINKI_"

	// KeyNoCover is written with address 0 when a notebook has no cover.
	KeyNoCover = "COVER_0"
)

// Layer names as used for page metadata keys.
const (
	LayerMain       = "MAINLAYER"
	Layer1          = "LAYER1"
	Layer2          = "LAYER2"
	Layer3          = "LAYER3"
	LayerBackground = "BGLAYER"
)

// LayerNames lists the layer slots of a page, front to back.
var LayerNames = []string{LayerMain, Layer1, Layer2, Layer3, LayerBackground}

// ProtocolBackground is the protocol tag of background layers.
const ProtocolBackground = "BGLAYER"

// Metadata keys that reference opaque blocks.
const (
	KeyTextBox     = "PAGETEXTBOX"
	KeyRecognText  = "RECOGNTEXT"
	KeyRecognFile  = "RECOGNFILE"
	KeyTotalPath   = "TOTALPATH"
	KeyLayerRecogn = "LAYERRECOGN"
	KeyLayerVector = "LAYERVECTORGRAPH"
)

// OpaquePageKeys lists the page keys of opaque blocks in write order.
var OpaquePageKeys = []string{KeyTotalPath, KeyTextBox, KeyRecognText, KeyRecognFile}

// PageName returns the footer key for the 1-based page number.
func PageName(n int) string {
	return fmt.Sprintf("%v%d", PrefixPage, n)
}

func putAddr(addr uint32) []byte {
	b := make([]byte, addrLen)
	endianess.PutUint32(b, addr)
	return b
}
