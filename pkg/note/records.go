package note

import (
	"strconv"
	"strings"

	"github.com/akeil/sntool/internal/errors"
	"github.com/akeil/sntool/pkg/meta"
	"github.com/akeil/sntool/pkg/rle"
)

// Page orientation values.
const (
	OrientationPortrait  = 1000
	OrientationLandscape = 1090
)

// HeaderSchema is the field table of the header block.
var HeaderSchema = meta.Schema{
	Kind: "header",
	Fields: []meta.Field{
		{Key: "MODULE_LABEL", Default: "none"},
		{Key: "FILE_TYPE", Default: "NOTE"},
		{Key: "APPLY_EQUIPMENT", Default: "N5"},
		{Key: "FINALOPERATION_PAGE", Default: "1"},
		{Key: "FINALOPERATION_LAYER", Default: "0"},
		{Key: "DEVICE_DPI", Default: "0"},
		{Key: "SOFT_DPI", Default: "0"},
		{Key: "FILE_PARSE_TYPE", Default: "0"},
		{Key: "RATTA_ETMD", Default: "0"},
		{Key: "APP_VERSION", Default: "0"},
		{Key: "FILE_ID", Default: ""},
		{Key: "FILE_RECOGN_TYPE", Default: "0"},
		{Key: "FILE_RECOGN_LANGUAGE", Default: "en_US"},
		{Key: "PDFSTYLE", Default: "none"},
		{Key: "PDFSTYLEMD5", Default: "0"},
		{Key: "STYLEUSAGETYPE", Default: "0"},
		{Key: "HIGHLIGHTINFO", Default: "0"},
		{Key: "HORIZONTAL_CHECK", Default: "0"},
		{Key: "IS_OLD_APPLY_EQUIPMENT", Default: "1"},
		{Key: "ANTIALIASING_CONVERT", Default: "2"},
	},
}

// PageSchema is the field table of page metadata blocks.
var PageSchema = meta.Schema{
	Kind: "page",
	Fields: []meta.Field{
		{Key: "PAGESTYLE", Default: "style_white"},
		{Key: "PAGESTYLEMD5", Default: "0"},
		{Key: "LAYERINFO", Default: ""},
		{Key: "LAYERSEQ", Default: LayerMain + "," + LayerBackground},
		{Key: LayerMain, Default: "0"},
		{Key: Layer1, Default: "0"},
		{Key: Layer2, Default: "0"},
		{Key: Layer3, Default: "0"},
		{Key: LayerBackground, Default: "0"},
		{Key: KeyTotalPath, Default: "0"},
		{Key: "THUMBNAILTYPE", Default: "0"},
		{Key: "RECOGNSTATUS", Default: "0"},
		{Key: KeyRecognText, Default: "0"},
		{Key: KeyRecognFile, Default: "0"},
		{Key: "PAGEID", Default: ""},
		{Key: "ORIENTATION", Default: strconv.Itoa(OrientationPortrait)},
		{Key: KeyTextBox, Default: "0"},
	},
}

// LayerSchema is the field table of layer metadata blocks.
var LayerSchema = meta.Schema{
	Kind: "layer",
	Fields: []meta.Field{
		{Key: "LAYERTYPE", Default: "NOTE"},
		{Key: "LAYERPROTOCOL", Default: rle.Protocol},
		{Key: "LAYERNAME", Default: LayerMain},
		{Key: "LAYERPATH", Default: "0"},
		{Key: "LAYERBITMAP", Required: true},
		{Key: KeyLayerVector, Default: "0"},
		{Key: KeyLayerRecogn, Default: "0"},
	},
}

// Header is the typed view of the header block.
type Header struct {
	FileType  string
	Equipment string
	FileID    string
	Record    *meta.Record
}

// ParseHeader projects a decoded header record.
func ParseHeader(rec *meta.Record, strict bool) (*Header, error) {
	r, err := HeaderSchema.Apply(rec, strict)
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	return &Header{
		FileType:  r.Get("FILE_TYPE"),
		Equipment: r.Get("APPLY_EQUIPMENT"),
		FileID:    r.Get("FILE_ID"),
		Record:    r,
	}, nil
}

// NewHeader creates the header record for a new container.
func NewHeader(kind Kind, p *Profile, fileID string, pages int) *meta.Record {
	o := meta.NewRecord()
	o.Set("FILE_TYPE", strings.ToUpper(string(kind)))
	o.Set("APPLY_EQUIPMENT", p.Equipment)
	o.SetInt("FINALOPERATION_PAGE", pages)
	o.Set("FILE_ID", fileID)
	return HeaderSchema.Template(o)
}

// LayerInfo is one entry of the nested LAYERINFO value of a page.
type LayerInfo struct {
	LayerID      int    `json:"layerId"`
	Name         string `json:"name"`
	IsBackground bool   `json:"isBackgroundLayer"`
	IsCurrent    bool   `json:"isCurrentLayer"`
	IsVisible    bool   `json:"isVisible"`
	IsDeleted    bool   `json:"isDeleted"`
}

// DefaultLayerInfo describes a page with a main and a background layer
// and the three extra layers marked deleted.
func DefaultLayerInfo() []LayerInfo {
	return []LayerInfo{
		{LayerID: 3, Name: "Layer 3", IsVisible: true, IsDeleted: true},
		{LayerID: 2, Name: "Layer 2", IsVisible: true, IsDeleted: true},
		{LayerID: 1, Name: "Layer 1", IsVisible: true, IsDeleted: true},
		{LayerID: 0, Name: "Main Layer", IsCurrent: true, IsVisible: true},
		{LayerID: -1, Name: "Background Layer", IsBackground: true, IsVisible: true},
	}
}

// PageRecord is the typed view of a page metadata block.
type PageRecord struct {
	ID          string
	Style       string
	StyleHash   string
	Orientation int

	// LayerSeq lists layer names front to back.
	LayerSeq []string

	// Layers maps layer names to metadata addresses, 0 if absent.
	Layers    map[string]uint32
	LayerInfo []LayerInfo

	// Opaque maps the keys of stroke path, text box and recognition blocks
	// to their addresses, 0 if absent.
	Opaque map[string]uint32
	Record *meta.Record
}

// ParsePageRecord projects a decoded page metadata record.
func ParsePageRecord(rec *meta.Record, strict bool) (*PageRecord, error) {
	r, err := PageSchema.Apply(rec, strict)
	if err != nil {
		return nil, errors.Wrap(err, "page")
	}

	p := &PageRecord{
		ID:        r.Get("PAGEID"),
		Style:     r.Get("PAGESTYLE"),
		StyleHash: r.Get("PAGESTYLEMD5"),
		Layers:    make(map[string]uint32, len(LayerNames)),
		Opaque:    make(map[string]uint32, len(OpaquePageKeys)),
		Record:    r,
	}

	p.Orientation, err = r.Int("ORIENTATION")
	if err != nil {
		return nil, errors.Wrap(err, "page")
	}

	for _, name := range strings.Split(r.Get("LAYERSEQ"), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			p.LayerSeq = append(p.LayerSeq, name)
		}
	}

	for _, name := range LayerNames {
		p.Layers[name], err = r.Uint32(name)
		if err != nil {
			return nil, errors.Wrap(err, "page")
		}
	}

	for _, key := range OpaquePageKeys {
		p.Opaque[key], err = r.Uint32(key)
		if err != nil {
			return nil, errors.Wrap(err, "page")
		}
	}

	if v := r.Get("LAYERINFO"); v != "" && v != "0" {
		err = meta.DecodeNested(v, &p.LayerInfo)
		if err != nil {
			return nil, errors.Wrap(err, "page LAYERINFO")
		}
	}

	return p, nil
}

// Landscape tells if the page is rotated.
func (p *PageRecord) Landscape() bool {
	return p.Orientation == OrientationLandscape
}

// LayerRecord is the typed view of a layer metadata block.
type LayerRecord struct {
	Name        string
	Type        string
	Protocol    string
	Bitmap      uint32
	VectorGraph uint32
	Recogn      uint32
	Record      *meta.Record
}

// ParseLayerRecord projects a decoded layer metadata record.
func ParseLayerRecord(rec *meta.Record, strict bool) (*LayerRecord, error) {
	r, err := LayerSchema.Apply(rec, strict)
	if err != nil {
		return nil, errors.Wrap(err, "layer")
	}

	l := &LayerRecord{
		Name:     r.Get("LAYERNAME"),
		Type:     r.Get("LAYERTYPE"),
		Protocol: r.Get("LAYERPROTOCOL"),
		Record:   r,
	}
	if l.Bitmap, err = r.Uint32("LAYERBITMAP"); err != nil {
		return nil, errors.Wrap(err, "layer %v", l.Name)
	}
	if l.VectorGraph, err = r.Uint32(KeyLayerVector); err != nil {
		return nil, errors.Wrap(err, "layer %v", l.Name)
	}
	if l.Recogn, err = r.Uint32(KeyLayerRecogn); err != nil {
		return nil, errors.Wrap(err, "layer %v", l.Name)
	}
	return l, nil
}

// NewLayerRecord creates the metadata for a layer whose bitmap is stored
// at the given address.
func NewLayerRecord(name, protocol string, bitmap uint32) *meta.Record {
	o := meta.NewRecord()
	o.Set("LAYERNAME", name)
	o.Set("LAYERPROTOCOL", protocol)
	o.Set("LAYERBITMAP", strconv.FormatUint(uint64(bitmap), 10))
	return LayerSchema.Template(o)
}
