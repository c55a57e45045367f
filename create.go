package sntool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akeil/sntool/internal/errors"
	"github.com/akeil/sntool/internal/logging"
	"github.com/akeil/sntool/pkg/meta"
	"github.com/akeil/sntool/pkg/note"
	"github.com/akeil/sntool/pkg/rle"
)

// NotebookContent is the input for Create.
type NotebookContent struct {
	// Kind defaults to KindNote.
	Kind note.Kind

	// Profile defaults to note.DefaultProfile.
	Profile *note.Profile

	// FileID is generated if empty.
	FileID string
	Pages  []PageContent

	// Header holds header values to carry over. Only keys of the header field
	// table are used; FILE_TYPE and FILE_ID are always computed.
	Header *meta.Record

	// Cover is an optional cover image, stored as is.
	Cover  []byte
	Policy DecomposePolicy
}

// page keys that Create always computes; they hold addresses or layout
var computedPageKeys = map[string]bool{
	note.LayerMain:       true,
	note.Layer1:          true,
	note.Layer2:          true,
	note.Layer3:          true,
	note.LayerBackground: true,
	note.KeyTextBox:      true,
	note.KeyRecognText:   true,
	note.KeyRecognFile:   true,
	note.KeyTotalPath:    true,
	"LAYERSEQ":           true,
	"LAYERINFO":          true,
	"PAGEID":             true,
	"ORIENTATION":        true,
	"PAGESTYLE":          true,
	"PAGESTYLEMD5":       true,
}

// Create builds a container from the given content.
//
// Identical backgrounds with the same style name are stored once. Opaque
// blocks are copied unchanged; text boxes are never synthesized.
func Create(c NotebookContent) ([]byte, error) {
	if len(c.Pages) == 0 {
		return nil, errors.NewValidationError("a notebook needs at least one page")
	}
	kind := c.Kind
	if kind == "" {
		kind = note.KindNote
	}
	p := c.Profile
	if p == nil {
		p = note.DefaultProfile
	}
	fileID := c.FileID
	if fileID == "" {
		fileID = note.NewFileID()
	}

	layers := make([]*Layers, len(c.Pages))
	for i, pc := range c.Pages {
		l, err := Decompose(pc, p, c.Policy)
		if err != nil {
			return nil, errors.Wrap(err, "page %d", i+1)
		}
		layers[i] = l
	}

	header := note.NewHeader(kind, p, fileID, len(c.Pages))
	carry(header, c.Header, note.HeaderSchema, func(k string) bool {
		return k == "FILE_TYPE" || k == "FILE_ID"
	})

	b, err := note.NewBuilder(kind, p, header)
	if err != nil {
		return nil, err
	}

	styles := make([]note.StyleRef, len(c.Pages))
	for i, l := range layers {
		if !l.IsAsset {
			continue
		}
		styles[i], err = b.DedupStyle(l.Style, l.Background.Data)
		if err != nil {
			return nil, errors.Wrap(err, "page %d", i+1)
		}
	}

	for i, pc := range c.Pages {
		err = writePage(b, i+1, pc, layers[i], styles[i])
		if err != nil {
			return nil, errors.Wrap(err, "page %d", i+1)
		}
	}

	if c.Cover != nil {
		if _, err = b.Append(note.PrefixCover+"1", c.Cover); err != nil {
			return nil, err
		}
	}

	data, err := b.Build()
	if err != nil {
		return nil, err
	}
	logging.Info("Created %v with %d pages (%d bytes)", kind, len(c.Pages), len(data))
	return data, nil
}

// carry copies values of table keys from src to dst, except computed ones.
// Keys outside the table might hold addresses into another container and
// are dropped.
func carry(dst, src *meta.Record, s meta.Schema, computed func(string) bool) {
	if src == nil {
		return
	}
	known := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		known[f.Key] = true
	}
	for _, k := range src.Keys() {
		if computed(k) {
			continue
		}
		if !known[k] {
			logging.Debug("Drop unknown %v key %q", s.Kind, k)
			continue
		}
		// Set keeps the position of keys already in dst
		values := src.Values(k)
		dst.Set(k, values[0])
		for _, v := range values[1:] {
			dst.Add(k, v)
		}
	}
}

func writePage(b *note.Builder, n int, pc PageContent, l *Layers, style note.StyleRef) error {
	prefix := note.PageName(n)
	page := meta.NewRecord()
	carry(page, pc.Record, note.PageSchema, func(k string) bool { return computedPageKeys[k] })

	info := note.DefaultLayerInfo()
	if len(pc.LayerInfo) > 0 {
		info = make([]note.LayerInfo, len(pc.LayerInfo))
		copy(info, pc.LayerInfo)
	}

	mainAddr, err := writeLayer(b, prefix, note.LayerMain, l.Main.Protocol, l.Main.Data, opaqueLayer{
		recogn: pc.MainRecogn,
		vector: pc.Vectors[note.LayerMain],
	})
	if err != nil {
		return err
	}
	page.Set(note.LayerMain, addrString(mainAddr))

	for i, slot := range []string{note.Layer1, note.Layer2, note.Layer3} {
		bm := pc.Extras[slot]
		if bm == nil {
			continue
		}
		if bm.Width != l.Width || bm.Height != l.Height {
			return errors.NewValidationError("layer %v is %dx%d, page is %dx%d", slot, bm.Width, bm.Height, l.Width, l.Height)
		}
		data, err := rle.EncodeBitmap(bm, b.Profile().Palette)
		if err != nil {
			return err
		}
		a, err := writeLayer(b, prefix, slot, rle.Protocol, data, opaqueLayer{vector: pc.Vectors[slot]})
		if err != nil {
			return err
		}
		page.Set(slot, addrString(a))
		if len(pc.LayerInfo) == 0 {
			// DefaultLayerInfo lists layer 3 first
			info[2-i].IsDeleted = false
		}
	}

	var bgAddr uint32
	switch {
	case l.IsAsset:
		rec := note.NewLayerRecord(note.LayerBackground, l.Background.Protocol, style.Address)
		err = writeOpaque(b, prefix, note.LayerBackground, rec, opaqueLayer{vector: pc.Vectors[note.LayerBackground]})
		if err == nil {
			bgAddr, err = b.AppendMetadata(layerPath(prefix, note.LayerBackground), rec)
		}
		page.Set("PAGESTYLE", style.Name)
		page.Set("PAGESTYLEMD5", style.Hash)
	default:
		bgAddr, err = writeLayer(b, prefix, note.LayerBackground, l.Background.Protocol, l.Background.Data,
			opaqueLayer{vector: pc.Vectors[note.LayerBackground]})
		page.Set("PAGESTYLE", l.Style)
	}
	if err != nil {
		return err
	}
	page.Set(note.LayerBackground, addrString(bgAddr))

	for _, key := range note.OpaquePageKeys {
		data, ok := pc.Opaque[key]
		if !ok {
			continue
		}
		a, err := b.Append(prefix+"/"+key, data)
		if err != nil {
			return err
		}
		page.Set(key, addrString(a))
	}

	liValue, err := meta.EncodeNested(info)
	if err != nil {
		return err
	}
	page.Set("LAYERINFO", liValue)
	page.Set("LAYERSEQ", strings.Join(layerSeq(pc), ","))

	id := pc.ID
	if id == "" {
		id = note.NewPageID()
	}
	page.Set("PAGEID", id)
	if pc.Landscape {
		page.SetInt("ORIENTATION", note.OrientationLandscape)
	}

	_, err = b.AppendMetadata(prefix+"/metadata", note.PageSchema.Template(page))
	return err
}

// opaqueLayer holds the uninterpreted blocks of one layer.
type opaqueLayer struct {
	recogn []byte
	vector []byte
}

// writeLayer stores the layer data (if any), its opaque blocks and the
// layer metadata. Returns the metadata address.
func writeLayer(b *note.Builder, prefix, slot, protocol string, data []byte, o opaqueLayer) (uint32, error) {
	var bitmap uint32
	var err error
	if data != nil {
		bitmap, err = b.Append(prefix+"/"+slot+"/LAYERBITMAP", data)
		if err != nil {
			return 0, err
		}
	}
	rec := note.NewLayerRecord(slot, protocol, bitmap)
	if err = writeOpaque(b, prefix, slot, rec, o); err != nil {
		return 0, err
	}
	return b.AppendMetadata(layerPath(prefix, slot), rec)
}

// writeOpaque appends the opaque layer blocks and sets their addresses in rec.
func writeOpaque(b *note.Builder, prefix, slot string, rec *meta.Record, o opaqueLayer) error {
	for _, x := range []struct {
		key  string
		data []byte
	}{
		{note.KeyLayerVector, o.vector},
		{note.KeyLayerRecogn, o.recogn},
	} {
		if x.data == nil {
			continue
		}
		a, err := b.Append(prefix+"/"+slot+"/"+x.key, x.data)
		if err != nil {
			return err
		}
		rec.Set(x.key, addrString(a))
	}
	return nil
}

func layerPath(prefix, slot string) string {
	return fmt.Sprintf("%v/%v/metadata", prefix, slot)
}

func layerSeq(pc PageContent) []string {
	if len(pc.LayerSeq) > 0 {
		return pc.LayerSeq
	}
	seq := []string{note.LayerMain}
	for _, slot := range []string{note.Layer1, note.Layer2, note.Layer3} {
		if pc.Extras[slot] != nil {
			seq = append(seq, slot)
		}
	}
	return append(seq, note.LayerBackground)
}

func addrString(a uint32) string {
	return strconv.FormatUint(uint64(a), 10)
}

// Content converts a parsed notebook back into input for Create.
//
// Layer bitmaps are decoded, so the rewritten container may chunk runs
// differently while holding the same pixels. Opaque blocks and PNG
// backgrounds are carried over byte for byte.
func (n *Notebook) Content() (NotebookContent, error) {
	c := NotebookContent{
		Kind:    n.Kind,
		Profile: n.Profile,
		FileID:  n.Header.FileID,
		Header:  n.Header.Record,
		Pages:   make([]PageContent, len(n.Pages)),
	}
	if n.Cover != nil {
		c.Cover = n.Cover.Data
	}

	for i, p := range n.Pages {
		pc, err := p.content()
		if err != nil {
			return NotebookContent{}, errors.Wrap(err, "page %d", i+1)
		}
		c.Pages[i] = pc
	}
	return c, nil
}

func (p *Page) content() (PageContent, error) {
	pc := PageContent{
		ID:        p.ID,
		Landscape: p.Landscape(),
		LayerSeq:  p.LayerSeq,
		LayerInfo: p.LayerInfo,
		Opaque:    p.Opaque,
		Record:    p.Record,
	}

	for _, l := range p.Layers() {
		if l.Vector == nil {
			continue
		}
		if pc.Vectors == nil {
			pc.Vectors = make(map[string][]byte)
		}
		pc.Vectors[l.Slot] = l.Vector
	}

	if m := p.Main(); m != nil {
		bm, err := m.Bitmap()
		if err != nil {
			return pc, err
		}
		pc.InkBitmap = bm
		pc.MainRecogn = m.Recogn
	}

	for _, slot := range []string{note.Layer1, note.Layer2, note.Layer3} {
		l := p.Layer(slot)
		if l == nil {
			continue
		}
		bm, err := l.Bitmap()
		if err != nil {
			return pc, err
		}
		if pc.Extras == nil {
			pc.Extras = make(map[string]*rle.Bitmap)
		}
		pc.Extras[slot] = bm
	}

	if bg := p.Background(); bg != nil {
		raw, err := bg.Raw()
		if err != nil {
			return pc, err
		}
		switch {
		case isPNG(raw):
			pc.BackgroundPNG = raw
			pc.Style = p.Style
		case raw != nil:
			bm, err := bg.Bitmap()
			if err != nil {
				return pc, err
			}
			pc.BackgroundBitmap = bm
			pc.Template = p.Style
		default:
			pc.Template = p.Style
		}
	}
	return pc, nil
}
