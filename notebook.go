package sntool

import (
	"encoding/hex"
	"strings"

	"github.com/akeil/sntool/internal/errors"
	"github.com/akeil/sntool/internal/logging"
	"github.com/akeil/sntool/pkg/meta"
	"github.com/akeil/sntool/pkg/note"
)

// Notebook is the document tree of a parsed container.
//
// A Notebook is a view on the bytes passed to Parse; they must not be
// modified while the notebook is in use. Layer bitmaps are decoded on
// demand.
type Notebook struct {
	dir *note.Directory

	Kind      note.Kind
	Signature string
	Profile   *note.Profile
	Header    *note.Header
	Pages     []*Page
	Styles    []*Style

	// Cover is nil if the notebook has none.
	Cover    *Block
	Keywords []*Block
	Titles   []*Block
	Links    []*Block

	// Warnings holds CompatibilityWarnings; the notebook is complete
	// nonetheless.
	Warnings []error
}

// Block is a block listed in the footer directory, kept as raw bytes.
type Block struct {
	Key     string
	Address uint32
	Data    []byte
}

// Record decodes the block as metadata.
func (b *Block) Record() (*meta.Record, error) {
	return meta.Decode(b.Data)
}

// Style is a stored background asset.
type Style struct {
	Name    string
	Hash    string
	Address uint32
	Data    []byte
}

// Parse reads a container and resolves every page and layer.
//
// Parsing fails on the first structural violation; a Notebook is only
// returned if complete.
func Parse(data []byte, opts ...ReadOption) (*Notebook, error) {
	d, err := note.Open(data, opts...)
	if err != nil {
		return nil, err
	}

	n := &Notebook{
		dir:       d,
		Kind:      d.Kind,
		Signature: d.Signature,
		Profile:   d.Profile,
		Warnings:  d.Warnings,
	}

	addr, err := d.HeaderAddress()
	if err != nil {
		return nil, err
	}
	rec, err := d.Metadata(addr)
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	n.Header, err = note.ParseHeader(rec, d.Strict())
	if err != nil {
		return nil, err
	}

	pages, err := d.Pages()
	if err != nil {
		return nil, err
	}
	n.Pages = make([]*Page, 0, len(pages))
	for i, a := range pages {
		p, err := readPage(d, i, a)
		if err != nil {
			return nil, errors.Wrap(err, "read page %d", i+1)
		}
		n.Pages = append(n.Pages, p)
	}

	for _, e := range d.Styles() {
		data, err := d.Block(e.Address)
		if err != nil {
			return nil, err
		}
		name, hash := splitStyleKey(e.Key)
		n.Styles = append(n.Styles, &Style{
			Name:    name,
			Hash:    hash,
			Address: e.Address,
			Data:    data,
		})
	}

	covers, err := blocks(d, d.Covers())
	if err != nil {
		return nil, err
	}
	if len(covers) > 0 {
		n.Cover = covers[0]
	}
	if n.Keywords, err = blocks(d, d.Keywords()); err != nil {
		return nil, err
	}
	if n.Titles, err = blocks(d, d.Titles()); err != nil {
		return nil, err
	}
	if n.Links, err = blocks(d, d.Links()); err != nil {
		return nil, err
	}

	logging.Debug("Parsed %v with %d pages, %d styles", n.Kind, len(n.Pages), len(n.Styles))
	return n, nil
}

// blocks resolves footer entries, skipping absent ones.
func blocks(d *note.Directory, entries []note.Entry) ([]*Block, error) {
	var out []*Block
	for _, e := range entries {
		if e.Address == 0 {
			continue
		}
		data, err := d.Block(e.Address)
		if err != nil {
			return nil, err
		}
		out = append(out, &Block{Key: e.Key, Address: e.Address, Data: data})
	}
	return out, nil
}

// splitStyleKey separates "STYLE_<name><md5>" into name and hash.
// Keys without a trailing hash yield an empty hash.
func splitStyleKey(key string) (string, string) {
	s := strings.TrimPrefix(key, note.PrefixStyle)
	const hashLen = 32
	if len(s) > hashLen {
		h := s[len(s)-hashLen:]
		if _, err := hex.DecodeString(h); err == nil {
			return s[:len(s)-hashLen], h
		}
	}
	return s, ""
}

// Page finds a page by its id.
func (n *Notebook) Page(id string) (*Page, error) {
	for _, p := range n.Pages {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, errors.NewNotFound("no page with id %q", id)
}

// StyleOf returns the style asset referenced by the given page, or nil if
// the page uses a built-in template.
func (n *Notebook) StyleOf(p *Page) *Style {
	for _, s := range n.Styles {
		if s.Name == p.Style && s.Hash == p.StyleHash {
			return s
		}
	}
	return nil
}
