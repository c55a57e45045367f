package note

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/akeil/sntool/internal/errors"
	"github.com/akeil/sntool/internal/logging"
	"github.com/akeil/sntool/pkg/meta"
)

// Entry is one name/address pair from the footer directory.
type Entry struct {
	Key     string
	Address uint32
}

// Directory is the resolved framing and footer of a container.
// It is a read-only view on the container bytes.
type Directory struct {
	data []byte
	cfg  readConfig

	Kind          Kind
	Signature     string
	Profile       *Profile
	FooterAddress uint32
	Footer        *meta.Record

	// Warnings holds non-fatal CompatibilityWarnings.
	Warnings []error
}

// Open validates the framing of a container and resolves its footer.
//
// Checks run in stream order and stop at the first violation: type tag,
// signature, tail marker, footer address, footer metadata, and finally the
// bounds of every address listed in the footer.
func Open(data []byte, opts ...ReadOption) (*Directory, error) {
	cfg := newReadConfig(opts)
	if len(data) > cfg.limits.MaxContainerLen {
		return nil, errors.NewFormatError(errors.LimitExceeded, 0,
			fmt.Sprintf("at most %d bytes", cfg.limits.MaxContainerLen), strconv.Itoa(len(data)))
	}

	d := &Directory{data: data, cfg: cfg}

	err := d.readFraming()
	if err != nil {
		return nil, err
	}

	err = d.readFooter()
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Directory) readFraming() error {
	data := d.data
	if len(data) < typeLen {
		return errors.NewFormatError(errors.UnknownType, 0, `"note" or "mark"`, strconv.Quote(string(data)))
	}
	kind := Kind(data[:typeLen])
	if !kind.valid() {
		return errors.NewFormatError(errors.UnknownType, 0, `"note" or "mark"`, strconv.Quote(string(kind)))
	}
	d.Kind = kind

	if len(data) < minContainer {
		return errors.NewFormatError(errors.MissingTail, int64(len(data)), "trailer", "end of stream")
	}

	d.Signature = string(data[typeLen : typeLen+signatureLen])
	p, ok := LookupProfile(d.Signature)
	if !ok {
		w := &errors.CompatibilityWarning{Kind: errors.UnknownSignature, Detail: d.Signature}
		logging.Warning("%v", w)
		d.Warnings = append(d.Warnings, w)
		p = GenericProfile
	}
	d.Profile = p

	tailAt := len(data) - trailerLen
	tail := string(data[tailAt : tailAt+tailLen])
	if tail != tailMarker {
		return errors.NewFormatError(errors.MissingTail, int64(tailAt), strconv.Quote(tailMarker), strconv.Quote(tail))
	}

	d.FooterAddress = endianess.Uint32(data[len(data)-addrLen:])
	return nil
}

func (d *Directory) readFooter() error {
	if d.FooterAddress == 0 {
		return errors.NewFormatError(errors.UnresolvedAddress, int64(len(d.data)-addrLen), "footer address", "0")
	}
	footer, err := d.Metadata(d.FooterAddress)
	if err != nil {
		return errors.Wrap(err, "read footer")
	}
	d.Footer = footer

	for _, k := range footer.Keys() {
		addrs, err := footer.Addresses(k)
		if err != nil {
			return errors.Wrap(err, "read footer")
		}
		for _, a := range addrs {
			if a == 0 {
				continue
			}
			_, err = d.Block(a)
			if err != nil {
				return errors.Wrap(err, "footer key %v", k)
			}
		}
	}
	return nil
}

// Block returns the payload of the length-prefixed block at addr.
// Address 0 means "absent" and yields nil.
func (d *Directory) Block(addr uint32) ([]byte, error) {
	if addr == 0 {
		return nil, nil
	}
	start := int64(addr)
	limit := int64(len(d.data) - trailerLen)
	if start < int64(typeLen+signatureLen) || start+lenPrefix > limit {
		return nil, errors.NewFormatError(errors.UnresolvedAddress, start,
			fmt.Sprintf("block within %d..%d", typeLen+signatureLen, limit), "out of bounds")
	}
	n := int64(endianess.Uint32(d.data[start : start+lenPrefix]))
	end := start + lenPrefix + n
	if end > limit {
		return nil, errors.NewFormatError(errors.UnresolvedAddress, start,
			fmt.Sprintf("block end before %d", limit), strconv.FormatInt(end, 10))
	}
	return d.data[start+lenPrefix : end], nil
}

// Metadata decodes the metadata block at addr.
func (d *Directory) Metadata(addr uint32) (*meta.Record, error) {
	b, err := d.Block(addr)
	if err != nil {
		return nil, err
	}
	if len(b) > d.cfg.limits.MaxMetadataLen {
		return nil, errors.NewFormatError(errors.LimitExceeded, int64(addr),
			fmt.Sprintf("metadata of at most %d bytes", d.cfg.limits.MaxMetadataLen), strconv.Itoa(len(b)))
	}
	r, err := meta.Decode(b)
	if err != nil {
		return nil, errors.Wrap(err, "metadata block at %d", addr)
	}
	return r, nil
}

// Strict tells if the directory was opened in strict mode.
func (d *Directory) Strict() bool {
	return d.cfg.strict
}

// Limits returns the limits in effect.
func (d *Directory) Limits() Limits {
	return d.cfg.limits
}

// Len is the size of the container in bytes.
func (d *Directory) Len() int {
	return len(d.data)
}

// HeaderAddress is the address of the header block.
func (d *Directory) HeaderAddress() (uint32, error) {
	if !d.Footer.Has(KeyHeader) {
		return 0, errors.NewFormatError(errors.MissingField, int64(d.FooterAddress), "footer key "+KeyHeader, "")
	}
	return d.Footer.Uint32(KeyHeader)
}

// Pages returns the page metadata addresses ordered by page number.
func (d *Directory) Pages() ([]uint32, error) {
	type page struct {
		n    int
		addr uint32
	}
	var pages []page
	for _, e := range d.Entries(PrefixPage) {
		n, err := strconv.Atoi(strings.TrimPrefix(e.Key, PrefixPage))
		if err != nil {
			// not a page key, e.g. a vendor key sharing the prefix
			continue
		}
		pages = append(pages, page{n, e.Address})
	}
	if len(pages) > d.cfg.limits.MaxPages {
		return nil, errors.NewFormatError(errors.LimitExceeded, int64(d.FooterAddress),
			fmt.Sprintf("at most %d pages", d.cfg.limits.MaxPages), strconv.Itoa(len(pages)))
	}
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].n < pages[j].n })

	out := make([]uint32, len(pages))
	for i, p := range pages {
		out[i] = p.addr
	}
	return out, nil
}

// Entries lists footer entries whose key starts with prefix, in footer
// order. A key with several values yields one entry per value.
// Addresses are already bounds checked by Open.
func (d *Directory) Entries(prefix string) []Entry {
	var out []Entry
	for _, k := range d.Footer.Keys() {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		addrs, _ := d.Footer.Addresses(k)
		for _, a := range addrs {
			out = append(out, Entry{Key: k, Address: a})
		}
	}
	return out
}

// Styles lists the STYLE_ entries.
func (d *Directory) Styles() []Entry {
	return d.Entries(PrefixStyle)
}

// Covers lists the COVER_ entries, including a COVER_0 placeholder.
func (d *Directory) Covers() []Entry {
	return d.Entries(PrefixCover)
}

// Keywords lists the KEYWORD_ entries.
func (d *Directory) Keywords() []Entry {
	return d.Entries(PrefixKeyword)
}

// Titles lists the TITLE_ entries.
func (d *Directory) Titles() []Entry {
	return d.Entries(PrefixTitle)
}

// Links lists outgoing links followed by incoming links.
func (d *Directory) Links() []Entry {
	return append(d.Entries(PrefixLinkOut), d.Entries(PrefixLinkIn)...)
}
