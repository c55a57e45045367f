package note

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/akeil/sntool/internal/errors"
	"github.com/akeil/sntool/internal/logging"
	"github.com/akeil/sntool/pkg/meta"
)

type builderState int

const (
	notStarted builderState = iota
	appending
	finalized
)

// StyleRef identifies a stored style asset.
type StyleRef struct {
	Name    string
	Hash    string
	Address uint32
}

// Key is the footer key of the style block.
func (s StyleRef) Key() string {
	return PrefixStyle + s.Name + s.Hash
}

type styleKey struct {
	name string
	sum  uint64
}

type storedStyle struct {
	ref  StyleRef
	data []byte
}

// Builder writes a container block by block.
//
// Blocks are appended at the end of the stream; Append returns the address
// other blocks use to reference it. Build writes the footer directory, the
// tail marker and the footer address, after which the builder rejects all
// further calls. The zero value is not started; use NewBuilder.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	buf     bytes.Buffer
	state   builderState
	kind    Kind
	profile *Profile
	paths   map[string]uint32
	order   []string
	styles  map[styleKey][]storedStyle
}

// NewBuilder starts a container of the given kind and writes the type tag,
// the profile signature and the header block.
// A nil profile selects DefaultProfile.
func NewBuilder(kind Kind, p *Profile, header *meta.Record) (*Builder, error) {
	if !kind.valid() {
		return nil, errors.NewValidationError("invalid container kind %q", kind)
	}
	if p == nil {
		p = DefaultProfile
	}
	if !validSignature(p.Signature) {
		return nil, errors.NewValidationError("invalid signature %q for profile %v", p.Signature, p.Name)
	}

	b := &Builder{
		state:   appending,
		kind:    kind,
		profile: p,
		paths:   make(map[string]uint32),
		styles:  make(map[styleKey][]storedStyle),
	}

	b.appendBlock(pathType, []byte(kind), false)
	b.appendBlock(pathSignature, []byte(p.Signature), false)

	if header == nil {
		header = NewHeader(kind, p, NewFileID(), 0)
	}
	data, err := meta.Encode(header)
	if err != nil {
		return nil, errors.Wrap(err, "encode header")
	}
	b.appendBlock(pathHeader, data, true)

	return b, nil
}

// Profile returns the device profile this container is written for.
func (b *Builder) Profile() *Profile {
	return b.profile
}

// Kind returns the type tag of the container.
func (b *Builder) Kind() Kind {
	return b.kind
}

// Append writes a length-prefixed block and registers it under path.
//
// Paths are hierarchical, separated by "/". A single element path (like
// "COVER_1") or a "<NAME>/metadata" path is listed in the footer directory
// as NAME; deeper paths are reachable only through the block that
// references them.
func (b *Builder) Append(path string, data []byte) (uint32, error) {
	err := b.check(path, data)
	if err != nil {
		return 0, err
	}
	return b.appendBlock(path, data, true), nil
}

// AppendMetadata encodes rec and appends it under path.
func (b *Builder) AppendMetadata(path string, rec *meta.Record) (uint32, error) {
	err := b.check(path, nil)
	if err != nil {
		return 0, err
	}
	data, err := meta.Encode(rec)
	if err != nil {
		return 0, errors.Wrap(err, "encode %v", path)
	}
	return b.Append(path, data)
}

// UnsafeAppendRaw writes data without a length prefix.
//
// UNSAFE: the framing of the container then depends on the caller. Only the
// type tag, signature, tail marker and footer address are written without a
// prefix; anything else written this way makes the container unreadable if
// it is referenced as a block. This exists to reproduce foreign files byte
// for byte.
func (b *Builder) UnsafeAppendRaw(path string, data []byte) (uint32, error) {
	err := b.check(path, data)
	if err != nil {
		return 0, err
	}
	logging.Debug("Unsafe raw append %q (%d bytes)", path, len(data))
	return b.appendBlock(path, data, false), nil
}

// DedupStyle stores a style asset once per (name, content hash).
//
// If an asset with the same name and content was stored before, its
// reference is returned and nothing is written.
func (b *Builder) DedupStyle(name string, data []byte) (StyleRef, error) {
	if err := b.checkState(PrefixStyle + name); err != nil {
		return StyleRef{}, err
	}
	if name == "" || strings.ContainsAny(name, "/<>:") {
		return StyleRef{}, errors.NewValidationError("invalid style name %q", name)
	}

	key := styleKey{name: name, sum: xxhash.Sum64(data)}
	for _, s := range b.styles[key] {
		if bytes.Equal(s.data, data) {
			logging.Debug("Reuse style %q at %d", name, s.ref.Address)
			return s.ref, nil
		}
	}

	sum := md5.Sum(data)
	ref := StyleRef{Name: name, Hash: hex.EncodeToString(sum[:])}
	addr, err := b.Append(ref.Key(), data)
	if err != nil {
		return StyleRef{}, err
	}
	ref.Address = addr
	b.styles[key] = append(b.styles[key], storedStyle{ref: ref, data: data})
	return ref, nil
}

// Address returns the address of the block registered under path.
func (b *Builder) Address(path string) (uint32, bool) {
	a, ok := b.paths[path]
	return a, ok
}

// Len is the number of bytes written so far.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// Build writes the footer, the tail marker and the footer address and
// returns the finished container.
func (b *Builder) Build() ([]byte, error) {
	if err := b.checkState(pathFooter); err != nil {
		return nil, err
	}

	footer := b.footer()
	data, err := meta.Encode(footer)
	if err != nil {
		return nil, errors.Wrap(err, "encode footer")
	}
	if err := b.checkSize(pathFooter, data); err != nil {
		return nil, err
	}

	addr := b.appendBlock(pathFooter, data, true)
	b.appendBlock(pathTail, []byte(tailMarker), false)
	b.appendBlock(pathFooterAddress, putAddr(addr), false)
	b.state = finalized

	logging.Debug("Built %v container, %d bytes, footer at %d", b.kind, b.buf.Len(), addr)

	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out, nil
}

// footer groups the exposed paths the way devices write them.
func (b *Builder) footer() *meta.Record {
	groups := []string{PrefixCover, PrefixKeyword, PrefixTitle, PrefixLinkOut, PrefixLinkIn, PrefixPage, PrefixStyle}
	byGroup := make(map[string][]string, len(groups)+1)
	for _, p := range b.order {
		key, ok := directoryKey(p)
		if !ok {
			continue
		}
		g := ""
		for _, prefix := range groups {
			if strings.HasPrefix(key, prefix) {
				g = prefix
				break
			}
		}
		byGroup[g] = append(byGroup[g], p)
	}

	f := meta.NewRecord()
	f.Set(KeyHeader, addrString(b.paths[pathHeader]))
	if len(byGroup[PrefixCover]) == 0 {
		f.Set(KeyNoCover, "0")
	}
	for _, g := range append(groups, "") {
		for _, p := range byGroup[g] {
			key, _ := directoryKey(p)
			f.Add(key, addrString(b.paths[p]))
		}
	}
	return f
}

// directoryKey maps a block path to its footer key.
func directoryKey(path string) (string, bool) {
	if strings.HasPrefix(path, "__") {
		return "", false
	}
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		return parts[0], true
	case len(parts) == 2 && parts[1] == "metadata":
		return parts[0], true
	default:
		return "", false
	}
}

func addrString(a uint32) string {
	return strconv.FormatUint(uint64(a), 10)
}

func (b *Builder) check(path string, data []byte) error {
	if err := b.checkState(path); err != nil {
		return err
	}
	if path == "" || strings.HasPrefix(path, "__") {
		return errors.NewValidationError("invalid block path %q", path)
	}
	if _, ok := b.paths[path]; ok {
		return errors.NewBuilderError(errors.DuplicateBlockName, path)
	}
	return b.checkSize(path, data)
}

func (b *Builder) checkState(path string) error {
	switch b.state {
	case notStarted:
		return errors.NewBuilderError(errors.BuilderNotStarted, path)
	case finalized:
		return errors.NewBuilderError(errors.BuilderFinalized, path)
	}
	return nil
}

func (b *Builder) checkSize(path string, data []byte) error {
	if !fitsAddressSpace(uint64(b.buf.Len()), uint64(len(data))) {
		return errors.NewValidationError("block %q does not fit into a 32 bit address space", path)
	}
	return nil
}

// fitsAddressSpace tells if a block of n bytes appended at cursor still
// leaves room for the trailer below 4 GiB.
func fitsAddressSpace(cursor, n uint64) bool {
	return cursor+lenPrefix+n+uint64(trailerLen) <= math.MaxUint32
}

// appendBlock writes without checks; callers have validated path and state.
func (b *Builder) appendBlock(path string, data []byte, prefixed bool) uint32 {
	addr := uint32(b.buf.Len())
	if prefixed {
		var n [lenPrefix]byte
		endianess.PutUint32(n[:], uint32(len(data)))
		b.buf.Write(n[:])
	}
	b.buf.Write(data)
	b.paths[path] = addr
	b.order = append(b.order, path)
	return addr
}
