// Package meta reads and writes the metadata records found in every
// header, footer, page and layer block of a notebook container.
//
// A record is a sequence of <KEY:VALUE> tokens without separators or
// escaping. Keys may repeat; all values are kept in order.
package meta

import (
	"strconv"

	"github.com/akeil/sntool/internal/errors"
)

// Record is an ordered multimap from keys to one or more values.
// The zero value is an empty record ready to use.
type Record struct {
	keys    []string
	values  map[string][]string
	dialect Dialect
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{}
}

// Add appends a value for key.
// A key keeps the position of its first insertion.
func (r *Record) Add(key, value string) {
	if r.values == nil {
		r.values = make(map[string][]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = append(r.values[key], value)
}

// Set replaces all values for key with the given value.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string][]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = []string{value}
}

// SetInt is a shortcut for Set with a decimal integer.
func (r *Record) SetInt(key string, value int) {
	r.Set(key, strconv.Itoa(value))
}

// Get returns the first value for key, or the empty string.
func (r *Record) Get(key string) string {
	v := r.values[key]
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

// Values returns all values for key in insertion order.
func (r *Record) Values(key string) []string {
	return r.values[key]
}

// Has tells if at least one value exists for key.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// IsMulti tells if key was seen more than once.
func (r *Record) IsMulti(key string) bool {
	return len(r.values[key]) > 1
}

// Keys returns the distinct keys in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len is the number of distinct keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// Delete removes key and all its values.
func (r *Record) Delete(key string) {
	if !r.Has(key) {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := &Record{dialect: r.dialect}
	for _, k := range r.keys {
		for _, v := range r.values[k] {
			c.Add(k, v)
		}
	}
	return c
}

// Dialect is the separator dialect detected for nested values when the
// record was decoded. Records built in memory report DialectColon.
func (r *Record) Dialect() Dialect {
	return r.dialect
}

// Int parses the first value for key as a decimal integer.
func (r *Record) Int(key string) (int, error) {
	s := r.Get(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewFormatError(errors.InvalidValue, -1, "integer for "+key, strconv.Quote(s))
	}
	return n, nil
}

// Uint32 parses the first value for key as an unsigned 32 bit integer,
// which is how block addresses are stored.
func (r *Record) Uint32(key string) (uint32, error) {
	s := r.Get(key)
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.NewFormatError(errors.InvalidValue, -1, "address for "+key, strconv.Quote(s))
	}
	return uint32(n), nil
}

// Addresses parses every value for key as an address.
func (r *Record) Addresses(key string) ([]uint32, error) {
	vals := r.Values(key)
	out := make([]uint32, 0, len(vals))
	for _, s := range vals {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, errors.NewFormatError(errors.InvalidValue, -1, "address for "+key, strconv.Quote(s))
		}
		out = append(out, uint32(n))
	}
	return out, nil
}
