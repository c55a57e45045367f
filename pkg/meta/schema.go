package meta

import (
	"strconv"

	"github.com/akeil/sntool/internal/errors"
	"github.com/akeil/sntool/internal/logging"
)

// Field describes one key of a block kind.
type Field struct {
	Key      string
	Required bool

	// Default is filled in for optional keys that are absent.
	Default string
}

// Schema is the field table for one kind of metadata block.
type Schema struct {
	Kind   string
	Fields []Field
}

// Apply checks rec against the field table and returns a copy with
// defaults filled in.
//
// A missing required key is an error. Keys not in the table are an error
// in strict mode; otherwise they are kept as they are.
func (s Schema) Apply(rec *Record, strict bool) (*Record, error) {
	known := make(map[string]bool, len(s.Fields))
	out := rec.Clone()
	for _, f := range s.Fields {
		known[f.Key] = true
		if out.Has(f.Key) {
			continue
		}
		if f.Required {
			return nil, errors.NewFormatError(errors.MissingField, -1, s.Kind+" key "+f.Key, "")
		}
		out.Set(f.Key, f.Default)
	}

	for _, k := range rec.Keys() {
		if known[k] {
			continue
		}
		if strict {
			return nil, errors.NewFormatError(errors.UnknownField, -1, "", s.Kind+" key "+strconv.Quote(k))
		}
		logging.Debug("Keep unknown %v key %q", s.Kind, k)
	}

	return out, nil
}

// Template builds a record with every field of the table set to its
// default, in table order. Values in override replace the defaults and
// override keys outside the table are appended.
func (s Schema) Template(override *Record) *Record {
	r := NewRecord()
	for _, f := range s.Fields {
		if override != nil && override.Has(f.Key) {
			for _, v := range override.Values(f.Key) {
				r.Add(f.Key, v)
			}
			continue
		}
		r.Set(f.Key, f.Default)
	}
	if override != nil {
		for _, k := range override.Keys() {
			if r.Has(k) {
				continue
			}
			for _, v := range override.Values(k) {
				r.Add(k, v)
			}
		}
	}
	return r
}
