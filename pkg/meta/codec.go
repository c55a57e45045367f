package meta

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/akeil/sntool/internal/errors"
)

const (
	tokenOpen  = '<'
	tokenClose = '>'
	separator  = ':'
	hashSep    = '#'
)

// Dialect identifies the separator used inside nested pseudo-JSON values.
type Dialect int

const (
	// DialectColon is standard JSON, the only dialect written.
	DialectColon Dialect = iota
	// DialectHash replaces the JSON ':' with '#'. Some producers write it.
	DialectHash
)

func (d Dialect) String() string {
	if d == DialectHash {
		return "hash"
	}
	return "colon"
}

// Encode serializes the record as <KEY:VALUE> tokens in insertion order.
// A key with several values is written once per value.
func Encode(r *Record) ([]byte, error) {
	var buf bytes.Buffer
	for _, k := range r.keys {
		if err := checkKey(k); err != nil {
			return nil, err
		}
		for _, v := range r.values[k] {
			if strings.ContainsAny(v, "<>") {
				return nil, errors.NewFormatError(errors.MalformedMetadataToken, int64(buf.Len()),
					"value without '<' or '>' for "+k, strconv.Quote(v))
			}
			buf.WriteByte(tokenOpen)
			buf.WriteString(k)
			buf.WriteByte(separator)
			buf.WriteString(v)
			buf.WriteByte(tokenClose)
		}
	}
	return buf.Bytes(), nil
}

func checkKey(k string) error {
	if k == "" || strings.ContainsAny(k, "<>:") {
		return errors.NewFormatError(errors.MalformedMetadataToken, -1, "key without '<', '>' or ':'", strconv.Quote(k))
	}
	return nil
}

// Decode parses a block of <KEY:VALUE> tokens.
//
// The key ends at the first ':', so values may contain ':' (nested JSON
// does). Bytes between tokens are skipped. A token without closing '>' or
// without a separator is an error; the offset points at its '<'.
func Decode(data []byte) (*Record, error) {
	r := NewRecord()
	i := 0
	for i < len(data) {
		start := bytes.IndexByte(data[i:], tokenOpen)
		if start < 0 {
			break
		}
		start += i

		end := bytes.IndexByte(data[start+1:], tokenClose)
		if end < 0 {
			return nil, errors.NewFormatError(errors.MalformedMetadataToken, int64(start), "'>'", "end of block")
		}
		end += start + 1

		body := data[start+1 : end]
		sep := bytes.IndexByte(body, separator)
		if sep < 0 {
			return nil, errors.NewFormatError(errors.MalformedMetadataToken, int64(start), "':'", strconv.Quote(string(body)))
		}

		value := string(body[sep+1:])
		if detectDialect(value) == DialectHash {
			r.dialect = DialectHash
		}
		r.Add(string(body[:sep]), value)
		i = end + 1
	}
	return r, nil
}

// detectDialect looks for the quote-hash pattern of the hash dialect
// in values that look like JSON.
func detectDialect(v string) Dialect {
	if len(v) == 0 || (v[0] != '[' && v[0] != '{') {
		return DialectColon
	}
	if strings.Contains(v, "\"#") && !strings.Contains(v, "\":") {
		return DialectHash
	}
	return DialectColon
}

// DecodeNested unmarshals a nested pseudo-JSON value in either dialect.
func DecodeNested(value string, v interface{}) error {
	if detectDialect(value) == DialectHash {
		value = unhash(value)
	}
	err := json.Unmarshal([]byte(value), v)
	if err != nil {
		return errors.NewFormatError(errors.InvalidValue, -1, "nested JSON", err.Error())
	}
	return nil
}

// EncodeNested marshals v as a nested value in the colon dialect.
func EncodeNested(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// unhash turns '#' separators back into ':'.
// A '#' inside a JSON string is kept.
func unhash(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case c == hashSep && !inString:
			c = separator
		}
		b.WriteByte(c)
	}
	return b.String()
}
