package errors

import (
	e "errors"
	"fmt"
)

// Wrap wraps an error by prepending additional text.
// The text can contain formatting parameters.
func Wrap(err error, msg string, v ...interface{}) error {
	msg = fmt.Sprintf(msg, v...)
	return fmt.Errorf("%v: %w", msg, err)
}

// FormatKind names the structural violation found while decoding.
type FormatKind int

const (
	UnknownType FormatKind = iota
	MissingTail
	TruncatedBitmap
	CorruptBitmap
	MalformedMetadataToken
	UnresolvedAddress
	MissingField
	UnknownField
	InvalidValue
	LimitExceeded
)

var formatKindNames = map[FormatKind]string{
	UnknownType:            "unknown type",
	MissingTail:            "missing tail",
	TruncatedBitmap:        "truncated bitmap",
	CorruptBitmap:          "corrupt bitmap",
	MalformedMetadataToken: "malformed metadata token",
	UnresolvedAddress:      "unresolved address",
	MissingField:           "missing field",
	UnknownField:           "unknown field",
	InvalidValue:           "invalid value",
	LimitExceeded:          "limit exceeded",
}

func (k FormatKind) String() string {
	s, ok := formatKindNames[k]
	if !ok {
		return fmt.Sprintf("format error %d", int(k))
	}
	return s
}

// FormatError reports a violation of the container framing or of one of
// the embedded encodings. Offset is the byte position within the block or
// stream that was being decoded, -1 if unknown.
type FormatError struct {
	Kind     FormatKind
	Offset   int64
	Expected string
	Found    string
}

// NewFormatError creates a FormatError of the given kind.
func NewFormatError(kind FormatKind, offset int64, expected, found string) *FormatError {
	return &FormatError{
		Kind:     kind,
		Offset:   offset,
		Expected: expected,
		Found:    found,
	}
}

func (f *FormatError) Error() string {
	msg := "sntool: " + f.Kind.String()
	if f.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", f.Offset)
	}
	if f.Expected != "" {
		msg += fmt.Sprintf(": expected %v", f.Expected)
		if f.Found != "" {
			msg += fmt.Sprintf(", found %v", f.Found)
		}
	} else if f.Found != "" {
		msg += fmt.Sprintf(": %v", f.Found)
	}
	return msg
}

// IsFormatError tells if err is (or wraps) a FormatError of the given kind.
func IsFormatError(err error, kind FormatKind) bool {
	var f *FormatError
	if e.As(err, &f) {
		return f.Kind == kind
	}
	return false
}

// BuilderKind names an illegal call sequence on the container builder.
type BuilderKind int

const (
	DuplicateBlockName BuilderKind = iota
	BuilderFinalized
	BuilderNotStarted
)

func (k BuilderKind) String() string {
	switch k {
	case DuplicateBlockName:
		return "duplicate block name"
	case BuilderFinalized:
		return "builder is finalized"
	case BuilderNotStarted:
		return "builder is not started"
	default:
		return fmt.Sprintf("builder error %d", int(k))
	}
}

// BuilderError is returned by the container builder.
type BuilderError struct {
	Kind BuilderKind
	Path string
}

// NewBuilderError creates a BuilderError for the given block path.
func NewBuilderError(kind BuilderKind, path string) *BuilderError {
	return &BuilderError{Kind: kind, Path: path}
}

func (b *BuilderError) Error() string {
	if b.Path == "" {
		return "sntool: " + b.Kind.String()
	}
	return fmt.Sprintf("sntool: %v: %q", b.Kind, b.Path)
}

// IsBuilderError tells if err is (or wraps) a BuilderError of the given kind.
func IsBuilderError(err error, kind BuilderKind) bool {
	var b *BuilderError
	if e.As(err, &b) {
		return b.Kind == kind
	}
	return false
}

// WarningKind names a non-fatal compatibility issue.
type WarningKind int

const (
	UnknownSignature WarningKind = iota
)

// CompatibilityWarning is collected (not returned) while parsing. It means
// the file was decoded with fallback assumptions.
type CompatibilityWarning struct {
	Kind   WarningKind
	Detail string
}

func (c *CompatibilityWarning) Error() string {
	switch c.Kind {
	case UnknownSignature:
		return fmt.Sprintf("sntool: unknown signature %q, using generic profile", c.Detail)
	default:
		return fmt.Sprintf("sntool: compatibility warning: %v", c.Detail)
	}
}

type notFound struct {
	message string
}

// NewNotFound creates a new "not found" error.
func NewNotFound(s string, v ...interface{}) error {
	return asNotFound(fmt.Errorf(s, v...))
}

func (n notFound) Error() string {
	return n.message
}

func asNotFound(err error) error {
	return notFound{fmt.Sprintf("Not found: %v", err)}
}

// IsNotFound checks if the given error is a "not found" error.
func IsNotFound(err error) bool {
	var n notFound
	return e.As(err, &n)
}

type validationError struct {
	message string
}

func (v validationError) Error() string {
	return v.message
}

// NewValidationError creates an error of from the given format string.
func NewValidationError(msg string, v ...interface{}) error {
	return validationError{fmt.Sprintf(msg, v...)}
}

// IsValidationError checks if the given error is a validation error.
func IsValidationError(err error) bool {
	var v validationError
	return e.As(err, &v)
}
