package sntool

import (
	"github.com/akeil/sntool/internal/errors"
)

type (
	// FormatError reports a structural violation found while parsing.
	FormatError = errors.FormatError
	// FormatKind names the violation of a FormatError.
	FormatKind = errors.FormatKind
	// BuilderError reports an illegal call sequence on a builder.
	BuilderError = errors.BuilderError
	// BuilderKind names the problem of a BuilderError.
	BuilderKind = errors.BuilderKind
	// CompatibilityWarning is collected in Notebook.Warnings.
	CompatibilityWarning = errors.CompatibilityWarning
	// WarningKind names the problem of a CompatibilityWarning.
	WarningKind = errors.WarningKind
)

const (
	UnknownType            = errors.UnknownType
	MissingTail            = errors.MissingTail
	TruncatedBitmap        = errors.TruncatedBitmap
	CorruptBitmap          = errors.CorruptBitmap
	MalformedMetadataToken = errors.MalformedMetadataToken
	UnresolvedAddress      = errors.UnresolvedAddress
	MissingField           = errors.MissingField
	UnknownField           = errors.UnknownField
	InvalidValue           = errors.InvalidValue
	LimitExceeded          = errors.LimitExceeded
)

const (
	DuplicateBlockName = errors.DuplicateBlockName
	BuilderFinalized   = errors.BuilderFinalized
	BuilderNotStarted  = errors.BuilderNotStarted
)

// UnknownSignature means the container was read with the generic profile.
const UnknownSignature = errors.UnknownSignature

// IsFormatError tells if err is (or wraps) a FormatError of the given kind.
func IsFormatError(err error, kind FormatKind) bool {
	return errors.IsFormatError(err, kind)
}

// IsBuilderError tells if err is (or wraps) a BuilderError of the given kind.
func IsBuilderError(err error, kind BuilderKind) bool {
	return errors.IsBuilderError(err, kind)
}

// IsNotFound checks if the given error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.IsNotFound(err)
}

// IsValidationError checks if the given error reports invalid content
// passed to Create or Decompose.
func IsValidationError(err error) bool {
	return errors.IsValidationError(err)
}
