// Package sntool reads and writes notebook containers.
//
// Parse turns a container into a Notebook of pages and layers whose bitmaps
// are decoded on demand; Create builds a new container from page content.
// Neither does any I/O, so distinct containers can be processed in parallel.
package sntool

import (
	"github.com/akeil/sntool/internal/logging"
	"github.com/akeil/sntool/pkg/note"
)

// SetLogLevel sets the log level for the package.
// Valid levels are "debug", "info", "warning" and "error"; anything else
// disables logging.
func SetLogLevel(level string) {
	logging.SetLevel(logging.ParseLevel(level))
}

// ReadOption configures Parse.
type ReadOption = note.ReadOption

// Limits bound the work done while parsing a single container.
type Limits = note.Limits

// WithStrict rejects metadata keys that are not in the field table of
// their block kind.
func WithStrict(v bool) ReadOption {
	return note.WithStrict(v)
}

// WithLimits sets the size limits applied while parsing.
func WithLimits(l Limits) ReadOption {
	return note.WithLimits(l)
}
