package note

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const idRandomLen = 16

// NewFileID creates a file id: "F", a timestamp with milliseconds and 16
// random alphanumerics.
func NewFileID() string {
	return newID("F", time.Now())
}

// NewPageID creates a page id in the same format as file ids, prefixed "P".
func NewPageID() string {
	return newID("P", time.Now())
}

func newID(prefix string, t time.Time) string {
	ts := t.Format("20060102150405")
	millis := t.Nanosecond() / int(time.Millisecond)
	return fmt.Sprintf("%v%v%03d%v", prefix, ts, millis, randomPart())
}

// randomPart takes 16 hex digits from a random UUID.
func randomPart() string {
	s := strings.ReplaceAll(uuid.New().String(), "-", "")
	return s[:idRandomLen]
}
