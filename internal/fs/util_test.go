package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.note")

	err := WriteFile(dst, func(w io.Writer) error {
		_, err := w.Write([]byte("note"))
		return err
	})
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "note", string(data))

	// a failed write keeps the old file and leaves nothing behind
	err = WriteFile(dst, func(w io.Writer) error {
		w.Write([]byte("broken"))
		return errors.New("fail")
	})
	assert.Error(t, err)
	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "note", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
