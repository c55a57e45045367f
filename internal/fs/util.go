package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/akeil/sntool/internal/logging"
)

// WriteFile writes a file through a temporary file next to dst which is
// renamed to dst once write and close succeeded. An existing dst is
// replaced only on success.
func WriteFile(dst string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}

	err = write(tmp)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), dst)
	}
	if err != nil {
		// carry on even if we fail to clean up behind us
		if rmErr := os.Remove(tmp.Name()); rmErr != nil {
			logging.Error("Failed to remove temporary file %v", tmp.Name())
		}
		return err
	}
	logging.Debug("Wrote %v", dst)
	return nil
}
