package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// WriteFileIfChanged writes data to path, creating the parent directory if needed.
// If the file already holds exactly data it is left untouched so its mtime does not
// change and downstream builds are not re-triggered. It returns whether the file was written.
func WriteFileIfChanged(fs afero.Fs, path string, data []byte) (bool, error) {
	existing, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if bytes.Equal(existing, data) {
			log.Printf("[TRACE] WriteFileIfChanged %s unchanged", path)
			return false, nil
		}
	case os.IsNotExist(err):
	default:
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, data, fileMode); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("[TRACE] WriteFileIfChanged wrote %d bytes to %s", len(data), path)
	return true, nil
}
