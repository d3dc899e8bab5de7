// SPDX-License-Identifier: EPL-2.0

package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirSaver writes downloads into a directory, the native stand-in for a
// browser's download folder. Existing files are overwritten.
type DirSaver struct {
	Dir string
}

func (s DirSaver) Save(filename, href string) error {
	name, err := cleanName(filename)
	if err != nil {
		return err
	}

	data, err := DecodeDataURI(href)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("%w", err)
	}

	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// cleanName rejects names that would escape the download directory.
func cleanName(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || strings.ContainsRune(filename, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return filename, nil
}
