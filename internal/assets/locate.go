// Package assets finds the game's data archive on disk.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ArchiveName is the main data archive the client needs to start.
const ArchiveName = "redalert.mix"

var ErrArchiveNotFound = errors.New("data archive not found")

// Locate looks for name in start and then in each parent directory up to
// the filesystem root. It returns the directory that holds it.
func Locate(start, name string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}
	for {
		fi, err := os.Stat(filepath.Join(dir, name))
		if err == nil && !fi.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s above %s: %w", name, start, ErrArchiveNotFound)
		}
		dir = parent
	}
}
