// Package fileutil holds small filesystem helpers shared by the pipeline.
package fileutil

import (
	"errors"
	"io/fs"
	"os"
)

// Size returns the size of path in bytes, or 0 if it cannot be stat'ed.
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Exists reports whether path exists (any file type).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RemoveIfExists deletes path. A missing file is not an error.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
