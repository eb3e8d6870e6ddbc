//go:build !unix

package check

import (
	"errors"
	"io"
	"os"
)

// canList reports whether dir can be opened and listed.
func canList(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
