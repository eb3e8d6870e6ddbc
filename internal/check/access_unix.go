//go:build unix

package check

import "golang.org/x/sys/unix"

// canList reports whether the current user may read and traverse dir.
func canList(dir string) error {
	return unix.Access(dir, unix.R_OK|unix.X_OK)
}
