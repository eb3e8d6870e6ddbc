package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockFileName is created in the output root for the duration of a run.
const lockFileName = ".vidbatch.lock"

// ErrOutputLocked means another run is writing the same output tree.
var ErrOutputLocked = errors.New("output directory is locked by another run")

// lockOutput creates dir if needed and takes a non-blocking advisory lock
// on it. The caller must Unlock the returned lock.
func lockOutput(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, dir)
	}
	return lock, nil
}
