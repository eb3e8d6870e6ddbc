// Package check provides pre-run dependency validation: the encoder health
// probe, availability of optional helper binaries, and source directory
// access.
package check

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Sentinel errors wrapped by DependencyError.
var (
	ErrEncoderNotFound = errors.New("encoder not found on PATH")
	ErrEncoderTimeout  = errors.New("encoder did not answer -version in time")
	ErrEncoderBroken   = errors.New("encoder -version failed")
)

// Sentinel errors returned by SourceDir.
var (
	ErrSourceNotFound   = errors.New("source directory not found")
	ErrSourceNotDir     = errors.New("source path is not a directory")
	ErrSourceUnreadable = errors.New("source directory is not readable")
)

// DependencyError reports an unusable external binary. It is fatal to the run.
type DependencyError struct {
	Binary string
	Err    error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency %s: %v", e.Binary, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Encoder runs "<binary> -version" with the given timeout and returns the
// first line of its output (e.g. "ffmpeg version 6.1.1 ..."). Any failure is
// returned as a *DependencyError.
func Encoder(ctx context.Context, binary string, timeout time.Duration) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", &DependencyError{Binary: binary, Err: ErrEncoderNotFound}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if ctx.Err() == context.DeadlineExceeded {
		return "", &DependencyError{Binary: binary, Err: ErrEncoderTimeout}
	}
	if err != nil {
		return "", &DependencyError{Binary: binary, Err: fmt.Errorf("%w: %v", ErrEncoderBroken, err)}
	}
	return firstLine(out), nil
}

func firstLine(out []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(out))
	if sc.Scan() {
		return strings.TrimSpace(sc.Text())
	}
	return ""
}

// Requirement defines an external binary the run may use.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a Requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Binaries evaluates requirements by PATH lookup only; it never executes them.
func Binaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

// SourceDir verifies that path exists, is a directory, and can be listed.
func SourceDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrSourceNotFound, path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrSourceNotDir, path)
	}
	if err := canList(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, path, err)
	}
	return nil
}
