package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

const (
	// stderrTailLines is how many non-progress lines are kept for Classify.
	stderrTailLines = 20
	// killGrace bounds the wait after SIGTERM before the encoder is killed.
	killGrace = 5 * time.Second
	// maxLineBytes caps a single diagnostic line.
	maxLineBytes = 1 << 20
)

// reProgressKey matches the key=value lines written by -progress.
var reProgressKey = regexp.MustCompile(`^[a-z0-9_]+=\S*$`)

// Runner runs the encoder binary.
type Runner struct {
	Binary string
}

// Encode runs the encoder with args and passes every stderr line to sink
// (which may be nil) until the stream ends, then waits for exit.
//
// On context cancellation the encoder's process group receives SIGTERM and
// Encode returns ctx.Err(). A nonzero exit is returned as *ExitError.
func (r *Runner) Encode(ctx context.Context, args []string, sink func(string)) error {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	setProcessGroup(cmd)
	cmd.WaitDelay = killGrace

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", r.Binary, err)
	}

	tail := make([]string, 0, stderrTailLines)
	scanErr := DrainLines(stderr, func(line string) {
		if line != "" && !reProgressKey.MatchString(line) {
			if len(tail) == stderrTailLines {
				tail = tail[1:]
			}
			tail = append(tail, line)
		}
		if sink != nil {
			sink(line)
		}
	})
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		code := -1
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			code = ee.ExitCode()
		}
		text := strings.Join(tail, "\n")
		return &ExitError{Code: code, Reason: Classify(text, code), Stderr: text, Err: waitErr}
	}
	if scanErr != nil {
		return fmt.Errorf("read encoder output: %w", scanErr)
	}
	return nil
}

// DrainLines reads r to EOF and calls sink once per line. Lines end at '\n'
// or '\r' so carriage-return status updates arrive as separate lines. If
// scanning fails the rest of r is discarded so the writer never blocks.
func DrainLines(r io.Reader, sink func(string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	sc.Split(scanLines)
	for sc.Scan() {
		sink(sc.Text())
	}
	if err := sc.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

// scanLines is a bufio.SplitFunc that treats '\n', '\r' and "\r\n" as line
// terminators.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' {
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
			} else if !atEOF {
				// Need one more byte to tell "\r" from "\r\n".
				return 0, nil, nil
			}
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
