package ffmpeg

import (
	"fmt"
	"regexp"
)

// failurePatterns classify an encoder's stderr tail into a short reason.
// Checked in order; the first match wins.
var failurePatterns = []struct {
	re     *regexp.Regexp
	reason string
}{
	{regexp.MustCompile(`(?i)No such file or directory`), "input file missing"},
	{regexp.MustCompile(`(?i)Permission denied`), "permission denied"},
	{regexp.MustCompile(`(?i)No space left on device`), "out of disk space"},
	{regexp.MustCompile(`(?i)Invalid data found when processing input|moov atom not found|EBML header parsing failed`), "invalid or corrupt input"},
	{regexp.MustCompile(`(?i)Unknown encoder|Encoder not found|Codec .* is not supported|Could not find codec parameters`), "unsupported codec"},
	{regexp.MustCompile(`Too many packets buffered for output stream`), "mux queue overflow"},
	{regexp.MustCompile(`(?i)Non-monotonous DTS|non monotonically increasing dts|DTS .*out of order|PTS .*out of order|Timestamps are unset`), "timestamp errors"},
}

// Classify returns a short human-readable reason for a failed encode based
// on its stderr tail, falling back to the exit status.
func Classify(stderr string, exitCode int) string {
	for _, p := range failurePatterns {
		if p.re.MatchString(stderr) {
			return p.reason
		}
	}
	if exitCode < 0 {
		return "killed by signal"
	}
	return fmt.Sprintf("exit status %d", exitCode)
}

// ExitError is returned by Runner.Encode when the encoder exits nonzero.
type ExitError struct {
	Code   int
	Reason string // From Classify.
	Stderr string // Last non-progress lines.
	Err    error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("encoder failed: %s", e.Reason)
}

func (e *ExitError) Unwrap() error { return e.Err }
