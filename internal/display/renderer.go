package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	ansi "github.com/k0kubun/go-ansi"

	"github.com/backmassage/vidbatch/internal/term"
)

// Layout of the status block. The file row's four columns plus their
// separators add up to frameWidth.
const (
	frameWidth     = 100
	nameWidth      = 33
	locationWidth  = 24
	progressWidth  = 20
	statusWidth    = 20
	overallBarSize = 40
	fileBarSize    = 12
)

// FileStatus is the row describing the file currently being handled.
type FileStatus struct {
	Name     string
	Location string // Relative directory; "root" for the top level.
	Percent  int
	Status   string // e.g. "file 2/5", "COMPLETE 1.2 GiB -> 700 MiB (-41.7%)".
}

// Frame is a read-only snapshot of run state handed to a Renderer.
type Frame struct {
	Total          int
	Processed      int
	Succeeded      int
	Skipped        int
	Failed         int
	OverallPercent int
	Elapsed        string
	ETA            string
	Rate           string
	Savings        string
	File           FileStatus
}

// Renderer draws frames. Implementations decide how (in-place terminal
// redraw, plain log lines, nothing at all).
type Renderer interface {
	Render(f Frame)
	Close()
}

// NewRenderer picks the in-place terminal renderer when w is stdout on a TTY
// and falls back to line output on w otherwise.
func NewRenderer(w io.Writer) Renderer {
	if f, ok := w.(*os.File); ok && f == os.Stdout && term.IsTerminal(f) {
		return NewTerminalRenderer()
	}
	return NewLineRenderer(w)
}

// FrameLines lays out f as a fixed number of lines so a terminal renderer
// can redraw them in place.
func FrameLines(f Frame) []string {
	rule := strings.Repeat("=", frameWidth)
	thin := strings.Repeat("-", frameWidth)

	overall := fmt.Sprintf(" Overall [%s] %3d%%  (%d/%d files)",
		ProgressBar(f.OverallPercent, overallBarSize), f.OverallPercent, f.Processed, f.Total)
	timing := fmt.Sprintf(" Elapsed: %s | ETA: %s | Rate: %s", f.Elapsed, f.ETA, f.Rate)
	counts := fmt.Sprintf(" Succeeded: %s%d%s  Skipped: %s%d%s  Failed: %s%d%s  Space: %s",
		term.Green, f.Succeeded, term.NC,
		term.Yellow, f.Skipped, term.NC,
		term.Red, f.Failed, term.NC,
		f.Savings)

	header := fmt.Sprintf("%-*s %-*s %-*s %s",
		nameWidth, "Current File",
		locationWidth, "Location",
		progressWidth, "Progress",
		"Status")

	row := fmt.Sprintf("%-*s %-*s %-*s %s",
		nameWidth, Truncate(f.File.Name, nameWidth),
		locationWidth, Truncate(f.File.Location, locationWidth),
		progressWidth, fmt.Sprintf("[%s] %3d%%", ProgressBar(f.File.Percent, fileBarSize), f.File.Percent),
		colorStatus(Truncate(f.File.Status, statusWidth)))

	lines := []string{rule, overall, timing, counts, thin, term.Bold + header + term.NC, row, rule}
	for i, line := range lines {
		lines[i] = Truncate(line, frameWidth)
	}
	return lines
}

func colorStatus(s string) string {
	switch {
	case strings.HasPrefix(s, "COMPLETE"):
		return term.Green + s + term.NC
	case strings.HasPrefix(s, "FAILED"):
		return term.Red + s + term.NC
	case strings.HasPrefix(s, "SKIPPED"):
		return term.Yellow + s + term.NC
	default:
		return s
	}
}

// TerminalRenderer redraws the status block in place on stdout by moving the
// cursor back over the previous frame.
type TerminalRenderer struct {
	out   io.Writer
	drawn int
}

// NewTerminalRenderer returns a renderer bound to stdout.
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{out: ansi.NewAnsiStdout()}
}

// Render implements Renderer.
func (r *TerminalRenderer) Render(f Frame) {
	lines := FrameLines(f)
	if r.drawn > 0 {
		ansi.CursorUp(r.drawn)
	}
	for _, line := range lines {
		ansi.EraseInLine(2)
		fmt.Fprintln(r.out, line)
	}
	r.drawn = len(lines)
}

// Detach forgets the frame on screen so the next Render draws below it
// instead of moving the cursor back over it. Call it before something else
// writes to the terminal.
func (r *TerminalRenderer) Detach() {
	r.drawn = 0
}

// Close leaves the last frame on screen.
func (r *TerminalRenderer) Close() {
	r.Detach()
}

// LineRenderer writes one plain line per state change, for logs and pipes
// where cursor movement is meaningless. Percent updates are reported in
// 10% steps.
type LineRenderer struct {
	out  io.Writer
	last string
}

// NewLineRenderer returns a renderer writing to w.
func NewLineRenderer(w io.Writer) *LineRenderer {
	return &LineRenderer{out: w}
}

// Render implements Renderer.
func (r *LineRenderer) Render(f Frame) {
	if f.File.Name == "" {
		return
	}
	key := fmt.Sprintf("%s|%s|%d", f.File.Name, f.File.Status, f.File.Percent/10)
	if key == r.last {
		return
	}
	r.last = key
	fmt.Fprintf(r.out, "[%3d%%] %d/%d %s: %s (%d%%) eta %s\n",
		f.OverallPercent, f.Processed, f.Total, f.File.Name, f.File.Status, f.File.Percent, f.ETA)
}

// Close implements Renderer.
func (r *LineRenderer) Close() {}

// NopRenderer discards frames.
type NopRenderer struct{}

// Render implements Renderer.
func (NopRenderer) Render(Frame) {}

// Close implements Renderer.
func (NopRenderer) Close() {}
