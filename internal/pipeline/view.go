package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/backmassage/vidbatch/internal/display"
	"github.com/backmassage/vidbatch/internal/naming"
)

// view turns tracker state into frames and decides when to redraw. It reads
// the tracker but never mutates it.
type view struct {
	renderer    display.Renderer
	tracker     *Tracker
	now         func() time.Time
	rowEvery    time.Duration // Minimum gap between percent-driven redraws.
	headerEvery time.Duration // Maximum gap between redraws while encoding.

	file     display.FileStatus
	lastDraw time.Time
}

func newView(r display.Renderer, t *Tracker, now func() time.Time, rowEvery, headerEvery time.Duration) *view {
	return &view{
		renderer:    r,
		tracker:     t,
		now:         now,
		rowEvery:    rowEvery,
		headerEvery: headerEvery,
	}
}

// beginFile resets the file row for the index-th file (1-based) and redraws.
func (v *view) beginFile(index int, f VideoFile) {
	v.file = display.FileStatus{
		Name:     filepath.Base(f.Rel),
		Location: naming.Location(f.Rel),
		Status:   fmt.Sprintf("file %d/%d", index, v.tracker.Total()),
	}
	v.draw()
}

// progress is the encoder line callback. It redraws when the percentage
// moved and the row cadence has elapsed, or when the header cadence has.
func (v *view) progress(pct int, known bool) {
	changed := known && pct != v.file.Percent
	if known {
		v.file.Percent = pct
	}
	since := v.now().Sub(v.lastDraw)
	if (changed && since >= v.rowEvery) || since >= v.headerEvery {
		v.draw()
	}
}

// endFile shows r on the file row and forces a redraw.
func (v *view) endFile(r Result) {
	switch r.Outcome {
	case Success:
		v.file.Percent = 100
		v.file.Status = fmt.Sprintf("COMPLETE %s -> %s (%s)",
			display.FormatBytes(r.InputBytes),
			display.FormatBytes(r.OutputBytes),
			display.FormatDelta(r.SizeDeltaPercent()))
	case Skipped:
		v.file.Status = "SKIPPED " + r.Reason
	default:
		v.file.Status = "FAILED " + r.Reason
	}
	v.draw()
}

func (v *view) draw() {
	v.renderer.Render(v.frame())
	v.lastDraw = v.now()
}

// frame snapshots the tracker. The overall percentage counts the in-flight
// file's fractional progress.
func (v *view) frame() display.Frame {
	t := v.tracker
	overall := 0
	if t.Total() > 0 {
		done := float64(t.Processed())
		if t.InFlight() {
			done += float64(v.file.Percent) / 100
		}
		overall = int(done * 100 / float64(t.Total()))
		if overall > 100 {
			overall = 100
		}
	}
	eta, etaOK := t.ETA()
	rate, rateOK := t.Rate()
	return display.Frame{
		Total:          t.Total(),
		Processed:      t.Processed(),
		Succeeded:      t.Succeeded(),
		Skipped:        t.Skipped(),
		Failed:         t.Failed(),
		OverallPercent: overall,
		Elapsed:        display.FormatDuration(t.Elapsed()),
		ETA:            display.FormatETA(eta, etaOK),
		Rate:           display.FormatRate(rate, rateOK),
		Savings:        t.SpaceSavings().String(),
		File:           v.file,
	}
}
