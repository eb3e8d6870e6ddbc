package pipeline

import (
	"fmt"
	"time"

	"github.com/backmassage/vidbatch/internal/display"
)

// rateWarmUp is the minimum elapsed time before a files/hour rate is shown.
const rateWarmUp = 36 * time.Second

// Outcome classifies one file attempt.
type Outcome int

const (
	Success Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result is the outcome of converting one file. Byte counts are only
// meaningful on Success; Reason is set for Skipped and Failed.
type Result struct {
	Outcome     Outcome
	InputBytes  int64
	OutputBytes int64
	Reason      string
}

// SizeDeltaPercent is the output size change relative to the input.
// Positive means the file grew.
func (r Result) SizeDeltaPercent() float64 {
	if r.InputBytes <= 0 {
		return 0
	}
	return float64(r.OutputBytes-r.InputBytes) / float64(r.InputBytes) * 100
}

// Tracker aggregates run statistics. It is owned by the orchestrator and
// mutated only from the control goroutine; derived values are computed on
// demand from the raw counters.
type Tracker struct {
	total    int
	capacity int
	now      func() time.Time

	start     time.Time
	fileStart time.Time
	history   []time.Duration // Most recent per-file durations, oldest first.

	succeeded int
	skipped   int
	failed    int

	inputBytes  int64
	outputBytes int64
}

// NewTracker returns a tracker for total files that keeps the last capacity
// per-file durations for ETA smoothing. now may be nil (time.Now).
func NewTracker(total, capacity int, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	if capacity <= 0 {
		capacity = 1
	}
	return &Tracker{
		total:    total,
		capacity: capacity,
		now:      now,
		start:    now(),
		history:  make([]time.Duration, 0, capacity),
	}
}

// StartFile marks the beginning of a file for duration tracking.
func (t *Tracker) StartFile() {
	t.fileStart = t.now()
}

// CompleteFile records r and returns how long the file took. Byte totals
// only grow on Success.
func (t *Tracker) CompleteFile(r Result) time.Duration {
	var took time.Duration
	if !t.fileStart.IsZero() {
		took = t.now().Sub(t.fileStart)
		if len(t.history) == t.capacity {
			copy(t.history, t.history[1:])
			t.history = t.history[:t.capacity-1]
		}
		t.history = append(t.history, took)
		t.fileStart = time.Time{}
	}

	switch r.Outcome {
	case Success:
		t.succeeded++
		t.inputBytes += r.InputBytes
		t.outputBytes += r.OutputBytes
	case Skipped:
		t.skipped++
	default:
		t.failed++
	}
	return took
}

// Total is the number of files discovered for the run.
func (t *Tracker) Total() int { return t.total }

// Processed is succeeded + skipped + failed.
func (t *Tracker) Processed() int { return t.succeeded + t.skipped + t.failed }

// Remaining is Total - Processed.
func (t *Tracker) Remaining() int { return t.total - t.Processed() }

// Succeeded returns the number of successful conversions.
func (t *Tracker) Succeeded() int { return t.succeeded }

// Skipped returns the number of skipped files.
func (t *Tracker) Skipped() int { return t.skipped }

// Failed returns the number of failed files.
func (t *Tracker) Failed() int { return t.failed }

// InFlight reports whether a file has been started but not completed.
func (t *Tracker) InFlight() bool { return !t.fileStart.IsZero() }

// Elapsed is the time since the tracker was created.
func (t *Tracker) Elapsed() time.Duration { return t.now().Sub(t.start) }

// ETA estimates the remaining time as remaining files times the mean of the
// recent per-file durations. ok is false until one file has completed.
func (t *Tracker) ETA() (eta time.Duration, ok bool) {
	if len(t.history) == 0 {
		return 0, false
	}
	var sum time.Duration
	for _, d := range t.history {
		sum += d
	}
	mean := sum / time.Duration(len(t.history))
	return time.Duration(t.Remaining()) * mean, true
}

// Rate returns processed files per hour. ok is false during the warm-up
// period, when the figure would be noise.
func (t *Tracker) Rate() (perHour float64, ok bool) {
	elapsed := t.Elapsed()
	if elapsed < rateWarmUp {
		return 0, false
	}
	return float64(t.Processed()) / elapsed.Hours(), true
}

// Savings is the space difference between converted inputs and outputs.
type Savings struct {
	Known   bool    // False until a conversion with a non-empty input has succeeded.
	Saved   bool    // Output total is no larger than input total.
	Bytes   int64   // Magnitude of the difference.
	Percent float64 // Signed; positive means space was saved.
}

// String renders "saved 400 B (+40.0%)", "used 500 B (-50.0%)" or "no data".
func (s Savings) String() string {
	if !s.Known {
		return "no data"
	}
	verb := "used"
	if s.Saved {
		verb = "saved"
	}
	return fmt.Sprintf("%s %s (%s)", verb, display.FormatBytes(s.Bytes), display.FormatDelta(s.Percent))
}

// SpaceSavings compares cumulative input and output bytes of successful
// conversions. With no input bytes recorded there is nothing to compare
// against, and the result is unknown.
func (t *Tracker) SpaceSavings() Savings {
	if t.succeeded == 0 || t.inputBytes <= 0 {
		return Savings{}
	}
	diff := t.inputBytes - t.outputBytes
	s := Savings{
		Known:   true,
		Saved:   diff >= 0,
		Bytes:   diff,
		Percent: float64(diff) / float64(t.inputBytes) * 100,
	}
	if diff < 0 {
		s.Bytes = -diff
	}
	return s
}
