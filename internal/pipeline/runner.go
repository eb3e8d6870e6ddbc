package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/vidbatch/internal/check"
	"github.com/backmassage/vidbatch/internal/config"
	"github.com/backmassage/vidbatch/internal/display"
	"github.com/backmassage/vidbatch/internal/ffmpeg"
	"github.com/backmassage/vidbatch/internal/logging"
	"github.com/backmassage/vidbatch/internal/metrics"
	"github.com/backmassage/vidbatch/internal/naming"
	"github.com/backmassage/vidbatch/internal/probe"
)

// ErrSourceNotFound is returned (wrapped) when the source root is missing.
var ErrSourceNotFound = check.ErrSourceNotFound

// Deps are the run's external collaborators. DefaultDeps wires the real
// ones; tests substitute fakes.
type Deps struct {
	CheckEncoder func(ctx context.Context) (version string, err error)
	Encoder      Encoder
	Prober       MediaProber       // Optional.
	Renderer     display.Renderer  // Required.
	Metrics      *metrics.Recorder // Optional.
	Now          func() time.Time  // Optional; defaults to time.Now.
}

// DefaultDeps wires the encoder binary, ffprobe when it is on PATH, a
// renderer suited to out, and a metrics recorder when a textfile path is
// configured.
func DefaultDeps(cfg *config.Config, log *logging.Logger, out io.Writer) Deps {
	d := Deps{
		CheckEncoder: func(ctx context.Context) (string, error) {
			return check.Encoder(ctx, cfg.EncoderPath, cfg.ProbeTimeout)
		},
		Encoder:  &ffmpeg.Runner{Binary: cfg.EncoderPath},
		Renderer: display.NewRenderer(out),
	}
	if tr, ok := d.Renderer.(*display.TerminalRenderer); ok {
		log.BeforeConsoleWrite(tr.Detach)
	}

	for _, st := range check.Binaries([]check.Requirement{{
		Name:        "FFprobe",
		Command:     cfg.ProberPath,
		Description: "Duration lookup for progress percentages",
		Optional:    true,
	}}) {
		if st.Available {
			d.Prober = &probe.Prober{Binary: st.Command}
			log.Info("%s available: %s", st.Name, st.Command)
		} else {
			log.Warn("%s unavailable (%s); %s disabled", st.Name, st.Detail, strings.ToLower(st.Description))
		}
	}

	if cfg.MetricsFile != "" {
		d.Metrics = metrics.New()
	}
	return d
}

// Summary is the outcome of a run.
type Summary struct {
	Total       int
	Processed   int
	Succeeded   int
	Skipped     int
	Failed      int
	FailedFiles []string // Relative paths, in processing order.
	Interrupted bool
	Err         error // Run-level failure; no files were processed.
	Elapsed     time.Duration
	Savings     Savings
	LogPath     string
}

// ExitCode is 0 for a clean run (including one with nothing to do or only
// skips) and 1 for a run-level error, any failed file, or an interruption.
func (s Summary) ExitCode() int {
	if s.Err != nil || s.Failed > 0 || s.Interrupted {
		return 1
	}
	return 0
}

// Report converts the summary for display.PrintSummary.
func (s Summary) Report() display.Report {
	return display.Report{
		Total:       s.Total,
		Processed:   s.Processed,
		Succeeded:   s.Succeeded,
		Skipped:     s.Skipped,
		Failed:      s.Failed,
		Elapsed:     display.FormatDuration(s.Elapsed),
		Savings:     s.Savings.String(),
		Interrupted: s.Interrupted,
		FailedFiles: s.FailedFiles,
		LogPath:     s.LogPath,
	}
}

// Run is the top-level batch entry point. It checks the encoder and the
// source, discovers files, converts them one at a time in sorted order, and
// returns the aggregate summary. Cancelling ctx stops the run at the next
// file boundary (terminating any in-flight encode) and yields a partial
// summary.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) Summary {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	sum := Summary{LogPath: log.Path()}

	// --- Preflight ---
	version, err := deps.CheckEncoder(ctx)
	if err != nil {
		log.Error("Encoder check failed: %v", err)
		sum.Err = err
		return sum
	}
	log.Info("FFmpeg found: %s", version)

	if err := check.SourceDir(cfg.SourceDir); err != nil {
		log.Error("%v", err)
		sum.Err = err
		return sum
	}
	sourceAbs, outputAbs, err := absPaths(cfg)
	if err != nil {
		log.Error("%v", err)
		sum.Err = err
		return sum
	}

	// --- Discover ---
	files, err := Discover(sourceAbs, cfg.SupportedExts, outputAbs)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		sum.Err = fmt.Errorf("discover %s: %w", sourceAbs, err)
		return sum
	}
	sum.Total = len(files)
	log.Info("Found %d video files in %s", len(files), sourceAbs)
	if len(files) == 0 {
		sum.Elapsed = now().Sub(start)
		return sum
	}

	lock, err := lockOutput(outputAbs)
	if err != nil {
		log.Error("%v", err)
		sum.Err = err
		return sum
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("Release output lock: %v", err)
		}
	}()

	// --- Convert ---
	tracker := NewTracker(len(files), cfg.HistorySize, now)
	v := newView(deps.Renderer, tracker, now, cfg.RedrawInterval, cfg.HeaderInterval)
	v.draw()

	conv := &Converter{Config: cfg, Encoder: deps.Encoder, Prober: deps.Prober, Log: log}
	claims := naming.NewClaims()

	for i, f := range files {
		if ctx.Err() != nil {
			sum.Interrupted = true
			break
		}

		tracker.StartFile()
		v.beginFile(i+1, f)
		target := claims.Claim(f.Path, naming.TargetPath(f.Rel, outputAbs, cfg.OutputExt))
		log.Info("[%d/%d] %s -> %s", i+1, len(files), f.Rel, target)

		res, err := convertOne(ctx, conv, f, target, v.progress, log)
		if errors.Is(err, ErrInterrupted) {
			sum.Interrupted = true
			break
		}

		took := tracker.CompleteFile(res)
		deps.Metrics.Observe(res.Outcome.String(), res.InputBytes, res.OutputBytes, took)
		if res.Outcome == Failed {
			sum.FailedFiles = append(sum.FailedFiles, f.Rel)
		}
		v.endFile(res)
	}
	deps.Renderer.Close()

	sum.Processed = tracker.Processed()
	sum.Succeeded = tracker.Succeeded()
	sum.Skipped = tracker.Skipped()
	sum.Failed = tracker.Failed()
	sum.Savings = tracker.SpaceSavings()
	sum.Elapsed = now().Sub(start)
	deps.Metrics.Finish(now(), sum.Interrupted)

	if sum.Interrupted {
		log.Warn("Conversion interrupted by user; processed %d/%d files", sum.Processed, sum.Total)
	}
	log.Info("Done: %d succeeded, %d skipped, %d failed in %s; %s",
		sum.Succeeded, sum.Skipped, sum.Failed, display.FormatDuration(sum.Elapsed), sum.Savings)
	return sum
}

// convertOne prepares the target directory and runs the converter. A panic
// while handling one file is recorded as a failure so the batch continues.
func convertOne(ctx context.Context, conv *Converter, f VideoFile, target string, onProgress ProgressFunc, log *logging.Logger) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.With("file", f.Rel).Error("Unexpected error: %v", r)
			res, err = Result{Outcome: Failed, Reason: fmt.Sprintf("internal error: %v", r)}, nil
		}
	}()

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		log.With("file", f.Rel).Error("Cannot create output directory: %v", err)
		return Result{Outcome: Failed, Reason: "cannot create output directory"}, nil
	}
	return conv.Convert(ctx, f, target, onProgress)
}

// absPaths resolves the source and output roots and rejects overlapping
// layouts.
func absPaths(cfg *config.Config) (source, output string, err error) {
	source, err = filepath.Abs(cfg.SourceDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve source: %w", err)
	}
	output, err = filepath.Abs(cfg.OutputDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve output: %w", err)
	}
	if err := cfg.ValidatePaths(source, output); err != nil {
		return "", "", err
	}
	return source, output, nil
}
