package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/backmassage/vidbatch/internal/config"
	"github.com/backmassage/vidbatch/internal/display"
	"github.com/backmassage/vidbatch/internal/ffmpeg"
	"github.com/backmassage/vidbatch/internal/fileutil"
	"github.com/backmassage/vidbatch/internal/logging"
	"github.com/backmassage/vidbatch/internal/probe"
)

// ErrInterrupted is returned by Converter.Convert when the run context is
// cancelled mid-file. It is the only error Convert returns.
var ErrInterrupted = errors.New("conversion interrupted")

// Encoder runs one encode, passing each diagnostic line to sink.
// *ffmpeg.Runner is the production implementation.
type Encoder interface {
	Encode(ctx context.Context, args []string, sink func(line string)) error
}

// MediaProber reads container metadata. *probe.Prober is the production
// implementation.
type MediaProber interface {
	Probe(ctx context.Context, path string) (*probe.Result, error)
}

// ProgressFunc receives the parser's percentage after every diagnostic line;
// known is false until both duration and position have been seen.
type ProgressFunc func(percent int, known bool)

// Converter drives the encoder for a single file.
type Converter struct {
	Config  *config.Config
	Encoder Encoder
	Prober  MediaProber // Optional; seeds the progress parser's duration.
	Log     *logging.Logger
}

// Convert converts file into target. Per-file problems are reported in the
// Result with a nil error so the batch can continue; only cancellation
// returns an error (ErrInterrupted), after the partial target is removed.
// The parent directory of target must already exist.
func (c *Converter) Convert(ctx context.Context, file VideoFile, target string, onProgress ProgressFunc) (Result, error) {
	log := c.Log.With("file", file.Rel)

	if c.Config.SkipExisting && fileutil.Exists(target) {
		log.Info("Skip (exists): %s", target)
		return Result{Outcome: Skipped, Reason: "already exists"}, nil
	}

	inSize := fileutil.Size(file.Path)

	var parser ffmpeg.ProgressParser
	if c.Prober != nil {
		if info, err := c.Prober.Probe(ctx, file.Path); err != nil {
			log.Debug("Probe failed: %v", err)
		} else {
			if info.Format.Duration > 0 {
				parser.SetDuration(info.Format.Duration)
			}
			log.Debug("Source: %s %s, %s, %s",
				info.VideoCodec(), info.Resolution(),
				display.FormatDuration(seconds(info.Format.Duration)),
				display.FormatBytes(inSize))
		}
	}
	if ctx.Err() != nil {
		return Result{Outcome: Failed, InputBytes: inSize, Reason: "interrupted"}, ErrInterrupted
	}

	args := ffmpeg.Build(c.Config, file.Path, target)
	log.Debug("Encoder args: %s", strings.Join(args, " "))

	err := c.Encoder.Encode(ctx, args, func(line string) {
		parser.ObserveLine(line)
		if onProgress != nil {
			onProgress(parser.Percent())
		}
	})
	if err != nil {
		c.removePartial(log, target)
		if ctx.Err() != nil {
			log.Warn("Interrupted during encode")
			return Result{Outcome: Failed, InputBytes: inSize, Reason: "interrupted"}, ErrInterrupted
		}
		reason := err.Error()
		var exitErr *ffmpeg.ExitError
		if errors.As(err, &exitErr) {
			reason = exitErr.Reason
			for _, line := range strings.Split(exitErr.Stderr, "\n") {
				if line != "" {
					log.Debug("  %s", line)
				}
			}
		}
		log.With("target", target).Error("Encode failed: %v", err)
		return Result{Outcome: Failed, InputBytes: inSize, Reason: reason}, nil
	}

	if pos, ok := parser.Position(); ok {
		total := "unknown"
		if dur, ok := parser.Duration(); ok {
			total = display.FormatDuration(seconds(dur))
		}
		log.Debug("Encoded %s of %s", display.FormatDuration(seconds(pos)), total)
	}

	res := Result{Outcome: Success, InputBytes: inSize, OutputBytes: fileutil.Size(target)}
	log.Success("Converted %s -> %s (%s)",
		display.FormatBytes(res.InputBytes),
		display.FormatBytes(res.OutputBytes),
		display.FormatDelta(res.SizeDeltaPercent()))
	return res, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// removePartial deletes a failed encode's output. Failure is logged only.
func (c *Converter) removePartial(log *logging.Logger, target string) {
	if err := fileutil.RemoveIfExists(target); err != nil {
		log.Warn("Could not remove partial output %s: %v", target, err)
	}
}
