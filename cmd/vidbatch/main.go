// Command vidbatch converts every .mp4 and .mkv file under a source
// directory to H.264/AAC MP4, mirroring the directory layout under an
// output root.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/vidbatch/internal/check"
	"github.com/backmassage/vidbatch/internal/config"
	"github.com/backmassage/vidbatch/internal/display"
	"github.com/backmassage/vidbatch/internal/logging"
	"github.com/backmassage/vidbatch/internal/pipeline"
	"github.com/backmassage/vidbatch/internal/term"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the root command and returns the process exit code. A panic
// anywhere below is reported and mapped to 1.
func run(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "vidbatch: unexpected error: %v\n", r)
			code = 1
		}
	}()

	cmd := newRootCommand(&code, stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "vidbatch: %v\n", err)
		return 1
	}
	return code
}

// convert runs one batch with a fully loaded config.
func convert(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	term.Configure(cfg.ColorMode)

	// Bootstrap: until the logger exists, errors go straight to stderr.
	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "vidbatch: %v\n", err)
		return 1
	}
	defer log.Close()

	display.PrintBanner(stdout, version)
	log.Info("=== vidbatch v%s (%s) run %s ===", version, commit, log.RunID())
	log.Info("In:  %s", cfg.SourceDir)
	log.Info("Out: %s", cfg.OutputDir)

	// The first SIGINT/SIGTERM cancels the run; the encoder in flight is
	// terminated and the batch stops at the file boundary. Notification is
	// then released so a second signal kills the process outright.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			signal.Stop(sigCh)
			log.Warn("Received %v, stopping after cleanup of the current file", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	deps := pipeline.DefaultDeps(cfg, log, stdout)
	sum := pipeline.Run(ctx, cfg, log, deps)

	if sum.Err != nil {
		reportRunError(stderr, cfg, sum.Err)
		return sum.ExitCode()
	}

	display.PrintSummary(stdout, sum.Report())
	if cfg.MetricsFile != "" {
		if err := deps.Metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("Write metrics: %v", err)
		}
	}
	if path := log.Path(); path != "" {
		fmt.Fprintf(stdout, "Log file: %s\n", path)
	}
	return sum.ExitCode()
}

// reportRunError prints a run-level failure with a hint for the common cases.
func reportRunError(w io.Writer, cfg *config.Config, err error) {
	fmt.Fprintf(w, "%sError: %v%s\n", term.Red, err, term.NC)

	var depErr *check.DependencyError
	switch {
	case errors.As(err, &depErr):
		fmt.Fprintf(w, "Install FFmpeg or point --encoder at it (tried %q).\n", cfg.EncoderPath)
	case errors.Is(err, pipeline.ErrSourceNotFound):
		fmt.Fprintf(w, "Source directory '%s' not found!\n", cfg.SourceDir)
	case errors.Is(err, pipeline.ErrOutputLocked):
		fmt.Fprintln(w, "Another vidbatch run is writing to the same output directory.")
	}
}
