// Package config holds runtime configuration: defaults, CLI flag and
// environment merging, and validation. The output encoding profile is fixed;
// only paths, behavior, and display settings are user-configurable.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then overlaid by [Load] before being passed (by pointer) to packages that
// need it. Fields are grouped by concern with inline documentation of
// defaults and fixed values.
type Config struct {
	// Paths.
	SourceDir string // Positional argument.
	OutputDir string // Default: <SourceDir>/converted.
	LogDir    string // Default: "logs" (relative to the working directory).

	// External tools.
	EncoderPath  string        // Default: "ffmpeg".
	ProberPath   string        // Default: "ffprobe". Optional at runtime.
	ProbeTimeout time.Duration // Fixed: 10s for the "-version" health probe.

	// Fixed output profile (not user-configurable).
	VideoCodec   string // Fixed: "libx264".
	Preset       string // Fixed: "medium".
	CRF          int    // Fixed: 23.
	AudioCodec   string // Fixed: "aac".
	AudioBitrate string // Fixed: "128k".
	MovFlags     string // Fixed: "+faststart".
	PixFmt       string // Fixed: "yuv420p".
	Threads      int    // Fixed: 0 (all cores).
	OutputExt    string // Fixed: ".mp4".

	// Discovery.
	SupportedExts []string // Fixed: .mp4, .mkv (matched case-insensitively).

	// Behavior flags.
	SkipExisting bool // Default: true. Cleared by --no-skip-existing.

	// Progress tracking.
	HistorySize    int           // Fixed: 15 most recent per-file durations feed the ETA.
	RedrawInterval time.Duration // Fixed: 1s minimum between progress-driven redraws.
	HeaderInterval time.Duration // Fixed: 3s maximum between redraws while encoding.

	// Display and logging.
	Verbose     bool
	ColorMode   ColorMode // Default: "auto".
	MetricsFile string    // Optional Prometheus textfile written at run end.
	ConfigFile  string    // Optional config file read by Load.
}

// DefaultConfig returns a Config with every default and fixed value set.
// Used as the base before [Load] applies file, environment, and flag overrides.
func DefaultConfig() Config {
	return Config{
		LogDir:         "logs",
		EncoderPath:    "ffmpeg",
		ProberPath:     "ffprobe",
		ProbeTimeout:   10 * time.Second,
		VideoCodec:     "libx264",
		Preset:         "medium",
		CRF:            23,
		AudioCodec:     "aac",
		AudioBitrate:   "128k",
		MovFlags:       "+faststart",
		PixFmt:         "yuv420p",
		Threads:        0,
		OutputExt:      ".mp4",
		SupportedExts:  []string{".mp4", ".mkv"},
		SkipExisting:   true,
		HistorySize:    15,
		RedrawInterval: time.Second,
		HeaderInterval: 3 * time.Second,
		ColorMode:      ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and required values, then fills in the
// default output directory (<SourceDir>/converted) when none was given.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if strings.TrimSpace(c.EncoderPath) == "" {
		return errors.New("encoder path must not be empty")
	}
	if c.ProbeTimeout <= 0 {
		return errors.New("probe timeout must be positive")
	}
	if c.HistorySize <= 0 {
		return errors.New("history size must be positive")
	}
	if !strings.HasPrefix(c.OutputExt, ".") {
		return fmt.Errorf("output extension %q must start with a dot", c.OutputExt)
	}

	if c.SourceDir == "" {
		return errors.New("need exactly one source_dir")
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.SourceDir, "converted")
	}
	return nil
}

// ValidatePaths rejects an output directory equal to the source directory:
// converted files would land next to their inputs and be rediscovered on
// the next run. An output tree nested inside the source is allowed (it is
// the default) and is pruned during discovery. Both arguments must be
// absolute, cleaned paths.
func (c *Config) ValidatePaths(sourceAbs, outputAbs string) error {
	if sourceAbs == outputAbs {
		return errors.New("output directory must differ from source directory")
	}
	return nil
}
