// Package logging is the run log sink. Every run appends structured JSON
// events to a timestamped file under the configured log directory; the
// terminal is reserved for the live progress view, so nothing is written to
// stdout. In verbose mode error-level events are mirrored to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/backmassage/vidbatch/internal/config"
)

// fileTimeLayout names run logs so they sort chronologically.
const fileTimeLayout = "20060102_150405"

// Logger provides leveled printf-style logging backed by zerolog.
type Logger struct {
	z       zerolog.Logger
	mu      sync.Mutex
	file    *os.File
	path    string
	runID   string
	console *consoleHook // Nil unless errors are mirrored to stderr.
}

// NewLogger creates <LogDir>/vidbatch_<timestamp>.log and returns a logger
// writing to it. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return newLogger(cfg, time.Now(), os.Stderr)
}

func newLogger(cfg *config.Config, now time.Time, stderr io.Writer) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(cfg.LogDir, "vidbatch_"+now.Format(fileTimeLayout)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var out io.Writer = f
	var hook *consoleHook
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
		hook = &consoleHook{}
		out = zerolog.MultiLevelWriter(f, errorMirror{hook: hook, w: zerolog.ConsoleWriter{
			Out:        stderr,
			NoColor:    true,
			TimeFormat: time.TimeOnly,
		}})
	}

	runID := uuid.NewString()
	z := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger()

	return &Logger{z: z, file: f, path: path, runID: runID, console: hook}, nil
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{z: zerolog.Nop()}
}

// Path returns the log file path, or "" for a Nop logger.
func (l *Logger) Path() string { return l.path }

// RunID returns the identifier stamped on every event of this run.
func (l *Logger) RunID() string { return l.runID }

// With returns a child logger that adds key=value to every event. The child
// shares the parent's file; only the parent should be closed.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{
		z:       l.z.With().Interface(key, value).Logger(),
		path:    l.path,
		runID:   l.runID,
		console: l.console,
	}
}

// BeforeConsoleWrite registers fn to run just before an event is mirrored
// to stderr, so a live display can account for the extra line. It is a
// no-op when nothing is mirrored.
func (l *Logger) BeforeConsoleWrite(fn func()) {
	if l.console == nil {
		return
	}
	l.console.mu.Lock()
	l.console.before = fn
	l.console.mu.Unlock()
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.z.Info().Msgf(format, args...)
}

// Success logs at info level tagged outcome=success.
func (l *Logger) Success(format string, args ...interface{}) {
	l.z.Info().Str("outcome", "success").Msgf(format, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.z.Warn().Msgf(format, args...)
}

// Error logs at error level. Mirrored to stderr in verbose mode.
func (l *Logger) Error(format string, args ...interface{}) {
	l.z.Error().Msgf(format, args...)
}

// Debug logs at debug level; dropped unless verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.z.Debug().Msgf(format, args...)
}

type consoleHook struct {
	mu     sync.Mutex
	before func()
}

func (h *consoleHook) fire() {
	h.mu.Lock()
	fn := h.before
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// errorMirror forwards only error-and-above events to w.
type errorMirror struct {
	hook *consoleHook
	w    io.Writer
}

func (m errorMirror) Write(p []byte) (int, error) { return len(p), nil }

func (m errorMirror) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < zerolog.ErrorLevel {
		return len(p), nil
	}
	m.hook.fire()
	return m.w.Write(p)
}
