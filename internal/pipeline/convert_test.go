package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/vidbatch/internal/config"
	"github.com/backmassage/vidbatch/internal/ffmpeg"
	"github.com/backmassage/vidbatch/internal/logging"
	"github.com/backmassage/vidbatch/internal/probe"
)

// fakeEncoder writes outSize bytes to the output path, replays lines into
// the sink, and fails for inputs listed in fail.
type fakeEncoder struct {
	mu      sync.Mutex
	inputs  []string
	lines   []string
	outSize int
	fail    map[string]error // Keyed by input base name.
	onCall  func(n int)
}

func (f *fakeEncoder) Encode(ctx context.Context, args []string, sink func(string)) error {
	f.mu.Lock()
	in := argAfter(args, "-i")
	f.inputs = append(f.inputs, in)
	n := len(f.inputs)
	f.mu.Unlock()

	out := args[len(args)-1]
	if err := os.WriteFile(out, make([]byte, f.outSize), 0o644); err != nil {
		return err
	}
	for _, l := range f.lines {
		sink(l)
	}
	if f.onCall != nil {
		f.onCall(n)
	}
	if err, ok := f.fail[filepath.Base(in)]; ok {
		return err
	}
	return ctx.Err()
}

func (f *fakeEncoder) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

type fakeProber struct {
	duration float64
	err      error
}

func (p fakeProber) Probe(context.Context, string) (*probe.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &probe.Result{Format: probe.Format{Duration: p.duration}}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.SourceDir = t.TempDir()
	require.NoError(t, cfg.Validate())
	return &cfg
}

func newConverter(cfg *config.Config, enc Encoder) *Converter {
	return &Converter{Config: cfg, Encoder: enc, Log: logging.Nop()}
}

func TestConvert_Success(t *testing.T) {
	cfg := testConfig(t)
	in := touch(t, cfg.SourceDir, "a.mkv", 1000)
	target := filepath.Join(t.TempDir(), "a.mp4")
	enc := &fakeEncoder{outSize: 600}

	res, err := newConverter(cfg, enc).Convert(context.Background(), VideoFile{Path: in, Rel: "a.mkv"}, target, nil)
	require.NoError(t, err)
	assert.Equal(t, Success, res.Outcome)
	assert.Equal(t, int64(1000), res.InputBytes)
	assert.Equal(t, int64(600), res.OutputBytes)
	assert.Equal(t, []string{in}, enc.inputs)
	assert.FileExists(t, target)
}

func TestConvert_SkipsExistingTarget(t *testing.T) {
	cfg := testConfig(t)
	in := touch(t, cfg.SourceDir, "a.mkv", 10)
	target := touch(t, t.TempDir(), "a.mp4", 5)
	enc := &fakeEncoder{}

	res, err := newConverter(cfg, enc).Convert(context.Background(), VideoFile{Path: in, Rel: "a.mkv"}, target, nil)
	require.NoError(t, err)
	assert.Equal(t, Skipped, res.Outcome)
	assert.Equal(t, "already exists", res.Reason)
	assert.Zero(t, enc.calls(), "encoder must not run")
	assert.Equal(t, int64(5), fileSize(t, target), "existing output untouched")
}

func TestConvert_OverwritesWhenSkipDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.SkipExisting = false
	in := touch(t, cfg.SourceDir, "a.mkv", 10)
	target := touch(t, t.TempDir(), "a.mp4", 5)
	enc := &fakeEncoder{outSize: 7}

	res, err := newConverter(cfg, enc).Convert(context.Background(), VideoFile{Path: in, Rel: "a.mkv"}, target, nil)
	require.NoError(t, err)
	assert.Equal(t, Success, res.Outcome)
	assert.Equal(t, 1, enc.calls())
	assert.Equal(t, int64(7), fileSize(t, target))
}

func TestConvert_FailureRemovesPartialOutput(t *testing.T) {
	cfg := testConfig(t)
	in := touch(t, cfg.SourceDir, "bad.mkv", 100)
	target := filepath.Join(t.TempDir(), "bad.mp4")
	enc := &fakeEncoder{
		outSize: 50,
		fail: map[string]error{"bad.mkv": &ffmpeg.ExitError{
			Code:   1,
			Reason: "invalid or corrupt input",
			Stderr: "Invalid data found when processing input",
		}},
	}

	res, err := newConverter(cfg, enc).Convert(context.Background(), VideoFile{Path: in, Rel: "bad.mkv"}, target, nil)
	require.NoError(t, err)
	assert.Equal(t, Failed, res.Outcome)
	assert.Equal(t, "invalid or corrupt input", res.Reason)
	assert.Equal(t, int64(100), res.InputBytes)
	assert.NoFileExists(t, target)
}

func TestConvert_FailureWithoutPartialOutput(t *testing.T) {
	cfg := testConfig(t)
	in := touch(t, cfg.SourceDir, "a.mkv", 1)
	target := filepath.Join(t.TempDir(), "a.mp4")

	res, err := newConverter(cfg, startFailure{}).Convert(context.Background(), VideoFile{Path: in, Rel: "a.mkv"}, target, nil)
	require.NoError(t, err)
	assert.Equal(t, Failed, res.Outcome)
	assert.Contains(t, res.Reason, "no such file")
	assert.NoFileExists(t, target)
}

type startFailure struct{}

func (startFailure) Encode(context.Context, []string, func(string)) error {
	return errors.New("start ffmpeg: exec: no such file or directory")
}

func TestConvert_CancelledMidEncode(t *testing.T) {
	cfg := testConfig(t)
	in := touch(t, cfg.SourceDir, "a.mkv", 1)
	target := filepath.Join(t.TempDir(), "a.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	enc := &fakeEncoder{outSize: 10, onCall: func(int) { cancel() }}

	_, err := newConverter(cfg, enc).Convert(ctx, VideoFile{Path: in, Rel: "a.mkv"}, target, nil)
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.NoFileExists(t, target, "partial output removed")
}

func TestConvert_ReportsProgress(t *testing.T) {
	cfg := testConfig(t)
	in := touch(t, cfg.SourceDir, "a.mkv", 1)
	target := filepath.Join(t.TempDir(), "a.mp4")
	enc := &fakeEncoder{lines: []string{
		"frame=1 fps=0 q=0 size=0kB time=00:00:00.00 bitrate=N/A",
		"frame=100 fps=25 q=28 size=512kB time=00:00:30.00 bitrate=N/A",
		"frame=200 fps=25 q=28 size=1024kB time=00:01:00.00 bitrate=N/A",
	}}

	tests := []struct {
		name   string
		prober MediaProber
		want   []int
		known  bool
	}{
		{"duration from probe", fakeProber{duration: 120}, []int{0, 25, 50}, true},
		{"probe failure leaves percent unknown", fakeProber{err: errors.New("boom")}, []int{0, 0, 0}, false},
		{"no prober", nil, []int{0, 0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := newConverter(cfg, enc)
			conv.Prober = tt.prober
			var got []int
			var known bool
			_, err := conv.Convert(context.Background(), VideoFile{Path: in, Rel: "a.mkv"}, target, func(p int, ok bool) {
				got = append(got, p)
				known = ok
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
			require.NoError(t, os.Remove(target))
		})
	}
}

func TestConvert_LogsEncodedSpan(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogDir = t.TempDir()
	cfg.Verbose = true
	log, err := logging.NewLogger(cfg)
	require.NoError(t, err)

	in := touch(t, cfg.SourceDir, "a.mkv", 1)
	target := filepath.Join(t.TempDir(), "a.mp4")
	enc := &fakeEncoder{lines: []string{"frame=200 fps=25 q=28 size=1024kB time=00:01:00.00 bitrate=N/A"}}
	conv := &Converter{Config: cfg, Encoder: enc, Prober: fakeProber{duration: 125}, Log: log}

	res, err := conv.Convert(context.Background(), VideoFile{Path: in, Rel: "a.mkv"}, target, nil)
	require.NoError(t, err)
	assert.Equal(t, Success, res.Outcome)
	require.NoError(t, log.Close())

	data, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Encoded 1m 0s of 2m 5s")
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}
