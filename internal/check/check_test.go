package check

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestEncoder_OK(t *testing.T) {
	stub := writeStub(t, t.TempDir(), "ffmpeg", `echo "ffmpeg version 6.1.1 Copyright (c) 2000-2023"; echo "built with gcc"`)

	line, err := Encoder(context.Background(), stub, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg version 6.1.1 Copyright (c) 2000-2023", line)
}

func TestEncoder_Failures(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		binary  string
		timeout time.Duration
		want    error
	}{
		{"missing binary", filepath.Join(dir, "nope"), time.Second, ErrEncoderNotFound},
		{"nonzero exit", writeStub(t, dir, "broken", "exit 3"), time.Second, ErrEncoderBroken},
		{"hangs past timeout", writeStub(t, dir, "slow", "exec sleep 5"), 100 * time.Millisecond, ErrEncoderTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encoder(context.Background(), tt.binary, tt.timeout)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var depErr *DependencyError
			require.True(t, errors.As(err, &depErr))
			assert.Equal(t, tt.binary, depErr.Binary)
		})
	}
}

func TestBinaries(t *testing.T) {
	present := writeStub(t, t.TempDir(), "ffprobe", "exit 0")
	results := Binaries([]Requirement{
		{Name: "FFprobe", Command: present, Optional: true},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Empty", Command: "  "},
	})
	require.Len(t, results, 3)

	assert.True(t, results[0].Available)
	assert.True(t, results[0].Optional)
	assert.Empty(t, results[0].Detail)

	assert.False(t, results[1].Available)
	assert.Contains(t, results[1].Detail, "not found")

	assert.False(t, results[2].Available)
	assert.Equal(t, "command not configured", results[2].Detail)
}

func TestSourceDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.mkv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.NoError(t, SourceDir(dir))
	assert.ErrorIs(t, SourceDir(filepath.Join(dir, "missing")), ErrSourceNotFound)
	assert.ErrorIs(t, SourceDir(file), ErrSourceNotDir)
}

func TestSourceDir_Unreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.Chmod(dir, 0o000))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	assert.ErrorIs(t, SourceDir(dir), ErrSourceUnreadable)
	assert.Error(t, canList(dir))
}
