package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testExts = []string{".mp4", ".mkv"}

func touch(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}

func rels(files []VideoFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = filepath.ToSlash(f.Rel)
	}
	return out
}

func TestDiscover_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mkv", 1)
	touch(t, dir, "notes.txt", 1)

	files, err := Discover(dir, testExts, "")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "a.mkv"), files[0].Path)
	assert.Equal(t, "a.mkv", files[0].Rel)

	again, err := Discover(dir, testExts, "")
	require.NoError(t, err)
	assert.Equal(t, files, again, "stable across scans")
}

func TestDiscover_RecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "show/s02/ep01.mkv", 1)
	touch(t, dir, "show/s01/ep02.mkv", 1)
	touch(t, dir, "show/s01/ep01.mp4", 1)
	touch(t, dir, "b.mp4", 1)

	files, err := Discover(dir, testExts, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.mp4", "show/s01/ep01.mp4", "show/s01/ep02.mkv", "show/s02/ep01.mkv"}, rels(files))
}

func TestDiscover_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "MOVIE.MKV", 1)
	touch(t, dir, "Show.Mp4", 1)
	touch(t, dir, "clip.avi", 1)

	files, err := Discover(dir, testExts, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiscover_PrunesOutputTree(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mkv", 1)
	touch(t, dir, "converted/a.mp4", 1)
	touch(t, dir, "other/converted/b.mkv", 1)

	files, err := Discover(dir, testExts, filepath.Join(dir, "converted"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mkv", "other/converted/b.mkv"}, rels(files))
}

func TestDiscover_SkipsDirectoriesNamedLikeVideos(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "trailer.mkv"), 0o755))
	touch(t, dir, "trailer.mkv/inner.mp4", 1)

	files, err := Discover(dir, testExts, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"trailer.mkv/inner.mp4"}, rels(files))
}

func TestDiscover_EmptyAndMissing(t *testing.T) {
	files, err := Discover(t.TempDir(), testExts, "")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = Discover(filepath.Join(t.TempDir(), "missing"), testExts, "")
	assert.Error(t, err)
}
