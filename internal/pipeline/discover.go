package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// VideoFile is a discovered input: its absolute path and its path relative
// to the scan root, which is mirrored under the output directory.
type VideoFile struct {
	Path string
	Rel  string
}

// Discover walks root and returns every file whose extension matches one of
// exts (case-insensitive), sorted by path. prune names a directory to skip
// entirely (the output tree when it is nested inside root); it may be "".
// Unreadable subdirectories are skipped; only an unreadable root is an
// error.
func Discover(root string, exts []string, prune string) ([]VideoFile, error) {
	var files []VideoFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if prune != "" && path != root && path == prune {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !hasExt(path, exts) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, VideoFile{Path: path, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
