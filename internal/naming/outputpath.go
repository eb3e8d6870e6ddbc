package naming

import (
	"path/filepath"
	"strings"
)

// OptimizedSuffix marks outputs whose extension equals the input's.
const OptimizedSuffix = "_optimized"

// TargetPath maps rel (a path relative to the scan root) to its output path
// under outputDir with extension ext (including the dot):
//
//	clip.mkv        → <outputDir>/clip.mp4
//	show/video.mp4  → <outputDir>/show/video_optimized.mp4
func TargetPath(rel, outputDir, ext string) string {
	dir := filepath.Dir(rel)
	base := filepath.Base(rel)
	inExt := filepath.Ext(base)
	stem := strings.TrimSuffix(base, inExt)

	if strings.EqualFold(inExt, ext) {
		stem += OptimizedSuffix
	}
	return filepath.Join(outputDir, dir, stem+ext)
}

// Location returns the display form of rel's directory: "root" for files at
// the top of the scan, the relative directory otherwise.
func Location(rel string) string {
	dir := filepath.Dir(rel)
	if dir == "." {
		return "root"
	}
	return dir
}
