// Package naming derives output paths for converted files.
//
// A source file keeps its relative directory under the output root and takes
// the fixed output extension. When the source already has that extension the
// stem gains an "_optimized" suffix so a converted file can never be
// mistaken for its input. Within a run, Claims de-duplicates targets that
// two inputs would otherwise share, such as a.mkv and a.MKV on a
// case-sensitive filesystem, or a.mp4 and a_optimized.mkv.
package naming
