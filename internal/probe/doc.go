// Package probe reads container metadata with a single ffprobe JSON call.
// The pipeline uses it to learn a file's duration up front, since the
// encoder runs with -loglevel error and never prints its own Duration line.
package probe
