// Package ffmpeg builds the fixed-profile encoder command line, runs the
// encoder with its diagnostic stream drained line by line, and parses the
// progress markers found in that stream.
//
// Files:
//   - builder.go: Build(cfg, input, output) → []string
//   - executor.go: Runner.Encode streams stderr into a line sink; DrainLines
//     is the reusable scan loop.
//   - progress.go: ProgressParser extracts duration and position, derives a
//     percentage.
//   - errors.go: Classify maps a stderr tail to a short failure reason.
//   - proc_unix.go / proc_other.go: process-group setup so cancellation
//     reaches the whole encoder tree.
package ffmpeg
