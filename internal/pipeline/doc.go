// Package pipeline runs a conversion batch: discovery of video files under
// the source root, one-at-a-time conversion through the encoder, run
// statistics, and the final summary.
//
// Files are processed sequentially in sorted path order. Cancelling the run
// context stops the batch at the next file boundary and terminates any
// encode in flight; the summary then reports the files completed so far.
package pipeline
