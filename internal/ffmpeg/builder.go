package ffmpeg

import (
	"strconv"

	"github.com/backmassage/vidbatch/internal/config"
)

// Build constructs the encoder argument slice (without the binary name) for
// one file. The profile is fixed: H.264 at cfg.CRF, AAC audio, faststart
// MP4. Progress is written as key=value lines to stderr and all other
// logging is reduced to errors. The output path is always last.
func Build(cfg *config.Config, input, output string) []string {
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin")

	// --- Input ---
	args = append(args, "-i", input)

	// --- Video ---
	args = append(args,
		"-c:v", cfg.VideoCodec,
		"-preset", cfg.Preset,
		"-crf", strconv.Itoa(cfg.CRF),
	)

	// --- Audio ---
	args = append(args,
		"-c:a", cfg.AudioCodec,
		"-b:a", cfg.AudioBitrate,
	)

	// --- Container and compatibility ---
	args = append(args,
		"-movflags", cfg.MovFlags,
		"-pix_fmt", cfg.PixFmt,
		"-threads", strconv.Itoa(cfg.Threads),
	)

	// --- Progress and logging ---
	args = append(args,
		"-progress", "pipe:2",
		"-nostats",
		"-loglevel", "error",
	)

	// --- Output ---
	args = append(args, "-y", output)
	return args
}
