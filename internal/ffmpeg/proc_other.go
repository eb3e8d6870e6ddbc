//go:build !unix

package ffmpeg

import "os/exec"

// setProcessGroup keeps exec's default cancellation (kill the direct child).
func setProcessGroup(cmd *exec.Cmd) {}
