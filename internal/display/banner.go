// Package display handles everything the user sees on stdout: the startup
// banner, the live status block, and the end-of-run summary.
package display

import (
	"fmt"
	"io"

	"github.com/backmassage/vidbatch/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `        _     _ _           _       _
 __   _(_) __| | |__   __ _| |_ ___| |__
 \ \ / / |/ _`+"`"+` | '_ \ / _`+"`"+` | __/ __| '_ \
  \ V /| | (_| | |_) | (_| | || (__| | | |
   \_/ |_|\__,_|_.__/ \__,_|\__\___|_| |_|
`)
	fmt.Fprint(w, term.NC)
	fmt.Fprintf(w, "  batch H.264/AAC converter %s\n\n", version)
}
