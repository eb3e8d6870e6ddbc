package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
)

// FormatBytes returns a human-readable IEC size ("512 B", "1.5 KiB",
// "700 MiB"). Negative values are formatted by magnitude.
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = -bytes
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatDuration renders d as "45s", "2m 5s" or "1h 6m" depending on
// magnitude. Sub-second remainders are truncated.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	}
}

// FormatETA is FormatDuration with "unknown" for an unset estimate.
func FormatETA(d time.Duration, ok bool) string {
	if !ok {
		return "unknown"
	}
	return FormatDuration(d)
}

// FormatRate renders a files-per-hour throughput. Rates under one file per
// hour keep a decimal; ok=false reads "warming up".
func FormatRate(perHour float64, ok bool) string {
	if !ok {
		return "warming up"
	}
	if perHour < 1 {
		return fmt.Sprintf("%.1f/hr", perHour)
	}
	return fmt.Sprintf("%d/hr", int(perHour))
}

// FormatDelta renders a signed size-change percentage ("+12.5%", "-40.0%").
func FormatDelta(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}

// ProgressBar draws a width-wide bar of '#' (done) and '-' (remaining).
// pct is clamped to [0,100].
func ProgressBar(pct, width int) string {
	if width <= 0 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
}

// Truncate shortens s to at most width columns, ending in "..." when cut.
func Truncate(s string, width int) string {
	return text.Snip(s, width, "...")
}
