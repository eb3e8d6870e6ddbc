package ffmpeg

import (
	"regexp"
	"strconv"
)

// Timestamps are HH:MM:SS.ss. The position pattern also matches the
// "out_time=" key emitted by -progress.
var (
	reDuration = regexp.MustCompile(`Duration:\s*(\d+):(\d{2}):(\d{2}\.\d+)`)
	rePosition = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2}\.\d+)`)
)

// ProgressParser tracks one file's total duration and current position as
// reported on the encoder's diagnostic stream. The zero value is ready to use.
type ProgressParser struct {
	duration    float64
	hasDuration bool
	position    float64
	hasPosition bool
}

// ObserveLine scans a single line. The first duration seen wins; every
// position seen overwrites the previous one. Lines without a complete
// timestamp are ignored.
func (p *ProgressParser) ObserveLine(line string) {
	if !p.hasDuration {
		if secs, ok := parseClock(reDuration.FindStringSubmatch(line)); ok {
			p.duration = secs
			p.hasDuration = true
		}
	}
	if secs, ok := parseClock(rePosition.FindStringSubmatch(line)); ok {
		p.position = secs
		p.hasPosition = true
	}
}

// SetDuration seeds the duration from another source (ffprobe). It is a
// no-op once a duration is known.
func (p *ProgressParser) SetDuration(seconds float64) {
	if p.hasDuration {
		return
	}
	p.duration = seconds
	p.hasDuration = true
}

// Duration returns the total duration in seconds, if known.
func (p *ProgressParser) Duration() (float64, bool) { return p.duration, p.hasDuration }

// Position returns the last reported position in seconds, if any.
func (p *ProgressParser) Position() (float64, bool) { return p.position, p.hasPosition }

// Percent returns floor(100*position/duration) clamped to [0,100]. ok is
// false until both values are known and the duration is positive.
func (p *ProgressParser) Percent() (pct int, ok bool) {
	if !p.hasDuration || !p.hasPosition || p.duration <= 0 {
		return 0, false
	}
	pct = int(100 * p.position / p.duration)
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct, true
}

// parseClock converts a regexp match of (h, m, s) groups to seconds.
func parseClock(m []string) (float64, bool) {
	if len(m) != 4 {
		return 0, false
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	s, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, false
	}
	return float64(h)*3600 + float64(mins)*60 + s, true
}
