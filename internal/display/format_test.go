package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"typical file 700 MiB", 734003200, "700 MiB"},
		{"negative by magnitude", -1536, "1.5 KiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.bytes))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0s"},
		{45, "45s"},
		{59, "59s"},
		{60, "1m 0s"},
		{125, "2m 5s"},
		{3599, "59m 59s"},
		{3600, "1h 0m"},
		{4000, "1h 6m"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(time.Duration(tt.secs)*time.Second))
		})
	}
}

func TestFormatETA(t *testing.T) {
	assert.Equal(t, "unknown", FormatETA(0, false))
	assert.Equal(t, "2m 5s", FormatETA(125*time.Second, true))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "warming up", FormatRate(0, false))
	assert.Equal(t, "0.5/hr", FormatRate(0.5, true))
	assert.Equal(t, "12/hr", FormatRate(12.9, true))
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "+12.5%", FormatDelta(12.5))
	assert.Equal(t, "-40.0%", FormatDelta(-40))
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name  string
		pct   int
		width int
		want  string
	}{
		{"empty", 0, 10, "----------"},
		{"half", 50, 10, "#####-----"},
		{"full", 100, 10, "##########"},
		{"overshoot clamps", 140, 4, "####"},
		{"negative clamps", -5, 4, "----"},
		{"zero width", 50, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressBar(tt.pct, tt.width))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short.mkv", Truncate("short.mkv", 35))
	long := "a-very-long-episode-name-that-keeps-going.mkv"
	got := Truncate(long, 35)
	assert.Len(t, got, 35)
	assert.Equal(t, long[:32]+"...", got)
}
