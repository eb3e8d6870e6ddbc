package probe

import "strconv"

// Format holds container-level metadata.
type Format struct {
	Filename   string
	FormatName string
	Duration   float64 // Seconds; 0 when ffprobe reports none.
	Size       int64
	BitRate    int64
}

// VideoStream is the subset of video stream fields the run log reports.
type VideoStream struct {
	Index  int
	Codec  string
	Width  int
	Height int
	PixFmt string
}

// AudioStream is the subset of audio stream fields the run log reports.
type AudioStream struct {
	Index    int
	Codec    string
	Channels int
}

// Result is the parsed output of one ffprobe call. PrimaryVideo is the first
// video stream that is not cover art (nil if none).
type Result struct {
	Format       Format
	PrimaryVideo *VideoStream
	AudioStreams []AudioStream
}

// Resolution returns "WxH" for the primary video stream, or "unknown".
func (r *Result) Resolution() string {
	if r.PrimaryVideo == nil || r.PrimaryVideo.Width <= 0 || r.PrimaryVideo.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(r.PrimaryVideo.Width) + "x" + strconv.Itoa(r.PrimaryVideo.Height)
}

// VideoCodec returns the primary video codec name, or "none".
func (r *Result) VideoCodec() string {
	if r.PrimaryVideo == nil || r.PrimaryVideo.Codec == "" {
		return "none"
	}
	return r.PrimaryVideo.Codec
}
