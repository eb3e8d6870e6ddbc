package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Matroska file with cover art ahead of the real video stream.
const sampleMKV = `{
  "streams": [
    {
      "index": 0,
      "codec_name": "mjpeg",
      "codec_type": "video",
      "width": 600,
      "height": 900,
      "disposition": { "default": 0, "attached_pic": 1 }
    },
    {
      "index": 1,
      "codec_name": "hevc",
      "codec_type": "video",
      "pix_fmt": "yuv420p10le",
      "width": 1920,
      "height": 1080,
      "disposition": { "default": 1, "attached_pic": 0 }
    },
    {
      "index": 2,
      "codec_name": "opus",
      "codec_type": "audio",
      "channels": 6
    }
  ],
  "format": {
    "filename": "/media/show/ep01.mkv",
    "format_name": "matroska,webm",
    "duration": "1425.312000",
    "size": "734003200",
    "bit_rate": "4119877"
  }
}`

func TestParseJSON(t *testing.T) {
	res, err := ParseJSON([]byte(sampleMKV))
	require.NoError(t, err)

	assert.Equal(t, "matroska,webm", res.Format.FormatName)
	assert.InDelta(t, 1425.312, res.Format.Duration, 1e-6)
	assert.Equal(t, int64(734003200), res.Format.Size)

	require.NotNil(t, res.PrimaryVideo)
	assert.Equal(t, 1, res.PrimaryVideo.Index, "cover art is skipped")
	assert.Equal(t, "1920x1080", res.Resolution())
	assert.Equal(t, "hevc", res.VideoCodec())

	require.Len(t, res.AudioStreams, 1)
	assert.Equal(t, 6, res.AudioStreams[0].Channels)
}

func TestParseJSON_NoVideo(t *testing.T) {
	res, err := ParseJSON([]byte(`{"streams":[],"format":{"duration":"N/A"}}`))
	require.NoError(t, err)
	assert.Nil(t, res.PrimaryVideo)
	assert.Equal(t, "unknown", res.Resolution())
	assert.Equal(t, "none", res.VideoCodec())
	assert.Zero(t, res.Format.Duration)
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON([]byte("not json"))
	assert.Error(t, err)
}

func writeStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestProber_Probe(t *testing.T) {
	stub := writeStub(t, `echo '{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":1280,"height":720}],"format":{"duration":"62.5"}}'`)
	p := &Prober{Binary: stub}

	res, err := p.Probe(context.Background(), "/any.mkv")
	require.NoError(t, err)
	assert.InDelta(t, 62.5, res.Format.Duration, 1e-9)
	assert.Equal(t, "1280x720", res.Resolution())
}

func TestProber_Failure(t *testing.T) {
	p := &Prober{Binary: writeStub(t, "exit 1")}
	_, err := p.Probe(context.Background(), "/any.mkv")
	assert.Error(t, err)
}
