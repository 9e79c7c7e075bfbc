package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProbeOutput = `{
	"streams": [
		{
			"codec_type": "video",
			"codec_name": "h264",
			"width": 1920,
			"height": 1080,
			"r_frame_rate": "30000/1001"
		},
		{
			"codec_type": "audio",
			"codec_name": "aac",
			"sample_rate": "44100",
			"channels": 2
		}
	],
	"format": {
		"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
		"duration": "60.500000",
		"size": "10000000",
		"bit_rate": "1322314"
	}
}`

func TestParseProbeOutput(t *testing.T) {
	info, err := parseProbeOutput([]byte(sampleProbeOutput))
	require.NoError(t, err)

	assert.InDelta(t, 60.5, info.Duration, 0.001)
	assert.Equal(t, "mov,mp4,m4a,3gp,3g2,mj2", info.Format)
	assert.Equal(t, int64(10_000_000), info.Size)
	assert.Equal(t, int64(1_322_314), info.BitRate)

	assert.Equal(t, "h264", info.Video.Codec)
	assert.Equal(t, 1920, info.Video.Width)
	assert.Equal(t, 1080, info.Video.Height)
	assert.InDelta(t, 29.97, info.Video.FrameRate, 0.01)

	require.NotNil(t, info.Audio)
	assert.Equal(t, "aac", info.Audio.Codec)
	assert.Equal(t, 44100, info.Audio.SampleRate)
	assert.Equal(t, 2, info.Audio.Channels)
}

func TestParseProbeOutputNoAudio(t *testing.T) {
	raw := `{
		"streams": [{"codec_type": "video", "codec_name": "vp9", "width": 640, "height": 480, "r_frame_rate": "25/1"}],
		"format": {"format_name": "webm", "duration": "10.0", "size": "500000", "bit_rate": "400000"}
	}`
	info, err := parseProbeOutput([]byte(raw))
	require.NoError(t, err)
	assert.Nil(t, info.Audio)
}

func TestParseProbeOutputNoVideoStream(t *testing.T) {
	raw := `{
		"streams": [{"codec_type": "audio", "codec_name": "mp3", "sample_rate": "44100", "channels": 2}],
		"format": {"format_name": "mp3", "duration": "180.0"}
	}`
	_, err := parseProbeOutput([]byte(raw))
	assert.ErrorIs(t, err, ErrNoVideoStream)
}

func TestParseProbeOutputGarbage(t *testing.T) {
	_, err := parseProbeOutput([]byte("not json"))
	require.Error(t, err)
	var toolErr *ToolError
	assert.ErrorAs(t, err, &toolErr)
}

func TestParseFrameRate(t *testing.T) {
	assert.InDelta(t, 29.97, parseFrameRate("30000/1001"), 0.01)
	assert.InDelta(t, 25.0, parseFrameRate("25/1"), 0.001)
	assert.InDelta(t, 30.0, parseFrameRate("30"), 0.001)
	assert.Zero(t, parseFrameRate("0/0"))
	assert.Zero(t, parseFrameRate(""))
	assert.Zero(t, parseFrameRate("abc/def"))
}

func TestThumbnailOffset(t *testing.T) {
	assert.Equal(t, 30.0, ThumbnailOffset(60))
	assert.Equal(t, 0.0, ThumbnailOffset(0))
	assert.Equal(t, 0.0, ThumbnailOffset(-5))
	assert.Equal(t, 0.25, ThumbnailOffset(0.5))
}
