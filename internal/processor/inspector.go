package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vidforge/vidforge/pkg/logger"
)

// ErrNoVideoStream is returned when a file carries no decodable video track.
var ErrNoVideoStream = errors.New("no decodable video stream")

// ToolError wraps a failed external tool invocation.
type ToolError struct {
	Tool   string
	Err    error
	Output string
}

func (e *ToolError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, e.Output)
	}
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

type VideoStreamInfo struct {
	Codec     string
	Width     int
	Height    int
	FrameRate float64
}

type AudioStreamInfo struct {
	Codec      string
	SampleRate int
	Channels   int
}

// MediaInfo is the inspector's view of one media file.
type MediaInfo struct {
	Duration float64
	Format   string
	Size     int64
	BitRate  int64
	Video    VideoStreamInfo
	Audio    *AudioStreamInfo
}

// FFInspector shells out to ffprobe/ffmpeg.
type FFInspector struct {
	ffprobePath string
	ffmpegPath  string
	logger      logger.Logger
}

func NewFFInspector(ffprobePath, ffmpegPath string, log logger.Logger) *FFInspector {
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFInspector{ffprobePath: ffprobePath, ffmpegPath: ffmpegPath, logger: log}
}

func (i *FFInspector) Probe(ctx context.Context, path string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, i.ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		stderr := ""
		if errors.As(err, &exitErr) {
			stderr = strings.TrimSpace(string(exitErr.Stderr))
		}
		return nil, &ToolError{Tool: "ffprobe", Err: err, Output: stderr}
	}
	return parseProbeOutput(output)
}

// ExtractThumbnail grabs a single frame at offsetSec into thumbPath.
func (i *FFInspector) ExtractThumbnail(ctx context.Context, videoPath, thumbPath string, offsetSec float64) error {
	cmd := exec.CommandContext(ctx, i.ffmpegPath,
		"-ss", fmt.Sprintf("%.2f", offsetSec),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", "2",
		"-y", thumbPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &ToolError{Tool: "ffmpeg", Err: err, Output: strings.TrimSpace(string(output))}
	}
	return nil
}

// ThumbnailOffset picks the frame position: the midpoint, clamped into the
// valid [0, duration] range.
func ThumbnailOffset(duration float64) float64 {
	offset := duration / 2
	if offset > duration {
		offset = duration
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

func parseProbeOutput(data []byte) (*MediaInfo, error) {
	var probe probeResult
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &ToolError{Tool: "ffprobe", Err: fmt.Errorf("unparseable output: %w", err)}
	}

	var video *probeStream
	var audio *probeStream
	for idx := range probe.Streams {
		s := &probe.Streams[idx]
		switch s.CodecType {
		case "video":
			if video == nil {
				video = s
			}
		case "audio":
			if audio == nil {
				audio = s
			}
		}
	}
	if video == nil {
		return nil, ErrNoVideoStream
	}

	info := &MediaInfo{
		Format: probe.Format.FormatName,
		Video: VideoStreamInfo{
			Codec:     video.CodecName,
			Width:     video.Width,
			Height:    video.Height,
			FrameRate: parseFrameRate(video.RFrameRate),
		},
	}
	info.Duration, _ = strconv.ParseFloat(probe.Format.Duration, 64)
	info.Size, _ = strconv.ParseInt(probe.Format.Size, 10, 64)
	info.BitRate, _ = strconv.ParseInt(probe.Format.BitRate, 10, 64)

	if audio != nil {
		sampleRate, _ := strconv.Atoi(audio.SampleRate)
		info.Audio = &AudioStreamInfo{
			Codec:      audio.CodecName,
			SampleRate: sampleRate,
			Channels:   audio.Channels,
		}
	}
	return info, nil
}

// parseFrameRate converts ffprobe's "30000/1001" rational form.
func parseFrameRate(raw string) float64 {
	if raw == "" || raw == "0/0" {
		return 0
	}
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) == 1 {
		rate, _ := strconv.ParseFloat(parts[0], 64)
		return rate
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
