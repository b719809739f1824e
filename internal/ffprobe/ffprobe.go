// Package ffprobe provides functions for extracting media information using ffprobe.
package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/carvekit/carve/internal/errors"
	"github.com/carvekit/carve/internal/util"
)

// DefaultBitRate is used when no bit rate can be determined from the source.
const DefaultBitRate uint64 = 2_000_000

// VideoMetadata contains the probed properties of a video file.
// Immutable once probed; planning components consume it read-only.
type VideoMetadata struct {
	CodecName    string
	FrameRate    float64
	BitRate      uint64
	Width        int
	Height       int
	DurationSecs float64

	// BitRateEstimated is true when the source carried no usable bit-rate
	// information and DefaultBitRate was substituted.
	BitRateEstimated bool
}

// Resolution returns the resolution as a WxH string.
func (m *VideoMetadata) Resolution() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// probeOutput represents the JSON output from ffprobe.
type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

type probeStream struct {
	CodecType    string            `json:"codec_type"`
	CodecName    string            `json:"codec_name"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	AvgFrameRate string            `json:"avg_frame_rate"`
	RFrameRate   string            `json:"r_frame_rate"`
	BitRate      string            `json:"bit_rate"`
	Tags         map[string]string `json:"tags"`
}

// runFFprobe executes ffprobe and returns the raw JSON output.
func runFFprobe(ctx context.Context, inputPath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, errors.NewProbeError(fmt.Sprintf("ffprobe failed for %s", inputPath), err)
	}

	return output, nil
}

// parseProbeOutput parses raw ffprobe JSON output.
func parseProbeOutput(data []byte) (*probeOutput, error) {
	var result probeOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.NewProbeError("failed to parse ffprobe output", err)
	}
	return &result, nil
}

// extractMetadata pulls the video metadata out of a parsed probe result.
// Bit rate resolution follows a fallback chain: video stream bit_rate,
// stream BPS tag, container bit_rate, then DefaultBitRate.
func extractMetadata(probe *probeOutput, inputPath string) (*VideoMetadata, error) {
	var videoStream *probeStream
	for i := range probe.Streams {
		if probe.Streams[i].CodecType == "video" {
			videoStream = &probe.Streams[i]
			break
		}
	}

	if videoStream == nil {
		return nil, errors.NewProbeError(fmt.Sprintf("no video stream found in %s", inputPath), nil)
	}

	if videoStream.Width <= 0 || videoStream.Height <= 0 {
		return nil, errors.NewProbeError(
			fmt.Sprintf("invalid dimensions in %s: %dx%d", inputPath, videoStream.Width, videoStream.Height), nil)
	}

	// Frame rate: prefer avg_frame_rate, fall back to r_frame_rate when the
	// average is missing or zero (common for raw or variable-rate streams).
	frameRate, ok := util.ParseRational(videoStream.AvgFrameRate)
	if !ok || frameRate == 0 {
		frameRate, ok = util.ParseRational(videoStream.RFrameRate)
		if !ok || frameRate <= 0 {
			return nil, errors.NewProbeError(fmt.Sprintf("could not determine frame rate of %s", inputPath), nil)
		}
	}

	meta := &VideoMetadata{
		CodecName: videoStream.CodecName,
		FrameRate: frameRate,
		Width:     videoStream.Width,
		Height:    videoStream.Height,
	}

	if br, ok := parseBitRate(videoStream.BitRate); ok {
		meta.BitRate = br
	} else if br, ok := parseBitRate(videoStream.Tags["BPS"]); ok {
		meta.BitRate = br
	} else if br, ok := parseBitRate(probe.Format.BitRate); ok {
		meta.BitRate = br
	} else {
		meta.BitRate = DefaultBitRate
		meta.BitRateEstimated = true
	}

	if probe.Format.Duration == "" {
		return nil, errors.NewProbeError(fmt.Sprintf("no duration reported for %s", inputPath), nil)
	}
	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return nil, errors.NewProbeError(fmt.Sprintf("failed to parse duration of %s", inputPath), err)
	}
	meta.DurationSecs = duration

	return meta, nil
}

func parseBitRate(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	br, err := strconv.ParseUint(s, 10, 64)
	if err != nil || br == 0 {
		return 0, false
	}
	return br, true
}

// ProbeVideo returns the video metadata for a file.
func ProbeVideo(ctx context.Context, inputPath string) (*VideoMetadata, error) {
	output, err := runFFprobe(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	probe, err := parseProbeOutput(output)
	if err != nil {
		return nil, err
	}

	return extractMetadata(probe, inputPath)
}
