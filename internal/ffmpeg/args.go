// Package ffmpeg provides FFmpeg command building and execution.
package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/carvekit/carve/internal/encoder"
)

// SegmentJob describes one external encode invocation: a single time range
// of the source encoded with the run's shared encoder plan.
type SegmentJob struct {
	InputPath    string
	OutputPath   string
	StartSecs    float64
	DurationSecs float64
	Width        int
	Height       int
	FrameRate    float64
	Plan         *encoder.Plan
}

// BuildSegmentArgs translates a SegmentJob into ffmpeg arguments. All flag
// formatting is isolated here so the parameter selection logic can be
// tested without touching a process.
func BuildSegmentArgs(job *SegmentJob) []string {
	rc := job.Plan.RateControl

	args := []string{
		"-y",
		"-i", job.InputPath,
		"-ss", formatSeconds(job.StartSecs),
		"-t", formatSeconds(job.DurationSecs),
		"-c:v", job.Plan.Codec,
		"-r", formatSeconds(job.FrameRate),
		"-b:v", strconv.FormatUint(rc.TargetBitRate, 10),
		"-vf", fmt.Sprintf("scale=%d:%d", job.Width, job.Height),
	}

	// Strict CBR clamps: min == max == target with a constrained buffer.
	if rc.MinBitRate > 0 {
		args = append(args, "-minrate", strconv.FormatUint(rc.MinBitRate, 10))
	}
	if rc.MaxBitRate > 0 {
		args = append(args, "-maxrate", strconv.FormatUint(rc.MaxBitRate, 10))
	}
	if rc.BufferSize > 0 {
		args = append(args, "-bufsize", strconv.FormatUint(rc.BufferSize, 10))
	}
	if rc.ConstantFrameTiming {
		args = append(args, "-vsync", "cfr")
	}

	// The hardware encoder has no preset knob.
	if job.Plan.Preset != "" {
		args = append(args, "-preset", job.Plan.Preset)
	}

	// Audio is always stream-copied, never re-encoded.
	args = append(args,
		"-c:a", "copy",
		"-avoid_negative_ts", "1",
		job.OutputPath,
	)

	return args
}

// formatSeconds formats a float the way the external tool expects:
// no exponent, no trailing zeros.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
