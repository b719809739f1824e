// Package carve provides a Go library for splitting video files into
// uniformly re-encoded segments with FFmpeg.
//
// Carve probes the source with ffprobe, plans contiguous segment time
// ranges, selects encoder parameters once for the whole run, and encodes
// each segment sequentially with ffmpeg. Audio is stream-copied.
//
// Basic usage:
//
//	splitter, err := carve.New(
//	    carve.WithSegments(4),
//	    carve.WithMode(carve.ModeCBR),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := splitter.Split(ctx, "input.mp4", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Wrote %d segments to %s\n", len(result.Segments), result.OutputDir)
package carve

import (
	"context"
	"time"

	"github.com/carvekit/carve/internal/config"
	"github.com/carvekit/carve/internal/encoder"
	"github.com/carvekit/carve/internal/ffprobe"
	"github.com/carvekit/carve/internal/pipeline"
	"github.com/carvekit/carve/internal/reporter"
)

// Mode selects the rate-control strategy.
type Mode = encoder.RateControlMode

const (
	// ModeCBR holds the output at the source bit rate with a software encoder.
	ModeCBR = encoder.ModeCBR
	// ModeVBR targets the source bit rate as an average and uses a hardware
	// encoder when one is available.
	ModeVBR = encoder.ModeVBR
)

// ParseMode converts a mode string to a Mode value.
// Valid values are "cbr" and "vbr" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	return encoder.ParseRateControlMode(s)
}

// Reporter receives progress events during a split run.
type Reporter = reporter.Reporter

// Splitter is the main entry point for video splitting.
type Splitter struct {
	config *config.Config
}

// SegmentFile describes one produced segment.
type SegmentFile struct {
	Path string
	Size uint64
}

// VerificationStep is a single output check on the first segment.
type VerificationStep struct {
	Name    string
	Passed  bool
	Details string
}

// Result contains the outcome of a split run.
type Result struct {
	OutputDir string
	Segments  []SegmentFile
	TotalSize uint64
	TotalTime time.Duration

	// Verified is false when verification was disabled or the re-probe
	// failed. Verification is advisory and never fails the run.
	Verified           bool
	VerificationPassed bool
	VerificationSteps  []VerificationStep
}

// Option configures the splitter.
type Option func(*config.Config)

// New creates a new Splitter with the given options.
func New(opts ...Option) (*Splitter, error) {
	cfg := config.NewConfig("")

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Mode != "" {
		if _, err := encoder.ParseRateControlMode(string(cfg.Mode)); err != nil {
			return nil, err
		}
	}

	return &Splitter{config: cfg}, nil
}

// WithSegments splits the source into a fixed number of segments.
func WithSegments(n int) Option {
	return func(c *config.Config) {
		c.Segments = n
		c.SegmentSecs = 0
	}
}

// WithSegmentDuration splits the source into segments of the given length
// in seconds. The final segment holds the remainder.
func WithSegmentDuration(secs float64) Option {
	return func(c *config.Config) {
		c.SegmentSecs = secs
		c.Segments = 0
	}
}

// WithMode selects the rate-control mode. The default is VBR.
func WithMode(m Mode) Option {
	return func(c *config.Config) {
		c.Mode = m
	}
}

// WithFrameRate overrides the output frame rate. By default the source
// frame rate is preserved.
func WithFrameRate(fps float64) Option {
	return func(c *config.Config) {
		c.TargetFrameRate = fps
	}
}

// WithOutputDir sets the segment output directory. By default segments are
// written to a "<name>_parts" directory beside the input file.
func WithOutputDir(dir string) Option {
	return func(c *config.Config) {
		c.OutputDir = dir
	}
}

// WithSegmentTimeout aborts any single segment encode that exceeds d.
func WithSegmentTimeout(d time.Duration) Option {
	return func(c *config.Config) {
		c.SegmentTimeoutSecs = uint64(d.Seconds())
	}
}

// WithoutVerification disables the first-segment output check.
func WithoutVerification() Option {
	return func(c *config.Config) {
		c.VerifyOutput = false
	}
}

// Split splits a single video file. A nil Reporter discards progress events.
func (s *Splitter) Split(ctx context.Context, input string, rep Reporter) (*Result, error) {
	cfg := *s.config
	cfg.InputPath = input

	runner := pipeline.NewRunner()

	rc, err := runner.Prepare(ctx, &cfg, rep, nil)
	if err != nil {
		return nil, err
	}

	runResult, err := runner.Run(ctx, rc, rep, nil)
	if err != nil {
		return nil, err
	}

	result := &Result{
		OutputDir: rc.OutputDir,
		TotalSize: runResult.TotalSize,
		TotalTime: runResult.TotalTime,
	}
	for _, seg := range runResult.Segments {
		result.Segments = append(result.Segments, SegmentFile{
			Path: seg.OutputPath,
			Size: seg.Size,
		})
	}
	if v := runResult.Verification; v != nil {
		result.Verified = true
		result.VerificationPassed = v.Passed()
		for _, step := range v.Steps() {
			result.VerificationSteps = append(result.VerificationSteps, VerificationStep{
				Name:    step.Name,
				Passed:  step.Passed,
				Details: step.Details,
			})
		}
	}

	return result, nil
}

// VideoInfo contains probed source metadata.
type VideoInfo struct {
	Width            int
	Height           int
	FrameRate        float64
	BitRate          uint64
	BitRateEstimated bool
	DurationSecs     float64
}

// Probe extracts video metadata from a file with ffprobe.
func Probe(ctx context.Context, path string) (*VideoInfo, error) {
	meta, err := ffprobe.ProbeVideo(ctx, path)
	if err != nil {
		return nil, err
	}
	return &VideoInfo{
		Width:            meta.Width,
		Height:           meta.Height,
		FrameRate:        meta.FrameRate,
		BitRate:          meta.BitRate,
		BitRateEstimated: meta.BitRateEstimated,
		DurationSecs:     meta.DurationSecs,
	}, nil
}
