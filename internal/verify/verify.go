// Package verify re-probes produced segments and compares them to the plan.
package verify

import (
	"context"
	"fmt"
	"math"

	"github.com/carvekit/carve/internal/encoder"
	"github.com/carvekit/carve/internal/ffprobe"
)

const (
	// frameRateToleranceFPS is the maximum allowed frame rate deviation.
	frameRateToleranceFPS = 0.5
	// cbrBitRateTolerance is the allowed relative bit-rate deviation for CBR.
	cbrBitRateTolerance = 0.10
	// vbrBitRateTolerance is looser: VBR targets an average and the sampled
	// segment may legitimately sit well off it for complex or static content.
	vbrBitRateTolerance = 0.25
)

// Prober abstracts metadata extraction so comparison logic can be tested
// without external tools.
type Prober interface {
	ProbeVideo(ctx context.Context, path string) (*ffprobe.VideoMetadata, error)
}

// FFprobeProber probes files with the ffprobe backend.
type FFprobeProber struct{}

func (FFprobeProber) ProbeVideo(ctx context.Context, path string) (*ffprobe.VideoMetadata, error) {
	return ffprobe.ProbeVideo(ctx, path)
}

// Result contains the comparison of one produced segment against the plan.
// Mismatches are advisory: they are reported, never retroactively fail a run.
type Result struct {
	SampledFrameRate float64
	SampledBitRate   uint64
	TargetFrameRate  float64
	TargetBitRate    uint64

	FrameRateMatches bool
	BitRateMatches   bool

	FrameRateMessage string
	BitRateMessage   string
}

// Passed reports whether every sampled field matched its target.
func (r *Result) Passed() bool {
	return r.FrameRateMatches && r.BitRateMatches
}

// Steps returns the comparison results as named check steps for reporting.
func (r *Result) Steps() []Step {
	return []Step{
		{Name: "Frame rate", Passed: r.FrameRateMatches, Details: r.FrameRateMessage},
		{Name: "Bit rate", Passed: r.BitRateMatches, Details: r.BitRateMessage},
	}
}

// Step is a single named verification check.
type Step struct {
	Name    string
	Passed  bool
	Details string
}

// Segment re-probes a produced file and compares its frame rate and bit
// rate against the plan's targets. sourceFrameRate supplies the effective
// target when the plan preserves the source rate.
func Segment(ctx context.Context, prober Prober, outputPath string, plan *encoder.Plan, sourceFrameRate float64) (*Result, error) {
	meta, err := prober.ProbeVideo(ctx, outputPath)
	if err != nil {
		return nil, err
	}

	return compare(meta, plan, sourceFrameRate), nil
}

func compare(meta *ffprobe.VideoMetadata, plan *encoder.Plan, sourceFrameRate float64) *Result {
	result := &Result{
		SampledFrameRate: meta.FrameRate,
		SampledBitRate:   meta.BitRate,
		TargetFrameRate:  plan.EffectiveFrameRate(sourceFrameRate),
		TargetBitRate:    plan.RateControl.TargetBitRate,
	}

	frameDiff := math.Abs(result.SampledFrameRate - result.TargetFrameRate)
	result.FrameRateMatches = frameDiff <= frameRateToleranceFPS
	if result.FrameRateMatches {
		result.FrameRateMessage = fmt.Sprintf("%.3f fps (target %.3f)", result.SampledFrameRate, result.TargetFrameRate)
	} else {
		result.FrameRateMessage = fmt.Sprintf("%.3f fps, expected %.3f (diff %.3f)",
			result.SampledFrameRate, result.TargetFrameRate, frameDiff)
	}

	tolerance := vbrBitRateTolerance
	if plan.Mode == encoder.ModeCBR {
		tolerance = cbrBitRateTolerance
	}

	if result.TargetBitRate == 0 {
		result.BitRateMatches = true
		result.BitRateMessage = "no target bit rate"
		return result
	}

	rateDiff := math.Abs(float64(result.SampledBitRate)-float64(result.TargetBitRate)) / float64(result.TargetBitRate)
	result.BitRateMatches = rateDiff <= tolerance
	if result.BitRateMatches {
		result.BitRateMessage = fmt.Sprintf("%d b/s within %.0f%% of target %d b/s",
			result.SampledBitRate, tolerance*100, result.TargetBitRate)
	} else {
		result.BitRateMessage = fmt.Sprintf("%d b/s deviates %.1f%% from target %d b/s (max %.0f%%)",
			result.SampledBitRate, rateDiff*100, result.TargetBitRate, tolerance*100)
	}

	return result
}
