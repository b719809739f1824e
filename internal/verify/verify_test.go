package verify

import (
	"context"
	"testing"

	"github.com/carvekit/carve/internal/encoder"
	"github.com/carvekit/carve/internal/errors"
	"github.com/carvekit/carve/internal/ffprobe"
)

// fakeProber returns canned metadata without external tools.
type fakeProber struct {
	meta *ffprobe.VideoMetadata
	err  error
}

func (f fakeProber) ProbeVideo(ctx context.Context, path string) (*ffprobe.VideoMetadata, error) {
	return f.meta, f.err
}

func TestSegment_CBRWithinTolerance(t *testing.T) {
	plan, err := encoder.Select(encoder.ModeCBR, 8_000_000, false, nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	prober := fakeProber{meta: &ffprobe.VideoMetadata{
		FrameRate: 29.97,
		BitRate:   7_800_000, // 2.5% under target, inside the 10% CBR window
		Width:     1920,
		Height:    1080,
	}}

	result, err := Segment(context.Background(), prober, "out_part001.mp4", plan, 29.97)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	if !result.FrameRateMatches {
		t.Errorf("FrameRateMatches = false: %s", result.FrameRateMessage)
	}
	if !result.BitRateMatches {
		t.Errorf("BitRateMatches = false: %s", result.BitRateMessage)
	}
	if !result.Passed() {
		t.Error("Passed() = false, want true")
	}
}

func TestSegment_CBRBitRateMismatch(t *testing.T) {
	plan, err := encoder.Select(encoder.ModeCBR, 8_000_000, false, nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	prober := fakeProber{meta: &ffprobe.VideoMetadata{
		FrameRate: 29.97,
		BitRate:   6_000_000, // 25% under target, well outside the CBR window
	}}

	result, err := Segment(context.Background(), prober, "out_part001.mp4", plan, 29.97)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	if result.BitRateMatches {
		t.Error("BitRateMatches = true, want false for 25% deviation under CBR")
	}
	if result.Passed() {
		t.Error("Passed() = true, want false")
	}
}

func TestSegment_VBRLooserTolerance(t *testing.T) {
	plan, err := encoder.Select(encoder.ModeVBR, 8_000_000, true, nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	// The same 25% deviation that fails CBR is acceptable for VBR.
	prober := fakeProber{meta: &ffprobe.VideoMetadata{
		FrameRate: 29.97,
		BitRate:   6_000_000,
	}}

	result, err := Segment(context.Background(), prober, "out_part001.mp4", plan, 29.97)
	if err != nil {
		t.Fatalf("Segment() error = %v", err)
	}

	if !result.BitRateMatches {
		t.Errorf("BitRateMatches = false for VBR: %s", result.BitRateMessage)
	}
}

func TestSegment_FrameRateTarget(t *testing.T) {
	target := 30.0
	plan, err := encoder.Select(encoder.ModeVBR, 8_000_000, true, &target)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	tests := []struct {
		name    string
		sampled float64
		want    bool
	}{
		{"exact", 30.0, true},
		{"within half fps", 29.6, true},
		{"source rate instead of target", 25.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := fakeProber{meta: &ffprobe.VideoMetadata{
				FrameRate: tt.sampled,
				BitRate:   8_000_000,
			}}

			result, err := Segment(context.Background(), prober, "out.mp4", plan, 25.0)
			if err != nil {
				t.Fatalf("Segment() error = %v", err)
			}
			if result.FrameRateMatches != tt.want {
				t.Errorf("FrameRateMatches = %v, want %v (%s)",
					result.FrameRateMatches, tt.want, result.FrameRateMessage)
			}
			if result.TargetFrameRate != 30.0 {
				t.Errorf("TargetFrameRate = %v, want 30.0", result.TargetFrameRate)
			}
		})
	}
}

func TestSegment_ProbeErrorPropagates(t *testing.T) {
	plan, err := encoder.Select(encoder.ModeVBR, 1_000_000, false, nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	prober := fakeProber{err: errors.NewProbeError("unreadable", nil)}

	_, err = Segment(context.Background(), prober, "missing.mp4", plan, 30)
	if err == nil {
		t.Fatal("Segment() expected error, got nil")
	}
	if !errors.IsProbe(err) {
		t.Errorf("error = %v, want probe kind", err)
	}
}

func TestResultSteps(t *testing.T) {
	r := &Result{
		FrameRateMatches: true,
		BitRateMatches:   false,
		FrameRateMessage: "ok",
		BitRateMessage:   "off",
	}

	steps := r.Steps()
	if len(steps) != 2 {
		t.Fatalf("len(Steps()) = %d, want 2", len(steps))
	}
	if steps[0].Name != "Frame rate" || !steps[0].Passed {
		t.Errorf("steps[0] = %+v", steps[0])
	}
	if steps[1].Name != "Bit rate" || steps[1].Passed {
		t.Errorf("steps[1] = %+v", steps[1])
	}
}
