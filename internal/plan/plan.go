// Package plan converts a splitting intent into ordered segment time ranges.
package plan

import (
	"fmt"
	"math"

	"github.com/carvekit/carve/internal/errors"
)

// Intent describes how a source should be split. Exactly one concrete
// variant is active per run: ByCount or ByDuration.
type Intent interface {
	isIntent()

	// Describe returns a short human-readable form of the intent.
	Describe() string
}

// ByCount splits the source into a fixed number of segments.
type ByCount struct {
	Segments int
}

func (ByCount) isIntent() {}

func (i ByCount) Describe() string {
	return fmt.Sprintf("%d segments", i.Segments)
}

// ByDuration splits the source into segments of a fixed duration.
type ByDuration struct {
	Seconds float64
}

func (ByDuration) isIntent() {}

func (i ByDuration) Describe() string {
	return fmt.Sprintf("%.2fs per segment", i.Seconds)
}

// SegmentRange is one contiguous time range of the source. Ranges are
// 1-based, contiguous, and non-overlapping; their durations sum to the
// source duration.
type SegmentRange struct {
	Index        int
	StartSecs    float64
	DurationSecs float64
}

// Split computes the ordered segment ranges for a source of the given
// duration. The rounding policy for ByCount is exact float division with
// the remainder absorbed into the final range, so durations always sum to
// the source duration. For ByDuration the final range carries whatever is
// left, which may be arbitrarily short but is still emitted.
func Split(durationSecs float64, intent Intent) ([]SegmentRange, error) {
	if durationSecs <= 0 {
		return nil, errors.NewInvalidIntentError(
			fmt.Sprintf("source duration must be positive, got %.3f", durationSecs))
	}

	switch it := intent.(type) {
	case ByCount:
		return splitByCount(durationSecs, it.Segments)
	case ByDuration:
		return splitByDuration(durationSecs, it.Seconds)
	default:
		return nil, errors.NewInvalidIntentError("no split intent supplied")
	}
}

func splitByCount(durationSecs float64, n int) ([]SegmentRange, error) {
	if n < 1 {
		return nil, errors.NewInvalidIntentError(
			fmt.Sprintf("segment count must be at least 1, got %d", n))
	}

	per := durationSecs / float64(n)
	ranges := make([]SegmentRange, n)
	start := 0.0
	for i := 0; i < n; i++ {
		dur := per
		if i == n-1 {
			// Absorb floating-point remainder so durations sum exactly.
			dur = durationSecs - start
		}
		ranges[i] = SegmentRange{Index: i + 1, StartSecs: start, DurationSecs: dur}
		start += dur
	}
	return ranges, nil
}

func splitByDuration(durationSecs, d float64) ([]SegmentRange, error) {
	if d <= 0 {
		return nil, errors.NewInvalidIntentError(
			fmt.Sprintf("segment duration must be positive, got %.3f", d))
	}

	count := int(math.Ceil(durationSecs / d))
	ranges := make([]SegmentRange, count)
	start := 0.0
	for i := 0; i < count; i++ {
		dur := d
		if i == count-1 {
			dur = durationSecs - start
		}
		ranges[i] = SegmentRange{Index: i + 1, StartSecs: start, DurationSecs: dur}
		start += dur
	}
	return ranges, nil
}

// TotalDuration returns the sum of all range durations.
func TotalDuration(ranges []SegmentRange) float64 {
	var total float64
	for _, r := range ranges {
		total += r.DurationSecs
	}
	return total
}
