// Package encoder selects concrete encoder parameters for a split run.
package encoder

import (
	"fmt"
	"strings"

	"github.com/carvekit/carve/internal/errors"
	"github.com/carvekit/carve/internal/hwaccel"
)

// Codec identifiers passed to the external encoding tool.
const (
	// SoftwareCodec is the software H.264 encoder.
	SoftwareCodec = "libx264"
	// HardwareCodec is the VideoToolbox hardware H.264 encoder.
	HardwareCodec = hwaccel.VideoToolboxEncoder
)

// Compression presets for the software encoder.
const (
	// CBRPreset maximizes rate accuracy at the cost of speed.
	CBRPreset = "veryslow"
	// VBRPreset is the balanced software preset for average-bit-rate encodes.
	VBRPreset = "medium"
)

// RateControlMode selects how output bit rate is managed.
type RateControlMode string

const (
	// ModeCBR targets an exact constant bit rate.
	ModeCBR RateControlMode = "cbr"
	// ModeVBR targets an average bit rate, allowing local excursions.
	ModeVBR RateControlMode = "vbr"
)

// ParseRateControlMode parses a string into a RateControlMode.
func ParseRateControlMode(s string) (RateControlMode, error) {
	switch strings.ToLower(s) {
	case "cbr":
		return ModeCBR, nil
	case "vbr":
		return ModeVBR, nil
	default:
		return "", errors.NewUnsupportedModeError(s)
	}
}

// String returns the string representation of the mode.
func (m RateControlMode) String() string {
	return string(m)
}

// RateControl holds the mode-specific rate parameters, all in bits per second.
// For CBR, MinBitRate == MaxBitRate == TargetBitRate and BufferSize is set;
// for VBR only TargetBitRate is meaningful.
type RateControl struct {
	TargetBitRate       uint64
	MinBitRate          uint64
	MaxBitRate          uint64
	BufferSize          uint64
	ConstantFrameTiming bool
}

// Plan is the fully-selected encoder configuration for a run. It is computed
// once and reused for every segment; only the time range differs per segment.
type Plan struct {
	Codec       string
	UseHardware bool
	Preset      string // empty for the hardware path
	Mode        RateControlMode
	RateControl RateControl

	// TargetFrameRate is nil when the source frame rate is preserved.
	TargetFrameRate *float64
}

// EffectiveFrameRate returns the frame rate the encode will produce:
// the explicit target when one was requested, otherwise the source rate.
func (p *Plan) EffectiveFrameRate(sourceFrameRate float64) float64 {
	if p.TargetFrameRate != nil {
		return *p.TargetFrameRate
	}
	return sourceFrameRate
}

// Describe returns a short human-readable encoder description.
func (p *Plan) Describe() string {
	if p.UseHardware {
		return fmt.Sprintf("%s (hardware)", p.Codec)
	}
	return fmt.Sprintf("%s (software)", p.Codec)
}

// Select produces the encoder configuration for the given rate-control mode.
//
// CBR always takes the software path regardless of hardware availability:
// the hardware encoder cannot guarantee strict rate adherence, and CBR
// trades speed for rate accuracy. VBR uses hardware when available and
// falls back to the software average-bit-rate path otherwise. Audio is
// stream-copied in every mode.
func Select(mode RateControlMode, sourceBitRate uint64, hardwareAvailable bool, targetFrameRate *float64) (*Plan, error) {
	plan := &Plan{
		Mode:            mode,
		TargetFrameRate: targetFrameRate,
	}

	switch mode {
	case ModeCBR:
		plan.Codec = SoftwareCodec
		plan.UseHardware = false
		plan.Preset = CBRPreset
		plan.RateControl = RateControl{
			TargetBitRate:       sourceBitRate,
			MinBitRate:          sourceBitRate,
			MaxBitRate:          sourceBitRate,
			BufferSize:          sourceBitRate / 8,
			ConstantFrameTiming: true,
		}
	case ModeVBR:
		plan.RateControl = RateControl{TargetBitRate: sourceBitRate}
		if hardwareAvailable {
			plan.Codec = HardwareCodec
			plan.UseHardware = true
		} else {
			plan.Codec = SoftwareCodec
			plan.UseHardware = false
			plan.Preset = VBRPreset
		}
	default:
		return nil, errors.NewUnsupportedModeError(string(mode))
	}

	return plan, nil
}
