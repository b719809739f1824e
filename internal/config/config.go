// Package config provides configuration types and defaults for carve.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/carvekit/carve/internal/encoder"
	"github.com/carvekit/carve/internal/plan"
	"github.com/carvekit/carve/internal/util"
)

// Default constants
const (
	// DefaultMode is the rate-control mode applied when none is requested.
	DefaultMode = encoder.ModeVBR

	// OutputDirSuffix is appended to the source stem to form the default
	// output directory name.
	OutputDirSuffix = "_parts"

	// SegmentIndexDigits is the zero-padding width of segment numbers in
	// output filenames.
	SegmentIndexDigits = 3
)

// Config holds all configuration for a split run.
type Config struct {
	// Input/output paths
	InputPath string
	OutputDir string // empty derives "<stem>_parts" beside the input
	LogDir    string // empty derives "<OutputDir>/logs"

	// Split intent: exactly one of Segments / SegmentSecs must be set.
	Segments    int
	SegmentSecs float64

	// Encoding options
	Mode            encoder.RateControlMode
	TargetFrameRate float64 // 0 preserves the source frame rate

	// Processing options
	SegmentTimeoutSecs uint64 // 0 imposes no timeout on the external encode
	VerifyOutput       bool
}

// NewConfig creates a new Config with default values.
func NewConfig(inputPath string) *Config {
	return &Config{
		InputPath:    inputPath,
		Mode:         DefaultMode,
		VerifyOutput: true,
	}
}

// Intent returns the split intent described by the configuration.
func (c *Config) Intent() (plan.Intent, error) {
	switch {
	case c.Segments > 0 && c.SegmentSecs > 0:
		return nil, ErrConflictingIntent
	case c.Segments > 0:
		return plan.ByCount{Segments: c.Segments}, nil
	case c.SegmentSecs > 0:
		return plan.ByDuration{Seconds: c.SegmentSecs}, nil
	default:
		return nil, ErrNoIntent
	}
}

// TargetFPS returns the requested frame rate, or nil to preserve the source.
func (c *Config) TargetFPS() *float64 {
	if c.TargetFrameRate == 0 {
		return nil
	}
	fps := c.TargetFrameRate
	return &fps
}

// ResolvedOutputDir returns the output directory, deriving the
// "<stem>_parts" convention beside the input when none was set.
func (c *Config) ResolvedOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	dir := filepath.Dir(c.InputPath)
	return filepath.Join(dir, util.GetFileStem(c.InputPath)+OutputDirSuffix)
}

// ResolvedLogDir returns the log directory, defaulting under the output dir.
func (c *Config) ResolvedLogDir() string {
	if c.LogDir != "" {
		return c.LogDir
	}
	return filepath.Join(c.ResolvedOutputDir(), "logs")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return ErrMissingInput
	}

	if _, err := c.Intent(); err != nil {
		return err
	}
	if c.Segments < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSegmentCount, c.Segments)
	}
	if c.SegmentSecs < 0 {
		return fmt.Errorf("%w: got %.3f", ErrInvalidSegmentDuration, c.SegmentSecs)
	}

	switch c.Mode {
	case encoder.ModeCBR, encoder.ModeVBR:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	if c.TargetFrameRate < 0 {
		return fmt.Errorf("%w: got %.3f", ErrInvalidFrameRate, c.TargetFrameRate)
	}

	return nil
}
