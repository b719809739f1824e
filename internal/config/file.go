package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/carvekit/carve/internal/encoder"
	"github.com/carvekit/carve/internal/errors"
)

// FileConfig mirrors the optional carve.toml file. Every field is optional;
// zero values leave the corresponding Config field untouched, so explicit
// CLI flags keep precedence over file values applied first.
type FileConfig struct {
	Mode               string  `toml:"mode"`
	Segments           int     `toml:"segments"`
	SegmentSecs        float64 `toml:"segment_duration"`
	TargetFrameRate    float64 `toml:"target_fps"`
	SegmentTimeoutSecs uint64  `toml:"segment_timeout_secs"`
	Verify             *bool   `toml:"verify"`
	OutputDir          string  `toml:"output_dir"`
	LogDir             string  `toml:"log_dir"`
}

// LoadFile reads and parses a TOML configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file %s: %v", path, err))
	}

	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file %s: %v", path, err))
	}

	return &fc, nil
}

// Apply copies the file's non-zero values onto the config.
func (fc *FileConfig) Apply(c *Config) error {
	if fc.Mode != "" {
		mode, err := encoder.ParseRateControlMode(fc.Mode)
		if err != nil {
			return err
		}
		c.Mode = mode
	}
	if fc.Segments != 0 {
		c.Segments = fc.Segments
	}
	if fc.SegmentSecs != 0 {
		c.SegmentSecs = fc.SegmentSecs
	}
	if fc.TargetFrameRate != 0 {
		c.TargetFrameRate = fc.TargetFrameRate
	}
	if fc.SegmentTimeoutSecs != 0 {
		c.SegmentTimeoutSecs = fc.SegmentTimeoutSecs
	}
	if fc.Verify != nil {
		c.VerifyOutput = *fc.Verify
	}
	if fc.OutputDir != "" {
		c.OutputDir = fc.OutputDir
	}
	if fc.LogDir != "" {
		c.LogDir = fc.LogDir
	}
	return nil
}
