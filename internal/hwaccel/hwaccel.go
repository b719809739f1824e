// Package hwaccel detects hardware encoder availability on the host.
package hwaccel

import (
	"context"
	"os/exec"
	"strings"
	"sync"
)

// VideoToolboxEncoder is the ffmpeg encoder name for Apple VideoToolbox H.264.
const VideoToolboxEncoder = "h264_videotoolbox"

// Detector probes the external encoding tool for hardware encoder support.
// The probe runs at most once per Detector; absence of hardware is a normal
// outcome, never an error.
type Detector struct {
	once      sync.Once
	available bool
}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Available reports whether the hardware encoder is usable on this machine.
// The result is cached for the lifetime of the Detector.
func (d *Detector) Available(ctx context.Context) bool {
	d.once.Do(func() {
		d.available = probeEncoders(ctx)
	})
	return d.available
}

// probeEncoders asks ffmpeg for its compiled-in encoder list. Any failure
// (missing binary, non-zero exit) is treated as hardware not available.
func probeEncoders(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders")
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return listingHasEncoder(string(output), VideoToolboxEncoder)
}

// listingHasEncoder scans `ffmpeg -encoders` output for an encoder name.
// Encoder lines look like " V....D h264_videotoolbox  VideoToolbox H.264".
func listingHasEncoder(listing, name string) bool {
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == name {
			return true
		}
	}
	return false
}
