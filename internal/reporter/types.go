// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// HardwareSummary contains host and encoder availability information.
type HardwareSummary struct {
	Hostname          string
	HardwareEncoder   string
	HardwareAvailable bool
}

// SourceSummary describes the probed input before splitting starts.
type SourceSummary struct {
	InputFile        string
	OutputDir        string
	Duration         string
	Resolution       string
	FrameRate        string
	BitRate          string
	BitRateEstimated bool
}

// PlanSummary describes the computed segment plan.
type PlanSummary struct {
	Intent       string
	SegmentCount int
	TotalSecs    float64
}

// EncoderConfigSummary contains the selected encoder parameters.
type EncoderConfigSummary struct {
	Codec      string
	Mode       string
	Preset     string
	FrameRate  string
	TargetRate string
	MinRate    string
	MaxRate    string
	BufferSize string
	AudioCodec string
}

// SegmentStartInfo identifies the segment about to be encoded.
type SegmentStartInfo struct {
	Index        int
	Total        int
	OutputFile   string
	StartSecs    float64
	DurationSecs float64
}

// ProgressSnapshot contains encoding progress for the current segment.
type ProgressSnapshot struct {
	Percent float32
	Speed   float32
	FPS     float32
	ETA     time.Duration
	Bitrate string
}

// SegmentOutcome contains per-segment completion information.
type SegmentOutcome struct {
	Index      int
	Total      int
	OutputFile string
	Size       uint64
	Elapsed    time.Duration
}

// VerificationStep represents a single verification check.
type VerificationStep struct {
	Name    string
	Passed  bool
	Details string
}

// VerificationSummary contains first-segment verification results.
type VerificationSummary struct {
	OutputFile string
	Passed     bool
	Steps      []VerificationStep
}

// RunOutcome contains final split results.
type RunOutcome struct {
	InputFile    string
	OutputDir    string
	SegmentCount int
	TotalSize    uint64
	TotalTime    time.Duration
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}
