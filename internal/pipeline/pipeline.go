// Package pipeline orchestrates a full split run: probe, plan, encoder
// selection, sequential segment encoding, and output verification.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/carvekit/carve/internal/config"
	"github.com/carvekit/carve/internal/encoder"
	"github.com/carvekit/carve/internal/errors"
	"github.com/carvekit/carve/internal/ffmpeg"
	"github.com/carvekit/carve/internal/ffprobe"
	"github.com/carvekit/carve/internal/hwaccel"
	"github.com/carvekit/carve/internal/logging"
	"github.com/carvekit/carve/internal/plan"
	"github.com/carvekit/carve/internal/reporter"
	"github.com/carvekit/carve/internal/util"
	"github.com/carvekit/carve/internal/verify"
)

// RunContext holds everything a split run needs. It is assembled once by
// Prepare and treated as read-only afterwards.
type RunContext struct {
	Config            *config.Config
	Metadata          *ffprobe.VideoMetadata
	Ranges            []plan.SegmentRange
	Plan              *encoder.Plan
	OutputDir         string
	HardwareAvailable bool
}

// SegmentResult describes one produced segment file.
type SegmentResult struct {
	Index      int
	OutputPath string
	Size       uint64
	Elapsed    time.Duration
}

// RunResult contains the outcome of a completed split run.
type RunResult struct {
	Segments     []SegmentResult
	Verification *verify.Result
	TotalSize    uint64
	TotalTime    time.Duration
}

// segmentRunner matches ffmpeg.RunSegment and exists so tests can substitute
// the external process invocation.
type segmentRunner func(ctx context.Context, job *ffmpeg.SegmentJob, callback ffmpeg.ProgressCallback) ffmpeg.Result

// Runner executes split runs.
type Runner struct {
	runSegment     segmentRunner
	prober         verify.Prober
	detectHardware func(ctx context.Context) bool
}

// NewRunner creates a Runner backed by the real ffmpeg and ffprobe binaries.
func NewRunner() *Runner {
	detector := hwaccel.NewDetector()
	return &Runner{
		runSegment:     ffmpeg.RunSegment,
		prober:         verify.FFprobeProber{},
		detectHardware: detector.Available,
	}
}

// Prepare validates the configuration, probes the source, detects hardware
// availability, plans segment ranges, and selects encoder parameters.
func (r *Runner) Prepare(ctx context.Context, cfg *config.Config, rep reporter.Reporter, logger *logging.Logger) (*RunContext, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !util.FileExists(cfg.InputPath) {
		return nil, errors.NewPathError(fmt.Sprintf("input file does not exist: %s", cfg.InputPath))
	}
	if !util.IsVideoFile(cfg.InputPath) {
		msg := fmt.Sprintf("%s does not have a recognized video extension", util.GetFilename(cfg.InputPath))
		rep.Warning(msg)
		logger.Warn(msg)
	}

	intent, err := cfg.Intent()
	if err != nil {
		return nil, err
	}

	meta, err := r.prober.ProbeVideo(ctx, cfg.InputPath)
	if err != nil {
		rep.Error(reporter.ReporterError{
			Title:      "Probe Error",
			Message:    fmt.Sprintf("Could not analyze %s: %v", util.GetFilename(cfg.InputPath), err),
			Context:    fmt.Sprintf("File: %s", cfg.InputPath),
			Suggestion: "Check if the file is a valid video format and ffprobe is installed",
		})
		return nil, err
	}
	logger.Info("Probed %s: %s, %.3f fps, %s, %s",
		cfg.InputPath, meta.Resolution(), meta.FrameRate,
		util.FormatBitrate(meta.BitRate), util.FormatDuration(meta.DurationSecs))

	if meta.BitRateEstimated {
		msg := fmt.Sprintf("Source bit rate unavailable, assuming %s", util.FormatBitrate(ffprobe.DefaultBitRate))
		rep.Warning(msg)
		logger.Warn(msg)
	}

	// Detection always runs so the hardware summary reflects the host, even
	// on the constant-rate path where Select never picks the hardware codec.
	hardwareAvailable := r.detectHardware(ctx)

	sysInfo := util.GetSystemInfo()
	rep.Hardware(reporter.HardwareSummary{
		Hostname:          sysInfo.Hostname,
		HardwareEncoder:   hwaccel.VideoToolboxEncoder,
		HardwareAvailable: hardwareAvailable,
	})
	logger.Info("Hardware encoder %s available: %t", hwaccel.VideoToolboxEncoder, hardwareAvailable)
	logger.Debug("Host %s (%s/%s, %d CPUs)", sysInfo.Hostname, sysInfo.OS, sysInfo.Arch, sysInfo.NumCPU)

	ranges, err := plan.Split(meta.DurationSecs, intent)
	if err != nil {
		return nil, err
	}

	encPlan, err := encoder.Select(cfg.Mode, meta.BitRate, hardwareAvailable, cfg.TargetFPS())
	if err != nil {
		return nil, err
	}

	outputDir := cfg.ResolvedOutputDir()

	rep.Source(reporter.SourceSummary{
		InputFile:        util.GetFilename(cfg.InputPath),
		OutputDir:        outputDir,
		Duration:         util.FormatDuration(meta.DurationSecs),
		Resolution:       meta.Resolution(),
		FrameRate:        fmt.Sprintf("%.3f fps", meta.FrameRate),
		BitRate:          util.FormatBitrate(meta.BitRate),
		BitRateEstimated: meta.BitRateEstimated,
	})

	rep.Plan(reporter.PlanSummary{
		Intent:       intent.Describe(),
		SegmentCount: len(ranges),
		TotalSecs:    plan.TotalDuration(ranges),
	})

	rep.EncoderConfig(encoderConfigSummary(encPlan, meta))
	logger.Info("Encoder: %s", encPlan.Describe())
	logger.Info("Planned %d segments (%s)", len(ranges), intent.Describe())

	return &RunContext{
		Config:            cfg,
		Metadata:          meta,
		Ranges:            ranges,
		Plan:              encPlan,
		OutputDir:         outputDir,
		HardwareAvailable: hardwareAvailable,
	}, nil
}

// Run encodes every planned segment sequentially, stopping at the first
// failure. Already-produced segments are left on disk. When verification is
// enabled the first segment is re-probed and compared to the plan; a
// mismatch is reported but does not fail the run.
func (r *Runner) Run(ctx context.Context, rc *RunContext, rep reporter.Reporter, logger *logging.Logger) (*RunResult, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	startTime := time.Now()
	cfg := rc.Config

	if util.DirectoryExists(rc.OutputDir) {
		logger.Warn("Output directory %s already exists, existing segments will be overwritten", rc.OutputDir)
	}
	if err := util.EnsureDirectory(rc.OutputDir); err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("failed to create output directory %s", rc.OutputDir), err)
	}

	stem := util.GetFileStem(cfg.InputPath)
	ext := filepath.Ext(cfg.InputPath)
	total := len(rc.Ranges)

	result := &RunResult{}

	for _, rng := range rc.Ranges {
		if ctx.Err() != nil {
			logger.Warn("Run cancelled before segment %d", rng.Index)
			return nil, errors.NewCancelledError()
		}

		outputPath := segmentOutputPath(rc.OutputDir, stem, rng.Index, ext)

		rep.SegmentStarted(reporter.SegmentStartInfo{
			Index:        rng.Index,
			Total:        total,
			OutputFile:   outputPath,
			StartSecs:    rng.StartSecs,
			DurationSecs: rng.DurationSecs,
		})
		logger.Info("Segment %d/%d: start=%.3fs duration=%.3fs -> %s",
			rng.Index, total, rng.StartSecs, rng.DurationSecs, outputPath)

		job := &ffmpeg.SegmentJob{
			InputPath:    cfg.InputPath,
			OutputPath:   outputPath,
			StartSecs:    rng.StartSecs,
			DurationSecs: rng.DurationSecs,
			Width:        rc.Metadata.Width,
			Height:       rc.Metadata.Height,
			FrameRate:    rc.Plan.EffectiveFrameRate(rc.Metadata.FrameRate),
			Plan:         rc.Plan,
		}

		segCtx := ctx
		cancel := context.CancelFunc(func() {})
		if cfg.SegmentTimeoutSecs > 0 {
			segCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.SegmentTimeoutSecs)*time.Second)
		}

		segStart := time.Now()
		encResult := r.runSegment(segCtx, job, func(progress ffmpeg.Progress) {
			rep.SegmentProgress(reporter.ProgressSnapshot{
				Percent: progress.Percent,
				Speed:   progress.Speed,
				FPS:     progress.FPS,
				ETA:     progress.ETA,
				Bitrate: progress.Bitrate,
			})
		})
		cancel()

		if !encResult.Success {
			if errors.IsCancelled(encResult.Error) && ctx.Err() != nil {
				logger.Warn("Segment %d cancelled", rng.Index)
				return nil, encResult.Error
			}
			rep.Error(reporter.ReporterError{
				Title:      "Encoding Error",
				Message:    fmt.Sprintf("FFmpeg failed on segment %d: %v", rng.Index, encResult.Error),
				Context:    fmt.Sprintf("Output: %s", outputPath),
				Suggestion: "Check the run log for the full ffmpeg output",
			})
			logger.Error("Segment %d failed: %v", rng.Index, encResult.Error)
			return nil, errors.NewEncodeError(rng.Index, encResult.Error)
		}

		size, err := util.GetFileSize(outputPath)
		if err != nil {
			logger.Warn("Could not stat %s: %v", outputPath, err)
		}

		result.Segments = append(result.Segments, SegmentResult{
			Index:      rng.Index,
			OutputPath: outputPath,
			Size:       size,
			Elapsed:    time.Since(segStart),
		})
		result.TotalSize += size

		rep.SegmentComplete(reporter.SegmentOutcome{
			Index:      rng.Index,
			Total:      total,
			OutputFile: outputPath,
			Size:       size,
			Elapsed:    time.Since(segStart),
		})
		logger.Info("Segment %d/%d complete: %s (%s)", rng.Index, total, outputPath, util.FormatBytes(size))
	}

	if cfg.VerifyOutput && len(result.Segments) > 0 {
		first := result.Segments[0]
		verification, err := verify.Segment(ctx, r.prober, first.OutputPath, rc.Plan, rc.Metadata.FrameRate)
		if err != nil {
			msg := fmt.Sprintf("Could not verify %s: %v", util.GetFilename(first.OutputPath), err)
			rep.Warning(msg)
			logger.Warn(msg)
		} else {
			result.Verification = verification
			rep.VerificationComplete(verificationSummary(first.OutputPath, verification))
			logger.Info("Verification of %s passed=%t", first.OutputPath, verification.Passed())
			if !verification.Passed() {
				for _, step := range verification.Steps() {
					if !step.Passed {
						logger.Warn("Verification: %s: %s", step.Name, step.Details)
					}
				}
			}
		}
	}

	result.TotalTime = time.Since(startTime)

	rep.RunComplete(reporter.RunOutcome{
		InputFile:    util.GetFilename(cfg.InputPath),
		OutputDir:    rc.OutputDir,
		SegmentCount: len(result.Segments),
		TotalSize:    result.TotalSize,
		TotalTime:    result.TotalTime,
	})
	logger.Info("Run complete: %d segments, %s total, %s elapsed",
		len(result.Segments), util.FormatBytes(result.TotalSize),
		util.FormatDurationFromSecs(int64(result.TotalTime.Seconds())))

	return result, nil
}

// segmentOutputPath builds the output filename for one segment, preserving
// the source extension.
func segmentOutputPath(outputDir, stem string, index int, ext string) string {
	name := fmt.Sprintf("%s_part%0*d%s", stem, config.SegmentIndexDigits, index, ext)
	return filepath.Join(outputDir, name)
}

func encoderConfigSummary(p *encoder.Plan, meta *ffprobe.VideoMetadata) reporter.EncoderConfigSummary {
	summary := reporter.EncoderConfigSummary{
		Codec:      p.Codec,
		Mode:       p.Mode.String(),
		Preset:     p.Preset,
		FrameRate:  fmt.Sprintf("%.3f fps", p.EffectiveFrameRate(meta.FrameRate)),
		TargetRate: util.FormatBitrate(p.RateControl.TargetBitRate),
		AudioCodec: "copy",
	}
	if p.RateControl.MinBitRate > 0 {
		summary.MinRate = util.FormatBitrate(p.RateControl.MinBitRate)
	}
	if p.RateControl.MaxBitRate > 0 {
		summary.MaxRate = util.FormatBitrate(p.RateControl.MaxBitRate)
	}
	if p.RateControl.BufferSize > 0 {
		summary.BufferSize = fmt.Sprintf("%d bits", p.RateControl.BufferSize)
	}
	return summary
}

func verificationSummary(outputPath string, v *verify.Result) reporter.VerificationSummary {
	summary := reporter.VerificationSummary{
		OutputFile: outputPath,
		Passed:     v.Passed(),
	}
	for _, step := range v.Steps() {
		summary.Steps = append(summary.Steps, reporter.VerificationStep{
			Name:    step.Name,
			Passed:  step.Passed,
			Details: step.Details,
		})
	}
	return summary
}
