package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/carvekit/carve/internal/util"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu         sync.Mutex
	progress   *progressbar.ProgressBar
	maxPercent float32
	isTTY      bool
	cyan       *color.Color
	green      *color.Color
	yellow     *color.Color
	red        *color.Color
	magenta    *color.Color
	bold       *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		isTTY:   isatty.IsTerminal(os.Stderr.Fd()),
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) Hardware(summary HardwareSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("HARDWARE")
	r.printLabel(10, "Hostname:", summary.Hostname)
	status := color.New(color.Faint).Sprint("not available")
	if summary.HardwareAvailable {
		status = r.green.Sprint("available")
	}
	r.printLabel(10, "Encoder:", fmt.Sprintf("%s (%s)", summary.HardwareEncoder, status))
}

func (r *TerminalReporter) Source(summary SourceSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("SOURCE")
	r.printLabel(11, "File:", summary.InputFile)
	r.printLabel(11, "Output:", summary.OutputDir)
	r.printLabel(11, "Duration:", summary.Duration)
	r.printLabel(11, "Resolution:", summary.Resolution)
	r.printLabel(11, "Frame rate:", summary.FrameRate)
	bitRate := summary.BitRate
	if summary.BitRateEstimated {
		bitRate += " " + color.New(color.Faint).Sprint("(estimated)")
	}
	r.printLabel(11, "Bit rate:", bitRate)
}

func (r *TerminalReporter) Plan(summary PlanSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("PLAN")
	r.printLabel(10, "Intent:", summary.Intent)
	r.printLabel(10, "Segments:", fmt.Sprintf("%d", summary.SegmentCount))
	r.printLabel(10, "Total:", util.FormatDuration(summary.TotalSecs))
}

func (r *TerminalReporter) EncoderConfig(summary EncoderConfigSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("ENCODER")
	const w = 12
	r.printLabel(w, "Codec:", summary.Codec)
	r.printLabel(w, "Mode:", summary.Mode)
	if summary.Preset != "" {
		r.printLabel(w, "Preset:", summary.Preset)
	}
	r.printLabel(w, "Frame rate:", summary.FrameRate)
	if summary.TargetRate != "" {
		r.printLabel(w, "Target rate:", summary.TargetRate)
	}
	if summary.MinRate != "" {
		r.printLabel(w, "Min rate:", summary.MinRate)
	}
	if summary.MaxRate != "" {
		r.printLabel(w, "Max rate:", summary.MaxRate)
	}
	if summary.BufferSize != "" {
		r.printLabel(w, "Buffer:", summary.BufferSize)
	}
	r.printLabel(w, "Audio:", summary.AudioCodec)
}

func (r *TerminalReporter) SegmentStarted(info SegmentStartInfo) {
	r.finishProgress()

	fmt.Println()
	fmt.Printf("  %s Segment %s of %d -> %s (%s at %s)\n",
		r.magenta.Sprint("›"),
		r.bold.Sprint(info.Index),
		info.Total,
		util.GetFilename(info.OutputFile),
		util.FormatDuration(info.DurationSecs),
		util.FormatDuration(info.StartSecs))

	if !r.isTTY {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Encoding [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) SegmentProgress(progress ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}

	clamped := progress.Percent
	if clamped > 100 {
		clamped = 100
	}
	if clamped < 0 {
		clamped = 0
	}

	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}

	desc := fmt.Sprintf("speed %.1fx, fps %.1f, eta %s",
		progress.Speed, progress.FPS, util.FormatDurationFromSecs(int64(progress.ETA.Seconds())))
	r.progress.Describe(desc)
}

func (r *TerminalReporter) SegmentComplete(outcome SegmentOutcome) {
	r.finishProgress()

	fmt.Printf("  %s Segment %d of %d done: %s (%s, %s)\n",
		r.green.Sprint("✓"),
		outcome.Index,
		outcome.Total,
		util.GetFilename(outcome.OutputFile),
		util.FormatBytes(outcome.Size),
		util.FormatDurationFromSecs(int64(outcome.Elapsed.Seconds())))
}

func (r *TerminalReporter) VerificationComplete(summary VerificationSummary) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("VERIFICATION")
	r.printLabel(8, "File:", util.GetFilename(summary.OutputFile))

	if summary.Passed {
		fmt.Printf("  %s\n", r.green.Add(color.Bold).Sprint("All checks passed"))
	} else {
		fmt.Printf("  %s\n", r.yellow.Sprint("Output deviates from requested parameters"))
	}

	// Find the longest step name for alignment
	maxLen := 0
	for _, step := range summary.Steps {
		if len(step.Name) > maxLen {
			maxLen = len(step.Name)
		}
	}

	for _, step := range summary.Steps {
		var status string
		if step.Passed {
			status = r.green.Sprint("✓")
		} else {
			status = r.yellow.Sprint("!")
		}
		paddedName := fmt.Sprintf("%-*s", maxLen, step.Name)
		fmt.Printf("  - %s: %s (%s)\n", paddedName, status, step.Details)
	}
}

func (r *TerminalReporter) RunComplete(outcome RunOutcome) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")
	r.printLabel(9, "Input:", outcome.InputFile)
	r.printLabel(9, "Segments:", fmt.Sprintf("%d", outcome.SegmentCount))
	r.printLabel(9, "Size:", util.FormatBytes(outcome.TotalSize))
	fmt.Printf("  %s %s\n", r.bold.Sprint("Time:"), util.FormatDurationFromSecs(int64(outcome.TotalTime.Seconds())))
	fmt.Printf("  %s %s\n", r.bold.Sprint("Saved to"), r.green.Sprint(outcome.OutputDir))
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.finishProgress()

	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) Verbose(message string) {
	fmt.Printf("  %s\n", color.New(color.Faint).Sprint(message))
}
