package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carvekit/carve/internal/config"
	"github.com/carvekit/carve/internal/encoder"
	"github.com/carvekit/carve/internal/logging"
	"github.com/carvekit/carve/internal/pipeline"
	"github.com/carvekit/carve/internal/reporter"
	"github.com/carvekit/carve/internal/util"
)

func newSplitCommand() *cobra.Command {
	var (
		segments    int
		duration    float64
		mode        string
		fps         float64
		timeoutSecs uint64
		outputDir   string
		logDir      string
		configPath  string
		noVerify    bool
		noLog       bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "split <input>",
		Short: "Split a video file into re-encoded segments",
		Long: `Split a video file into contiguous, uniformly encoded segments.

Exactly one of --segments or --duration selects how the source is divided.
Video is re-encoded at the source bit rate (CBR or VBR); audio is copied.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig(args[0])

			if configPath != "" {
				fileCfg, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				if err := fileCfg.Apply(cfg); err != nil {
					return err
				}
			}

			flags := cmd.Flags()
			if flags.Changed("segments") {
				cfg.Segments = segments
				cfg.SegmentSecs = 0
			}
			if flags.Changed("duration") {
				cfg.SegmentSecs = duration
				cfg.Segments = 0
			}
			if flags.Changed("mode") {
				parsed, err := encoder.ParseRateControlMode(mode)
				if err != nil {
					return err
				}
				cfg.Mode = parsed
			}
			if flags.Changed("fps") {
				cfg.TargetFrameRate = fps
			}
			if flags.Changed("timeout") {
				cfg.SegmentTimeoutSecs = timeoutSecs
			}
			if flags.Changed("output") {
				cfg.OutputDir = outputDir
			}
			if flags.Changed("log-dir") {
				cfg.LogDir = logDir
			}
			if noVerify {
				cfg.VerifyOutput = false
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.Setup(cfg.ResolvedLogDir(), verbose, noLog)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Close() }()

			rep := reporter.NewTerminalReporter()
			if logger != nil {
				rep.Verbose(fmt.Sprintf("Run log: %s", logger.FilePath()))
			}
			runner := pipeline.NewRunner()

			ctx := cmd.Context()

			rc, err := runner.Prepare(ctx, cfg, rep, logger)
			if err != nil {
				logger.Error("Preparation failed: %v", err)
				return err
			}

			if verbose {
				fmt.Println()
				fmt.Println(renderSegmentTable(rc))
			}

			if _, err := runner.Run(ctx, rc, rep, logger); err != nil {
				logger.Error("Run failed: %v", err)
				return err
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&segments, "segments", "n", 0, "Split into a fixed number of segments")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Split into segments of this length in seconds")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(config.DefaultMode), "Rate-control mode: cbr or vbr")
	cmd.Flags().Float64Var(&fps, "fps", 0, "Output frame rate (default preserves the source rate)")
	cmd.Flags().Uint64Var(&timeoutSecs, "timeout", 0, "Per-segment encode timeout in seconds (0 disables)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Segment output directory (default <name>_parts beside the input)")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "Log directory (default OUTPUT/logs)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration file path")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip first-segment output verification")
	cmd.Flags().BoolVar(&noLog, "no-log", false, "Disable the run log file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

// renderSegmentTable lists every planned segment with its time window.
func renderSegmentTable(rc *pipeline.RunContext) string {
	headers := []string{"#", "Start", "Duration", "Output"}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignLeft}

	stem := util.GetFileStem(rc.Config.InputPath)
	rows := make([][]string, 0, len(rc.Ranges))
	for _, rng := range rc.Ranges {
		rows = append(rows, []string{
			fmt.Sprintf("%d", rng.Index),
			util.FormatDuration(rng.StartSecs),
			util.FormatDuration(rng.DurationSecs),
			fmt.Sprintf("%s_part%0*d", stem, config.SegmentIndexDigits, rng.Index),
		})
	}

	return renderTable(headers, rows, aligns)
}
