package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carvekit/carve/internal/ffprobe"
	"github.com/carvekit/carve/internal/util"
)

func newProbeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "probe <input>",
		Short:        "Print the video metadata used for split planning",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := ffprobe.ProbeVideo(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			bitRate := util.FormatBitrate(meta.BitRate)
			if meta.BitRateEstimated {
				bitRate += " (estimated)"
			}

			rows := [][]string{
				{"Codec", meta.CodecName},
				{"Resolution", meta.Resolution()},
				{"Frame rate", fmt.Sprintf("%.3f fps", meta.FrameRate)},
				{"Bit rate", bitRate},
				{"Duration", util.FormatDuration(meta.DurationSecs)},
			}

			fmt.Println(renderTable(
				[]string{"Field", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	return cmd
}
