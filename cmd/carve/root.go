package main

import (
	"github.com/spf13/cobra"
)

const (
	appName    = "carve"
	appVersion = "0.1.0"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Split video files into uniformly re-encoded segments",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newSplitCommand())
	rootCmd.AddCommand(newProbeCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
