package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "logs [RUN_ID]",
		Short: "Show the log of the latest run, or of the run with the given ID",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			run, err := logs.Locate(cfg.Paths.LogDir, runID)
			if err != nil {
				return err
			}
			content, err := logs.LastLines(run.Path, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s started %s (%s)\n", run.RunID, humanize.Time(run.StartedAt), humanize.Bytes(uint64(run.Size)))
			for _, line := range content {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "Number of trailing lines to show (0 for all)")
	return cmd
}
