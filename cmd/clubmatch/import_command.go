package main

import (
	"github.com/spf13/cobra"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import FILE.csv",
		Short: "Import scraped club listings as pending records",
		Long: "Read a CSV with a name column and optional location and crest columns. " +
			"Rows that resolve to an existing club are reported; the rest are created as pending.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, true, func(sess *session) error {
				summary, err := sess.runner().Import(cmd.Context(), path, dryRun)
				return ctx.finishRun(cmd, summary, err)
			})
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would be created without writing")
	return cmd
}
