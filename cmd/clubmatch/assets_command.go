package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage club crest assets",
	}
	assetsCmd.AddCommand(newAssetsAssignCommand(ctx))
	return assetsCmd
}

func newAssetsAssignCommand(ctx *commandContext) *cobra.Command {
	var source string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Link asset files to the clubs they name",
		Long: "Scan the asset source directory, resolve each file name to a club, " +
			"copy matched files into the asset store, and record the reference on the club.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := strings.TrimSpace(source)
			if dir != "" {
				expanded, err := config.ExpandPath(dir)
				if err != nil {
					return err
				}
				dir = expanded
			}
			return ctx.withSession(cmd, true, func(sess *session) error {
				summary, err := sess.runner().AssignAssets(cmd.Context(), dir, dryRun)
				return ctx.finishRun(cmd, summary, err)
			})
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Directory to scan (defaults to paths.asset_source_dir)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would change without writing")
	return cmd
}
