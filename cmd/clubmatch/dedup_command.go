package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/dedup"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/reconcile"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/report"
)

func newDedupCommand(ctx *commandContext) *cobra.Command {
	dedupCmd := &cobra.Command{
		Use:   "dedup",
		Short: "Find and merge duplicate club records",
	}
	dedupCmd.AddCommand(newDedupScanCommand(ctx))
	dedupCmd.AddCommand(newDedupMergeCommand(ctx))
	dedupCmd.AddCommand(newDedupRulesCommand(ctx))
	return dedupCmd
}

func newDedupScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List duplicate and similar-name groups without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, false, func(sess *session) error {
				findings, err := sess.runner().Scan(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return report.WriteJSON(cmd.OutOrStdout(), findings)
				}
				fmt.Fprint(cmd.OutOrStdout(), renderFindings(findings))
				return nil
			})
		},
	}
}

func renderFindings(f reconcile.Findings) string {
	var b strings.Builder
	if len(f.Duplicates) == 0 {
		b.WriteString("No duplicates found.\n")
	} else {
		fmt.Fprintf(&b, "Duplicates (%d groups, merged by `clubmatch dedup merge`)\n", len(f.Duplicates))
		b.WriteString(report.RenderTable([]string{"Key", "Keeper", "Duplicates"}, groupRows(f.Duplicates)))
		b.WriteString("\n")
	}
	if len(f.Similar) > 0 {
		fmt.Fprintf(&b, "Similar names across locations (%d groups, review by hand)\n", len(f.Similar))
		b.WriteString(report.RenderTable([]string{"Name", "First", "Others"}, groupRows(f.Similar)))
		b.WriteString("\n")
	}
	return b.String()
}

func groupRows(groups []dedup.Group) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		keeper := g.Keeper()
		others := make([]string, 0, len(g.Members)-1)
		for _, m := range g.Members[1:] {
			others = append(others, clubRef(m.ID, m.Label()))
		}
		rows = append(rows, []string{g.Key, clubRef(keeper.ID, keeper.Label()), strings.Join(others, ", ")})
	}
	return rows
}

func clubRef(id int64, label string) string {
	return "#" + strconv.FormatInt(id, 10) + " " + label
}

func newDedupMergeCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge records that share a normalized name and location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, true, func(sess *session) error {
				summary, err := sess.runner().MergeDuplicates(cmd.Context(), dryRun)
				return ctx.finishRun(cmd, summary, err)
			})
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would change without writing")
	return cmd
}

func newDedupRulesCommand(ctx *commandContext) *cobra.Command {
	var file string
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Apply curated canonical/variant merge rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(file)
			if path != "" {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return err
				}
				path = expanded
			}
			return ctx.withSession(cmd, true, func(sess *session) error {
				summary, err := sess.runner().ApplyRules(cmd.Context(), path, dryRun)
				return ctx.finishRun(cmd, summary, err)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Rules file (defaults to dedup.rules_path)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would change without writing")
	return cmd
}
