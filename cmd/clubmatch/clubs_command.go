package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/report"
)

func newClubsCommand(ctx *commandContext) *cobra.Command {
	clubsCmd := &cobra.Command{
		Use:   "clubs",
		Short: "Inspect club records",
	}
	clubsCmd.AddCommand(newClubsListCommand(ctx))
	return clubsCmd
}

func newClubsListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var nameFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List club records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := entity.Filter{Name: strings.TrimSpace(nameFlag)}
			if strings.TrimSpace(statusFlag) != "" {
				status, ok := entity.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q (want pending, approved, or rejected)", statusFlag)
				}
				filter.Status = status
			}
			return ctx.withSession(cmd, false, func(sess *session) error {
				clubs, err := sess.store.Find(cmd.Context(), filter)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if ctx.jsonOutput() {
					if clubs == nil {
						clubs = []entity.Entity{}
					}
					return report.WriteJSON(out, clubs)
				}
				if len(clubs) == 0 {
					fmt.Fprintln(out, "No clubs found.")
					return nil
				}
				fmt.Fprintln(out, report.RenderTable([]string{"ID", "Name", "Location", "Status", "Asset", "Added"}, clubRows(clubs)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&statusFlag, "status", "", "Only list clubs with this status")
	cmd.Flags().StringVar(&nameFlag, "name", "", "Only list clubs with this exact name (case-insensitive)")
	return cmd
}

func clubRows(clubs []entity.Entity) [][]string {
	rows := make([][]string, 0, len(clubs))
	for _, c := range clubs {
		added := ""
		if !c.CreatedAt.IsZero() {
			added = humanize.Time(c.CreatedAt)
		}
		rows = append(rows, []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Location,
			string(c.Status),
			c.AssetRef,
			added,
		})
	}
	return rows
}
