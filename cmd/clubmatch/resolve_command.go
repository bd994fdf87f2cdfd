package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/reconcile"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/report"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "resolve QUERY",
		Short: "Explain how a name or file name resolves to a club",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errNoQuery
			}
			return ctx.withSession(cmd, false, func(sess *session) error {
				out, err := sess.runner().Explain(cmd.Context(), query)
				if err != nil && !entity.IsExpected(err) {
					return err
				}
				if ctx.jsonOutput() {
					if werr := report.WriteJSON(cmd.OutOrStdout(), out); werr != nil {
						return werr
					}
				} else {
					fmt.Fprint(cmd.OutOrStdout(), renderExplanation(out, limit))
				}
				return err
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of ranked candidates to show")
	return cmd
}

func renderExplanation(e reconcile.Explanation, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n", e.Query)
	fmt.Fprintf(&b, "Key:   %q\n", e.Key)
	switch {
	case e.TooGeneric:
		b.WriteString("Result: too generic to match\n")
		return b.String()
	case e.Best == nil:
		fmt.Fprintf(&b, "Result: no match (best score %d)\n", e.Score)
	case !e.Confident:
		fmt.Fprintf(&b, "Result: %s, score %d, rejected by the overlap gate\n", clubRef(e.Best.ID, e.Best.Label()), e.Score)
	default:
		fmt.Fprintf(&b, "Result: %s, score %d\n", clubRef(e.Best.ID, e.Best.Label()), e.Score)
	}
	if len(e.Ranked) == 0 {
		return b.String()
	}
	ranked := e.Ranked
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	rows := make([][]string, 0, len(ranked))
	for i, s := range ranked {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(s.Entity.ID, 10),
			s.Entity.Name,
			s.Entity.Location,
			strconv.Itoa(s.Score),
		})
	}
	b.WriteString(report.RenderTable([]string{"#", "ID", "Club", "Location", "Score"}, rows))
	b.WriteString("\n")
	if hidden := len(e.Ranked) - len(ranked); hidden > 0 {
		fmt.Fprintf(&b, "(%d more candidates not shown)\n", hidden)
	}
	return b.String()
}

// errNoQuery guards against a whitespace-only query.
var errNoQuery = errors.New("query is empty")
