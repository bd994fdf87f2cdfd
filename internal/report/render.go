package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// ShouldColorize reports whether w is a terminal.
func ShouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type palette struct {
	header  *color.Color
	ok      *color.Color
	warn    *color.Color
	bad     *color.Color
	neutral *color.Color
}

func newPalette(colorize bool) palette {
	p := palette{
		header:  color.New(color.FgBlue, color.Bold),
		ok:      color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed),
		neutral: color.New(color.Reset),
	}
	for _, c := range []*color.Color{p.header, p.ok, p.warn, p.bad, p.neutral} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) forStatus(s Status) *color.Color {
	switch s {
	case StatusMatched, StatusMerged, StatusRenamed:
		return p.ok
	case StatusSkipped, StatusUnmatched:
		return p.warn
	case StatusError:
		return p.bad
	default:
		return p.neutral
	}
}

// Render writes the human-readable summary.
func Render(w io.Writer, s Summary, colorize bool) error {
	p := newPalette(colorize)
	var b strings.Builder

	title := fmt.Sprintf("== %s ==", s.Command)
	if s.DryRun {
		title = fmt.Sprintf("== %s (dry run) ==", s.Command)
	}
	b.WriteString(p.header.Sprint(title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Run %s finished in %s\n", shortRunID(s.RunID), s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))

	counts := [][]string{
		{string(StatusMatched), strconv.Itoa(s.Counts.Matched)},
		{string(StatusSkipped), strconv.Itoa(s.Counts.Skipped)},
		{string(StatusUnmatched), strconv.Itoa(s.Counts.Unmatched)},
		{string(StatusMerged), strconv.Itoa(s.Counts.Merged)},
		{string(StatusRenamed), strconv.Itoa(s.Counts.Renamed)},
		{"errors", strconv.Itoa(s.Counts.Errors)},
	}
	b.WriteString(renderTable([]string{"Outcome", "Count"}, counts, []columnAlignment{alignLeft, alignRight}))
	b.WriteString("\n")

	switch {
	case s.UnresolvedTotal == 0:
		b.WriteString(p.ok.Sprint("Nothing left to resolve."))
		b.WriteString("\n")
	case s.Itemized():
		b.WriteString(p.header.Sprint("Unresolved"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(s.Unresolved))
		for _, item := range s.Unresolved {
			rows = append(rows, []string{
				item.Subject,
				p.forStatus(item.Status).Sprint(item.Outcome),
				item.Entity,
				item.Detail,
			})
		}
		b.WriteString(renderTable([]string{"Subject", "Outcome", "Club", "Detail"}, rows, nil))
		b.WriteString("\n")
	default:
		b.WriteString(p.warn.Sprintf("%d unresolved items; too many to list, see the run log or use --json.", s.UnresolvedTotal))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON encodes s as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// RenderTable renders rows under headers using the rounded table style.
func RenderTable(headers []string, rows [][]string) string {
	return renderTable(headers, rows, nil)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
