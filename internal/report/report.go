// Package report renders pipeline results as console tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/interestlab/ledgerprep/internal/domain"
	"github.com/interestlab/ledgerprep/internal/pipeline"
)

// RunSummary writes one line per loaded table followed by the run total.
func RunSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "\n=== %s run %s (%s) ===\n", res.Pipeline, res.RunID, res.Duration().Round(time.Millisecond))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Table", "Rows"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	total := 0
	for _, t := range res.Tables {
		table.Append([]string{t.Table, strconv.Itoa(t.Rows)})
		total += t.Rows
	}
	table.SetFooter([]string{"total", strconv.Itoa(total)})
	table.Render()
}

// WeekOverWeek writes the DAU trend. Unknown diffs render as "-".
func WeekOverWeek(w io.Writer, wow []domain.WeekOverWeek) {
	fmt.Fprintln(w, "\n=== Daily active users, week over week ===")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "DAU", "Diff", "Pct Diff", "7d Avg", "7d Min", "7d Max"})

	for _, row := range wow {
		table.Append([]string{
			row.Date.String(),
			strconv.Itoa(row.DAU),
			optional(row.Diff, "%.0f"),
			optional(pct(row.PctDiff), "%.1f%%"),
			fmt.Sprintf("%.2f", row.WeekMovingAvg),
			fmt.Sprintf("%.0f", row.WeekMin),
			fmt.Sprintf("%.0f", row.WeekMax),
		})
	}
	table.Render()
}

func optional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func pct(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := *v * 100
	return &p
}
