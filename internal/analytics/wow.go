package analytics

import (
	"cloud.google.com/go/civil"

	"github.com/interestlab/ledgerprep/internal/domain"
)

// trailingRows is the moving window: the current row plus six before it.
const trailingRows = 7

// WeekOverWeek derives the DAU trend table from a date-ordered DAU series.
// Diff compares against the row dated exactly seven days earlier. The
// moving statistics cover the current row and up to six preceding rows.
func WeekOverWeek(dau []domain.DailyActiveUsers) []domain.WeekOverWeek {
	byDate := make(map[civil.Date]int, len(dau))
	for _, d := range dau {
		byDate[d.Date] = d.DAU
	}

	out := make([]domain.WeekOverWeek, len(dau))
	for i, d := range dau {
		row := domain.WeekOverWeek{Date: d.Date, DAU: d.DAU}

		if prev, ok := byDate[d.Date.AddDays(-7)]; ok {
			diff := float64(d.DAU - prev)
			row.Diff = &diff
			if d.DAU != 0 {
				pct := diff / float64(d.DAU)
				row.PctDiff = &pct
			}
		}

		start := i - trailingRows + 1
		if start < 0 {
			start = 0
		}
		window := dau[start : i+1]
		sum := 0
		row.WeekMin, row.WeekMax = float64(window[0].DAU), float64(window[0].DAU)
		for _, w := range window {
			v := float64(w.DAU)
			sum += w.DAU
			if v < row.WeekMin {
				row.WeekMin = v
			}
			if v > row.WeekMax {
				row.WeekMax = v
			}
		}
		row.WeekMovingAvg = float64(sum) / float64(len(window))

		out[i] = row
	}
	return out
}
