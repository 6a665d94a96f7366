package analytics

import (
	"sort"

	"cloud.google.com/go/civil"

	"github.com/interestlab/ledgerprep/internal/domain"
)

// DailyActiveUsers counts, per date, the distinct customers holding a
// positive notional balance in any currency. Dates with no active customer
// produce no row.
func DailyActiveUsers(grid []domain.RunningBalance) []domain.DailyActiveUsers {
	active := make(map[civil.Date]map[string]bool)
	for _, row := range grid {
		if row.NotionalBalance == nil || *row.NotionalBalance <= 0 {
			continue
		}
		if active[row.Date] == nil {
			active[row.Date] = make(map[string]bool)
		}
		active[row.Date][row.CustomerID] = true
	}

	out := make([]domain.DailyActiveUsers, 0, len(active))
	for d, customers := range active {
		out = append(out, domain.DailyActiveUsers{Date: d, DAU: len(customers)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
