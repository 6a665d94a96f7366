// Package analytics derives the balance grid and the reporting tables from
// the ledger and price points. Every function here is a pure, ordered scan;
// none relies on map iteration order for its output.
package analytics

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/interestlab/ledgerprep/internal/domain"
)

// ReconstructBalances builds the dense running-balance grid: every day from
// the ledger's first to last date, for every (customer, currency) pair seen
// in the ledger. Days before a pair's first transaction have no balance.
// Output is ordered by customer, currency, date.
func ReconstructBalances(txns []domain.Transaction, prices []domain.PricePoint) []domain.RunningBalance {
	if len(txns) == 0 {
		return nil
	}

	first, last := dateRange(txns)
	pairs := distinctPairs(txns)
	events := eventBalances(txns)

	days := last.DaysSince(first) + 1
	grid := make([]domain.RunningBalance, 0, len(pairs)*days)
	for _, pair := range pairs {
		for d := first; !d.After(last); d = d.AddDays(1) {
			row := domain.RunningBalance{
				CustomerID:     pair.CustomerID,
				Date:           d,
				Cryptocurrency: pair.Cryptocurrency,
			}
			if bal, ok := events[pair][d]; ok {
				row.Balance = decimal.NewNullDecimal(bal)
			}
			grid = append(grid, row)
		}
	}

	grid = ForwardFill(grid)
	JoinPrices(grid, domain.NewPriceIndex(prices))
	return grid
}

// ForwardFill carries the last known balance of each (customer, currency)
// series into later days that have none. Input must be ordered by customer,
// currency, date; the result keeps that order. Already-dense series come
// back unchanged.
func ForwardFill(grid []domain.RunningBalance) []domain.RunningBalance {
	out := make([]domain.RunningBalance, len(grid))
	copy(out, grid)

	var (
		current domain.PairKey
		last    decimal.NullDecimal
	)
	for i := range out {
		key := domain.PairKey{CustomerID: out[i].CustomerID, Cryptocurrency: out[i].Cryptocurrency}
		if i == 0 || key != current {
			current = key
			last = decimal.NullDecimal{}
		}
		if out[i].Balance.Valid {
			last = out[i].Balance
			continue
		}
		out[i].Balance = last
	}
	return out
}

// JoinPrices attaches the day's mean price and the notional balance. The
// notional stays nil unless both balance and price are known.
func JoinPrices(grid []domain.RunningBalance, prices domain.PriceIndex) {
	for i := range grid {
		row := &grid[i]
		row.MeanPrice = prices.Lookup(row.Date, row.Cryptocurrency)
		row.NotionalBalance = nil
		if row.MeanPrice != nil && row.Balance.Valid {
			notional := row.Balance.Decimal.InexactFloat64() * *row.MeanPrice
			row.NotionalBalance = &notional
		}
	}
}

func dateRange(txns []domain.Transaction) (first, last civil.Date) {
	first, last = txns[0].Date, txns[0].Date
	for _, t := range txns[1:] {
		if t.Date.Before(first) {
			first = t.Date
		}
		if t.Date.After(last) {
			last = t.Date
		}
	}
	return first, last
}

func distinctPairs(txns []domain.Transaction) []domain.PairKey {
	seen := make(map[domain.PairKey]bool)
	var pairs []domain.PairKey
	for _, t := range txns {
		key := domain.PairKey{CustomerID: t.CustomerID, Cryptocurrency: t.Cryptocurrency}
		if !seen[key] {
			seen[key] = true
			pairs = append(pairs, key)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].CustomerID != pairs[j].CustomerID {
			return pairs[i].CustomerID < pairs[j].CustomerID
		}
		return pairs[i].Cryptocurrency < pairs[j].Cryptocurrency
	})
	return pairs
}

// eventBalances returns, per pair, the cumulative balance at the end of each
// day that has at least one transaction.
func eventBalances(txns []domain.Transaction) map[domain.PairKey]map[civil.Date]decimal.Decimal {
	net := make(map[domain.PairKey]map[civil.Date]decimal.Decimal)
	for _, t := range txns {
		key := domain.PairKey{CustomerID: t.CustomerID, Cryptocurrency: t.Cryptocurrency}
		if net[key] == nil {
			net[key] = make(map[civil.Date]decimal.Decimal)
		}
		net[key][t.Date] = net[key][t.Date].Add(t.Amount)
	}

	out := make(map[domain.PairKey]map[civil.Date]decimal.Decimal, len(net))
	for key, byDay := range net {
		days := make([]civil.Date, 0, len(byDay))
		for d := range byDay {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

		running := decimal.Zero
		out[key] = make(map[civil.Date]decimal.Decimal, len(days))
		for _, d := range days {
			running = running.Add(byDay[d])
			out[key][d] = running
		}
	}
	return out
}
