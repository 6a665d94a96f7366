package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/interestlab/ledgerprep/internal/domain"
)

// SummarizeTransactions aggregates the ledger per (date, currency, type).
// DollarSum adds amount x mean price over rows that have a price and is
// nil when none do. Quantity is the number of distinct customers.
func SummarizeTransactions(txns []domain.Transaction, prices []domain.PricePoint) []domain.TransactionSummary {
	idx := domain.NewPriceIndex(prices)

	type acc struct {
		dollars   decimal.Decimal
		priced    bool
		customers map[string]bool
	}
	groups := make(map[domain.SummaryKey]*acc)

	for _, t := range txns {
		key := summaryKey(t)
		g := groups[key]
		if g == nil {
			g = &acc{customers: make(map[string]bool)}
			groups[key] = g
		}
		g.customers[t.CustomerID] = true
		if price := idx.Lookup(t.Date, t.Cryptocurrency); price != nil {
			g.dollars = g.dollars.Add(t.Amount.Mul(decimal.NewFromFloat(*price)))
			g.priced = true
		}
	}

	out := make([]domain.TransactionSummary, 0, len(groups))
	for key, g := range groups {
		s := domain.TransactionSummary{SummaryKey: key, Quantity: len(g.customers)}
		if g.priced {
			v := g.dollars.InexactFloat64()
			s.DollarSum = &v
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i].SummaryKey, out[j].SummaryKey) })
	return out
}

// customerKey is the grain of the per-customer pre-aggregate.
type customerKey struct {
	domain.SummaryKey
	CustomerID string
}

// SummarizeCustomers first totals each customer's dollars and transaction
// count per (date, currency, type), then describes the spread of those
// per-customer values. Customers without a price contribute to the count
// statistics only.
func SummarizeCustomers(txns []domain.Transaction, prices []domain.PricePoint) []domain.CustomerTransactionSummary {
	idx := domain.NewPriceIndex(prices)

	type acc struct {
		dollars decimal.Decimal
		priced  bool
		count   int
	}
	perCustomer := make(map[customerKey]*acc)
	var order []customerKey

	for _, t := range txns {
		key := customerKey{SummaryKey: summaryKey(t), CustomerID: t.CustomerID}
		c := perCustomer[key]
		if c == nil {
			c = &acc{}
			perCustomer[key] = c
			order = append(order, key)
		}
		c.count++
		if price := idx.Lookup(t.Date, t.Cryptocurrency); price != nil {
			c.dollars = c.dollars.Add(t.Amount.Mul(decimal.NewFromFloat(*price)))
			c.priced = true
		}
	}

	type group struct {
		customers  int
		dollars    []float64
		quantities []float64
	}
	groups := make(map[domain.SummaryKey]*group)
	for _, key := range order {
		c := perCustomer[key]
		g := groups[key.SummaryKey]
		if g == nil {
			g = &group{}
			groups[key.SummaryKey] = g
		}
		g.customers++
		g.quantities = append(g.quantities, float64(c.count))
		if c.priced {
			g.dollars = append(g.dollars, c.dollars.InexactFloat64())
		}
	}

	out := make([]domain.CustomerTransactionSummary, 0, len(groups))
	for key, g := range groups {
		s := domain.CustomerTransactionSummary{SummaryKey: key, CustomersTransacted: g.customers}
		s.Dollar.Mean, s.Dollar.Min, s.Dollar.Max, s.Dollar.P25, s.Dollar.Median, s.Dollar.P75 = distribution(g.dollars)
		s.Quantity.Mean, s.Quantity.Min, s.Quantity.Max, s.Quantity.P25, s.Quantity.Median, s.Quantity.P75 = distribution(g.quantities)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i].SummaryKey, out[j].SummaryKey) })
	return out
}

func summaryKey(t domain.Transaction) domain.SummaryKey {
	return domain.SummaryKey{
		Date:            t.Date,
		Cryptocurrency:  t.Cryptocurrency,
		TransactionType: t.TransactionType,
	}
}

func keyLess(a, b domain.SummaryKey) bool {
	if a.Date != b.Date {
		return a.Date.Before(b.Date)
	}
	if a.Cryptocurrency != b.Cryptocurrency {
		return a.Cryptocurrency < b.Cryptocurrency
	}
	return a.TransactionType < b.TransactionType
}
