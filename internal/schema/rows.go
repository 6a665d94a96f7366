package schema

import (
	"github.com/shopspring/decimal"

	"github.com/interestlab/ledgerprep/internal/domain"
)

// The mappers below emit values in the column order of their table.

func TransactionRows(txns []domain.Transaction) [][]any {
	rows := make([][]any, len(txns))
	for i, t := range txns {
		rows[i] = []any{
			string(t.Cryptocurrency),
			string(t.TransactionType),
			t.ConfirmedAt,
			t.CustomerID,
			t.Amount.InexactFloat64(),
			t.Date,
		}
	}
	return rows
}

func PriceRows(points []domain.PricePoint) [][]any {
	rows := make([][]any, len(points))
	for i, p := range points {
		rows[i] = []any{p.Date, p.MeanPrice, string(p.Cryptocurrency)}
	}
	return rows
}

func RunningBalanceRows(balances []domain.RunningBalance) [][]any {
	rows := make([][]any, len(balances))
	for i, b := range balances {
		rows[i] = []any{
			b.CustomerID,
			b.Date,
			string(b.Cryptocurrency),
			nullDecimal(b.Balance),
			nullFloat(b.MeanPrice),
			nullFloat(b.NotionalBalance),
		}
	}
	return rows
}

func DailyActiveUserRows(dau []domain.DailyActiveUsers) [][]any {
	rows := make([][]any, len(dau))
	for i, d := range dau {
		rows[i] = []any{d.Date, d.DAU}
	}
	return rows
}

func WeekOverWeekRows(wow []domain.WeekOverWeek) [][]any {
	rows := make([][]any, len(wow))
	for i, w := range wow {
		rows[i] = []any{
			w.Date,
			w.DAU,
			nullFloat(w.Diff),
			w.WeekMovingAvg,
			w.WeekMin,
			w.WeekMax,
			nullFloat(w.PctDiff),
		}
	}
	return rows
}

func TransactionSummaryRows(summaries []domain.TransactionSummary) [][]any {
	rows := make([][]any, len(summaries))
	for i, s := range summaries {
		rows[i] = []any{
			s.Date,
			string(s.Cryptocurrency),
			string(s.TransactionType),
			nullFloat(s.DollarSum),
			s.Quantity,
		}
	}
	return rows
}

func CustomerTransactionSummaryRows(summaries []domain.CustomerTransactionSummary) [][]any {
	rows := make([][]any, len(summaries))
	for i, s := range summaries {
		rows[i] = []any{
			s.Date,
			string(s.Cryptocurrency),
			string(s.TransactionType),
			s.CustomersTransacted,
			nullFloat(s.Dollar.Mean),
			nullFloat(s.Dollar.Min),
			nullFloat(s.Dollar.Max),
			nullFloat(s.Dollar.P25),
			nullFloat(s.Dollar.Median),
			nullFloat(s.Dollar.P75),
			nullFloat(s.Quantity.Mean),
			nullInt(s.Quantity.Min),
			nullInt(s.Quantity.Max),
			nullFloat(s.Quantity.P25),
			nullFloat(s.Quantity.Median),
			nullFloat(s.Quantity.P75),
		}
	}
	return rows
}

func LoanRows(loans []domain.Loan) [][]any {
	rows := make([][]any, len(loans))
	for i, l := range loans {
		rows[i] = []any{
			l.Term,
			nullFloat(l.InterestRate),
			nullFloat(l.OriginationFee),
			l.FundingDate,
			l.MaturityDate,
			nullFloat(l.LoanAmount),
			nullFloat(l.AmountFunded),
			nullFloat(l.PrincipalBalance),
			nullFloat(l.PayoffAmount),
			nullFloat(l.CollateralPosted),
			l.SourceFile,
			l.SourceRow,
		}
	}
	return rows
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullInt(f *float64) any {
	if f == nil {
		return nil
	}
	return int64(*f)
}

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
