package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interestlab/ledgerprep/internal/cleaning"
	"github.com/interestlab/ledgerprep/internal/domain"
	"github.com/interestlab/ledgerprep/internal/pricing"
	"github.com/interestlab/ledgerprep/internal/schema"
)

// memStore records every replaced table in call order.
type memStore struct {
	order  []string
	tables map[string][][]any
	failOn string
}

func newMemStore() *memStore {
	return &memStore{tables: make(map[string][][]any)}
}

func (s *memStore) ReplaceTable(_ context.Context, table schema.Table, rows [][]any) (int, error) {
	if table.Name == s.failOn {
		return 0, errors.New("disk full")
	}
	for _, row := range rows {
		if _, err := table.EncodeRow(row, schema.SQLite); err != nil {
			return 0, err
		}
	}
	s.order = append(s.order, table.Name)
	s.tables[table.Name] = rows
	return len(rows), nil
}

func (s *memStore) Close() error { return nil }

// flatSource prices every symbol at a constant across the window.
type flatSource struct {
	price   float64
	failSym string
	windows []pricing.Window
}

func (s *flatSource) DailyPrices(_ context.Context, symbol string, w pricing.Window) ([]domain.PricePoint, error) {
	s.windows = append(s.windows, w)
	if symbol == s.failSym {
		return nil, pricing.ErrUpstream
	}
	currency, err := pricing.Currency(symbol)
	if err != nil {
		return nil, err
	}
	var points []domain.PricePoint
	for d := w.Start; d.Before(w.End); d = d.AddDays(1) {
		points = append(points, domain.PricePoint{Date: d, Cryptocurrency: currency, MeanPrice: s.price})
	}
	return points, nil
}

const ledgerCSV = `customer_id,cryptocurrency,transaction_type,confirmed_at,amount
C1,BTC,deposit,2020-05-15 10:00:00+00:00,10
C1,BTC,withdrawal,2020-05-17 09:30:00+00:00,-3
C2,ETH,deposit,2020-05-16 12:00:00+00:00,2.5
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTransactionPipeline_Run(t *testing.T) {
	ledger := writeFile(t, t.TempDir(), "transactions.csv", ledgerCSV)
	store := newMemStore()
	src := &flatSource{price: 100}

	p := NewTransactionPipeline(store, src, []string{"BTC", "ETH"})
	res, err := p.Run(context.Background(), Input{LedgerPath: ledger})
	require.NoError(t, err)

	assert.Equal(t, []string{
		schema.InterestAccountTransactions.Name,
		schema.CryptoPrices.Name,
		schema.HistoricalRunningBalance.Name,
		schema.DailyActiveUsers.Name,
		schema.WowDailyActiveUsers.Name,
		schema.DailyTransactionSummary.Name,
		schema.DailyCustomerTransactionSummary.Name,
	}, store.order)

	assert.Equal(t, 3, res.Rows(schema.InterestAccountTransactions.Name))
	assert.Equal(t, 6, res.Rows(schema.CryptoPrices.Name), "2 symbols x 3 days")
	assert.Equal(t, 6, res.Rows(schema.HistoricalRunningBalance.Name), "2 pairs x 3 days")
	assert.Equal(t, 3, res.Rows(schema.DailyActiveUsers.Name))
	assert.Equal(t, -1, res.Rows(schema.Loans.Name))
	assert.NotEmpty(t, res.RunID.String())

	// Window derived from the ledger, end exclusive.
	require.NotEmpty(t, src.windows)
	assert.Equal(t, civil.Date{Year: 2020, Month: 5, Day: 15}, src.windows[0].Start)
	assert.Equal(t, civil.Date{Year: 2020, Month: 5, Day: 18}, src.windows[0].End)

	balances := store.tables[schema.HistoricalRunningBalance.Name]
	assert.Equal(t, []any{"C1", civil.Date{Year: 2020, Month: 5, Day: 16}, "btc", 10.0, 100.0, 1000.0}, balances[1])
	assert.Equal(t, []any{"C1", civil.Date{Year: 2020, Month: 5, Day: 17}, "btc", 7.0, 100.0, 700.0}, balances[2])
	assert.Equal(t, "C2", balances[3][0])
	assert.Nil(t, balances[3][3], "no balance before first activity")
}

func TestTransactionPipeline_ExplicitWindow(t *testing.T) {
	ledger := writeFile(t, t.TempDir(), "transactions.csv", ledgerCSV)
	store := newMemStore()
	src := &flatSource{price: 1}

	start := civil.Date{Year: 2020, Month: 5, Day: 15}
	end := civil.Date{Year: 2020, Month: 6, Day: 15}
	res, err := NewTransactionPipeline(store, src, []string{"USDC"}).
		Run(context.Background(), Input{LedgerPath: ledger, Start: &start, End: &end})
	require.NoError(t, err)

	assert.Equal(t, 31, res.Rows(schema.CryptoPrices.Name))
}

func TestTransactionPipeline_FetchFailureStopsRun(t *testing.T) {
	ledger := writeFile(t, t.TempDir(), "transactions.csv", ledgerCSV)
	store := newMemStore()
	src := &flatSource{price: 100, failSym: "ETH"}

	_, err := NewTransactionPipeline(store, src, []string{"BTC", "ETH"}).
		Run(context.Background(), Input{LedgerPath: ledger})
	require.Error(t, err)
	assert.ErrorIs(t, err, pricing.ErrUpstream)
	assert.ErrorContains(t, err, "fetch ETH")

	assert.Empty(t, store.order, "a failed price fetch writes nothing")
}

func TestTransactionPipeline_WindowFailureWritesNothing(t *testing.T) {
	ledger := writeFile(t, t.TempDir(), "transactions.csv",
		"customer_id,cryptocurrency,transaction_type,confirmed_at,amount\n")
	store := newMemStore()
	src := &flatSource{price: 100}

	_, err := NewTransactionPipeline(store, src, []string{"BTC"}).
		Run(context.Background(), Input{LedgerPath: ledger})
	require.ErrorContains(t, err, "resolve price window")
	assert.Empty(t, src.windows)
	assert.Empty(t, store.order)
}

func TestTransactionPipeline_StoreFailureStopsRun(t *testing.T) {
	ledger := writeFile(t, t.TempDir(), "transactions.csv", ledgerCSV)
	store := newMemStore()
	store.failOn = schema.DailyActiveUsers.Name

	_, err := NewTransactionPipeline(store, &flatSource{price: 100}, []string{"BTC"}).
		Run(context.Background(), Input{LedgerPath: ledger})
	require.ErrorContains(t, err, "persist daily_active_users")

	assert.Len(t, store.order, 3)
	assert.NotContains(t, store.tables, schema.WowDailyActiveUsers.Name)
}

func TestTransactionPipeline_BadLedger(t *testing.T) {
	ledger := writeFile(t, t.TempDir(), "transactions.csv",
		"customer_id,cryptocurrency,transaction_type,confirmed_at,amount\nC1,BTC,deposit,yesterday,1\n")
	store := newMemStore()

	_, err := NewTransactionPipeline(store, &flatSource{}, []string{"BTC"}).
		Run(context.Background(), Input{LedgerPath: ledger})
	require.ErrorContains(t, err, "read ledger")
	assert.Empty(t, store.order)
}

const loanHeader = "Term,Interest Rate,Origination Fee,Funding Date,Maturity Date,Loan Amount,Amount Funded,Principal Balance,Payoff Amount,Collateral Posted\n"

func TestLoanPipeline_Run(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loans_a.csv", loanHeader+
		"12,0.1,0.01,43631,43997,20000,19800,15000,15500,1.5\n"+
		"Twelve,0.12,#VALUE!,43631,,Twenty Two Thousand,21780,,,2\n")
	writeFile(t, dir, "loans_b.csv", loanHeader+
		"6,0.09,0.02,,43997,n/a,9900,9000,9100,0.5\n")

	store := newMemStore()
	res, err := NewLoanPipeline(store).Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows(schema.Loans.Name))

	rows := store.tables[schema.Loans.Name]
	require.Len(t, rows, 3)

	assert.Equal(t, 12, rows[1][0])
	assert.Nil(t, rows[1][2], "placeholder fee becomes missing")
	assert.Equal(t, civil.Date{Year: 2020, Month: 6, Day: 15}, rows[1][4], "maturity = funding + term")
	assert.Equal(t, 22000.0, rows[1][5])
	assert.Equal(t, "loans_a.csv", rows[1][10])
	assert.Equal(t, 3, rows[1][11])

	assert.Equal(t, civil.Date{Year: 2019, Month: 12, Day: 15}, rows[2][3], "funding = maturity - term")
	assert.Nil(t, rows[2][5])
	assert.Equal(t, "loans_b.csv", rows[2][10])
}

func TestLoanPipeline_UnrepairableRow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loans.csv", loanHeader+
		"12,0.1,0.01,43631,43997,20000,19800,15000,15500,1.5\n"+
		"12,0.1,0.01,,,20000,19800,15000,15500,1.5\n")

	store := newMemStore()
	_, err := NewLoanPipeline(store).Run(context.Background(), dir)
	require.ErrorIs(t, err, cleaning.ErrBothDatesMissing)
	assert.ErrorContains(t, err, "loans.csv row 3")
	assert.Empty(t, store.order)
}

func TestLoanPipeline_NoFragments(t *testing.T) {
	_, err := NewLoanPipeline(newMemStore()).Run(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "no loan fragments")
}
