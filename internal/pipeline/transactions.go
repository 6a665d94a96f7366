package pipeline

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/interestlab/ledgerprep/internal/analytics"
	"github.com/interestlab/ledgerprep/internal/ingestion"
	"github.com/interestlab/ledgerprep/internal/logger"
	"github.com/interestlab/ledgerprep/internal/pricing"
	"github.com/interestlab/ledgerprep/internal/repository"
	"github.com/interestlab/ledgerprep/internal/schema"
)

// Input locates the ledger and optionally pins the price window. A nil
// bound is derived from the ledger.
type Input struct {
	LedgerPath string
	Start      *civil.Date
	End        *civil.Date
}

// TransactionPipeline loads the ledger and prices and derives the balance
// and activity tables.
type TransactionPipeline struct {
	store   repository.Store
	prices  pricing.Source
	symbols []string
}

func NewTransactionPipeline(store repository.Store, prices pricing.Source, symbols []string) *TransactionPipeline {
	return &TransactionPipeline{
		store:   store,
		prices:  prices,
		symbols: symbols,
	}
}

// Run reads the ledger, fetches prices and derives every table before
// replacing the seven output tables in order. A failed read or fetch
// leaves the store untouched.
func (p *TransactionPipeline) Run(ctx context.Context, in Input) (*Result, error) {
	res := newResult("transactions")
	log := logger.FromContext(ctx).With().
		Str("component", "pipeline").
		Str("run_id", res.RunID.String()).
		Logger()
	ctx = logger.WithContext(ctx, log)

	txns, err := ingestion.ReadLedger(in.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	log.Info().Str("path", in.LedgerPath).Int("transactions", len(txns)).Msg("ledger parsed")

	window, err := pricing.ResolveWindow(in.Start, in.End, txns)
	if err != nil {
		return nil, fmt.Errorf("resolve price window: %w", err)
	}
	log.Info().Stringer("window", window).Strs("symbols", p.symbols).Msg("fetching prices")

	prices, err := pricing.FetchAll(ctx, p.prices, p.symbols, window)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}

	// Every input is in hand; derive all tables before the first write.
	balances := analytics.ReconstructBalances(txns, prices)
	dau := analytics.DailyActiveUsers(balances)
	wow := analytics.WeekOverWeek(dau)
	summary := analytics.SummarizeTransactions(txns, prices)
	customers := analytics.SummarizeCustomers(txns, prices)

	outputs := []struct {
		table schema.Table
		rows  [][]any
	}{
		{schema.InterestAccountTransactions, schema.TransactionRows(txns)},
		{schema.CryptoPrices, schema.PriceRows(prices)},
		{schema.HistoricalRunningBalance, schema.RunningBalanceRows(balances)},
		{schema.DailyActiveUsers, schema.DailyActiveUserRows(dau)},
		{schema.WowDailyActiveUsers, schema.WeekOverWeekRows(wow)},
		{schema.DailyTransactionSummary, schema.TransactionSummaryRows(summary)},
		{schema.DailyCustomerTransactionSummary, schema.CustomerTransactionSummaryRows(customers)},
	}
	for _, out := range outputs {
		if err := persist(ctx, p.store, log, res, out.table, out.rows); err != nil {
			return nil, err
		}
	}
	res.Trend = wow

	res.FinishedAt = time.Now().UTC()
	log.Info().Dur("elapsed", res.Duration()).Msg("transaction pipeline complete")
	return res, nil
}
