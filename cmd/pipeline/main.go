package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/interestlab/ledgerprep/internal/config"
	"github.com/interestlab/ledgerprep/internal/logger"
	"github.com/interestlab/ledgerprep/internal/pipeline"
	"github.com/interestlab/ledgerprep/internal/pricing"
	"github.com/interestlab/ledgerprep/internal/report"
	"github.com/interestlab/ledgerprep/internal/repository"
	"github.com/interestlab/ledgerprep/internal/repository/postgres"
)

func main() {
	var (
		part         = flag.String("part", "all", "pipeline to run: 1 (transactions), 2 (loans) or all")
		transactions = flag.String("transactions", "testdata/transactions.csv", "path to the transaction ledger CSV")
		loansDir     = flag.String("loans-dir", "testdata/loans", "directory of loan spreadsheet fragments")
		configPath   = flag.String("config", "", "optional YAML config file")
		showReport   = flag.Bool("report", false, "print a summary table after each run")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	log := logger.New(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	if err := run(ctx, log, cfg, *part, *transactions, *loansDir, *showReport); err != nil {
		log.Error().Err(err).Msg("pipeline failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, log zerolog.Logger, cfg config.Config, part, ledgerPath, loansDir string, showReport bool) error {
	if part != "1" && part != "2" && part != "all" {
		return fmt.Errorf("invalid -part %q: want 1, 2 or all", part)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().Str("driver", cfg.StoreDriver).Msg("store opened")

	if part == "1" || part == "all" {
		start, end, err := cfg.PriceWindow()
		if err != nil {
			return err
		}
		client := pricing.NewYahooClient(cfg.Prices.BaseURL)
		p := pipeline.NewTransactionPipeline(store, client, cfg.Symbols)

		res, err := p.Run(ctx, pipeline.Input{LedgerPath: ledgerPath, Start: start, End: end})
		if err != nil {
			return fmt.Errorf("part 1: %w", err)
		}
		if showReport {
			report.RunSummary(os.Stdout, res)
			report.WeekOverWeek(os.Stdout, res.Trend)
		}
	}

	if part == "2" || part == "all" {
		res, err := pipeline.NewLoanPipeline(store).Run(ctx, loansDir)
		if err != nil {
			return fmt.Errorf("part 2: %w", err)
		}
		if showReport {
			report.RunSummary(os.Stdout, res)
		}
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(pool), nil
	default:
		db, err := repository.InitDB(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("init db: %w", err)
		}
		return repository.NewSQLiteStore(db), nil
	}
}
