package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/interestlab/ledgerprep/internal/cleaning"
	"github.com/interestlab/ledgerprep/internal/domain"
	"github.com/interestlab/ledgerprep/internal/ingestion"
	"github.com/interestlab/ledgerprep/internal/logger"
	"github.com/interestlab/ledgerprep/internal/repository"
	"github.com/interestlab/ledgerprep/internal/schema"
)

// LoanPipeline cleans the loan spreadsheet fragments into the loans table.
type LoanPipeline struct {
	store repository.Store
}

func NewLoanPipeline(store repository.Store) *LoanPipeline {
	return &LoanPipeline{store: store}
}

// Run reads every fragment in dir, repairs each row and replaces loans.
// A row that cannot be repaired aborts the run before anything is written.
func (p *LoanPipeline) Run(ctx context.Context, dir string) (*Result, error) {
	res := newResult("loans")
	log := logger.FromContext(ctx).With().
		Str("component", "pipeline").
		Str("run_id", res.RunID.String()).
		Logger()

	raws, err := ingestion.ReadLoanFragments(dir)
	if err != nil {
		return nil, fmt.Errorf("read loan fragments: %w", err)
	}
	log.Info().Str("dir", dir).Int("rows", len(raws)).Msg("loan fragments read")

	diag := cleaning.Diagnose(raws)
	headers := make([]string, 0, len(diag.StringCells))
	for h := range diag.StringCells {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	for _, h := range headers {
		log.Info().
			Str("header", h).
			Str("column", schema.LoanColumnRenames[h]).
			Int("string_cells", diag.StringCells[h]).
			Int("alpha_cells", diag.AlphaCells[h]).
			Strs("values", diag.Values[h]).
			Msg("non-numeric cells")
	}

	loans := make([]domain.Loan, 0, len(raws))
	for _, raw := range raws {
		loan, err := cleaning.CleanLoan(raw)
		if err != nil {
			return nil, fmt.Errorf("clean %s row %d: %w", raw.SourceFile, raw.SourceRow, err)
		}
		loans = append(loans, loan)
	}

	if err := persist(ctx, p.store, log, res, schema.Loans, schema.LoanRows(loans)); err != nil {
		return nil, err
	}

	res.FinishedAt = time.Now().UTC()
	log.Info().Dur("elapsed", res.Duration()).Msg("loan pipeline complete")
	return res, nil
}
