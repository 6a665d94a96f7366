// Package pipeline sequences the ingestion, derivation and load steps of the
// two batch runs. Steps execute in order; the first failure aborts the run
// and no later table is written.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/interestlab/ledgerprep/internal/domain"
	"github.com/interestlab/ledgerprep/internal/repository"
	"github.com/interestlab/ledgerprep/internal/schema"
)

// TableResult is the number of rows loaded into one table.
type TableResult struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

// Result summarises one pipeline run.
type Result struct {
	RunID      uuid.UUID     `json:"run_id"`
	Pipeline   string        `json:"pipeline"`
	Tables     []TableResult `json:"tables"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`

	// Trend is the week-over-week DAU series; transaction runs only.
	Trend []domain.WeekOverWeek `json:"-"`
}

func newResult(name string) *Result {
	return &Result{
		RunID:     uuid.New(),
		Pipeline:  name,
		StartedAt: time.Now().UTC(),
	}
}

// Rows returns the loaded row count for table, or -1 if it was not written.
func (r *Result) Rows(table string) int {
	for _, t := range r.Tables {
		if t.Table == table {
			return t.Rows
		}
	}
	return -1
}

// Duration is the wall time of the run.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// persist replaces one table and records the count on the result.
func persist(ctx context.Context, store repository.Store, log zerolog.Logger, res *Result, table schema.Table, rows [][]any) error {
	n, err := store.ReplaceTable(ctx, table, rows)
	if err != nil {
		return fmt.Errorf("persist %s: %w", table.Name, err)
	}
	res.Tables = append(res.Tables, TableResult{Table: table.Name, Rows: n})
	log.Info().Str("table", table.Name).Int("rows", n).Msg("table replaced")
	return nil
}
