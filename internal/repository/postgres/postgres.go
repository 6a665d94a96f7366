// Package postgres is the PostgreSQL sink for the output tables.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/interestlab/ledgerprep/internal/repository"
	"github.com/interestlab/ledgerprep/internal/schema"
)

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new Postgres connection pool.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Store implements repository.Store with COPY-based loads.
type Store struct {
	pool *Pool
}

func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

var _ repository.Store = (*Store)(nil)

// ReplaceTable drops and recreates the table, then streams rows with COPY.
// Nothing is visible to other sessions until commit.
func (s *Store) ReplaceTable(ctx context.Context, table schema.Table, rows [][]any) (int, error) {
	encoded := make([][]any, len(rows))
	for i, row := range rows {
		values, err := table.EncodeRow(row, schema.Postgres)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		encoded[i] = values
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, table.DropTableSQL()); err != nil {
		return 0, fmt.Errorf("drop %s: %w", table.Name, err)
	}
	if _, err := tx.Exec(ctx, table.CreateTableSQL(schema.Postgres)); err != nil {
		return 0, fmt.Errorf("create %s: %w", table.Name, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table.Name}, table.ColumnNames(), pgx.CopyFromRows(encoded))
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", table.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int(n), nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
