package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/interestlab/ledgerprep/internal/schema"
)

var (
	// ErrUnknownTable is returned when a table name is not one of the
	// declared output tables, or has not been written yet.
	ErrUnknownTable = errors.New("unknown table")

	// ErrInvalidFilter is returned when a listing filter names a column the
	// table cannot be filtered on.
	ErrInvalidFilter = errors.New("invalid filter")
)

// Store is a relational sink for the output tables. ReplaceTable drops the
// table, recreates it from its declaration and loads rows, atomically.
type Store interface {
	ReplaceTable(ctx context.Context, table schema.Table, rows [][]any) (int, error)
	Close() error
}

// SQLiteStore writes output tables into a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) ReplaceTable(ctx context.Context, table schema.Table, rows [][]any) (int, error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, table.DropTableSQL()); err != nil {
		return 0, fmt.Errorf("drop %s: %w", table.Name, err)
	}
	if _, err := sqlTx.ExecContext(ctx, table.CreateTableSQL(schema.SQLite)); err != nil {
		return 0, fmt.Errorf("create %s: %w", table.Name, err)
	}

	stmt, err := sqlTx.PrepareContext(ctx, table.InsertSQL(schema.SQLite))
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		values, err := table.EncodeRow(row, schema.SQLite)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(rows), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
