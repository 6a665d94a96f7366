package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/interestlab/ledgerprep/internal/schema"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// Row is one output-table row keyed by column name.
type Row map[string]any

// TableFilter narrows a listing. Equals holds exact matches on string
// columns; From and To bound the date column, both inclusive.
type TableFilter struct {
	Equals map[string]string
	From   *civil.Date
	To     *civil.Date
	Page   int
	Limit  int
}

// TableCount is the row count of one materialised table.
type TableCount struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// TableReader serves the read side of the SQLite store.
type TableReader struct {
	db *sql.DB
}

func NewTableReader(db *sql.DB) *TableReader {
	return &TableReader{db: db}
}

// List returns one page of rows in load order and the total matching count.
func (r *TableReader) List(ctx context.Context, name string, f TableFilter) ([]Row, int, error) {
	table, err := r.lookup(ctx, name)
	if err != nil {
		return nil, 0, err
	}

	where, args, err := buildWhere(table, f)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countSQL := "SELECT COUNT(*) FROM " + schema.QuoteIdent(table.Name) + where
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	cols := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = schema.QuoteIdent(c.Name)
	}
	querySQL := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY rowid LIMIT ? OFFSET ?",
		strings.Join(cols, ", "), schema.QuoteIdent(table.Name), where)
	args = append(args, f.Limit, offset)

	rows, err := r.db.QueryContext(ctx, querySQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	result := []Row{}
	for rows.Next() {
		dest := make([]any, len(table.Columns))
		ptrs := make([]any, len(dest))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		row := make(Row, len(dest))
		for i, c := range table.Columns {
			row[c.Name] = decodeValue(c, dest[i])
		}
		result = append(result, row)
	}
	return result, total, rows.Err()
}

// Counts reports the row count of every declared table that exists in the
// database, in pipeline order.
func (r *TableReader) Counts(ctx context.Context) ([]TableCount, error) {
	existing, err := r.existingTables(ctx)
	if err != nil {
		return nil, err
	}

	var counts []TableCount
	for _, t := range schema.Tables {
		if !existing[t.Name] {
			continue
		}
		tc := TableCount{Name: t.Name}
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+schema.QuoteIdent(t.Name)).Scan(&tc.Rows); err != nil {
			return nil, fmt.Errorf("count %s: %w", t.Name, err)
		}
		counts = append(counts, tc)
	}
	return counts, nil
}

func (r *TableReader) lookup(ctx context.Context, name string) (schema.Table, error) {
	table, ok := schema.Lookup(name)
	if !ok {
		return schema.Table{}, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	existing, err := r.existingTables(ctx)
	if err != nil {
		return schema.Table{}, err
	}
	if !existing[name] {
		return schema.Table{}, fmt.Errorf("%w: %s has not been loaded", ErrUnknownTable, name)
	}
	return table, nil
}

func (r *TableReader) existingTables(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		existing[name] = true
	}
	return existing, rows.Err()
}

// --- helpers ---

func buildWhere(table schema.Table, f TableFilter) (string, []any, error) {
	var clauses []string
	var args []any

	names := make([]string, 0, len(f.Equals))
	for name := range f.Equals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		col, ok := table.Column(name)
		if !ok || col.Type != schema.String {
			return "", nil, fmt.Errorf("%w: %s cannot be filtered on %q", ErrInvalidFilter, table.Name, name)
		}
		clauses = append(clauses, schema.QuoteIdent(name)+" = ?")
		args = append(args, f.Equals[name])
	}

	if f.From != nil || f.To != nil {
		col, ok := table.Column("date")
		if !ok {
			return "", nil, fmt.Errorf("%w: %s has no date column", ErrInvalidFilter, table.Name)
		}
		if f.From != nil {
			clauses = append(clauses, schema.QuoteIdent(col.Name)+" >= ?")
			args = append(args, f.From.String())
		}
		if f.To != nil {
			// Stored datetimes sort after their bare date, so bound by the next day.
			clauses = append(clauses, schema.QuoteIdent(col.Name)+" < ?")
			args = append(args, f.To.AddDays(1).String())
		}
	}

	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// decodeValue normalises what the driver hands back so dates render the
// same way they were written.
func decodeValue(c schema.Column, v any) any {
	switch tv := v.(type) {
	case []byte:
		return string(tv)
	case time.Time:
		if c.Type == schema.Date {
			return tv.UTC().Format(schema.SQLiteDateLayout)
		}
		return tv.UTC().Format(schema.SQLiteDateTimeLayout)
	default:
		return v
	}
}
