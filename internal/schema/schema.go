// Package schema declares the output tables: column names, types and the
// mapping from domain values to row values.
package schema

import (
	"fmt"
	"strings"
)

type ColumnType int

const (
	String ColumnType = iota
	Date
	DateTime
	Float
	Integer
)

// Column is one typed output column. Length applies to String only.
type Column struct {
	Name   string
	Type   ColumnType
	Length int
}

type Table struct {
	Name    string
	Columns []Column
}

// Dialect selects the SQL type names used in DDL.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func Varchar(name string, n int) Column { return Column{Name: name, Type: String, Length: n} }
func DateCol(name string) Column       { return Column{Name: name, Type: Date} }
func DateTimeCol(name string) Column   { return Column{Name: name, Type: DateTime} }
func FloatCol(name string) Column      { return Column{Name: name, Type: Float} }
func IntCol(name string) Column        { return Column{Name: name, Type: Integer} }

// ColumnNames returns the table's column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func (c Column) sqlType(d Dialect) string {
	switch c.Type {
	case String:
		if c.Length > 0 {
			return fmt.Sprintf("VARCHAR(%d)", c.Length)
		}
		return "TEXT"
	case Date:
		return "DATE"
	case DateTime:
		if d == SQLite {
			return "DATETIME"
		}
		return "TIMESTAMP"
	case Float:
		if d == SQLite {
			return "REAL"
		}
		return "DOUBLE PRECISION"
	case Integer:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// CreateTableSQL renders the CREATE TABLE statement for the dialect.
func (t Table) CreateTableSQL(d Dialect) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = fmt.Sprintf("%s %s", QuoteIdent(c.Name), c.sqlType(d))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", QuoteIdent(t.Name), strings.Join(defs, ",\n\t"))
}

// DropTableSQL renders DROP TABLE IF EXISTS.
func (t Table) DropTableSQL() string {
	return "DROP TABLE IF EXISTS " + QuoteIdent(t.Name)
}

// InsertSQL renders a parameterised INSERT for the dialect.
func (t Table) InsertSQL(d Dialect) string {
	cols := make([]string, len(t.Columns))
	params := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = QuoteIdent(c.Name)
		if d == Postgres {
			params[i] = fmt.Sprintf("$%d", i+1)
		} else {
			params[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteIdent(t.Name), strings.Join(cols, ", "), strings.Join(params, ", "))
}

// QuoteIdent double-quotes an SQL identifier.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
