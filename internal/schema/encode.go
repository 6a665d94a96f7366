package schema

import (
	"fmt"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
)

// SQLite stores dates and datetimes as text in these layouts.
const (
	SQLiteDateLayout     = "2006-01-02"
	SQLiteDateTimeLayout = time.RFC3339
)

// Encode converts a row value produced by the mappers into the value the
// dialect's driver expects for this column. nil stays nil (SQL NULL).
func (c Column) Encode(v any, d Dialect) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch c.Type {
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, c.typeErr(v)
		}
		if c.Length > 0 && utf8.RuneCountInString(s) > c.Length {
			return nil, fmt.Errorf("column %s: value %q exceeds length %d", c.Name, s, c.Length)
		}
		return s, nil

	case Date, DateTime:
		var t time.Time
		switch tv := v.(type) {
		case civil.Date:
			t = tv.In(time.UTC)
		case time.Time:
			t = tv
		default:
			return nil, c.typeErr(v)
		}
		if d == Postgres {
			if c.Type == Date {
				return civil.DateOf(t).In(time.UTC), nil
			}
			return t.UTC(), nil
		}
		if c.Type == Date {
			return t.Format(SQLiteDateLayout), nil
		}
		return t.UTC().Format(SQLiteDateTimeLayout), nil

	case Float:
		switch fv := v.(type) {
		case float64:
			return fv, nil
		case int:
			return float64(fv), nil
		case int64:
			return float64(fv), nil
		default:
			return nil, c.typeErr(v)
		}

	case Integer:
		switch iv := v.(type) {
		case int:
			return int64(iv), nil
		case int64:
			return iv, nil
		default:
			return nil, c.typeErr(v)
		}
	}
	return nil, c.typeErr(v)
}

// EncodeRow encodes a full row in column order.
func (t Table) EncodeRow(row []any, d Dialect) ([]any, error) {
	if len(row) != len(t.Columns) {
		return nil, fmt.Errorf("table %s: row has %d values, want %d", t.Name, len(row), len(t.Columns))
	}
	out := make([]any, len(row))
	for i, c := range t.Columns {
		v, err := c.Encode(row[i], d)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

func (c Column) typeErr(v any) error {
	return fmt.Errorf("column %s: unsupported value type %T", c.Name, v)
}
