package sproc

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is one result-set row. Columns keep the server's order; lookups are
// case-insensitive because the vendor schema mixes "Active" and "ACTIVE".
type Row struct {
	columns []string
	values  map[string]any
}

// NewRow builds a Row from parallel column and value slices.
func NewRow(columns []string, values []any) Row {
	r := Row{columns: append([]string(nil), columns...), values: make(map[string]any, len(columns))}
	for i, col := range columns {
		var v any
		if i < len(values) {
			v = values[i]
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		r.values[strings.ToLower(col)] = v
	}
	return r
}

func (r Row) Columns() []string {
	return append([]string(nil), r.columns...)
}

func (r Row) Has(col string) bool {
	_, ok := r.values[strings.ToLower(col)]
	return ok
}

func (r Row) Value(col string) any {
	return r.values[strings.ToLower(col)]
}

func (r Row) String(col string) string {
	switch v := r.Value(col).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimRight(v, " ")
	case time.Time:
		return NewDate(v).String()
	default:
		return fmt.Sprint(v)
	}
}

func (r Row) Int64(col string) int64 {
	switch v := r.Value(col).(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case int16:
		return int64(v)
	case uint8:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		return Bit(v)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if ferr != nil {
				return 0
			}
			return int64(f)
		}
		return n
	default:
		return 0
	}
}

func (r Row) Float64(col string) float64 {
	switch v := r.Value(col).(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func (r Row) Bool(col string) bool {
	switch v := r.Value(col).(type) {
	case bool:
		return v
	case string:
		switch strings.ToUpper(strings.TrimSpace(v)) {
		case "1", "Y", "YES", "T", "TRUE":
			return true
		}
		return false
	case nil:
		return false
	default:
		return r.Int64(col) != 0
	}
}

// Date treats NULL and the sentinel date as unset.
func (r Row) Date(col string) Date {
	switch v := r.Value(col).(type) {
	case time.Time:
		return NewDate(v)
	case string:
		d, err := ParseDate(strings.TrimSpace(strings.SplitN(v, " ", 2)[0]))
		if err != nil {
			return Date{}
		}
		return d
	default:
		return Date{}
	}
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, NewRow(columns, values))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
