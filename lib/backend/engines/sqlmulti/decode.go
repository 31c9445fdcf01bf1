package sqlmulti

import (
	"database/sql"
	"strconv"

	"github.com/skvdb/skv/lib/backend"
)

// --------------------------------------------------------------------------
// Row/Value Coercion
// --------------------------------------------------------------------------

// Ad-hoc query results carry no schema this layer knows in advance, so every
// column is probed against a fixed list of nullable scalar kinds and the
// first kind that matches a non-null value wins. The priority order is a
// documented contract (callers may depend on the integer-before-text
// tie-break) and must not be reordered:
//
//	int64, int32, text, blob, float64, float32, bool
//
// Numeric and boolean matches are serialized to their canonical text
// representation and then to bytes (bool to a single "0"/"1" byte); text and
// blob matches are carried through byte-for-byte. A SQL NULL, or a value
// matching none of the kinds, yields a nil value. An empty string or blob
// yields a non-nil empty value, so NULL and empty stay distinguishable.

// decodeRows drains a result set into canonical rows. Column names are
// carried through byte-for-byte; duplicate names are preserved in order.
func decodeRows(rows *sql.Rows) ([]backend.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var decoded []backend.Row
	for rows.Next() {
		values := make([]any, len(columns))
		scans := make([]any, len(columns))
		for i := range values {
			scans[i] = &values[i]
		}
		if err := rows.Scan(scans...); err != nil {
			return nil, err
		}

		row := backend.Row{Columns: make([]backend.Column, 0, len(columns))}
		for i, name := range columns {
			row.AddColumn(name, coerceValue(values[i]))
		}
		decoded = append(decoded, row)
	}
	return decoded, rows.Err()
}

// coerceValue converts one engine-native column value into an opaque byte
// value, following the probe order documented above.
func coerceValue(v any) []byte {
	switch value := v.(type) {
	case nil:
		return nil
	case int64:
		return strconv.AppendInt(nil, value, 10)
	case int32:
		return strconv.AppendInt(nil, int64(value), 10)
	case string:
		return []byte(value)
	case []byte:
		// The driver may reuse the scan buffer, copy before it does.
		out := make([]byte, len(value))
		copy(out, value)
		return out
	case float64:
		return strconv.AppendFloat(nil, value, 'g', -1, 64)
	case float32:
		return strconv.AppendFloat(nil, float64(value), 'g', -1, 32)
	case bool:
		if value {
			return []byte("1")
		}
		return []byte("0")
	default:
		// All candidate kinds exhausted: record an empty value, never an
		// error.
		return nil
	}
}
