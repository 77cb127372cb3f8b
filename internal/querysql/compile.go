package querysql

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/eavstore/internal/ir"
	"github.com/roach88/eavstore/internal/query"
)

// Columns is the column list every compiled query selects, in order.
// snapshot.Scan decodes rows in this order.
var Columns = []string{"store_id", "e_kind", "e", "a_kind", "a", "v_kind", "v", "m", "provenance"}

// SQLCompiler compiles triple patterns to parameterized SQL over the
// snapshot facts table.
//
// CRITICAL: ALL queries include ORDER BY for deterministic results.
// CRITICAL: All values are parameterized (never interpolated).
type SQLCompiler struct {
	// Stores restricts results to these store ids. Empty means every store.
	Stores []uuid.UUID
}

// NewSQLCompiler creates a compiler restricted to the given stores.
func NewSQLCompiler(stores ...uuid.UUID) *SQLCompiler {
	return &SQLCompiler{Stores: stores}
}

// Compile converts a query to parameterized SQL.
// Returns (sql, params, error) tuple.
//
// Unlike edb scans, SQL answers every shape, including eaV and EaV.
// Each bound position compiles to a kind check plus a text check so that
// Int(30) and String("30") stay distinct.
func (c *SQLCompiler) Compile(q query.Query) (string, []any, error) {
	conds := []string{"m != 0"}
	var params []any

	if len(c.Stores) > 0 {
		marks := make([]string, len(c.Stores))
		for i, id := range c.Stores {
			marks[i] = "?"
			params = append(params, id.String())
		}
		conds = append(conds, "store_id IN ("+strings.Join(marks, ", ")+")")
	}

	for _, term := range []struct {
		column string
		value  ir.Value
	}{
		{"e", q.E},
		{"a", q.A},
		{"v", q.V},
	} {
		if term.value == nil {
			continue
		}
		sql, termParams, err := compileTerm(term.column, term.value)
		if err != nil {
			return "", nil, fmt.Errorf("compile %s: %w", term.column, err)
		}
		conds = append(conds, sql)
		params = append(params, termParams...)
	}

	sql := fmt.Sprintf("SELECT %s FROM facts WHERE %s ORDER BY %s",
		strings.Join(Columns, ", "),
		strings.Join(conds, " AND "),
		stableOrderKey())

	return sql, params, nil
}

// compileTerm compiles one bound position to "<col>_kind = ? AND <col> = ?".
// CRITICAL: Value is NEVER interpolated - always parameterized.
func compileTerm(column string, v ir.Value) (string, []any, error) {
	kind := ir.Kind(v)
	if kind == "" {
		return "", nil, fmt.Errorf("unsupported value type %T", v)
	}
	sql := fmt.Sprintf("%s_kind = ? AND %s = ?", column, column)
	return sql, []any{kind, v.String()}, nil
}

// stableOrderKey returns the ORDER BY clause shared by every query.
// COLLATE BINARY keeps text ordering identical across SQLite versions.
func stableOrderKey() string {
	return "store_id COLLATE BINARY ASC, id COLLATE BINARY ASC"
}
