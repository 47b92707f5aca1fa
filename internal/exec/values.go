/*
Copyright 2026 H2Database Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package exec

import (
	"context"
	"strings"

	"github.com/jimcoly/h2database/internal/types"
)

// Values is a leaf query over literal rows. It stands in for a child
// SELECT at the seam where the parser and storage engine (external
// collaborators) would otherwise produce sub-query results.
type Values struct {
	columns  []Column
	rows     []types.Row
	mode     *types.CompareMode
	distinct bool
}

// NewValues creates a literal-rows query.
func NewValues(columns []Column, rows []types.Row, mode *types.CompareMode) *Values {
	if mode == nil {
		mode = types.BinaryCompareMode()
	}
	return &Values{columns: columns, rows: rows, mode: mode}
}

// ColumnCount returns the number of output columns
func (v *Values) ColumnCount() int { return len(v.columns) }

// Columns returns the output column list
func (v *Values) Columns() []Column { return v.columns }

// SetDistinct forces duplicate elimination on the output.
func (v *Values) SetDistinct(distinct bool) { v.distinct = distinct }

// Cost is proportional to the number of literal rows.
func (v *Values) Cost() float64 { return float64(len(v.rows)) }

// Query materializes the literal rows, coerced to the declared column
// types. Rows are copied, never aliased.
func (v *Values) Query(ctx context.Context, limit int) (*Result, error) {
	result := NewResult(v.columns, v.mode)
	if v.distinct {
		result.SetDistinct()
	}
	for _, row := range v.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := make(types.Row, len(v.columns))
		for i := range v.columns {
			val, err := row[i].Convert(v.columns[i].Type)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		result.AddRow(out)
	}
	if limit > 0 {
		result.SetLimit(limit)
	}
	result.Done()
	return result, nil
}

// PlanSQL renders the literal rows as a VALUES list.
func (v *Values) PlanSQL() string {
	var b strings.Builder
	b.WriteString("VALUES ")
	for i, row := range v.rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, val := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(sqlLiteral(val))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// sqlLiteral renders a value as a SQL literal.
func sqlLiteral(v types.Value) string {
	if v.IsNull() {
		return "NULL"
	}
	switch v.Type() {
	case types.TEXT, types.TIMESTAMP:
		return "'" + strings.ReplaceAll(v.String(), "'", "''") + "'"
	default:
		return v.String()
	}
}
