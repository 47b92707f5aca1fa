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
	"sort"
	"strconv"

	"github.com/jimcoly/h2database/internal/common"
	"github.com/jimcoly/h2database/internal/types"
)

// SortColumn is one ORDER BY entry over a result's output columns.
type SortColumn struct {
	Column     int
	Descending bool
}

// Result is a fully materialized, ordered, optionally deduplicated
// sequence of rows. It is filled with AddRow (and trimmed with
// RemoveDistinct), finished with Done, and then iterated with
// Reset/Next/Row.
//
// Rows added to a distinct result must already be coerced to the
// result's column types; the distinct accumulator keys on the canonical
// encoding of the row, so uniform types are what make value equality
// uniform regardless of which side produced the row.
type Result struct {
	columns []Column
	mode    *types.CompareMode

	rows     []types.Row
	distinct bool
	// distinctRows maps the canonical row encoding to the row's slot in
	// rows. Two NULLs encode identically, matching DISTINCT semantics.
	distinctRows map[string]int

	sortOrder []SortColumn
	offset    int
	limit     int

	pos  int
	done bool
}

// NewResult creates an empty result buffer with the given output
// columns.
func NewResult(columns []Column, mode *types.CompareMode) *Result {
	if mode == nil {
		mode = types.BinaryCompareMode()
	}
	return &Result{
		columns: columns,
		mode:    mode,
		limit:   -1,
		pos:     -1,
	}
}

// Columns returns the output column list
func (r *Result) Columns() []Column { return r.columns }

// SetDistinct turns on duplicate elimination for rows added from now on.
func (r *Result) SetDistinct() {
	r.distinct = true
	if r.distinctRows == nil {
		r.distinctRows = make(map[string]int)
	}
}

// SetSortOrder sets the ORDER BY applied when the result is done.
func (r *Result) SetSortOrder(order []SortColumn) { r.sortOrder = order }

// SetOffset sets the number of leading rows dropped when the result is
// done.
func (r *Result) SetOffset(offset int) { r.offset = offset }

// SetLimit caps the number of rows kept when the result is done. A
// negative limit means no cap.
func (r *Result) SetLimit(limit int) { r.limit = limit }

// AddRow appends a row, dropping it if the result is distinct and an
// equal row is already present. The row is not aliased: callers hand
// over ownership of the slice.
func (r *Result) AddRow(row types.Row) {
	if r.distinct {
		key := encodeRow(row)
		if _, ok := r.distinctRows[key]; ok {
			return
		}
		r.distinctRows[key] = len(r.rows)
	}
	r.rows = append(r.rows, row)
}

// ContainsDistinct reports whether an equal row was added to this
// distinct result.
func (r *Result) ContainsDistinct(row types.Row) bool {
	if r.distinctRows == nil {
		return false
	}
	_, ok := r.distinctRows[encodeRow(row)]
	return ok
}

// RemoveDistinct removes the row equal to the given row, if present.
// Only valid on a distinct result.
func (r *Result) RemoveDistinct(row types.Row) {
	if r.distinctRows == nil {
		return
	}
	key := encodeRow(row)
	at, ok := r.distinctRows[key]
	if !ok {
		return
	}
	delete(r.distinctRows, key)
	r.rows = append(r.rows[:at], r.rows[at+1:]...)
	for k, idx := range r.distinctRows {
		if idx > at {
			r.distinctRows[k] = idx - 1
		}
	}
}

// Done finishes the result: applies the sort order, then offset and
// limit, and positions the cursor before the first row.
func (r *Result) Done() {
	if len(r.sortOrder) > 0 {
		sort.SliceStable(r.rows, func(i, j int) bool {
			return r.lessRows(r.rows[i], r.rows[j])
		})
	}
	if r.offset > 0 {
		if r.offset >= len(r.rows) {
			r.rows = nil
		} else {
			r.rows = r.rows[r.offset:]
		}
	}
	if r.limit >= 0 && r.limit < len(r.rows) {
		r.rows = r.rows[:r.limit]
	}
	r.done = true
	r.pos = -1
}

// lessRows orders rows by the sort columns, NULL first.
func (r *Result) lessRows(a, b types.Row) bool {
	for _, sc := range r.sortOrder {
		av, bv := a[sc.Column], b[sc.Column]
		var cmp int
		switch {
		case av.IsNull() && bv.IsNull():
			continue
		case av.IsNull():
			cmp = -1
		case bv.IsNull():
			cmp = 1
		default:
			c, _, err := types.Compare(av, bv, r.mode)
			if err != nil {
				continue
			}
			cmp = c
		}
		if cmp == 0 {
			continue
		}
		if sc.Descending {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

// Reset positions the cursor before the first row.
func (r *Result) Reset() { r.pos = -1 }

// Next advances the cursor and reports whether a row exists.
func (r *Result) Next() bool {
	if r.pos+1 >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

// Row returns the current row.
func (r *Result) Row() types.Row {
	if r.pos < 0 || r.pos >= len(r.rows) {
		return nil
	}
	return r.rows[r.pos]
}

// RowCount returns the number of rows in the result.
func (r *Result) RowCount() int { return len(r.rows) }

// encodeRow produces a canonical, collision-free encoding of a row for
// the distinct accumulator: per value a type tag and a length-prefixed
// rendering.
func encodeRow(row types.Row) string {
	b := common.GetBuilder()
	defer common.PutBuilder(b)
	for _, v := range row {
		if v.IsNull() {
			b.WriteString("n;")
			continue
		}
		s := v.String()
		b.WriteString(strconv.Itoa(int(v.Type())))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
		b.WriteByte(';')
	}
	return b.String()
}
