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
	"fmt"

	"github.com/jimcoly/h2database/internal/types"
)

// SetOpType is the operator of a set-operation query.
type SetOpType int

const (
	// Union is UNION (distinct)
	Union SetOpType = iota
	// UnionAll is UNION ALL
	UnionAll
	// Except is EXCEPT (distinct)
	Except
	// Intersect is INTERSECT (distinct)
	Intersect
)

// String returns the SQL keyword for the operator
func (t SetOpType) String() string {
	switch t {
	case Union:
		return "UNION"
	case UnionAll:
		return "UNION ALL"
	case Except:
		return "EXCEPT"
	case Intersect:
		return "INTERSECT"
	default:
		return fmt.Sprintf("SetOpType(%d)", int(t))
	}
}

// SetOperation combines two sub-queries with UNION, UNION ALL, EXCEPT or
// INTERSECT. Both children are fully materialized before combination;
// memory is bounded by the sum of the child result sizes plus the
// distinct accumulator.
//
// Lifecycle: Init validates the column counts, Prepare unifies the
// output columns, Query runs the combination. Init and Prepare run at
// most once.
type SetOperation struct {
	typ   SetOpType
	left  Query
	right Query
	mode  *types.CompareMode

	columns   []Column
	distinct  bool
	forUpdate bool
	sortOrder []SortColumn
	offset    int
	limit     int

	initialized bool
	prepared    bool
}

// NewSetOperation creates a set operation over two sub-queries.
func NewSetOperation(typ SetOpType, left, right Query, mode *types.CompareMode) *SetOperation {
	if mode == nil {
		mode = types.BinaryCompareMode()
	}
	return &SetOperation{
		typ:   typ,
		left:  left,
		right: right,
		mode:  mode,
		limit: -1,
	}
}

// Init validates that both children produce the same number of columns
// and provisionally adopts the left side's column list. Calling Init
// twice is an error.
func (s *SetOperation) Init() error {
	if s.initialized {
		return fmt.Errorf("set operation already initialized")
	}
	s.initialized = true
	if s.left.ColumnCount() != s.right.ColumnCount() {
		return fmt.Errorf("%s of %d and %d columns: %w",
			s.typ, s.left.ColumnCount(), s.right.ColumnCount(), ErrColumnCountMismatch)
	}
	s.columns = append([]Column(nil), s.left.Columns()...)
	return nil
}

// Prepare builds the unified output column list by widening each pair of
// corresponding columns. Preparing twice is a no-op; a subquery is
// sometimes prepared again by an enclosing statement.
func (s *SetOperation) Prepare() error {
	if s.prepared {
		return nil
	}
	if !s.initialized {
		return fmt.Errorf("set operation not initialized")
	}
	s.prepared = true
	le := s.left.Columns()
	re := s.right.Columns()
	s.columns = make([]Column, len(le))
	for i := range le {
		s.columns[i] = UnifyColumns(le[i], re[i])
	}
	return nil
}

// ColumnCount returns the number of output columns
func (s *SetOperation) ColumnCount() int { return s.left.ColumnCount() }

// Columns returns the output column list
func (s *SetOperation) Columns() []Column { return s.columns }

// SetDistinct forces a global DISTINCT over the combined output.
func (s *SetOperation) SetDistinct(distinct bool) { s.distinct = distinct }

// SetForUpdate marks both sides FOR UPDATE.
func (s *SetOperation) SetForUpdate(forUpdate bool) {
	type forUpdater interface{ SetForUpdate(bool) }
	if l, ok := s.left.(forUpdater); ok {
		l.SetForUpdate(forUpdate)
	}
	if r, ok := s.right.(forUpdater); ok {
		r.SetForUpdate(forUpdate)
	}
	s.forUpdate = forUpdate
}

// SetSortOrder sets the ORDER BY applied to the combined result.
func (s *SetOperation) SetSortOrder(order []SortColumn) { s.sortOrder = order }

// SetOffset sets the OFFSET applied to the combined result.
func (s *SetOperation) SetOffset(offset int) { s.offset = offset }

// SetLimit sets the LIMIT applied to the combined result. Negative
// means no limit.
func (s *SetOperation) SetLimit(limit int) { s.limit = limit }

// Cost is the sum of both children's costs; the combination overhead is
// negligible next to child execution.
func (s *SetOperation) Cost() float64 { return s.left.Cost() + s.right.Cost() }

// convert coerces every column of a row to the unified output types so
// that comparison and hashing in the distinct accumulator behave
// uniformly regardless of which side produced the row.
func (s *SetOperation) convert(row types.Row) (types.Row, error) {
	out := make(types.Row, len(s.columns))
	for i := range s.columns {
		v, err := row[i].Convert(s.columns[i].Type)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Query executes the set operation. maxRows > 0 caps the output on top
// of any configured LIMIT. Cancellation is observed between rows.
func (s *SetOperation) Query(ctx context.Context, maxRows int) (*Result, error) {
	if !s.initialized {
		if err := s.Init(); err != nil {
			return nil, err
		}
	}
	if err := s.Prepare(); err != nil {
		return nil, err
	}
	limit := s.limit
	if maxRows > 0 && (limit < 0 || maxRows < limit) {
		limit = maxRows
	}

	result := NewResult(s.columns, s.mode)
	result.SetSortOrder(s.sortOrder)
	if s.distinct {
		s.left.SetDistinct(true)
		s.right.SetDistinct(true)
		result.SetDistinct()
	}
	switch s.typ {
	case Union, Except:
		s.left.SetDistinct(true)
		s.right.SetDistinct(true)
		result.SetDistinct()
	case UnionAll:
	case Intersect:
		s.left.SetDistinct(true)
		s.right.SetDistinct(true)
	default:
		return nil, fmt.Errorf("unknown set operation type %d", int(s.typ))
	}

	l, err := s.left.Query(ctx, 0)
	if err != nil {
		return nil, err
	}
	r, err := s.right.Query(ctx, 0)
	if err != nil {
		return nil, err
	}
	l.Reset()
	r.Reset()

	switch s.typ {
	case UnionAll, Union:
		for l.Next() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			row, err := s.convert(l.Row())
			if err != nil {
				return nil, err
			}
			result.AddRow(row)
		}
		for r.Next() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			row, err := s.convert(r.Row())
			if err != nil {
				return nil, err
			}
			result.AddRow(row)
		}
	case Except:
		for l.Next() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			row, err := s.convert(l.Row())
			if err != nil {
				return nil, err
			}
			result.AddRow(row)
		}
		for r.Next() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			row, err := s.convert(r.Row())
			if err != nil {
				return nil, err
			}
			result.RemoveDistinct(row)
		}
	case Intersect:
		temp := NewResult(s.columns, s.mode)
		temp.SetDistinct()
		for l.Next() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			row, err := s.convert(l.Row())
			if err != nil {
				return nil, err
			}
			temp.AddRow(row)
		}
		for r.Next() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			row, err := s.convert(r.Row())
			if err != nil {
				return nil, err
			}
			if temp.ContainsDistinct(row) {
				result.AddRow(row)
			}
		}
	}
	result.SetOffset(s.offset)
	result.SetLimit(limit)
	result.Done()
	return result, nil
}

// PlanSQL renders the combined plan as SQL text.
func (s *SetOperation) PlanSQL() string {
	sql := "(" + s.left.PlanSQL() + ") " + s.typ.String() + " (" + s.right.PlanSQL() + ")"
	if len(s.sortOrder) > 0 {
		sql += " ORDER BY "
		for i, sc := range s.sortOrder {
			if i > 0 {
				sql += ", "
			}
			sql += fmt.Sprintf("%d", sc.Column+1)
			if sc.Descending {
				sql += " DESC"
			}
		}
	}
	if s.limit >= 0 {
		sql += fmt.Sprintf(" LIMIT %d", s.limit)
		if s.offset > 0 {
			sql += fmt.Sprintf(" OFFSET %d", s.offset)
		}
	}
	if s.forUpdate {
		sql += " FOR UPDATE"
	}
	return sql
}
