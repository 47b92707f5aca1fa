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
// Package exec evaluates queries: it materializes child results,
// combines them with set operations, and evaluates row conditions such
// as LIKE with SQL's three-valued logic.
package exec

import (
	"context"
	"errors"

	"github.com/jimcoly/h2database/internal/types"
)

// ErrColumnCountMismatch is returned at prepare time when the two sides
// of a set operation produce different column counts.
var ErrColumnCountMismatch = errors.New("column count does not match")

// Column describes one output column of a query.
type Column struct {
	Name        string
	Type        types.DataType
	Precision   int64
	Scale       int
	DisplaySize int
}

// UnifyColumns widens a pair of corresponding columns from the two sides
// of a set operation: higher-ranked type, widest precision, widest
// scale, widest display width. The left column supplies the name.
func UnifyColumns(l, r Column) Column {
	out := Column{
		Name:        l.Name,
		Type:        types.HigherOrder(l.Type, r.Type),
		Precision:   l.Precision,
		Scale:       l.Scale,
		DisplaySize: l.DisplaySize,
	}
	if r.Precision > out.Precision {
		out.Precision = r.Precision
	}
	if r.Scale > out.Scale {
		out.Scale = r.Scale
	}
	if r.DisplaySize > out.DisplaySize {
		out.DisplaySize = r.DisplaySize
	}
	return out
}

// Query is a prepared sub-query that can be executed to a fully
// materialized result. Implementations include the Values leaf and the
// set-operation combinator.
type Query interface {
	// ColumnCount returns the number of output columns
	ColumnCount() int
	// Columns returns the output column list
	Columns() []Column
	// SetDistinct forces duplicate elimination on the query's output
	SetDistinct(distinct bool)
	// Query executes and returns a materialized result. limit > 0 caps
	// the number of output rows. Cancellation of ctx is observed at row
	// granularity.
	Query(ctx context.Context, limit int) (*Result, error)
	// Cost estimates the execution cost for the planner
	Cost() float64
	// PlanSQL renders the query's plan as SQL text
	PlanSQL() string
}
