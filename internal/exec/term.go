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
	"fmt"

	"github.com/jimcoly/h2database/internal/types"
)

// Term is an operand of a row condition: a constant, a column
// reference, or a nested condition.
type Term interface {
	// Value evaluates the term against a row. Constant terms accept a
	// nil row.
	Value(row types.Row) (types.Value, error)
	// IsConstant reports whether the term is a compile-time constant
	IsConstant() bool
	// String renders the term as SQL text
	String() string
}

// Const is a constant term.
type Const struct {
	V types.Value
}

// NewConst returns a constant term.
func NewConst(v types.Value) Const { return Const{V: v} }

// Value returns the constant
func (c Const) Value(types.Row) (types.Value, error) { return c.V, nil }

// IsConstant reports true
func (c Const) IsConstant() bool { return true }

// String renders the constant as a SQL literal
func (c Const) String() string { return sqlLiteral(c.V) }

// ColumnRef is a term referencing a column of the current row.
type ColumnRef struct {
	Index int
	Name  string
	Type  types.DataType
}

// Value returns the row's value at the referenced column
func (c ColumnRef) Value(row types.Row) (types.Value, error) {
	if c.Index < 0 || c.Index >= len(row) {
		return types.Null, fmt.Errorf("column %s: index %d out of range for row of %d columns",
			c.Name, c.Index, len(row))
	}
	return row[c.Index], nil
}

// IsConstant reports false
func (c ColumnRef) IsConstant() bool { return false }

// String renders the column name
func (c ColumnRef) String() string { return c.Name }
