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
// Package index defines the iteration protocol every table-backing
// structure must satisfy, and the planning-time conditions that restrict
// an index scan range.
package index

import (
	"errors"
	"fmt"

	"github.com/jimcoly/h2database/internal/types"
)

// ErrUnsupported is returned for operations an index is structurally
// unable to perform (for example rename or truncate on a passthrough
// index). It is surfaced immediately and never retried.
var ErrUnsupported = errors.New("unsupported index operation")

// CompareOp relates a column to a bound in an index condition.
type CompareOp int

const (
	// Equal is column = bound
	Equal CompareOp = iota
	// NotEqual is column != bound
	NotEqual
	// Bigger is column > bound
	Bigger
	// BiggerEqual is column >= bound
	BiggerEqual
	// Smaller is column < bound
	Smaller
	// SmallerEqual is column <= bound
	SmallerEqual
)

// String returns the SQL operator text
func (op CompareOp) String() string {
	switch op {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case Bigger:
		return ">"
	case BiggerEqual:
		return ">="
	case Smaller:
		return "<"
	case SmallerEqual:
		return "<="
	default:
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
}

// Condition relates a column to a comparison operator and a constant
// bound. Conditions are created during planning, consumed to fix the
// scan range of one execution, and then discarded.
type Condition struct {
	Column string
	Op     CompareOp
	Bound  types.Value
}

// String renders the condition as SQL text.
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Column, c.Op, c.Bound)
}

// Cursor iterates over the rows an index lookup produced.
type Cursor interface {
	// Next advances to the next row and reports whether one exists
	Next() bool
	// Row returns the current row; valid until the next call to Next
	Row() types.Row
	// Position returns the zero-based position of the current row
	Position() int
	// Err returns the first error encountered while iterating
	Err() error
	// Close releases resources held by the cursor
	Close() error
}

// Index is the abstract contract any table-backing structure satisfies,
// including remote passthrough tables.
type Index interface {
	// Name returns the name of the index
	Name() string
	// Table returns the name of the table this index belongs to
	Table() string
	// Find returns a cursor over rows between first and last. A nil
	// value in either bound row leaves that column unconstrained; a nil
	// bound row leaves that end of the range open.
	Find(first, last types.Row) (Cursor, error)
	// Add inserts a row
	Add(row types.Row) error
	// Remove deletes a row
	Remove(row types.Row) error
	// Update replaces oldRow with newRow
	Update(oldRow, newRow types.Row) error
	// Cost estimates the lookup cost given a per-column usage mask
	Cost(masks []int) float64
	// Truncate removes all rows
	Truncate() error
	// Rename renames the index
	Rename(newName string) error
	// Close releases resources held by the index
	Close() error
}

// Column usage mask bits, combined per column and passed to Cost.
const (
	// MaskEqual marks a column constrained by equality
	MaskEqual = 1
	// MaskRangeStart marks a column constrained by a lower bound
	MaskRangeStart = 2
	// MaskRangeEnd marks a column constrained by an upper bound
	MaskRangeEnd = 4
)
