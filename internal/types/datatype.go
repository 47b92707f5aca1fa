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
// Package types defines the SQL value model shared by the expression,
// index and query layers: typed scalar values, NULL semantics, and
// collation-aware comparison.
package types

import "fmt"

// DataType represents a column data type
type DataType int

const (
	// NULL represents an NULL data type, used for values of unknown type
	NULL DataType = iota
	// BOOLEAN represents a boolean data type
	BOOLEAN
	// INTEGER represents a 64-bit integer data type
	INTEGER
	// FLOAT represents a 64-bit floating point data type
	FLOAT
	// TIMESTAMP represents a timestamp data type
	TIMESTAMP
	// TEXT represents a string data type
	TEXT
)

// String returns a string representation of the DataType
func (dt DataType) String() string {
	switch dt {
	case NULL:
		return "NULL"
	case BOOLEAN:
		return "BOOLEAN"
	case INTEGER:
		return "INTEGER"
	case FLOAT:
		return "FLOAT"
	case TIMESTAMP:
		return "TIMESTAMP"
	case TEXT:
		return "TEXT"
	default:
		return fmt.Sprintf("DataType(%d)", dt)
	}
}

// order is the numeric promotion ladder. When two values of different
// types meet (arithmetic, set-operation column unification), the result
// takes the type with the higher rank. TEXT ranks highest because every
// value converts to text losslessly.
var order = map[DataType]int{
	NULL:      0,
	BOOLEAN:   1,
	INTEGER:   2,
	FLOAT:     3,
	TIMESTAMP: 4,
	TEXT:      5,
}

// HigherOrder returns the wider of the two data types according to the
// promotion ladder. NULL is absorbed by any other type.
func HigherOrder(a, b DataType) DataType {
	if order[a] >= order[b] {
		return a
	}
	return b
}
