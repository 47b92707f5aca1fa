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
package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is a tagged union over the SQL scalar types. The zero Value is
// NULL. Values are immutable; Convert returns a new Value.
type Value struct {
	typ DataType
	b   bool
	i   int64
	f   float64
	s   string
	t   time.Time
}

// Null is the NULL value.
var Null = Value{typ: NULL}

// NewBoolean returns a BOOLEAN value
func NewBoolean(b bool) Value { return Value{typ: BOOLEAN, b: b} }

// NewInteger returns an INTEGER value
func NewInteger(i int64) Value { return Value{typ: INTEGER, i: i} }

// NewFloat returns a FLOAT value
func NewFloat(f float64) Value { return Value{typ: FLOAT, f: f} }

// NewText returns a TEXT value
func NewText(s string) Value { return Value{typ: TEXT, s: s} }

// NewTimestamp returns a TIMESTAMP value
func NewTimestamp(t time.Time) Value { return Value{typ: TIMESTAMP, t: t} }

// Type returns the data type of the value
func (v Value) Type() DataType { return v.typ }

// IsNull reports whether the value is NULL
func (v Value) IsNull() bool { return v.typ == NULL }

// AsBoolean returns the boolean value and whether the value is a BOOLEAN
func (v Value) AsBoolean() (bool, bool) { return v.b, v.typ == BOOLEAN }

// AsInt64 returns the integer value and whether the value is an INTEGER
func (v Value) AsInt64() (int64, bool) { return v.i, v.typ == INTEGER }

// AsFloat64 returns the float value and whether the value is a FLOAT
func (v Value) AsFloat64() (float64, bool) { return v.f, v.typ == FLOAT }

// AsString returns the string value and whether the value is a TEXT
func (v Value) AsString() (string, bool) { return v.s, v.typ == TEXT }

// AsTimestamp returns the time value and whether the value is a TIMESTAMP
func (v Value) AsTimestamp() (time.Time, bool) { return v.t, v.typ == TIMESTAMP }

// AsInterface returns the underlying value boxed in an interface, or nil
// for NULL. Used when binding values as SQL statement parameters.
func (v Value) AsInterface() interface{} {
	switch v.typ {
	case NULL:
		return nil
	case BOOLEAN:
		return v.b
	case INTEGER:
		return v.i
	case FLOAT:
		return v.f
	case TIMESTAMP:
		return v.t
	case TEXT:
		return v.s
	}
	return nil
}

// String renders the value the way it would appear in a result set.
func (v Value) String() string {
	switch v.typ {
	case NULL:
		return "NULL"
	case BOOLEAN:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case INTEGER:
		return strconv.FormatInt(v.i, 10)
	case FLOAT:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TIMESTAMP:
		return v.t.Format(time.RFC3339Nano)
	case TEXT:
		return v.s
	}
	return fmt.Sprintf("Value(%d)", int(v.typ))
}

// Convert returns the value converted to the target type. NULL converts
// to NULL of any type. Conversions that cannot represent the value
// return an error.
func (v Value) Convert(target DataType) (Value, error) {
	if v.typ == target || v.typ == NULL {
		return v, nil
	}
	switch target {
	case BOOLEAN:
		switch v.typ {
		case INTEGER:
			return NewBoolean(v.i != 0), nil
		case FLOAT:
			return NewBoolean(v.f != 0), nil
		case TEXT:
			switch strings.ToUpper(strings.TrimSpace(v.s)) {
			case "TRUE", "T", "1":
				return NewBoolean(true), nil
			case "FALSE", "F", "0":
				return NewBoolean(false), nil
			}
			return Null, fmt.Errorf("cannot convert %q to BOOLEAN", v.s)
		}
	case INTEGER:
		switch v.typ {
		case BOOLEAN:
			if v.b {
				return NewInteger(1), nil
			}
			return NewInteger(0), nil
		case FLOAT:
			return NewInteger(int64(v.f)), nil
		case TEXT:
			i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
			if err != nil {
				return Null, fmt.Errorf("cannot convert %q to INTEGER: %w", v.s, err)
			}
			return NewInteger(i), nil
		case TIMESTAMP:
			return NewInteger(v.t.UnixNano()), nil
		}
	case FLOAT:
		switch v.typ {
		case BOOLEAN:
			if v.b {
				return NewFloat(1), nil
			}
			return NewFloat(0), nil
		case INTEGER:
			return NewFloat(float64(v.i)), nil
		case TEXT:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
			if err != nil {
				return Null, fmt.Errorf("cannot convert %q to FLOAT: %w", v.s, err)
			}
			return NewFloat(f), nil
		}
	case TIMESTAMP:
		switch v.typ {
		case TEXT:
			t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.s))
			if err != nil {
				return Null, fmt.Errorf("cannot convert %q to TIMESTAMP: %w", v.s, err)
			}
			return NewTimestamp(t), nil
		case INTEGER:
			return NewTimestamp(time.Unix(0, v.i).UTC()), nil
		}
	case TEXT:
		return NewText(v.String()), nil
	}
	return Null, fmt.Errorf("cannot convert %s to %s", v.typ, target)
}

// Row represents a single row of data
type Row []Value

// CloneRow returns a copy of the row. Values are immutable, so a shallow
// copy of the slice is a full copy.
func CloneRow(row Row) Row {
	out := make(Row, len(row))
	copy(out, row)
	return out
}
