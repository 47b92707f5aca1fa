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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructorsAndAccessors(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name string
		v    Value
		typ  DataType
		text string
	}{
		{"null", Null, NULL, "NULL"},
		{"boolean true", NewBoolean(true), BOOLEAN, "TRUE"},
		{"boolean false", NewBoolean(false), BOOLEAN, "FALSE"},
		{"integer", NewInteger(-42), INTEGER, "-42"},
		{"float", NewFloat(2.5), FLOAT, "2.5"},
		{"text", NewText("hello"), TEXT, "hello"},
		{"timestamp", NewTimestamp(ts), TIMESTAMP, "2026-03-14T09:26:53Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.v.Type())
			assert.Equal(t, tt.text, tt.v.String())
			assert.Equal(t, tt.typ == NULL, tt.v.IsNull())
		})
	}
}

func TestValueConvert(t *testing.T) {
	tests := []struct {
		name    string
		v       Value
		target  DataType
		want    Value
		wantErr bool
	}{
		{"null to anything", Null, INTEGER, Null, false},
		{"same type", NewInteger(7), INTEGER, NewInteger(7), false},
		{"integer to float", NewInteger(3), FLOAT, NewFloat(3), false},
		{"integer to text", NewInteger(3), TEXT, NewText("3"), false},
		{"float to integer truncates", NewFloat(3.9), INTEGER, NewInteger(3), false},
		{"boolean to integer", NewBoolean(true), INTEGER, NewInteger(1), false},
		{"text to integer", NewText(" 12 "), INTEGER, NewInteger(12), false},
		{"text to integer bad", NewText("abc"), INTEGER, Null, true},
		{"text to boolean", NewText("true"), BOOLEAN, NewBoolean(true), false},
		{"text to boolean bad", NewText("maybe"), BOOLEAN, Null, true},
		{"float to text", NewFloat(1.25), TEXT, NewText("1.25"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.Convert(tt.target)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueAsInterface(t *testing.T) {
	assert.Nil(t, Null.AsInterface())
	assert.Equal(t, int64(5), NewInteger(5).AsInterface())
	assert.Equal(t, "x", NewText("x").AsInterface())
	assert.Equal(t, true, NewBoolean(true).AsInterface())
}

func TestHigherOrder(t *testing.T) {
	assert.Equal(t, FLOAT, HigherOrder(INTEGER, FLOAT))
	assert.Equal(t, FLOAT, HigherOrder(FLOAT, INTEGER))
	assert.Equal(t, TEXT, HigherOrder(INTEGER, TEXT))
	assert.Equal(t, INTEGER, HigherOrder(NULL, INTEGER))
	assert.Equal(t, INTEGER, HigherOrder(BOOLEAN, INTEGER))
}

func TestCloneRow(t *testing.T) {
	row := Row{NewInteger(1), NewText("a")}
	clone := CloneRow(row)
	require.Equal(t, row, clone)
	clone[0] = NewInteger(2)
	assert.Equal(t, NewInteger(1), row[0])
}
