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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimcoly/h2database/internal/types"
)

func intColumns() []Column {
	return []Column{{Name: "A", Type: types.INTEGER}}
}

func TestResultDistinct(t *testing.T) {
	r := NewResult(intColumns(), nil)
	r.SetDistinct()
	r.AddRow(types.Row{types.NewInteger(1)})
	r.AddRow(types.Row{types.NewInteger(1)})
	r.AddRow(types.Row{types.NewInteger(2)})
	assert.Equal(t, 2, r.RowCount())

	assert.True(t, r.ContainsDistinct(types.Row{types.NewInteger(1)}))
	assert.False(t, r.ContainsDistinct(types.Row{types.NewInteger(3)}))
}

// Two NULL rows are duplicates to the accumulator.
func TestResultDistinctNull(t *testing.T) {
	r := NewResult(intColumns(), nil)
	r.SetDistinct()
	r.AddRow(types.Row{types.Null})
	r.AddRow(types.Row{types.Null})
	assert.Equal(t, 1, r.RowCount())
	assert.True(t, r.ContainsDistinct(types.Row{types.Null}))
}

// Values of different types with the same rendering must not collide:
// the encoding carries the type tag.
func TestResultDistinctNoCrossTypeCollision(t *testing.T) {
	r := NewResult([]Column{{Name: "A", Type: types.TEXT}}, nil)
	r.SetDistinct()
	r.AddRow(types.Row{types.NewInteger(1)})
	r.AddRow(types.Row{types.NewText("1")})
	assert.Equal(t, 2, r.RowCount())
}

func TestResultRemoveDistinct(t *testing.T) {
	r := NewResult(intColumns(), nil)
	r.SetDistinct()
	for i := int64(1); i <= 3; i++ {
		r.AddRow(types.Row{types.NewInteger(i)})
	}

	r.RemoveDistinct(types.Row{types.NewInteger(2)})
	assert.Equal(t, 2, r.RowCount())
	assert.False(t, r.ContainsDistinct(types.Row{types.NewInteger(2)}))

	// indices past the removed slot stay consistent
	r.RemoveDistinct(types.Row{types.NewInteger(3)})
	assert.Equal(t, 1, r.RowCount())
	assert.True(t, r.ContainsDistinct(types.Row{types.NewInteger(1)}))

	// removing an absent row is a no-op
	r.RemoveDistinct(types.Row{types.NewInteger(9)})
	assert.Equal(t, 1, r.RowCount())
}

func TestResultSortOffsetLimit(t *testing.T) {
	r := NewResult(intColumns(), nil)
	for _, v := range []int64{3, 1, 2, 5, 4} {
		r.AddRow(types.Row{types.NewInteger(v)})
	}
	r.SetSortOrder([]SortColumn{{Column: 0}})
	r.SetOffset(1)
	r.SetLimit(3)
	r.Done()

	var got []int64
	for r.Next() {
		i, _ := r.Row()[0].AsInt64()
		got = append(got, i)
	}
	assert.Equal(t, []int64{2, 3, 4}, got)
}

func TestResultSortNullFirstAndDescending(t *testing.T) {
	r := NewResult(intColumns(), nil)
	r.AddRow(types.Row{types.NewInteger(2)})
	r.AddRow(types.Row{types.Null})
	r.AddRow(types.Row{types.NewInteger(1)})
	r.SetSortOrder([]SortColumn{{Column: 0}})
	r.Done()

	require.True(t, r.Next())
	assert.True(t, r.Row()[0].IsNull())

	d := NewResult(intColumns(), nil)
	d.AddRow(types.Row{types.NewInteger(1)})
	d.AddRow(types.Row{types.NewInteger(2)})
	d.SetSortOrder([]SortColumn{{Column: 0, Descending: true}})
	d.Done()
	require.True(t, d.Next())
	i, _ := d.Row()[0].AsInt64()
	assert.Equal(t, int64(2), i)
}

func TestResultOffsetPastEnd(t *testing.T) {
	r := NewResult(intColumns(), nil)
	r.AddRow(types.Row{types.NewInteger(1)})
	r.SetOffset(5)
	r.Done()
	assert.Equal(t, 0, r.RowCount())
	assert.False(t, r.Next())
}

func TestValuesQuery(t *testing.T) {
	v := NewValues(intColumns(), []types.Row{
		{types.NewInteger(1)},
		{types.NewText("2")}, // coerced to the declared column type
	}, nil)

	result, err := v.Query(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 2, result.RowCount())
	result.Reset()
	require.True(t, result.Next())
	require.True(t, result.Next())
	i, ok := result.Row()[0].AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(2), i)

	assert.Equal(t, 2.0, v.Cost())
	assert.Equal(t, "VALUES (1), ('2')", v.PlanSQL())
}

func TestValuesQueryLimit(t *testing.T) {
	v := intValues("A", 1, 2, 3)
	result, err := v.Query(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount())
}

func TestUnifyColumns(t *testing.T) {
	got := UnifyColumns(
		Column{Name: "L", Type: types.INTEGER, Precision: 10, Scale: 0, DisplaySize: 11},
		Column{Name: "R", Type: types.FLOAT, Precision: 17, Scale: 5, DisplaySize: 24},
	)
	assert.Equal(t, "L", got.Name)
	assert.Equal(t, types.FLOAT, got.Type)
	assert.Equal(t, int64(17), got.Precision)
	assert.Equal(t, 5, got.Scale)
	assert.Equal(t, 24, got.DisplaySize)
}
