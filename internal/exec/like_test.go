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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimcoly/h2database/internal/index"
	"github.com/jimcoly/h2database/internal/pattern"
	"github.com/jimcoly/h2database/internal/types"
)

func text(s string) Const { return NewConst(types.NewText(s)) }

func nameCol() ColumnRef { return ColumnRef{Index: 0, Name: "NAME", Type: types.TEXT} }

func evalBool(t *testing.T, l *Like, row types.Row) bool {
	t.Helper()
	v, err := l.Value(row)
	require.NoError(t, err)
	b, ok := v.AsBoolean()
	require.True(t, ok, "expected BOOLEAN, got %s", v.Type())
	return b
}

func TestLikeConstantFold(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		pattern string
		want    bool
	}{
		{"match", "hello", "h%o", true},
		{"no match", "hello", "x%", false},
		{"exact", "abc", "abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLike(text(tt.subject), text(tt.pattern), nil, nil, false)
			folded, err := l.Optimize()
			require.NoError(t, err)

			c, ok := folded.(Const)
			require.True(t, ok, "all-constant LIKE must fold to a constant")
			b, ok := c.V.AsBoolean()
			require.True(t, ok)
			assert.Equal(t, tt.want, b)
		})
	}
}

// A constant NULL on either side, or a NULL ESCAPE, folds the condition
// to the NULL constant, never to an error.
func TestLikeNullFolding(t *testing.T) {
	null := NewConst(types.Null)

	tests := []struct {
		name string
		l    *Like
	}{
		{"null subject", NewLike(null, text("a%"), nil, nil, false)},
		{"null pattern", NewLike(text("a"), null, nil, nil, false)},
		{"null escape", NewLike(text("a"), text("a%"), null, nil, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folded, err := tt.l.Optimize()
			require.NoError(t, err)
			c, ok := folded.(Const)
			require.True(t, ok)
			assert.True(t, c.V.IsNull())
		})
	}
}

func TestLikeMalformedConstantPatternFailsAtOptimize(t *testing.T) {
	l := NewLike(nameCol(), text(`abc\`), nil, nil, false)
	_, err := l.Optimize()
	assert.ErrorIs(t, err, pattern.ErrDanglingEscape)
}

func TestLikeRowEvaluation(t *testing.T) {
	l := NewLike(nameCol(), text("ab%"), nil, nil, false)
	opt, err := l.Optimize()
	require.NoError(t, err)
	like, ok := opt.(*Like)
	require.True(t, ok, "non-constant subject must not fold")

	assert.True(t, evalBool(t, like, types.Row{types.NewText("abc")}))
	assert.False(t, evalBool(t, like, types.Row{types.NewText("xyz")}))

	// NULL subject evaluates to NULL
	v, err := like.Value(types.Row{types.Null})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestNotLike(t *testing.T) {
	l := NewLike(nameCol(), text("ab%"), nil, nil, false).Not()
	_, err := l.Optimize()
	require.NoError(t, err)

	assert.False(t, evalBool(t, l, types.Row{types.NewText("abc")}))
	assert.True(t, evalBool(t, l, types.Row{types.NewText("xyz")}))

	// NOT propagates NULL untouched
	v, err := l.Value(types.Row{types.Null})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestLikeCustomEscape(t *testing.T) {
	l := NewLike(nameCol(), text("100#%"), text("#"), nil, false)
	_, err := l.Optimize()
	require.NoError(t, err)

	assert.True(t, evalBool(t, l, types.Row{types.NewText("100%")}))
	assert.False(t, evalBool(t, l, types.Row{types.NewText("1000")}))
}

// A non-constant pattern compiles per row and the compilation is not
// cached across rows.
func TestLikeNonConstantPattern(t *testing.T) {
	patCol := ColumnRef{Index: 1, Name: "PAT", Type: types.TEXT}
	l := NewLike(nameCol(), patCol, nil, nil, false)
	opt, err := l.Optimize()
	require.NoError(t, err)
	like := opt.(*Like)

	assert.True(t, evalBool(t, like, types.Row{types.NewText("abc"), types.NewText("a%")}))
	assert.False(t, evalBool(t, like, types.Row{types.NewText("abc"), types.NewText("b%")}))

	// NULL pattern for one row gives NULL, later rows still evaluate
	v, err := like.Value(types.Row{types.NewText("abc"), types.Null})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
	assert.True(t, evalBool(t, like, types.Row{types.NewText("abc"), types.NewText("abc")}))
}

func TestRegexpCondition(t *testing.T) {
	l := NewRegexp(nameCol(), text("a.*c"), false)
	_, err := l.Optimize()
	require.NoError(t, err)

	assert.True(t, evalBool(t, l, types.Row{types.NewText("abc")}))
	assert.False(t, evalBool(t, l, types.Row{types.NewText("xabc")}))
}

func TestLikeIndexConditions(t *testing.T) {
	l := NewLike(nameCol(), text("abc%"), nil, nil, false)
	conds, err := l.IndexConditions()
	require.NoError(t, err)
	require.Len(t, conds, 2)
	assert.Equal(t, index.BiggerEqual, conds[0].Op)
	assert.Equal(t, types.NewText("abc"), conds[0].Bound)
	assert.Equal(t, index.Smaller, conds[1].Op)
	assert.Equal(t, types.NewText("abd"), conds[1].Bound)
}

func TestLikeIndexConditionsNotDerivable(t *testing.T) {
	intCol := ColumnRef{Index: 0, Name: "N", Type: types.INTEGER}
	patCol := ColumnRef{Index: 1, Name: "PAT", Type: types.TEXT}

	tests := []struct {
		name string
		l    *Like
	}{
		{"not like", NewLike(nameCol(), text("abc%"), nil, nil, false).Not()},
		{"regexp", NewRegexp(nameCol(), text("abc.*"), false)},
		{"non-column subject", NewLike(text("abc"), text("abc%"), nil, nil, false)},
		{"non-text column", NewLike(intCol, text("1%"), nil, nil, false)},
		{"non-constant pattern", NewLike(nameCol(), patCol, nil, nil, false)},
		{"suffix pattern", NewLike(nameCol(), text("%abc"), nil, nil, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conds, err := tt.l.IndexConditions()
			require.NoError(t, err)
			assert.Nil(t, conds)
		})
	}
}

func TestLikeString(t *testing.T) {
	l := NewLike(nameCol(), text("a%"), text("#"), nil, false)
	assert.Equal(t, "(NAME LIKE 'a%' ESCAPE '#')", l.String())

	n := NewRegexp(nameCol(), text("a.*"), false).Not()
	assert.Equal(t, "(NAME NOT REGEXP 'a.*')", n.String())
}
