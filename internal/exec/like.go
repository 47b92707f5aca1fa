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
	"github.com/jimcoly/h2database/internal/index"
	"github.com/jimcoly/h2database/internal/pattern"
	"github.com/jimcoly/h2database/internal/types"
)

// Like is the condition behind `<expr> [NOT] LIKE <pattern>
// [ESCAPE <char>]` and `<expr> REGEXP <pattern>`. It produces BOOLEAN,
// or NULL whenever the subject, pattern or escape is NULL.
//
// When the pattern and escape are compile-time constants the pattern is
// compiled once during Optimize and reused per row; otherwise it is
// compiled lazily at each evaluation. A Like is owned by one statement;
// sharing a compiled Like across goroutines is safe only after Optimize
// completed under a single writer.
type Like struct {
	mode       *types.CompareMode
	regex      bool
	not        bool
	ignoreCase bool

	left   Term
	right  Term
	escape Term // nil when the ESCAPE clause is omitted

	compiled *pattern.Pattern
}

// NewLike creates a LIKE condition. escape may be nil; the default
// escape character then applies.
func NewLike(left, right, escape Term, mode *types.CompareMode, ignoreCase bool) *Like {
	if mode == nil {
		mode = types.BinaryCompareMode()
	}
	return &Like{mode: mode, left: left, right: right, escape: escape, ignoreCase: ignoreCase}
}

// NewRegexp creates a REGEXP condition.
func NewRegexp(left, right Term, ignoreCase bool) *Like {
	return &Like{mode: types.BinaryCompareMode(), regex: true, left: left, right: right, ignoreCase: ignoreCase}
}

// Not toggles NOT LIKE / NOT REGEXP and returns the condition.
func (l *Like) Not() *Like {
	l.not = !l.not
	return l
}

// Value implements Term: constants fold to one of these outcomes here.
var _ Term = (*Like)(nil)

// IsConstant reports whether every operand is constant.
func (l *Like) IsConstant() bool {
	if !l.left.IsConstant() || !l.right.IsConstant() {
		return false
	}
	return l.escape == nil || l.escape.IsConstant()
}

// Optimize constant-folds the condition. A constant NULL subject,
// pattern or escape folds the whole condition to NULL; an all-constant
// condition folds to its result. Otherwise, if the pattern and escape
// are constants, the pattern is compiled once here so evaluation never
// recompiles. Malformed constant patterns fail here, at prepare time.
func (l *Like) Optimize() (Term, error) {
	if l.left.IsConstant() {
		v, err := l.left.Value(nil)
		if err != nil {
			return nil, err
		}
		if v.IsNull() {
			// NULL LIKE anything is NULL
			return NewConst(types.Null), nil
		}
	}
	if l.right.IsConstant() && (l.escape == nil || l.escape.IsConstant()) {
		p, err := l.right.Value(nil)
		if err != nil {
			return nil, err
		}
		if p.IsNull() {
			// anything LIKE NULL is NULL
			return NewConst(types.Null), nil
		}
		esc := types.Null
		if l.escape != nil {
			esc, err = l.escape.Value(nil)
			if err != nil {
				return nil, err
			}
			if esc.IsNull() {
				return NewConst(types.Null), nil
			}
		}
		if err := l.compile(p, esc); err != nil {
			return nil, err
		}
		if l.left.IsConstant() {
			v, err := l.Value(nil)
			if err != nil {
				return nil, err
			}
			return NewConst(v), nil
		}
	}
	return l, nil
}

// compile compiles the pattern value with the given escape value and
// caches the result. A NULL or empty escape value falls back to the
// default escape character; callers fold a present-but-NULL ESCAPE
// clause to NULL before getting here.
func (l *Like) compile(patternValue, escapeValue types.Value) error {
	ps, err := patternValue.Convert(types.TEXT)
	if err != nil {
		return err
	}
	src, _ := ps.AsString()
	if l.regex {
		l.compiled, err = pattern.CompileRegexp(src, l.ignoreCase)
		return err
	}
	esc := rune(pattern.DefaultEscape)
	if !escapeValue.IsNull() {
		es, err := escapeValue.Convert(types.TEXT)
		if err != nil {
			return err
		}
		if s, _ := es.AsString(); s != "" {
			esc = []rune(s)[0]
		}
	}
	l.compiled, err = pattern.Compile(src, esc, l.mode, l.ignoreCase)
	return err
}

// Value evaluates the condition against a row with three-valued logic.
func (l *Like) Value(row types.Row) (types.Value, error) {
	subject, err := l.left.Value(row)
	if err != nil {
		return types.Null, err
	}
	if subject.IsNull() {
		return types.Null, nil
	}
	p := l.compiled
	if p == nil {
		// pattern or escape is not constant: compile for this row
		pv, err := l.right.Value(row)
		if err != nil {
			return types.Null, err
		}
		if pv.IsNull() {
			return types.Null, nil
		}
		ev := types.Null
		if l.escape != nil {
			ev, err = l.escape.Value(row)
			if err != nil {
				return types.Null, err
			}
			if ev.IsNull() {
				return types.Null, nil
			}
		}
		if err := l.compile(pv, ev); err != nil {
			return types.Null, err
		}
		p = l.compiled
		l.compiled = nil
	}
	sv, err := subject.Convert(types.TEXT)
	if err != nil {
		return types.Null, err
	}
	s, _ := sv.AsString()
	matched := p.Matches(s)
	if l.not {
		matched = !matched
	}
	return types.NewBoolean(matched), nil
}

// IndexConditions derives sargable index conditions at planning time.
// Nothing is derivable for REGEXP or NOT LIKE, for a non-constant
// pattern or escape, for a non-column subject, or for a column that is
// not text.
func (l *Like) IndexConditions() ([]index.Condition, error) {
	if l.regex || l.not {
		return nil, nil
	}
	col, ok := l.left.(ColumnRef)
	if !ok {
		return nil, nil
	}
	if col.Type != types.TEXT && col.Type != types.NULL {
		// column is not text: an index range over text order would not
		// line up with the column's order
		return nil, nil
	}
	if !l.right.IsConstant() || (l.escape != nil && !l.escape.IsConstant()) {
		return nil, nil
	}
	if l.compiled == nil {
		p, err := l.right.Value(nil)
		if err != nil {
			return nil, err
		}
		if p.IsNull() {
			return nil, nil
		}
		esc := types.Null
		if l.escape != nil {
			if esc, err = l.escape.Value(nil); err != nil {
				return nil, err
			}
			if esc.IsNull() {
				return nil, nil
			}
		}
		if err := l.compile(p, esc); err != nil {
			return nil, err
		}
	}
	return index.DeriveLike(l.compiled, col.Name, l.mode, l.ignoreCase), nil
}

// String renders the condition as SQL text.
func (l *Like) String() string {
	op := " LIKE "
	if l.regex {
		op = " REGEXP "
	}
	if l.not {
		op = " NOT" + op
	}
	sql := l.left.String() + op + l.right.String()
	if !l.regex && l.escape != nil {
		sql += " ESCAPE " + l.escape.String()
	}
	return "(" + sql + ")"
}
