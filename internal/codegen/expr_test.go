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
package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, n Node) string {
	t.Helper()
	s, err := n.Render()
	require.NoError(t, err)
	return s
}

func TestLiteralRender(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, "42", render(t, NewLiteral(reg, "int", "42")))
	assert.Equal(t, "true", render(t, NewLiteral(reg, "boolean", "true")))
}

// A null literal is polymorphic until its first cast binds the type; a
// typed null renders as the zero-value constructor of its type.
func TestNullLiteral(t *testing.T) {
	reg := NewRegistry()
	intT := &Type{Class: reg.MustClass("int")}
	stringT := &Type{Class: reg.MustClass("String")}

	untyped := NewNullLiteral(reg)
	_, err := untyped.Render()
	assert.Error(t, err)

	assert.Equal(t, "int()", render(t, NewNullLiteral(reg).CastTo(intT)))
	assert.Equal(t, "String*()", render(t, NewNullLiteral(reg).CastTo(stringT)))

	// casting a non-null literal is a no-op
	lit := NewLiteral(reg, "int", "7")
	assert.Equal(t, "7", render(t, lit.CastTo(stringT)))
	typ, err := lit.ResultType()
	require.NoError(t, err)
	assert.Equal(t, "int", typ.Class.Name)
}

func TestStringLiteral(t *testing.T) {
	reg := NewRegistry()
	s := NewStringLiteral(reg, "STR_0", "hi")
	assert.Equal(t, "STR_0", render(t, s))
	typ, err := s.ResultType()
	require.NoError(t, err)
	assert.Equal(t, "String", typ.Class.Name)
}

func TestEncodeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"tab\there", `tab\there`},
		{`say "hi"`, `say \"hi\"`},
		{`back\slash`, `back\\slash`},
		{"line\nbreak", `line\nbreak`},
		{"café", `caf\u00e9`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeString(tt.in), "input %q", tt.in)
	}
}

func TestOpPromotion(t *testing.T) {
	reg := NewRegistry()
	intT := &Type{Class: reg.MustClass("int")}
	doubleT := &Type{Class: reg.MustClass("double")}

	sum := NewOp(reg, NewLocal(reg, "x", intT), "+", NewLocal(reg, "d", doubleT))
	typ, err := sum.ResultType()
	require.NoError(t, err)
	assert.Equal(t, "double", typ.Class.Name)
	assert.Equal(t, "(x + d)", render(t, sum))

	cmp := NewOp(reg, NewLocal(reg, "x", intT), "<", NewLocal(reg, "d", doubleT))
	typ, err = cmp.ResultType()
	require.NoError(t, err)
	assert.Equal(t, "boolean", typ.Class.Name)
}

// The unsigned right shift has no direct lowering; the left operand is
// reinterpreted as unsigned before a plain shift.
func TestOpUnsignedShift(t *testing.T) {
	reg := NewRegistry()
	intT := &Type{Class: reg.MustClass("int")}
	longT := &Type{Class: reg.MustClass("long")}

	n := NewOp(reg, NewLocal(reg, "x", intT), ">>>", NewLiteral(reg, "int", "2"))
	assert.Equal(t, "(((uint) x) >> 2)", render(t, n))

	n = NewOp(reg, NewLocal(reg, "y", longT), ">>>", NewLiteral(reg, "int", "1"))
	assert.Equal(t, "(((ulong) y) >> 1)", render(t, n))
}

// Object concatenation lowers to a string-builder chain with each
// operand converted to a string.
func TestOpStringConcat(t *testing.T) {
	reg := NewRegistry()
	stringT := &Type{Class: reg.MustClass("String")}

	n := NewOp(reg, NewStringLiteral(reg, "STR_0", "a"), "+", NewLiteral(reg, "int", "1"))
	assert.Equal(t,
		"(new StringBuilder(STR_0))->append(Integer_toString(1))->toString()",
		render(t, n))
	typ, err := n.ResultType()
	require.NoError(t, err)
	assert.Equal(t, "String", typ.Class.Name)

	// string + string passes both operands through unchanged
	n = NewOp(reg, NewLocal(reg, "s", stringT), "+", NewStringLiteral(reg, "STR_1", "b"))
	assert.Equal(t, "(new StringBuilder(s))->append(STR_1)->toString()", render(t, n))

	// arrays convert through their own toString
	arrT := &Type{Class: reg.MustClass("int"), ArrayLevel: 1}
	n = NewOp(reg, NewStringLiteral(reg, "STR_2", "c"), "+", NewLocal(reg, "a", arrT))
	assert.Equal(t, "(new StringBuilder(STR_2))->append(a->toString())->toString()", render(t, n))
}

func TestUnaryOps(t *testing.T) {
	reg := NewRegistry()
	intT := &Type{Class: reg.MustClass("int")}
	assert.Equal(t, "-x", render(t, NewPrefixOp(reg, "-", NewLocal(reg, "x", intT))))
	assert.Equal(t, "x++", render(t, NewPostfixOp(reg, NewLocal(reg, "x", intT), "++")))
}

func TestCallResolution(t *testing.T) {
	reg := NewRegistry()
	sbT := &Type{Class: reg.MustClass("StringBuilder")}

	static, err := NewCall(reg, nil, "Integer", "toString", NewLiteral(reg, "int", "7"))
	require.NoError(t, err)
	assert.Equal(t, "Integer_toString(7)", render(t, static))

	inst, err := NewCall(reg, NewLocal(reg, "sb", sbT), "", "toString")
	require.NoError(t, err)
	assert.Equal(t, "sb->toString()", render(t, inst))
	typ, err := inst.ResultType()
	require.NoError(t, err)
	assert.Equal(t, "String", typ.Class.Name)

	_, err = NewCall(reg, NewLocal(reg, "sb", sbT), "", "noSuchMethod")
	assert.Error(t, err)
}

// An "ignore" method call vanishes from the output, substituting its
// single argument; more than one argument fails at construction.
func TestIgnoredCall(t *testing.T) {
	reg := NewRegistry()
	intT := &Type{Class: reg.MustClass("int")}

	db := &Class{Name: "Db"}
	db.AddMethod(&Method{Name: "traceOff", IsStatic: true, IsIgnore: true, ReturnType: intT})
	db.AddMethod(&Method{Name: "wrap", IsStatic: true, IsIgnore: true,
		ReturnType: intT, Params: []*Type{intT}})
	db.AddMethod(&Method{Name: "pair", IsStatic: true, IsIgnore: true,
		ReturnType: intT, Params: []*Type{intT, intT}})
	reg.Add(db)

	zero, err := NewCall(reg, nil, "Db", "traceOff")
	require.NoError(t, err)
	assert.Equal(t, "", render(t, zero))

	one, err := NewCall(reg, nil, "Db", "wrap", NewLiteral(reg, "int", "9"))
	require.NoError(t, err)
	assert.Equal(t, "9", render(t, one))

	_, err = NewCall(reg, nil, "Db", "pair",
		NewLiteral(reg, "int", "1"), NewLiteral(reg, "int", "2"))
	assert.ErrorIs(t, err, ErrIgnoredCallArity)
}

func TestVariableFieldAccess(t *testing.T) {
	reg := NewRegistry()
	intT := &Type{Class: reg.MustClass("int")}

	point := &Class{Name: "util.Point"}
	point.AddField(&Field{Name: "x", Type: intT})
	point.AddField(&Field{Name: "ORIGIN", Type: intT, IsStatic: true})
	reg.Add(point)
	pointT := &Type{Class: point}

	f := NewFieldAccess(reg, NewLocal(reg, "p", pointT), "x")
	assert.Equal(t, "p->x", render(t, f))
	typ, err := f.ResultType()
	require.NoError(t, err)
	assert.Equal(t, "int", typ.Class.Name)

	s := NewFieldAccess(reg, NewLocal(reg, "p", pointT), "ORIGIN")
	assert.Equal(t, "p->util_Point_ORIGIN", render(t, s))

	arrT := &Type{Class: reg.MustClass("int"), ArrayLevel: 1}
	l := NewFieldAccess(reg, NewLocal(reg, "a", arrT), "length")
	assert.Equal(t, "a->length()", render(t, l))

	bad := NewFieldAccess(reg, NewLocal(reg, "p", pointT), "nope")
	_, err = bad.Render()
	assert.Error(t, err)
}

func TestNewAndArrayNodes(t *testing.T) {
	reg := NewRegistry()
	intClass := reg.MustClass("int")

	arrNew := &New{Class: intClass, ArrayInit: []Node{NewLiteral(reg, "int", "10")}}
	assert.Equal(t, "(new array< int >(1 * 10))", render(t, arrNew))
	typ, err := arrNew.ResultType()
	require.NoError(t, err)
	assert.Equal(t, 1, typ.ArrayLevel)

	objNew := &New{Class: reg.MustClass("StringBuilder"),
		Args: []Node{NewStringLiteral(reg, "STR_0", "x")}}
	assert.Equal(t, "(new StringBuilder(STR_0))", render(t, objNew))

	arrT := &Type{Class: intClass, ArrayLevel: 1}
	access := &ArrayAccess{Base: NewLocal(reg, "a", arrT), Index: NewLiteral(reg, "int", "3")}
	assert.Equal(t, "a->at(3)", render(t, access))
	typ, err = access.ResultType()
	require.NoError(t, err)
	assert.Equal(t, 0, typ.ArrayLevel)

	init := &ArrayInit{Type: arrT, List: []Node{
		NewLiteral(reg, "int", "1"), NewLiteral(reg, "int", "2")}}
	assert.Equal(t, "{ 1, 2 }", render(t, init))
}

// Casting a conditional distributes into both branches and returns a
// new node; the condition itself is untouched.
func TestConditionalCast(t *testing.T) {
	reg := NewRegistry()
	boolT := &Type{Class: reg.MustClass("boolean")}
	stringT := &Type{Class: reg.MustClass("String")}

	cond := &Conditional{
		Cond:    NewLocal(reg, "b", boolT),
		IfTrue:  NewNullLiteral(reg),
		IfFalse: NewLocal(reg, "s", stringT),
	}
	cast := cond.CastTo(stringT)
	assert.NotSame(t, cond, cast)
	assert.Equal(t, "b ? String*() : s", render(t, cast))
}

func TestCastAndAssign(t *testing.T) {
	reg := NewRegistry()
	intT := &Type{Class: reg.MustClass("int")}
	longT := &Type{Class: reg.MustClass("long")}

	c := &Cast{TargetType: intT, Expr: NewLocal(reg, "y", longT)}
	assert.Equal(t, "(int) y", render(t, c))

	// the right side coerces to the assignment target's type, which
	// binds a null literal
	a := &Assign{Left: NewLocal(reg, "x", intT), Operator: "=", Right: NewNullLiteral(reg)}
	assert.Equal(t, "x = int()", render(t, a))
}

func TestTypeRender(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, "int", (&Type{Class: reg.MustClass("int")}).Render())
	assert.Equal(t, "String*", (&Type{Class: reg.MustClass("String")}).Render())
	assert.Equal(t, "array< int >*", (&Type{Class: reg.MustClass("int"), ArrayLevel: 1}).Render())
	assert.Equal(t, "array< array< int >* >*",
		(&Type{Class: reg.MustClass("int"), ArrayLevel: 2}).Render())
}

func TestToC(t *testing.T) {
	assert.Equal(t, "java_lang_String", ToC("java.lang.String"))
	assert.Equal(t, "plain", ToC("plain"))
}
