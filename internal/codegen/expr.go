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
	"errors"
	"fmt"
	"strings"
)

// ErrIgnoredCallArity is returned when a call to an "ignore" method
// (erase the call, substitute its argument) has more than one argument.
var ErrIgnoredCallArity = errors.New("cannot ignore method call with multiple arguments")

// Node is one expression in a lowering tree. A parent owns its child
// operand nodes exclusively; trees are immutable after construction
// except for the lazy resolution caches, which follow a
// single-writer-then-read-only lifecycle.
type Node interface {
	// Render produces the lowered source text
	Render() (string, error)
	// ResultType returns the resolved static type, computing and
	// memoizing it on first access
	ResultType() (*Type, error)
	// CastTo coerces the node to a target type. Most nodes return
	// themselves; an untyped NULL literal binds its type, and a
	// conditional returns a new node with both branches cast.
	CastTo(t *Type) Node
}

// Literal is a numeric, boolean, char or null literal.
type Literal struct {
	reg       *Registry
	className string
	// Text is the literal source text; "null" literals stay untyped
	// until the first cast binds them
	Text string

	typ *Type
}

// NewLiteral creates a literal of a named type.
func NewLiteral(reg *Registry, className, text string) *Literal {
	return &Literal{reg: reg, className: className, Text: text}
}

// NewNullLiteral creates an untyped null literal; its type binds on the
// first cast.
func NewNullLiteral(reg *Registry) *Literal {
	return &Literal{reg: reg, Text: "null"}
}

// ResultType resolves and memoizes the literal's type.
func (l *Literal) ResultType() (*Type, error) {
	if l.typ == nil {
		if l.className == "" {
			return nil, fmt.Errorf("untyped null literal: cast it to a type first")
		}
		c, err := l.reg.Class(l.className)
		if err != nil {
			return nil, err
		}
		l.typ = &Type{Class: c}
	}
	return l.typ, nil
}

// Render produces the literal text. A typed null renders as the
// zero-value constructor form of its type, never as a null pointer.
func (l *Literal) Render() (string, error) {
	if l.Text == "null" {
		t, err := l.ResultType()
		if err != nil {
			return "", err
		}
		return t.Render() + "()", nil
	}
	return l.Text, nil
}

// CastTo binds the type of an untyped null literal; any other literal
// is returned unchanged.
func (l *Literal) CastTo(t *Type) Node {
	if l.Text == "null" {
		l.typ = t
	}
	return l
}

// StringLiteral is a string literal lowered to a named constant.
type StringLiteral struct {
	reg *Registry
	// ConstantName is the generated constant the literal lowers to
	ConstantName string
	// Text is the decoded string value
	Text string

	typ *Type
}

// NewStringLiteral creates a string literal bound to a generated
// constant name.
func NewStringLiteral(reg *Registry, constantName, text string) *StringLiteral {
	return &StringLiteral{reg: reg, ConstantName: constantName, Text: text}
}

// Render produces the constant name.
func (s *StringLiteral) Render() (string, error) { return s.ConstantName, nil }

// ResultType is always String.
func (s *StringLiteral) ResultType() (*Type, error) {
	if s.typ == nil {
		c, err := s.reg.Class("String")
		if err != nil {
			return nil, err
		}
		s.typ = &Type{Class: c}
	}
	return s.typ, nil
}

// CastTo returns the literal unchanged.
func (s *StringLiteral) CastTo(*Type) Node { return s }

// EncodeString encodes a string to source syntax: control characters
// and quotes are escaped, characters outside printable ASCII become
// \uXXXX escapes.
func EncodeString(s string) string {
	var buff strings.Builder
	for _, c := range s {
		switch c {
		case '\t':
			buff.WriteString(`\t`)
		case '\n':
			buff.WriteString(`\n`)
		case '\f':
			buff.WriteString(`\f`)
		case '\r':
			buff.WriteString(`\r`)
		case '"':
			buff.WriteString(`\"`)
		case '\\':
			buff.WriteString(`\\`)
		default:
			if c >= ' ' && c < 0x80 {
				buff.WriteRune(c)
			} else {
				buff.WriteString(fmt.Sprintf(`\u%04x`, c&0xffff))
			}
		}
	}
	return buff.String()
}

// Variable is a local variable or a field access.
type Variable struct {
	reg  *Registry
	Base Node
	Name string

	field *Field
}

// NewLocal creates a reference to a local variable of a known type.
func NewLocal(reg *Registry, name string, typ *Type) *Variable {
	return &Variable{reg: reg, Name: name, field: &Field{Name: name, Type: typ}}
}

// NewFieldAccess creates a field access on a base expression; the field
// resolves lazily from the base's type.
func NewFieldAccess(reg *Registry, base Node, name string) *Variable {
	return &Variable{reg: reg, Base: base, Name: name}
}

// resolve looks the field up once; resolving again is a no-op.
func (v *Variable) resolve() error {
	if v.field != nil {
		return nil
	}
	t, err := v.Base.ResultType()
	if err != nil {
		return err
	}
	if t.ArrayLevel > 0 {
		if v.Name != "length" {
			return fmt.Errorf("unknown array member %s", v.Name)
		}
		intClass, err := v.reg.Class("int")
		if err != nil {
			return err
		}
		v.field = &Field{Type: &Type{Class: intClass}}
		return nil
	}
	f, err := t.Class.Field(v.Name)
	if err != nil {
		return err
	}
	v.field = f
	return nil
}

// Render produces the lowered access expression.
func (v *Variable) Render() (string, error) {
	if err := v.resolve(); err != nil {
		return "", err
	}
	var buff strings.Builder
	if v.Base != nil {
		base, err := v.Base.Render()
		if err != nil {
			return "", err
		}
		buff.WriteString(base)
		buff.WriteString("->")
	}
	switch {
	case v.field.IsStatic:
		buff.WriteString(ToC(v.field.DeclaredClass + "." + v.field.Name))
	case v.field.Name != "":
		buff.WriteString(v.field.Name)
	default:
		// array length pseudo-field
		buff.WriteString("length()")
	}
	return buff.String(), nil
}

// ResultType returns the field's type.
func (v *Variable) ResultType() (*Type, error) {
	if err := v.resolve(); err != nil {
		return nil, err
	}
	return v.field.Type, nil
}

// CastTo returns the variable unchanged.
func (v *Variable) CastTo(*Type) Node { return v }

// Op is a unary or binary operation. A nil Left makes it a prefix
// unary, a nil Right a postfix unary.
type Op struct {
	reg      *Registry
	Left     Node
	Operator string
	Right    Node
}

// NewOp creates a binary operation.
func NewOp(reg *Registry, left Node, operator string, right Node) *Op {
	return &Op{reg: reg, Left: left, Operator: operator, Right: right}
}

// NewPrefixOp creates a prefix unary operation.
func NewPrefixOp(reg *Registry, operator string, right Node) *Op {
	return &Op{reg: reg, Operator: operator, Right: right}
}

// NewPostfixOp creates a postfix unary operation.
func NewPostfixOp(reg *Registry, left Node, operator string) *Op {
	return &Op{reg: reg, Left: left, Operator: operator}
}

func isComparison(op string) bool {
	switch op {
	case "==", "!=", "<", ">", "<=", ">=":
		return true
	}
	return false
}

// ResultType follows the promotion rules: comparisons produce boolean,
// concatenation (+ with an object operand) produces String, and numeric
// operations take the operand type with the higher rank.
func (o *Op) ResultType() (*Type, error) {
	if o.Left == nil {
		return o.Right.ResultType()
	}
	if o.Right == nil {
		return o.Left.ResultType()
	}
	if isComparison(o.Operator) {
		c, err := o.reg.Class("boolean")
		if err != nil {
			return nil, err
		}
		return &Type{Class: c}, nil
	}
	lt, err := o.Left.ResultType()
	if err != nil {
		return nil, err
	}
	rt, err := o.Right.ResultType()
	if err != nil {
		return nil, err
	}
	if o.Operator == "+" && (lt.IsObject() || rt.IsObject()) {
		c, err := o.reg.Class("String")
		if err != nil {
			return nil, err
		}
		return &Type{Class: c}, nil
	}
	if lt.Class.Rank < rt.Class.Rank {
		return rt, nil
	}
	return lt, nil
}

// Render lowers the operation. `>>>` becomes an explicit unsigned
// reinterpretation of the left operand before a plain right shift, and
// `+` over object operands becomes a string-builder chain.
func (o *Op) Render() (string, error) {
	if o.Left == nil {
		r, err := o.Right.Render()
		if err != nil {
			return "", err
		}
		return o.Operator + r, nil
	}
	if o.Right == nil {
		l, err := o.Left.Render()
		if err != nil {
			return "", err
		}
		return l + o.Operator, nil
	}
	l, err := o.Left.Render()
	if err != nil {
		return "", err
	}
	r, err := o.Right.Render()
	if err != nil {
		return "", err
	}
	switch {
	case o.Operator == ">>>":
		lt, err := o.Left.ResultType()
		if err != nil {
			return "", err
		}
		return "(((u" + lt.Render() + ") " + l + ") >> " + r + ")", nil
	case o.Operator == "+":
		lt, err := o.Left.ResultType()
		if err != nil {
			return "", err
		}
		rt, err := o.Right.ResultType()
		if err != nil {
			return "", err
		}
		if lt.IsObject() || rt.IsObject() {
			ls, err := o.asString(o.Left)
			if err != nil {
				return "", err
			}
			rs, err := o.asString(o.Right)
			if err != nil {
				return "", err
			}
			return "(new StringBuilder(" + ls + "))->append(" + rs + ")->toString()", nil
		}
	}
	return "(" + l + " " + o.Operator + " " + r + ")", nil
}

// asString lowers an operand to its string conversion: primitives go
// through their wrapper's toString, arrays and non-String objects
// through their own toString, strings pass through unchanged.
func (o *Op) asString(e Node) (string, error) {
	t, err := e.ResultType()
	if err != nil {
		return "", err
	}
	s, err := e.Render()
	if err != nil {
		return "", err
	}
	if t.ArrayLevel > 0 {
		return s + "->toString()", nil
	}
	if t.Class.IsPrimitive {
		wrapper, err := o.reg.Wrapper(t.Class)
		if err != nil {
			return "", err
		}
		return ToC(wrapper.Name+".toString") + "(" + s + ")", nil
	}
	if t.Class.Name == "String" {
		return s, nil
	}
	return s + "->toString()", nil
}

// CastTo returns the operation unchanged.
func (o *Op) CastTo(*Type) Node { return o }

// Call is a method call. Its method resolves by name and argument count
// once, on construction or at the first access to its type or
// rendering, and the resolution is cached one-way: resolving twice is a
// no-op.
type Call struct {
	reg       *Registry
	Target    Node
	ClassName string
	Name      string
	Args      []Node

	class  *Class
	method *Method
}

// NewCall creates a method call. className is set for static calls;
// otherwise the method resolves from the target's type. A call to an
// "ignore" method with more than one argument fails here, at
// construction time.
func NewCall(reg *Registry, target Node, className, name string, args ...Node) (*Call, error) {
	c := &Call{reg: reg, Target: target, ClassName: className, Name: name, Args: args}
	if err := c.resolve(); err != nil {
		return nil, err
	}
	if c.method.IsIgnore && len(args) > 1 {
		return nil, fmt.Errorf("%s: %w", c.method, ErrIgnoredCallArity)
	}
	return c, nil
}

func (c *Call) resolve() error {
	if c.method != nil {
		return nil
	}
	if c.ClassName != "" {
		cls, err := c.reg.Class(c.ClassName)
		if err != nil {
			return err
		}
		c.class = cls
	} else {
		t, err := c.Target.ResultType()
		if err != nil {
			return err
		}
		c.class = t.Class
	}
	m, err := c.class.Method(c.Name, len(c.Args))
	if err != nil {
		return err
	}
	c.method = m
	if m.IsStatic {
		c.Target = nil
	}
	return nil
}

// Render lowers the call. An "ignore" method call erases itself and
// substitutes its single argument.
func (c *Call) Render() (string, error) {
	if err := c.resolve(); err != nil {
		return "", err
	}
	if c.method.IsIgnore {
		if len(c.Args) == 0 {
			return "", nil
		}
		return c.Args[0].Render()
	}
	var buff strings.Builder
	if c.Target == nil {
		buff.WriteString(ToC(c.class.Name + "." + c.method.Name))
	} else {
		target, err := c.Target.Render()
		if err != nil {
			return "", err
		}
		buff.WriteString(target)
		buff.WriteString("->")
		buff.WriteString(c.method.Name)
	}
	buff.WriteByte('(')
	for i, a := range c.Args {
		if i > 0 {
			buff.WriteString(", ")
		}
		s, err := a.CastTo(c.method.Params[i]).Render()
		if err != nil {
			return "", err
		}
		buff.WriteString(s)
	}
	buff.WriteByte(')')
	return buff.String(), nil
}

// ResultType returns the resolved method's return type.
func (c *Call) ResultType() (*Type, error) {
	if err := c.resolve(); err != nil {
		return nil, err
	}
	return c.method.ReturnType, nil
}

// CastTo returns the call unchanged.
func (c *Call) CastTo(*Type) Node { return c }

// New is an object or array allocation.
type New struct {
	Class *Class
	// Args are constructor arguments for an object allocation
	Args []Node
	// ArrayInit are the per-dimension sizes of an array allocation; a
	// non-empty list makes this an array New
	ArrayInit []Node
}

// Render lowers the allocation.
func (n *New) Render() (string, error) {
	var buff strings.Builder
	if len(n.ArrayInit) > 0 {
		buff.WriteString("(new array< " + ToC(n.Class.Name) + " >(1")
		for _, e := range n.ArrayInit {
			s, err := e.Render()
			if err != nil {
				return "", err
			}
			buff.WriteString(" * ")
			buff.WriteString(s)
		}
		buff.WriteString("))")
		return buff.String(), nil
	}
	buff.WriteString("(new " + ToC(n.Class.Name) + "(")
	for i, a := range n.Args {
		if i > 0 {
			buff.WriteString(", ")
		}
		s, err := a.Render()
		if err != nil {
			return "", err
		}
		buff.WriteString(s)
	}
	buff.WriteString("))")
	return buff.String(), nil
}

// ResultType returns the allocated type.
func (n *New) ResultType() (*Type, error) {
	return &Type{Class: n.Class, ArrayLevel: len(n.ArrayInit)}, nil
}

// CastTo returns the allocation unchanged.
func (n *New) CastTo(*Type) Node { return n }

// Cast is an explicit type cast.
type Cast struct {
	TargetType *Type
	Expr       Node
}

// Render lowers the cast.
func (c *Cast) Render() (string, error) {
	s, err := c.Expr.Render()
	if err != nil {
		return "", err
	}
	return "(" + c.TargetType.Render() + ") " + s, nil
}

// ResultType returns the cast's target type.
func (c *Cast) ResultType() (*Type, error) { return c.TargetType, nil }

// CastTo returns the cast unchanged.
func (c *Cast) CastTo(*Type) Node { return c }

// ArrayAccess is a read or write access to one array element.
type ArrayAccess struct {
	Base  Node
	Index Node
}

// Render lowers to a bounds-checked element access.
func (a *ArrayAccess) Render() (string, error) {
	base, err := a.Base.Render()
	if err != nil {
		return "", err
	}
	idx, err := a.Index.Render()
	if err != nil {
		return "", err
	}
	return base + "->at(" + idx + ")", nil
}

// ResultType is the base type with one array level removed.
func (a *ArrayAccess) ResultType() (*Type, error) {
	t, err := a.Base.ResultType()
	if err != nil {
		return nil, err
	}
	return &Type{Class: t.Class, ArrayLevel: t.ArrayLevel - 1}, nil
}

// CastTo returns the access unchanged.
func (a *ArrayAccess) CastTo(*Type) Node { return a }

// ArrayInit is an array initializer list.
type ArrayInit struct {
	Type *Type
	List []Node
}

// Render lowers the initializer list.
func (a *ArrayInit) Render() (string, error) {
	var buff strings.Builder
	buff.WriteString("{ ")
	for i, e := range a.List {
		if i > 0 {
			buff.WriteString(", ")
		}
		s, err := e.Render()
		if err != nil {
			return "", err
		}
		buff.WriteString(s)
	}
	buff.WriteString(" }")
	return buff.String(), nil
}

// ResultType returns the declared initializer type.
func (a *ArrayInit) ResultType() (*Type, error) { return a.Type, nil }

// CastTo returns the initializer unchanged.
func (a *ArrayInit) CastTo(*Type) Node { return a }

// Conditional is a ternary expression.
type Conditional struct {
	Cond    Node
	IfTrue  Node
	IfFalse Node
}

// Render lowers the ternary.
func (c *Conditional) Render() (string, error) {
	cond, err := c.Cond.Render()
	if err != nil {
		return "", err
	}
	t, err := c.IfTrue.Render()
	if err != nil {
		return "", err
	}
	f, err := c.IfFalse.Render()
	if err != nil {
		return "", err
	}
	return cond + " ? " + t + " : " + f, nil
}

// ResultType is the type of the true branch.
func (c *Conditional) ResultType() (*Type, error) { return c.IfTrue.ResultType() }

// CastTo distributes the cast into both branches, not into the
// condition, and returns a new node.
func (c *Conditional) CastTo(t *Type) Node {
	return &Conditional{
		Cond:    c.Cond,
		IfTrue:  c.IfTrue.CastTo(t),
		IfFalse: c.IfFalse.CastTo(t),
	}
}

// Assign is an assignment expression.
type Assign struct {
	Left     Node
	Operator string
	Right    Node
}

// Render lowers the assignment, coercing the right side to the left
// side's type.
func (a *Assign) Render() (string, error) {
	l, err := a.Left.Render()
	if err != nil {
		return "", err
	}
	lt, err := a.Left.ResultType()
	if err != nil {
		return "", err
	}
	r, err := a.Right.CastTo(lt).Render()
	if err != nil {
		return "", err
	}
	return l + " " + a.Operator + " " + r, nil
}

// ResultType is the type of the assignment target.
func (a *Assign) ResultType() (*Type, error) { return a.Left.ResultType() }

// CastTo returns the assignment unchanged.
func (a *Assign) CastTo(*Type) Node { return a }
