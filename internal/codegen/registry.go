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
// Package codegen lowers typed expression trees to C-like source text
// for the native code generator. Each node kind resolves a static
// result type, can be coerced to a target type, and renders itself.
package codegen

import (
	"fmt"
	"strings"
)

// Class describes a class or primitive type known to the lowering.
type Class struct {
	// Name is the source-level name, possibly qualified with dots
	Name string
	// IsPrimitive marks built-in value types
	IsPrimitive bool
	// Rank is the numeric promotion ordinal for primitive types; a
	// binary arithmetic expression takes the operand type with the
	// higher rank
	Rank int

	methods map[string][]*Method
	fields  map[string]*Field
}

// AddMethod registers a method on the class.
func (c *Class) AddMethod(m *Method) {
	if c.methods == nil {
		c.methods = make(map[string][]*Method)
	}
	m.Class = c
	c.methods[m.Name] = append(c.methods[m.Name], m)
}

// AddField registers a field on the class.
func (c *Class) AddField(f *Field) {
	if c.fields == nil {
		c.fields = make(map[string]*Field)
	}
	f.DeclaredClass = c.Name
	c.fields[f.Name] = f
}

// Method resolves a method by name and argument count.
func (c *Class) Method(name string, argCount int) (*Method, error) {
	for _, m := range c.methods[name] {
		if len(m.Params) == argCount {
			return m, nil
		}
	}
	return nil, fmt.Errorf("class %s has no method %s/%d", c.Name, name, argCount)
}

// Field resolves a field by name.
func (c *Class) Field(name string) (*Field, error) {
	if f, ok := c.fields[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("class %s has no field %s", c.Name, name)
}

func (c *Class) String() string { return c.Name }

// Method describes a callable member.
type Method struct {
	Name       string
	Class      *Class
	ReturnType *Type
	Params     []*Type
	IsStatic   bool
	// IsIgnore erases the call during lowering, substituting its single
	// argument (or nothing)
	IsIgnore bool
}

func (m *Method) String() string {
	return m.Class.Name + "." + m.Name
}

// Field describes a data member.
type Field struct {
	Name          string
	Type          *Type
	IsStatic      bool
	DeclaredClass string
}

// Type is a class plus an array nesting level.
type Type struct {
	Class      *Class
	ArrayLevel int
}

// IsObject reports whether values of the type are heap references.
func (t *Type) IsObject() bool {
	return t.ArrayLevel > 0 || !t.Class.IsPrimitive
}

// Render produces the lowered C type name.
func (t *Type) Render() string {
	var elem string
	if t.Class.IsPrimitive {
		elem = t.Class.Name
	} else {
		elem = ToC(t.Class.Name) + "*"
	}
	for i := 0; i < t.ArrayLevel; i++ {
		elem = "array< " + elem + " >*"
	}
	return elem
}

// ToC maps a qualified source name to its lowered C identifier.
func ToC(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}

// Registry resolves class names for the lowering. Primitive classes
// carry the fixed promotion ranking; wrapper classes provide the string
// conversion used when a primitive meets string concatenation.
type Registry struct {
	classes  map[string]*Class
	wrappers map[string]string
}

// primitive ranking, lowest to highest
var primitives = []string{"boolean", "byte", "short", "char", "int", "long", "float", "double"}

var wrapperNames = map[string]string{
	"boolean": "Boolean",
	"byte":    "Byte",
	"short":   "Short",
	"char":    "Character",
	"int":     "Integer",
	"long":    "Long",
	"float":   "Float",
	"double":  "Double",
}

// NewRegistry creates a registry seeded with the primitive types, their
// wrapper classes, and the String/StringBuilder classes the
// concatenation lowering relies on.
func NewRegistry() *Registry {
	r := &Registry{
		classes:  make(map[string]*Class),
		wrappers: wrapperNames,
	}
	for i, name := range primitives {
		r.Add(&Class{Name: name, IsPrimitive: true, Rank: i + 1})
	}
	str := &Class{Name: "String"}
	r.Add(str)
	strType := &Type{Class: str}
	for prim, wrapper := range wrapperNames {
		w := &Class{Name: wrapper}
		w.AddMethod(&Method{
			Name:       "toString",
			ReturnType: strType,
			Params:     []*Type{{Class: r.classes[prim]}},
			IsStatic:   true,
		})
		r.Add(w)
	}
	sb := &Class{Name: "StringBuilder"}
	sbType := &Type{Class: sb}
	sb.AddMethod(&Method{Name: "append", ReturnType: sbType, Params: []*Type{strType}})
	sb.AddMethod(&Method{Name: "toString", ReturnType: strType})
	r.Add(sb)
	return r
}

// Add registers a class.
func (r *Registry) Add(c *Class) { r.classes[c.Name] = c }

// Class resolves a class by name.
func (r *Registry) Class(name string) (*Class, error) {
	if c, ok := r.classes[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown class %s", name)
}

// MustClass resolves a class that is known to exist; it panics
// otherwise. Used for the seeded built-ins.
func (r *Registry) MustClass(name string) *Class {
	c, err := r.Class(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Wrapper returns the wrapper class of a primitive class.
func (r *Registry) Wrapper(c *Class) (*Class, error) {
	name, ok := r.wrappers[c.Name]
	if !ok {
		return nil, fmt.Errorf("no wrapper class for %s", c.Name)
	}
	return r.Class(name)
}
