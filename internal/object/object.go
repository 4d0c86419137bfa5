package object

import (
	"bytes"
	"fmt"
	"strings"

	"aura/internal/ast"
)

// ObjectType identifies what kind of value we have
type ObjectType string

const (
	INTEGER_OBJ      ObjectType = "INTEGER"
	STRING_OBJ       ObjectType = "STRING"
	ARRAY_OBJ        ObjectType = "ARRAY"
	INSTANCE_OBJ     ObjectType = "INSTANCE"
	RETURN_VALUE_OBJ ObjectType = "RETURN_VALUE"
	ERROR_OBJ        ObjectType = "ERROR"
	FUNCTION_OBJ     ObjectType = "FUNCTION"
	CLASS_OBJ        ObjectType = "CLASS"
)

// Object is the interface for all runtime values
// Every value in our language implements this
type Object interface {
	Type() ObjectType
	Inspect() string // String representation for printing
}

// Integer is a 32-bit value; arithmetic wraps like the compiled i32.
type Integer struct {
	Value int32
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }

// String represents text values.
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Array is a fixed-length array of integers. It only lives in a variable
// and is reached through indexing.
type Array struct {
	Elements []int32
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	var out bytes.Buffer
	parts := make([]string, 0, len(a.Elements))
	for _, el := range a.Elements {
		parts = append(parts, fmt.Sprintf("%d", el))
	}
	out.WriteString("[")
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")
	return out.String()
}

// Class is a declared class: its field order and its methods.
type Class struct {
	Name    string
	Fields  []string
	Methods map[string]*Function
	Decl    *ast.ClassStatement
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "class " + c.Name }

// FieldIndex returns the slot of field in declaration order.
func (c *Class) FieldIndex(field string) (int, bool) {
	for i, f := range c.Fields {
		if f == field {
			return i, true
		}
	}
	return 0, false
}

// Instance is a heap object created by new. Fields start at zero.
type Instance struct {
	Class  *Class
	Fields []Object
}

func NewInstance(c *Class) *Instance {
	fields := make([]Object, len(c.Fields))
	for i := range fields {
		fields[i] = &Integer{Value: 0}
	}
	return &Instance{Class: c, Fields: fields}
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string {
	parts := make([]string, 0, len(i.Fields))
	for idx, v := range i.Fields {
		parts = append(parts, i.Class.Fields[idx]+":"+v.Inspect())
	}
	return i.Class.Name + "{" + strings.Join(parts, ", ") + "}"
}

// ReturnValue wraps the value being returned
// We need this to "bubble up" return statements through nested evaluations
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// Error represents runtime errors (type mismatches, unknown identifiers)
type Error struct {
	Message string
	Line    int
	Column  int
	Context string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	msg := "Runtime error: " + e.Message
	if e.Line > 0 && e.Column > 0 {
		msg += fmt.Sprintf(" (at %d:%d)", e.Line, e.Column)
	}
	if strings.TrimSpace(e.Context) != "" {
		msg += fmt.Sprintf(" | context: %s", strings.TrimSpace(e.Context))
	}
	return msg
}

// Error lets a runtime error leave the interpreter as a Go error.
func (e *Error) Error() string { return e.Inspect() }

// Function is a free function or, with Receiver set, a method.
type Function struct {
	Name       string
	Receiver   string
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Decl       *ast.FunctionStatement
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("func ")
	if f.Receiver != "" {
		out.WriteString(f.Receiver)
		out.WriteString(".")
	}
	out.WriteString(f.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(f.Body.String())

	return out.String()
}
