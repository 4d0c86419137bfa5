// Package typesys holds the value types inferred for aura variables.
// Nothing is declared by the programmer; a binding's type is fixed by the
// first value stored into it.
package typesys

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	Int Kind = iota
	Str
	Array
	Instance
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "Int"
	case Str:
		return "Str"
	case Array:
		return "Array"
	case Instance:
		return "Instance"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ValueType is Int, Str, Array(Len) or Instance(Class).
// It is comparable, so == is type equality.
type ValueType struct {
	Kind  Kind
	Len   int    // element count for Array
	Class string // class name for Instance
}

var (
	IntType = ValueType{Kind: Int}
	StrType = ValueType{Kind: Str}
)

func ArrayOf(n int) ValueType { return ValueType{Kind: Array, Len: n} }

func InstanceOf(class string) ValueType { return ValueType{Kind: Instance, Class: class} }

func (t ValueType) String() string {
	switch t.Kind {
	case Array:
		return fmt.Sprintf("Array(%d)", t.Len)
	case Instance:
		return "Instance(" + t.Class + ")"
	default:
		return t.Kind.String()
	}
}

// Printable reports whether print has a format for t.
func (t ValueType) Printable() bool {
	return t.Kind == Int || t.Kind == Str
}

// Parse reads the form produced by String.
func Parse(s string) (ValueType, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "Int":
		return IntType, nil
	case "Str":
		return StrType, nil
	}

	name, arg, ok := splitCall(s)
	if !ok {
		return ValueType{}, fmt.Errorf("unknown value type %q", s)
	}
	switch name {
	case "Array":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return ValueType{}, fmt.Errorf("invalid array length in %q", s)
		}
		return ArrayOf(n), nil
	case "Instance":
		if arg == "" {
			return ValueType{}, fmt.Errorf("missing class name in %q", s)
		}
		return InstanceOf(arg), nil
	default:
		return ValueType{}, fmt.Errorf("unknown value type %q", s)
	}
}

func splitCall(s string) (name, arg string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return s[:open], strings.TrimSpace(s[open+1 : len(s)-1]), true
}
