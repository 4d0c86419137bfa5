package object

import "aura/internal/typesys"

// Environment stores variable bindings for one function body or for the
// top level. Blocks share their function's environment. Each name keeps
// the type it was first declared with.
type Environment struct {
	store map[string]Object
	types map[string]typesys.ValueType
}

// NewEnvironment creates an empty environment
func NewEnvironment() *Environment {
	return &Environment{
		store: make(map[string]Object),
		types: make(map[string]typesys.ValueType),
	}
}

// Get looks up a variable by name
func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	return obj, ok
}

// Set updates a variable and leaves its recorded type alone
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Declare binds name to val and records t as its type.
func (e *Environment) Declare(name string, val Object, t typesys.ValueType) Object {
	e.types[name] = t
	return e.Set(name, val)
}

// TypeOf returns the type name was declared with.
func (e *Environment) TypeOf(name string) (typesys.ValueType, bool) {
	t, ok := e.types[name]
	return t, ok
}
