// Package irverify checks generated LLVM IR by parsing it with a full IR
// parser, so malformed text is caught before clang ever sees it.
package irverify

import (
	"fmt"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
)

// Error wraps a parse failure of a generated module.
type Error struct {
	Module string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid IR in module %s: %v", e.Module, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Parse parses text and returns its in-memory form. name only labels errors.
func Parse(name, text string) (*ir.Module, error) {
	m, err := asm.ParseString(name, text)
	if err != nil {
		return nil, &Error{Module: name, Err: err}
	}
	return m, nil
}

// Verify reports whether text is a well-formed module.
func Verify(name, text string) error {
	_, err := Parse(name, text)
	return err
}

// Functions lists the names of the functions a module defines, in order.
func Functions(m *ir.Module) []string {
	var names []string
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			continue
		}
		names = append(names, f.Name())
	}
	return names
}
