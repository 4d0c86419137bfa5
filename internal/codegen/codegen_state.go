package codegen

import "aura/internal/typesys"

// symbolTable maps variable names to their fixed type. It is flat for a
// whole function body: blocks add no scope.
type symbolTable map[string]typesys.ValueType

// functionScope is what a function body swaps out while it is lowered.
type functionScope struct {
	symbols      symbolTable
	currentClass string
	out          *sink
}

// enterFunction saves the caller's scope, gives the callee a fresh table
// and makes body the current emission target.
func (cg *CodeGen) enterFunction(class string, body *sink) functionScope {
	saved := functionScope{
		symbols:      cloneMap(cg.symbols),
		currentClass: cg.currentClass,
		out:          cg.out,
	}
	cg.symbols = symbolTable{}
	cg.currentClass = class
	cg.out = body
	return saved
}

func (cg *CodeGen) exitFunction(st functionScope) {
	cg.symbols = st.symbols
	cg.currentClass = st.currentClass
	cg.out = st.out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k := range in {
		out[k] = in[k]
	}
	return out
}
