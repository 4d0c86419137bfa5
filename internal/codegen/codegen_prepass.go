package codegen

import "aura/internal/ast"

// registerDeclarations runs before any lowering so that classes and
// functions can be used above their declarations. Only top-level code is
// scanned, including the blocks produced by imports and for loops.
func (cg *CodeGen) registerDeclarations(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ClassStatement:
			if err := cg.registerClass(s); err != nil {
				return err
			}
		case *ast.FunctionStatement:
			if err := cg.registerFunction(s.Name.Value, "", s); err != nil {
				return err
			}
		case *ast.BlockStatement:
			if err := cg.registerDeclarations(s.Statements); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cg *CodeGen) registerClass(s *ast.ClassStatement) error {
	if _, ok := cg.classes.register(s); !ok {
		return cg.fail(DuplicateClass, s, s.Name.Value, "class %s is already declared", s.Name.Value)
	}
	for _, m := range s.Methods {
		if err := cg.registerFunction(methodName(s.Name.Value, m.Name.Value), s.Name.Value, m); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGen) registerFunction(name, receiver string, s *ast.FunctionStatement) error {
	if reservedNames[name] {
		return cg.fail(DuplicateFunction, s, name, "%s is a reserved function name", name)
	}
	if !cg.funcs.register(name, receiver, s) {
		return cg.fail(DuplicateFunction, s, name, "function %s is already declared", name)
	}
	return nil
}
