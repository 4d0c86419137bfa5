package codegen

import (
	"fmt"
	"strings"

	"aura/internal/ast"
	"aura/internal/typesys"
)

// lowerFunctionDecl compiles a free function. Functions nested in other
// bodies are not seen by the pre-pass, so they register here and can only
// be called after their declaration.
func (cg *CodeGen) lowerFunctionDecl(s *ast.FunctionStatement) error {
	if err := cg.registerFunction(s.Name.Value, "", s); err != nil {
		return err
	}
	return cg.lowerFunction(s.Name.Value, "", s)
}

// lowerClass compiles every method as ClassName_method taking the receiver
// as its first argument.
func (cg *CodeGen) lowerClass(s *ast.ClassStatement) error {
	if err := cg.registerClass(s); err != nil {
		return err
	}
	for _, m := range s.Methods {
		if err := cg.lowerFunction(methodName(s.Name.Value, m.Name.Value), s.Name.Value, m); err != nil {
			return err
		}
	}
	return nil
}

// lowerFunction writes one define into the function section. The body gets
// a fresh symbol table holding only this (for methods) and the parameters.
func (cg *CodeGen) lowerFunction(name, class string, s *ast.FunctionStatement) error {
	body := &sink{}
	saved := cg.enterFunction(class, body)
	defer cg.exitFunction(saved)

	var params []string
	if class != "" {
		recv := typesys.InstanceOf(class)
		params = append(params, irType(recv)+" %arg0")
		if err := cg.declare(s, "this", recv); err != nil {
			return err
		}
		cg.store("this", recv, operand{ref: "%arg0", typ: recv, pool: -1})
	}
	offset := len(params)
	for i, p := range s.Parameters {
		if class != "" && p.Value == "this" {
			return cg.fail(ReservedName, p, p.Value, "this is reserved in methods and cannot name a parameter of %s", name)
		}
		arg := fmt.Sprintf("%%arg%d", i+offset)
		params = append(params, "i32 "+arg)
		if err := cg.declare(p, p.Value, typesys.IntType); err != nil {
			return err
		}
		cg.store(p.Value, typesys.IntType, intOperand(arg))
	}

	if err := cg.lowerBlock(s.Body); err != nil {
		return err
	}
	if !body.terminated {
		cg.emitTerminator("ret i32 0")
	}

	fmt.Fprintf(&cg.functions, "\ndefine i32 @%s(%s) {\nentry:\n%s}\n", name, strings.Join(params, ", "), body.text())
	return nil
}
