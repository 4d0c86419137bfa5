package evaluator

import (
	"fmt"

	"aura/internal/ast"
	"aura/internal/object"
	"aura/internal/typesys"
)

const builtinPrintStr = "print_str"

func (in *Interpreter) evalExpressions(exps []ast.Expression, env *object.Environment) ([]object.Object, *object.Error) {
	result := make([]object.Object, 0, len(exps))
	for _, e := range exps {
		evaluated := in.Eval(e, env)
		if errObj, ok := evaluated.(*object.Error); ok {
			return nil, errObj
		}
		if errObj := requireScalar(evaluated); errObj != nil {
			return nil, errObj
		}
		result = append(result, evaluated)
	}
	return result, nil
}

func (in *Interpreter) evalCallExpression(node *ast.CallExpression, env *object.Environment) object.Object {
	ident, ok := node.Function.(*ast.Identifier)
	if !ok {
		return newError("cannot call %s", node.Function.String())
	}
	if ident.Value == builtinPrintStr {
		if _, declared := in.functions[builtinPrintStr]; !declared {
			return in.evalPrintStr(node, env)
		}
	}
	fn, ok := in.functions[ident.Value]
	if !ok {
		return newError("undefined function %s", ident.Value)
	}
	args, errObj := in.evalExpressions(node.Arguments, env)
	if errObj != nil {
		return errObj
	}
	return in.applyFunction(fn, nil, args)
}

// evalPrintStr mirrors the builtin: only real strings can be printed here.
// Addresses smuggled through an Int have no meaning outside native code.
func (in *Interpreter) evalPrintStr(node *ast.CallExpression, env *object.Environment) object.Object {
	if len(node.Arguments) != 1 {
		return newError("%s expects 1 argument, got=%d", builtinPrintStr, len(node.Arguments))
	}
	val := in.Eval(node.Arguments[0], env)
	if isError(val) {
		return val
	}
	str, ok := val.(*object.String)
	if !ok {
		return newError("%s needs a string, got %s", builtinPrintStr, val.Type())
	}
	fmt.Fprintf(in.out, "%s\n", str.Value)
	return &object.Integer{Value: 0}
}

func (in *Interpreter) evalMethodCall(node *ast.MethodCallExpression, env *object.Environment) object.Object {
	obj := in.Eval(node.Object, env)
	if isError(obj) {
		return obj
	}
	inst, ok := obj.(*object.Instance)
	if !ok {
		return newError("%s is %s, not a class instance", node.Object.String(), obj.Type())
	}
	method, ok := inst.Class.Methods[node.Method.Value]
	if !ok {
		return newError("class %s has no method %s", inst.Class.Name, node.Method.Value)
	}
	args, errObj := in.evalExpressions(node.Arguments, env)
	if errObj != nil {
		return errObj
	}
	return in.applyFunction(method, inst, args)
}

// applyFunction runs fn in a fresh environment holding only its
// parameters and, for methods, the receiver bound to this.
func (in *Interpreter) applyFunction(fn *object.Function, receiver *object.Instance, args []object.Object) object.Object {
	if len(args) != len(fn.Parameters) {
		return newError("%s expects %d arguments, got=%d", fn.Name, len(fn.Parameters), len(args))
	}
	if in.depth >= maxCallDepth {
		return newError("call depth exceeded %d in %s", maxCallDepth, fn.Name)
	}
	in.depth++
	defer func() { in.depth-- }()

	callEnv := object.NewEnvironment()
	if receiver != nil {
		callEnv.Declare("this", receiver, typesys.InstanceOf(receiver.Class.Name))
	}
	for i, param := range fn.Parameters {
		callEnv.Declare(param.Value, args[i], typesys.IntType)
	}

	evaluated := in.evalBlockStatement(fn.Body, callEnv)
	result := unwrapReturnValue(evaluated)
	if result == nil {
		return &object.Integer{Value: 0}
	}
	if isError(result) {
		return result
	}
	if errObj := requireScalar(result); errObj != nil {
		return errObj
	}
	return result
}
