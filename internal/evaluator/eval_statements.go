package evaluator

import (
	"fmt"

	"aura/internal/ast"
	"aura/internal/object"
)

func (in *Interpreter) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	for _, statement := range program.Statements {
		result := in.Eval(statement, env)

		switch result := result.(type) {
		case *object.ReturnValue:
			return result.Value // Unwrap the return value
		case *object.Error:
			return annotateErrorWithNode(result, statement) // Propagate errors
		}
	}
	return nil
}

// evalBlockStatement evaluates statements inside braces
// Unlike evalProgram, it does NOT unwrap ReturnValue
// This lets returns bubble up through nested blocks
func (in *Interpreter) evalBlockStatement(block *ast.BlockStatement, env *object.Environment) object.Object {
	if block == nil {
		return nil
	}
	for _, statement := range block.Statements {
		result := in.Eval(statement, env)

		if result != nil {
			rt := result.Type()
			if rt == object.ERROR_OBJ {
				return annotateErrorWithNode(result, statement)
			}
			if rt == object.RETURN_VALUE_OBJ {
				return result // Return as-is, don't unwrap
			}
		}
	}
	return nil
}

func evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	val, ok := env.Get(node.Value)
	if !ok {
		return newError("identifier not found: %s", node.Value)
	}
	if val.Type() == object.ARRAY_OBJ {
		return newError("array %s can only be used through an index", node.Value)
	}
	return val
}

func (in *Interpreter) evalVarStatement(node *ast.VarStatement, env *object.Environment) object.Object {
	name := node.Name.Value
	t := bindingType(node.Value, env)
	if prev, ok := env.TypeOf(name); ok && prev != t {
		return newError("%s is declared as %s, cannot redeclare it as %s", name, prev, t)
	}

	if lit, ok := node.Value.(*ast.ArrayLiteral); ok {
		arr := &object.Array{Elements: make([]int32, 0, len(lit.Elements))}
		for _, el := range lit.Elements {
			val := in.Eval(el, env)
			if isError(val) {
				return val
			}
			n, errObj := asInteger(val, "array element")
			if errObj != nil {
				return errObj
			}
			arr.Elements = append(arr.Elements, n)
		}
		env.Declare(name, arr, t)
		return nil
	}

	val := in.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	env.Declare(name, val, t)
	return nil
}

func (in *Interpreter) evalAssignStatement(node *ast.AssignStatement, env *object.Environment) object.Object {
	switch target := node.Target.(type) {
	case *ast.Identifier:
		current, ok := env.Get(target.Value)
		if !ok {
			return newError("identifier not found: %s", target.Value)
		}
		if current.Type() == object.ARRAY_OBJ {
			return newError("cannot assign to array %s", target.Value)
		}
		bound, _ := env.TypeOf(target.Value)
		if t := bindingType(node.Value, env); t != bound {
			return newError("cannot assign %s to %s of type %s", t, target.Value, bound)
		}
		val := in.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		env.Set(target.Value, val)
		return nil
	case *ast.IndexExpression:
		arr, idx, failed := in.evalElement(target, env)
		if failed != nil {
			return failed
		}
		val := in.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		n, errObj := asInteger(val, "array element")
		if errObj != nil {
			return errObj
		}
		arr.Elements[idx] = n
		return nil
	case *ast.FieldAccessExpression:
		write := &ast.FieldAssignExpression{Token: node.Token, Object: target.Object, Field: target.Field, Value: node.Value}
		if val := in.Eval(write, env); isError(val) {
			return val
		}
		return nil
	default:
		return newError("cannot assign to %s", node.Target.String())
	}
}

// evalPrintStatement writes what printf("%d\n") or printf("%s\n") would.
func (in *Interpreter) evalPrintStatement(node *ast.PrintStatement, env *object.Environment) object.Object {
	val := in.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	switch val := val.(type) {
	case *object.Integer:
		fmt.Fprintf(in.out, "%d\n", val.Value)
	case *object.String:
		fmt.Fprintf(in.out, "%s\n", val.Value)
	default:
		return newError("cannot print %s", val.Type())
	}
	return nil
}

func (in *Interpreter) evalIfStatement(node *ast.IfStatement, env *object.Environment) object.Object {
	cond := in.Eval(node.Condition, env)
	if isError(cond) {
		return cond
	}
	ok, errObj := isTruthy(cond)
	if errObj != nil {
		return errObj
	}
	if ok {
		return in.evalBlockStatement(node.Consequence, env)
	}
	if node.Alternative != nil {
		return in.evalBlockStatement(node.Alternative, env)
	}
	return nil
}

func (in *Interpreter) evalWhileStatement(node *ast.WhileStatement, env *object.Environment) object.Object {
	for {
		cond := in.Eval(node.Condition, env)
		if isError(cond) {
			return cond
		}
		ok, errObj := isTruthy(cond)
		if errObj != nil {
			return errObj
		}
		if !ok {
			return nil
		}
		result := in.evalBlockStatement(node.Body, env)
		if result != nil {
			return result
		}
	}
}

// evalElement resolves name[index] to its array and a checked index.
func (in *Interpreter) evalElement(node *ast.IndexExpression, env *object.Environment) (*object.Array, int, object.Object) {
	id, ok := node.Left.(*ast.Identifier)
	if !ok {
		return nil, 0, newError("only a variable can be indexed, got %s", node.Left.String())
	}
	val, ok := env.Get(id.Value)
	if !ok {
		return nil, 0, newError("identifier not found: %s", id.Value)
	}
	arr, ok := val.(*object.Array)
	if !ok {
		return nil, 0, newError("%s is not an array", id.Value)
	}
	idxObj := in.Eval(node.Index, env)
	if isError(idxObj) {
		return nil, 0, idxObj
	}
	idx, errObj := asInteger(idxObj, "array index")
	if errObj != nil {
		return nil, 0, errObj
	}
	if idx < 0 || int(idx) >= len(arr.Elements) {
		return nil, 0, newError("index %d out of range for %s of length %d", idx, id.Value, len(arr.Elements))
	}
	return arr, int(idx), nil
}

// evalField resolves obj.field to its instance and slot.
func (in *Interpreter) evalField(objExpr ast.Expression, field *ast.Identifier, env *object.Environment) (*object.Instance, int, object.Object) {
	val := in.Eval(objExpr, env)
	if isError(val) {
		return nil, 0, val
	}
	inst, ok := val.(*object.Instance)
	if !ok {
		return nil, 0, newError("%s is %s, not a class instance", objExpr.String(), val.Type())
	}
	idx, ok := inst.Class.FieldIndex(field.Value)
	if !ok {
		return nil, 0, newError("class %s has no field %s", inst.Class.Name, field.Value)
	}
	return inst, idx, nil
}
