package evaluator

import (
	"aura/internal/ast"
	"aura/internal/object"
	"aura/internal/typesys"
)

// evalInfixExpression applies an integer operator. Results wrap like the
// native i32 arithmetic and comparisons yield 1 or 0.
func evalInfixExpression(operator string, left, right object.Object) object.Object {
	l, errObj := asInteger(left, "left operand of "+operator)
	if errObj != nil {
		return errObj
	}
	r, errObj := asInteger(right, "right operand of "+operator)
	if errObj != nil {
		return errObj
	}

	switch operator {
	case "+":
		return &object.Integer{Value: l + r}
	case "-":
		return &object.Integer{Value: l - r}
	case "*":
		return &object.Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newError("division by zero")
		}
		return &object.Integer{Value: l / r}
	case "==":
		return nativeBoolToInteger(l == r)
	case "!=":
		return nativeBoolToInteger(l != r)
	case "<":
		return nativeBoolToInteger(l < r)
	case ">":
		return nativeBoolToInteger(l > r)
	case "<=":
		return nativeBoolToInteger(l <= r)
	case ">=":
		return nativeBoolToInteger(l >= r)
	default:
		return newError("unknown operator: %s", operator)
	}
}

func nativeBoolToInteger(b bool) *object.Integer {
	if b {
		return &object.Integer{Value: 1}
	}
	return &object.Integer{Value: 0}
}

func asInteger(obj object.Object, what string) (int32, *object.Error) {
	i, ok := obj.(*object.Integer)
	if !ok {
		return 0, newError("%s must be an integer, got %s", what, typeName(obj))
	}
	return i.Value, nil
}

// isTruthy accepts only integers: zero is false, anything else true.
func isTruthy(obj object.Object) (bool, *object.Error) {
	n, errObj := asInteger(obj, "condition")
	if errObj != nil {
		return false, errObj
	}
	return n != 0, nil
}

// requireScalar rejects values that cannot travel through an i32 slot.
func requireScalar(obj object.Object) *object.Error {
	switch obj.(type) {
	case *object.Integer, *object.String, *object.Instance:
		return nil
	}
	return newError("%s cannot be passed or stored as a value", typeName(obj))
}

func typeName(obj object.Object) string {
	if obj == nil {
		return "nothing"
	}
	return string(obj.Type())
}

// bindingType is the type a name takes when bound to expr. Anything that
// travels as an i32 in compiled code (calls, fields, elements, arithmetic)
// is Int, whatever value it carries at run time.
func bindingType(expr ast.Expression, env *object.Environment) typesys.ValueType {
	switch expr := expr.(type) {
	case *ast.StringLiteral:
		return typesys.StrType
	case *ast.ArrayLiteral:
		return typesys.ArrayOf(len(expr.Elements))
	case *ast.NewExpression:
		return typesys.InstanceOf(expr.ClassName.Value)
	case *ast.Identifier:
		if t, ok := env.TypeOf(expr.Value); ok {
			return t
		}
	}
	return typesys.IntType
}
