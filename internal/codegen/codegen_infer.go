package codegen

import (
	"fmt"

	"aura/internal/ast"
	"aura/internal/typesys"
)

// TypeOf infers the type of expr against the current symbol table without
// emitting anything. It reports the same error lowering would report, so
// statements check their expressions with it before lowering them.
func (cg *CodeGen) TypeOf(expr ast.Expression) (typesys.ValueType, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return typesys.IntType, nil
	case *ast.StringLiteral:
		return typesys.StrType, nil
	case *ast.Identifier:
		return cg.variable(e)
	case *ast.ArrayLiteral:
		return typesys.ValueType{}, cg.fail(InvalidArrayLiteralContext, e, "", "array literal %s can only initialize a var declaration", e.String())
	case *ast.IndexExpression:
		if _, _, err := cg.indexedArray(e); err != nil {
			return typesys.ValueType{}, err
		}
		t, err := cg.TypeOf(e.Index)
		if err != nil {
			return t, err
		}
		if t.Kind != typesys.Int {
			return t, cg.fail(UnsupportedOperandType, e.Index, "", "array index must be Int, got %s", t)
		}
		return typesys.IntType, nil
	case *ast.CallExpression:
		return cg.typeOfCall(e)
	case *ast.InfixExpression:
		for _, side := range []ast.Expression{e.Left, e.Right} {
			t, err := cg.TypeOf(side)
			if err != nil {
				return t, err
			}
			if err := cg.requireInt(t, e); err != nil {
				return t, err
			}
		}
		if _, ok := arithmeticOps[e.Operator]; !ok {
			if _, ok := comparisonOps[e.Operator]; !ok {
				return typesys.ValueType{}, cg.fail(UnsupportedOperandType, e, e.Operator, "unknown operator %s", e.Operator)
			}
		}
		return typesys.IntType, nil
	case *ast.NewExpression:
		name := e.ClassName.Value
		if _, ok := cg.classes.lookup(name); !ok {
			return typesys.ValueType{}, cg.fail(UnknownClass, e, name, "unknown class %s", name)
		}
		return typesys.InstanceOf(name), nil
	case *ast.FieldAccessExpression:
		info, err := cg.typeOfInstance(e.Object)
		if err != nil {
			return typesys.ValueType{}, err
		}
		if _, err := cg.fieldOf(info, e.Field, e); err != nil {
			return typesys.ValueType{}, err
		}
		return typesys.IntType, nil
	case *ast.FieldAssignExpression:
		info, err := cg.typeOfInstance(e.Object)
		if err != nil {
			return typesys.ValueType{}, err
		}
		if _, err := cg.fieldOf(info, e.Field, e); err != nil {
			return typesys.ValueType{}, err
		}
		if err := cg.typeOfArguments([]ast.Expression{e.Value}); err != nil {
			return typesys.ValueType{}, err
		}
		return typesys.IntType, nil
	case *ast.MethodCallExpression:
		info, err := cg.typeOfInstance(e.Object)
		if err != nil {
			return typesys.ValueType{}, err
		}
		if _, err := cg.methodOf(info, e); err != nil {
			return typesys.ValueType{}, err
		}
		if err := cg.typeOfArguments(e.Arguments); err != nil {
			return typesys.ValueType{}, err
		}
		return typesys.IntType, nil
	default:
		return typesys.ValueType{}, fmt.Errorf("codegen: unsupported expression %T", expr)
	}
}

// Every call returns i32, including methods and print_str.
func (cg *CodeGen) typeOfCall(e *ast.CallExpression) (typesys.ValueType, error) {
	_, fn, err := cg.callee(e)
	if err != nil {
		return typesys.ValueType{}, err
	}
	if fn != nil {
		return typesys.IntType, cg.typeOfArguments(e.Arguments)
	}
	t, err := cg.TypeOf(e.Arguments[0])
	if err != nil {
		return t, err
	}
	if t.Kind != typesys.Str && t.Kind != typesys.Int {
		return t, cg.fail(UnsupportedOperandType, e, builtinPrintStr, "%s needs a Str or Int argument, got %s", builtinPrintStr, t)
	}
	return typesys.IntType, nil
}

func (cg *CodeGen) typeOfInstance(object ast.Expression) (*classInfo, error) {
	t, err := cg.TypeOf(object)
	if err != nil {
		return nil, err
	}
	return cg.instanceClass(t, object)
}

// typeOfArguments checks values that get widened to i32: anything but an array.
func (cg *CodeGen) typeOfArguments(args []ast.Expression) error {
	for _, arg := range args {
		t, err := cg.TypeOf(arg)
		if err != nil {
			return err
		}
		if err := cg.scalar(t, arg); err != nil {
			return err
		}
	}
	return nil
}
