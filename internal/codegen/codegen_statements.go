package codegen

import (
	"fmt"

	"aura/internal/ast"
	"aura/internal/typesys"
)

func (cg *CodeGen) lowerStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VarStatement:
		return cg.lowerVar(s)
	case *ast.AssignStatement:
		return cg.lowerAssign(s)
	case *ast.PrintStatement:
		return cg.lowerPrint(s)
	case *ast.ExpressionStatement:
		if _, err := cg.TypeOf(s.Expression); err != nil {
			return err
		}
		_, err := cg.lowerExpression(s.Expression)
		return err
	case *ast.BlockStatement:
		return cg.lowerBlock(s)
	case *ast.IfStatement:
		return cg.lowerIf(s)
	case *ast.WhileStatement:
		return cg.lowerWhile(s)
	case *ast.FunctionStatement:
		return cg.lowerFunctionDecl(s)
	case *ast.ClassStatement:
		return cg.lowerClass(s)
	case *ast.ReturnStatement:
		return cg.lowerReturn(s)
	default:
		return fmt.Errorf("codegen: unsupported statement %T", stmt)
	}
}

// lowerBlock adds no scope: names declared inside stay visible after it.
func (cg *CodeGen) lowerBlock(b *ast.BlockStatement) error {
	if b == nil {
		return nil
	}
	for _, stmt := range b.Statements {
		if err := cg.lowerStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// checked infers expr, rejects whole arrays and lowers it.
func (cg *CodeGen) checked(expr ast.Expression) (operand, error) {
	t, err := cg.TypeOf(expr)
	if err != nil {
		return operand{}, err
	}
	if err := cg.scalar(t, expr); err != nil {
		return operand{}, err
	}
	return cg.lowerExpression(expr)
}

func (cg *CodeGen) lowerVar(s *ast.VarStatement) error {
	name := s.Name.Value
	if lit, ok := s.Value.(*ast.ArrayLiteral); ok {
		return cg.lowerArrayVar(s, lit)
	}
	t, err := cg.TypeOf(s.Value)
	if err != nil {
		return err
	}
	if err := cg.scalar(t, s.Value); err != nil {
		return err
	}
	v, err := cg.lowerExpression(s.Value)
	if err != nil {
		return err
	}
	if err := cg.declare(s, name, t); err != nil {
		return err
	}
	cg.store(name, t, v)
	return nil
}

// lowerArrayVar stores each element at its index. Elements are i32; a
// string element is stored as its address.
func (cg *CodeGen) lowerArrayVar(s *ast.VarStatement, lit *ast.ArrayLiteral) error {
	name := s.Name.Value
	if err := cg.typeOfArguments(lit.Elements); err != nil {
		return err
	}
	t := typesys.ArrayOf(len(lit.Elements))
	if err := cg.declare(s, name, t); err != nil {
		return err
	}
	for i, el := range lit.Elements {
		v, err := cg.lowerExpression(el)
		if err != nil {
			return err
		}
		val := cg.widen(v)
		addr := cg.newReg()
		cg.emit("%s = getelementptr inbounds [%d x i32], [%d x i32]* %s, i32 0, i32 %d", addr, t.Len, t.Len, slotName(name), i)
		cg.emit("store i32 %s, i32* %s", val, addr)
	}
	return nil
}

func (cg *CodeGen) lowerAssign(s *ast.AssignStatement) error {
	switch target := s.Target.(type) {
	case *ast.Identifier:
		bound, err := cg.variable(target)
		if err != nil {
			return err
		}
		if bound.Kind == typesys.Array {
			return cg.fail(TypeMismatch, s, target.Value, "cannot assign to array %s, assign its elements instead", target.Value)
		}
		t, err := cg.TypeOf(s.Value)
		if err != nil {
			return err
		}
		if t != bound {
			return cg.fail(TypeMismatch, s, target.Value, "cannot assign %s to %s of type %s", t, target.Value, bound)
		}
		v, err := cg.lowerExpression(s.Value)
		if err != nil {
			return err
		}
		cg.store(target.Value, bound, v)
		return nil
	case *ast.IndexExpression:
		if _, err := cg.TypeOf(target); err != nil {
			return err
		}
		if err := cg.typeOfArguments([]ast.Expression{s.Value}); err != nil {
			return err
		}
		addr, err := cg.elementAddress(target)
		if err != nil {
			return err
		}
		v, err := cg.lowerExpression(s.Value)
		if err != nil {
			return err
		}
		cg.emit("store i32 %s, i32* %s", cg.widen(v), addr)
		return nil
	case *ast.FieldAccessExpression:
		write := &ast.FieldAssignExpression{Token: s.Token, Object: target.Object, Field: target.Field, Value: s.Value}
		_, err := cg.checked(write)
		return err
	default:
		return cg.fail(InvalidAssignmentTarget, s, "", "cannot assign to %s", s.Target.String())
	}
}

func (cg *CodeGen) lowerPrint(s *ast.PrintStatement) error {
	t, err := cg.TypeOf(s.Value)
	if err != nil {
		return err
	}
	if !t.Printable() {
		return cg.fail(UnprintableType, s, "", "cannot print %s of type %s", s.Value.String(), t)
	}
	v, err := cg.lowerExpression(s.Value)
	if err != nil {
		return err
	}
	if t.Kind == typesys.Str {
		cg.emit("call i32 (i8*, ...) @printf(i8* %s, i8* %s)", addressOf(fmtStrSymbol, encodedLen(fmtStr)), cg.strPtr(v))
		return nil
	}
	cg.emit("call i32 (i8*, ...) @printf(i8* %s, i32 %s)", addressOf(fmtNumSymbol, encodedLen(fmtNum)), cg.intValue(v))
	return nil
}

func (cg *CodeGen) lowerCondition(expr ast.Expression) (string, error) {
	v, err := cg.checked(expr)
	if err != nil {
		return "", err
	}
	return cg.condition(v, expr)
}

// jumpTo branches to label unless the block already ended.
func (cg *CodeGen) jumpTo(label string) {
	if !cg.out.terminated {
		cg.emitTerminator("br label %%%s", label)
	}
}

func (cg *CodeGen) lowerIf(s *ast.IfStatement) error {
	cond, err := cg.lowerCondition(s.Condition)
	if err != nil {
		return err
	}
	thenLabel := cg.newLabel()
	elseLabel := cg.newLabel()
	mergeLabel := cg.newLabel()

	falseLabel := mergeLabel
	if s.Alternative != nil {
		falseLabel = elseLabel
	}
	cg.emitTerminator("br i1 %s, label %%%s, label %%%s", cond, thenLabel, falseLabel)

	cg.emitLabel(thenLabel)
	if err := cg.lowerBlock(s.Consequence); err != nil {
		return err
	}
	cg.jumpTo(mergeLabel)

	if s.Alternative != nil {
		cg.emitLabel(elseLabel)
		if err := cg.lowerBlock(s.Alternative); err != nil {
			return err
		}
		cg.jumpTo(mergeLabel)
	}
	cg.emitLabel(mergeLabel)
	return nil
}

func (cg *CodeGen) lowerWhile(s *ast.WhileStatement) error {
	condLabel := cg.newLabel()
	bodyLabel := cg.newLabel()
	endLabel := cg.newLabel()

	cg.emitLabel(condLabel)
	cond, err := cg.lowerCondition(s.Condition)
	if err != nil {
		return err
	}
	cg.emitTerminator("br i1 %s, label %%%s, label %%%s", cond, bodyLabel, endLabel)

	cg.emitLabel(bodyLabel)
	if err := cg.lowerBlock(s.Body); err != nil {
		return err
	}
	cg.jumpTo(condLabel)
	cg.emitLabel(endLabel)
	return nil
}

// lowerReturn returns an i32 from the current function. At top level it
// ends main with that exit code.
func (cg *CodeGen) lowerReturn(s *ast.ReturnStatement) error {
	if s.ReturnValue == nil {
		cg.emitTerminator("ret i32 0")
		return nil
	}
	v, err := cg.checked(s.ReturnValue)
	if err != nil {
		return err
	}
	cg.emitTerminator("ret i32 %s", cg.widen(v))
	return nil
}
