package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"aura/internal/ast"
	"aura/internal/typesys"
)

var arithmeticOps = map[string]string{
	"+": "add",
	"-": "sub",
	"*": "mul",
	"/": "sdiv",
}

var comparisonOps = map[string]string{
	"==": "eq",
	"!=": "ne",
	"<":  "slt",
	">":  "sgt",
	"<=": "sle",
	">=": "sge",
}

// lowerExpression emits the instructions computing expr into the current
// sink and returns where the result lives.
func (cg *CodeGen) lowerExpression(expr ast.Expression) (operand, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return intOperand(strconv.Itoa(int(e.Value))), nil
	case *ast.StringLiteral:
		id := cg.strs.intern(e.Value)
		return operand{ref: poolSymbol(id), typ: typesys.StrType, pool: id}, nil
	case *ast.Identifier:
		return cg.lowerLoad(e)
	case *ast.ArrayLiteral:
		return operand{}, cg.fail(InvalidArrayLiteralContext, e, "", "array literal %s can only initialize a var declaration", e.String())
	case *ast.IndexExpression:
		addr, err := cg.elementAddress(e)
		if err != nil {
			return operand{}, err
		}
		reg := cg.newReg()
		cg.emit("%s = load i32, i32* %s", reg, addr)
		return intOperand(reg), nil
	case *ast.CallExpression:
		return cg.lowerCall(e)
	case *ast.InfixExpression:
		return cg.lowerInfix(e)
	case *ast.NewExpression:
		return cg.lowerNew(e)
	case *ast.FieldAccessExpression:
		addr, err := cg.fieldAddress(e.Object, e.Field, e)
		if err != nil {
			return operand{}, err
		}
		reg := cg.newReg()
		cg.emit("%s = load i32, i32* %s", reg, addr)
		return intOperand(reg), nil
	case *ast.FieldAssignExpression:
		return cg.lowerFieldWrite(e)
	case *ast.MethodCallExpression:
		return cg.lowerMethodCall(e)
	default:
		return operand{}, fmt.Errorf("codegen: unsupported expression %T", expr)
	}
}

func (cg *CodeGen) lowerLoad(id *ast.Identifier) (operand, error) {
	t, err := cg.variable(id)
	if err != nil {
		return operand{}, err
	}
	if err := cg.scalar(t, id); err != nil {
		return operand{}, err
	}
	ty := irType(t)
	reg := cg.newReg()
	cg.emit("%s = load %s, %s* %s", reg, ty, ty, slotName(id.Value))
	return operand{ref: reg, typ: t, pool: -1}, nil
}

// elementAddress emits the address of name[index]. No bounds check.
func (cg *CodeGen) elementAddress(e *ast.IndexExpression) (string, error) {
	name, t, err := cg.indexedArray(e)
	if err != nil {
		return "", err
	}
	idx, err := cg.lowerExpression(e.Index)
	if err != nil {
		return "", err
	}
	if idx.typ.Kind != typesys.Int {
		return "", cg.fail(UnsupportedOperandType, e.Index, "", "array index must be Int, got %s", idx.typ)
	}
	i := cg.intValue(idx)
	addr := cg.newReg()
	cg.emit("%s = getelementptr inbounds [%d x i32], [%d x i32]* %s, i32 0, i32 %s", addr, t.Len, t.Len, slotName(name), i)
	return addr, nil
}

func (cg *CodeGen) lowerInfix(e *ast.InfixExpression) (operand, error) {
	left, err := cg.lowerExpression(e.Left)
	if err != nil {
		return operand{}, err
	}
	right, err := cg.lowerExpression(e.Right)
	if err != nil {
		return operand{}, err
	}
	if err := cg.requireInt(left.typ, e); err != nil {
		return operand{}, err
	}
	if err := cg.requireInt(right.typ, e); err != nil {
		return operand{}, err
	}
	l := cg.intValue(left)
	r := cg.intValue(right)

	if op, ok := arithmeticOps[e.Operator]; ok {
		reg := cg.newReg()
		cg.emit("%s = %s i32 %s, %s", reg, op, l, r)
		return intOperand(reg), nil
	}
	if pred, ok := comparisonOps[e.Operator]; ok {
		reg := cg.newReg()
		cg.emit("%s = icmp %s i32 %s, %s", reg, pred, l, r)
		return operand{ref: reg, typ: typesys.IntType, pool: -1, flag: true}, nil
	}
	return operand{}, cg.fail(UnsupportedOperandType, e, e.Operator, "unknown operator %s", e.Operator)
}

// lowerNew allocates fieldCount*4 bytes on the heap and zeroes every field.
func (cg *CodeGen) lowerNew(e *ast.NewExpression) (operand, error) {
	name := e.ClassName.Value
	info, ok := cg.classes.lookup(name)
	if !ok {
		return operand{}, cg.fail(UnknownClass, e, name, "unknown class %s", name)
	}
	raw := cg.newReg()
	cg.emit("%s = call i8* @malloc(i32 %d)", raw, 4*len(info.fields))
	obj := cg.newReg()
	cg.emit("%s = bitcast i8* %s to %s*", obj, raw, structType(name))
	if len(info.fields) > 0 {
		cg.emit("store %s zeroinitializer, %s* %s", structType(name), structType(name), obj)
	}
	return operand{ref: obj, typ: typesys.InstanceOf(name), pool: -1}, nil
}

// fieldAddress lowers object and emits the address of its field slot.
func (cg *CodeGen) fieldAddress(object ast.Expression, field *ast.Identifier, node ast.Node) (string, error) {
	obj, err := cg.lowerExpression(object)
	if err != nil {
		return "", err
	}
	info, err := cg.instanceClass(obj.typ, object)
	if err != nil {
		return "", err
	}
	idx, err := cg.fieldOf(info, field, node)
	if err != nil {
		return "", err
	}
	addr := cg.newReg()
	st := structType(info.name)
	cg.emit("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d", addr, st, st, obj.ref, idx)
	return addr, nil
}

// lowerFieldWrite stores into obj.field; the expression's value is the stored integer.
func (cg *CodeGen) lowerFieldWrite(e *ast.FieldAssignExpression) (operand, error) {
	obj, err := cg.lowerExpression(e.Object)
	if err != nil {
		return operand{}, err
	}
	info, err := cg.instanceClass(obj.typ, e.Object)
	if err != nil {
		return operand{}, err
	}
	idx, err := cg.fieldOf(info, e.Field, e)
	if err != nil {
		return operand{}, err
	}
	v, err := cg.lowerExpression(e.Value)
	if err != nil {
		return operand{}, err
	}
	val := cg.widen(v)

	addr := cg.newReg()
	st := structType(info.name)
	cg.emit("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d", addr, st, st, obj.ref, idx)
	cg.emit("store i32 %s, i32* %s", val, addr)
	return intOperand(val), nil
}

// lowerArguments widens every argument to i32.
func (cg *CodeGen) lowerArguments(args []ast.Expression) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		v, err := cg.lowerExpression(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, "i32 "+cg.widen(v))
	}
	return out, nil
}

func (cg *CodeGen) lowerCall(e *ast.CallExpression) (operand, error) {
	name, fn, err := cg.callee(e)
	if err != nil {
		return operand{}, err
	}
	if fn == nil {
		return cg.lowerPrintStr(e)
	}
	args, err := cg.lowerArguments(e.Arguments)
	if err != nil {
		return operand{}, err
	}
	reg := cg.newReg()
	cg.emit("%s = call i32 @%s(%s)", reg, name, strings.Join(args, ", "))
	return intOperand(reg), nil
}

// lowerPrintStr prints its argument as a C string. An Int is taken to be
// an address, which is how strings travel through parameters and fields.
func (cg *CodeGen) lowerPrintStr(e *ast.CallExpression) (operand, error) {
	v, err := cg.lowerExpression(e.Arguments[0])
	if err != nil {
		return operand{}, err
	}
	var ptr string
	switch v.typ.Kind {
	case typesys.Str:
		ptr = cg.strPtr(v)
	case typesys.Int:
		i := cg.intValue(v)
		ptr = cg.newReg()
		cg.emit("%s = inttoptr i32 %s to i8*", ptr, i)
	default:
		return operand{}, cg.fail(UnsupportedOperandType, e, builtinPrintStr, "%s needs a Str or Int argument, got %s", builtinPrintStr, v.typ)
	}
	cg.emit("call i32 (i8*, ...) @printf(i8* %s, i8* %s)", addressOf(fmtStrSymbol, encodedLen(fmtStr)), ptr)
	return intOperand("0"), nil
}

func (cg *CodeGen) lowerMethodCall(e *ast.MethodCallExpression) (operand, error) {
	obj, err := cg.lowerExpression(e.Object)
	if err != nil {
		return operand{}, err
	}
	info, err := cg.instanceClass(obj.typ, e.Object)
	if err != nil {
		return operand{}, err
	}
	fn, err := cg.methodOf(info, e)
	if err != nil {
		return operand{}, err
	}
	args, err := cg.lowerArguments(e.Arguments)
	if err != nil {
		return operand{}, err
	}
	all := append([]string{irType(obj.typ) + " " + obj.ref}, args...)
	reg := cg.newReg()
	cg.emit("%s = call i32 @%s(%s)", reg, fn.name, strings.Join(all, ", "))
	return intOperand(reg), nil
}
