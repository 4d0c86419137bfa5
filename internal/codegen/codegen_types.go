package codegen

import (
	"fmt"

	"aura/internal/ast"
	"aura/internal/typesys"
)

// operand is the result of lowering one expression: an immediate, a
// register or a pool symbol, plus its value type.
type operand struct {
	ref  string
	typ  typesys.ValueType
	pool int  // pool id when ref is a @str symbol, else -1
	flag bool // ref is the i1 result of a comparison
}

func intOperand(ref string) operand {
	return operand{ref: ref, typ: typesys.IntType, pool: -1}
}

func structType(class string) string {
	return "%struct." + class
}

// irType is the storage type of a variable slot.
func irType(t typesys.ValueType) string {
	switch t.Kind {
	case typesys.Str:
		return "i8*"
	case typesys.Array:
		return fmt.Sprintf("[%d x i32]", t.Len)
	case typesys.Instance:
		return structType(t.Class) + "*"
	default:
		return "i32"
	}
}

func slotName(name string) string {
	return "%" + name + "_ptr"
}

// intValue returns v as an i32, widening a comparison flag.
func (cg *CodeGen) intValue(v operand) string {
	if !v.flag {
		return v.ref
	}
	reg := cg.newReg()
	cg.emit("%s = zext i1 %s to i32", reg, v.ref)
	return reg
}

// strPtr returns an i8* for a Str operand.
func (cg *CodeGen) strPtr(v operand) string {
	if v.pool < 0 {
		return v.ref
	}
	return addressOf(v.ref, encodedLen(cg.strs.content(v.pool)))
}

// widen coerces any scalar to i32. Pointers become their address.
// Arguments, fields, array elements and return values all go through here.
func (cg *CodeGen) widen(v operand) string {
	switch v.typ.Kind {
	case typesys.Str:
		reg := cg.newReg()
		cg.emit("%s = ptrtoint i8* %s to i32", reg, cg.strPtr(v))
		return reg
	case typesys.Instance:
		reg := cg.newReg()
		cg.emit("%s = ptrtoint %s %s to i32", reg, irType(v.typ), v.ref)
		return reg
	default:
		return cg.intValue(v)
	}
}

// condition returns an i1 for a branch.
func (cg *CodeGen) condition(v operand, node ast.Node) (string, error) {
	if v.flag {
		return v.ref, nil
	}
	if v.typ.Kind != typesys.Int {
		return "", cg.fail(UnsupportedOperandType, node, "", "condition must be Int, got %s", v.typ)
	}
	reg := cg.newReg()
	cg.emit("%s = icmp ne i32 %s, 0", reg, v.ref)
	return reg, nil
}

// store writes v into the slot of variable name, declared with type t.
func (cg *CodeGen) store(name string, t typesys.ValueType, v operand) {
	switch t.Kind {
	case typesys.Str:
		cg.emit("store i8* %s, i8** %s", cg.strPtr(v), slotName(name))
	case typesys.Instance:
		ty := irType(t)
		cg.emit("store %s %s, %s* %s", ty, v.ref, ty, slotName(name))
	default:
		cg.emit("store i32 %s, i32* %s", cg.intValue(v), slotName(name))
	}
}

// declare binds name to t in the current function and allocates its slot.
// A name may be declared again with the same type; the slot is reused.
func (cg *CodeGen) declare(node ast.Node, name string, t typesys.ValueType) error {
	if prev, ok := cg.symbols[name]; ok {
		if prev != t {
			return cg.fail(TypeMismatch, node, name, "%s is declared as %s, cannot redeclare it as %s", name, prev, t)
		}
		return nil
	}
	cg.symbols[name] = t
	cg.emitAlloca(slotName(name), irType(t))
	return nil
}

// The lookups below are shared by TypeOf and lowering so both report the
// same failure for the same expression.

func (cg *CodeGen) variable(id *ast.Identifier) (typesys.ValueType, error) {
	t, ok := cg.symbols[id.Value]
	if !ok {
		return typesys.ValueType{}, cg.fail(UndefinedVariable, id, id.Value, "undefined variable %s", id.Value)
	}
	return t, nil
}

// indexedArray resolves the base of name[i] to an array binding.
func (cg *CodeGen) indexedArray(e *ast.IndexExpression) (string, typesys.ValueType, error) {
	id, ok := e.Left.(*ast.Identifier)
	if !ok {
		return "", typesys.ValueType{}, cg.fail(InvalidIndexTarget, e, "", "only a variable can be indexed, got %s", e.Left.String())
	}
	t, err := cg.variable(id)
	if err != nil {
		return "", t, err
	}
	if t.Kind != typesys.Array {
		return "", t, cg.fail(NotAnArray, e, id.Value, "%s is %s, not an array", id.Value, t)
	}
	return id.Value, t, nil
}

func (cg *CodeGen) instanceClass(t typesys.ValueType, node ast.Node) (*classInfo, error) {
	if t.Kind != typesys.Instance {
		return nil, cg.fail(NotAnInstance, node, "", "%s is %s, not a class instance", node.String(), t)
	}
	info, ok := cg.classes.lookup(t.Class)
	if !ok {
		return nil, cg.fail(UnknownClass, node, t.Class, "unknown class %s", t.Class)
	}
	return info, nil
}

func (cg *CodeGen) fieldOf(info *classInfo, field *ast.Identifier, node ast.Node) (int, error) {
	idx, ok := info.fieldIndex(field.Value)
	if !ok {
		return 0, cg.fail(UnknownField, node, field.Value, "class %s has no field %s", info.name, field.Value)
	}
	return idx, nil
}

func (cg *CodeGen) methodOf(info *classInfo, e *ast.MethodCallExpression) (*funcInfo, error) {
	fn, ok := cg.funcs.lookup(methodName(info.name, e.Method.Value))
	if !ok || fn.receiver != info.name {
		return nil, cg.fail(UnknownMethod, e, e.Method.Value, "class %s has no method %s", info.name, e.Method.Value)
	}
	if len(e.Arguments) != fn.arity {
		return nil, cg.fail(ArityMismatch, e, e.Method.Value, "%s.%s takes %d arguments, got %d", info.name, e.Method.Value, fn.arity, len(e.Arguments))
	}
	return fn, nil
}

// callee resolves a free call. For print_str it returns a nil funcInfo.
func (cg *CodeGen) callee(e *ast.CallExpression) (string, *funcInfo, error) {
	id, ok := e.Function.(*ast.Identifier)
	if !ok {
		return "", nil, cg.fail(InvalidCallTarget, e, "", "only named functions can be called, got %s", e.Function.String())
	}
	if id.Value == builtinPrintStr {
		if len(e.Arguments) != 1 {
			return "", nil, cg.fail(ArityMismatch, e, id.Value, "%s takes 1 argument, got %d", id.Value, len(e.Arguments))
		}
		return id.Value, nil, nil
	}
	fn, ok := cg.funcs.lookup(id.Value)
	if !ok || fn.receiver != "" {
		return "", nil, cg.fail(UndefinedFunction, e, id.Value, "undefined function %s", id.Value)
	}
	if len(e.Arguments) != fn.arity {
		return "", nil, cg.fail(ArityMismatch, e, id.Value, "%s takes %d arguments, got %d", id.Value, fn.arity, len(e.Arguments))
	}
	return id.Value, fn, nil
}

// scalar rejects a whole array where a single value is needed.
func (cg *CodeGen) scalar(t typesys.ValueType, node ast.Expression) error {
	if t.Kind != typesys.Array {
		return nil
	}
	return cg.fail(UnsupportedOperandType, node, "", "array %s can only be used through an index", node.String())
}

func (cg *CodeGen) requireInt(t typesys.ValueType, e *ast.InfixExpression) error {
	if t.Kind != typesys.Int {
		return cg.fail(UnsupportedOperandType, e, e.Operator, "operator %s needs Int operands, got %s", e.Operator, t)
	}
	return nil
}
