package codegen

import (
	"errors"
	"strings"
	"testing"

	"aura/internal/ast"
	"aura/internal/token"
	"aura/internal/typesys"

	"github.com/nalgeon/be"
)

func tk(tt token.TokenType, lit string) token.Token {
	return token.Token{Type: tt, Literal: lit, Line: 1, Column: 1}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Token: tk(token.IDENT, name), Value: name}
}

func TestTokenFromNodeCoverage(t *testing.T) {
	one := &ast.IntegerLiteral{Token: tk(token.INT, "1"), Value: 1}
	block := &ast.BlockStatement{Token: tk(token.LBRACE, "{")}
	nodes := []ast.Node{
		ident("x"),
		one,
		&ast.StringLiteral{Token: tk(token.STRING, "s"), Value: "s"},
		&ast.ArrayLiteral{Token: tk(token.LBRACKET, "["), Elements: []ast.Expression{}},
		&ast.IndexExpression{Token: tk(token.LBRACKET, "["), Left: ident("a"), Index: one},
		&ast.CallExpression{Token: tk(token.LPAREN, "("), Function: ident("f")},
		&ast.InfixExpression{Token: tk(token.PLUS, "+"), Left: one, Operator: "+", Right: one},
		&ast.NewExpression{Token: tk(token.NEW, "new"), ClassName: ident("P")},
		&ast.FieldAccessExpression{Token: tk(token.DOT, "."), Object: ident("p"), Field: ident("x")},
		&ast.FieldAssignExpression{Token: tk(token.ASSIGN, "="), Object: ident("p"), Field: ident("x"), Value: one},
		&ast.MethodCallExpression{Token: tk(token.DOT, "."), Object: ident("p"), Method: ident("m")},
		&ast.VarStatement{Token: tk(token.VAR, "var"), Name: ident("x"), Value: one},
		&ast.AssignStatement{Token: tk(token.ASSIGN, "="), Target: ident("x"), Value: one},
		&ast.AssignStatement{Token: tk(token.ASSIGN, "="), Value: one},
		&ast.PrintStatement{Token: tk(token.PRINT, "print"), Value: one},
		&ast.ReturnStatement{Token: tk(token.RETURN, "return")},
		&ast.ExpressionStatement{Token: tk(token.IDENT, "x"), Expression: ident("x")},
		block,
		&ast.IfStatement{Token: tk(token.IF, "if"), Condition: one, Consequence: block},
		&ast.WhileStatement{Token: tk(token.WHILE, "while"), Condition: one, Body: block},
		&ast.FunctionStatement{Token: tk(token.FUNCTION, "func"), Name: ident("f"), Body: block},
		&ast.ClassStatement{Token: tk(token.CLASS, "class"), Name: ident("P")},
	}

	for _, n := range nodes {
		if _, ok := tokenFromNode(n); !ok {
			t.Fatalf("expected tokenFromNode success for %T", n)
		}
	}
	if _, ok := tokenFromNode(nil); ok {
		t.Fatalf("expected tokenFromNode(nil) failure")
	}
	if _, ok := tokenFromNode(&ast.Identifier{Value: "nowhere"}); ok {
		t.Fatalf("expected a token without position to be rejected")
	}
}

func TestFailBuildsCodegenError(t *testing.T) {
	cg := New()
	err := cg.fail(UnknownField, &ast.FieldAccessExpression{Object: ident("p"), Field: ident("z")}, "z", "class %s has no field %s", "P", "z")

	var cerr *CodegenError
	be.True(t, errors.As(err, &cerr))
	be.Equal(t, cerr.Kind, UnknownField)
	be.Equal(t, cerr.Name, "z")
	be.Equal(t, cerr.Message, "class P has no field z")
	be.Equal(t, cerr.Context, "p.z")
	be.Equal(t, cerr.Line, 1)
	be.Equal(t, err.Error(), "UnknownField: class P has no field z")
	be.True(t, errors.Is(err, ErrUnknownField))

	err = cg.fail(UndefinedVariable, nil, "q", "undefined variable q")
	be.Equal(t, err.(*CodegenError).Context, "")
	be.Equal(t, err.(*CodegenError).Line, 0)
}

func TestSinkBlocks(t *testing.T) {
	cg := New()
	cg.emit("%s = add i32 1, 2", cg.newReg())
	cg.emitTerminator("ret i32 0")
	cg.emit("%s = add i32 3, 4", cg.newReg())
	cg.emitLabel("Lx")
	cg.emitAlloca("%v_ptr", "i32")

	want := "  %v_ptr = alloca i32\n" +
		"  %tmp1 = add i32 1, 2\n" +
		"  ret i32 0\n" +
		"L0:\n" +
		"  %tmp2 = add i32 3, 4\n" +
		"  br label %Lx\n" +
		"Lx:\n"
	be.Equal(t, cg.main.text(), want)
	be.True(t, !cg.main.terminated)
	be.Equal(t, cg.newLabel(), "L1")
}

func TestJumpToSkipsClosedBlocks(t *testing.T) {
	cg := New()
	cg.emitTerminator("ret i32 1")
	cg.jumpTo("L9")
	be.True(t, !strings.Contains(cg.main.body.String(), "br label %L9"))

	cg.emitLabel("L8")
	cg.jumpTo("L9")
	be.True(t, strings.Contains(cg.main.body.String(), "L8:\n  br label %L9\n"))
}

func TestRegistries(t *testing.T) {
	decl := &ast.ClassStatement{Name: ident("P"), Fields: []*ast.Identifier{ident("a"), ident("b")}}
	classes := newClassRegistry()
	info, ok := classes.register(decl)
	be.True(t, ok)
	idx, ok := info.fieldIndex("b")
	be.True(t, ok)
	be.Equal(t, idx, 1)
	_, ok = info.fieldIndex("c")
	be.True(t, !ok)

	_, ok = classes.register(decl)
	be.True(t, ok)
	_, ok = classes.register(&ast.ClassStatement{Name: ident("P")})
	be.True(t, !ok)
	be.Equal(t, len(classes.order), 1)

	fn := &ast.FunctionStatement{Name: ident("f"), Parameters: []*ast.Identifier{ident("x")}}
	funcs := newFuncRegistry()
	be.True(t, funcs.register("f", "", fn))
	be.True(t, funcs.register("f", "", fn))
	be.True(t, !funcs.register("f", "", &ast.FunctionStatement{Name: ident("f")}))
	be.True(t, !funcs.register("printf", "", fn))
	got, ok := funcs.lookup("f")
	be.True(t, ok)
	be.Equal(t, got.arity, 1)
	be.Equal(t, methodName("P", "get"), "P_get")
}

func TestEnterFunctionRestoresScope(t *testing.T) {
	cg := New()
	cg.symbols["top"] = typesys.IntType

	body := &sink{}
	saved := cg.enterFunction("P", body)
	be.Equal(t, len(cg.symbols), 0)
	be.Equal(t, cg.currentClass, "P")
	be.True(t, cg.out == body)
	cg.symbols["local"] = typesys.StrType

	cg.exitFunction(saved)
	be.Equal(t, cg.symbols, symbolTable{"top": typesys.IntType})
	be.Equal(t, cg.currentClass, "")
	be.True(t, cg.out == cg.main)
}

func TestTypeOf(t *testing.T) {
	prelude := parseProgram(t, `
class P {
    var x;
    func get(k) { return this.x + k; }
}
func f(a, b) { return a + b; }
`)
	tests := []struct {
		expr string
		want string
		kind ErrorKind
	}{
		{expr: "1", want: "Int"},
		{expr: `"s"`, want: "Str"},
		{expr: "n", want: "Int"},
		{expr: "s", want: "Str"},
		{expr: "a", want: "Array(3)"},
		{expr: "p", want: "Instance(P)"},
		{expr: "a[n]", want: "Int"},
		{expr: "n < 2", want: "Int"},
		{expr: "n * (n - 1)", want: "Int"},
		{expr: "new P()", want: "Instance(P)"},
		{expr: "p.x", want: "Int"},
		{expr: "p.get(1)", want: "Int"},
		{expr: "f(1, n)", want: "Int"},
		{expr: "f(s, p)", want: "Int"},
		{expr: `print_str("x")`, want: "Int"},
		{expr: "missing", kind: UndefinedVariable},
		{expr: "n[0]", kind: NotAnArray},
		{expr: "a[s]", kind: UnsupportedOperandType},
		{expr: "f(1)[0]", kind: InvalidIndexTarget},
		{expr: "[1, 2]", kind: InvalidArrayLiteralContext},
		{expr: "s - 1", kind: UnsupportedOperandType},
		{expr: "p + 1", kind: UnsupportedOperandType},
		{expr: "new Q()", kind: UnknownClass},
		{expr: "p.y", kind: UnknownField},
		{expr: "n.x", kind: NotAnInstance},
		{expr: "p.nope()", kind: UnknownMethod},
		{expr: "p.get()", kind: ArityMismatch},
		{expr: "g(1)", kind: UndefinedFunction},
		{expr: "f(1)", kind: ArityMismatch},
		{expr: "f(a, 1)", kind: UnsupportedOperandType},
		{expr: "print_str(a)", kind: UnsupportedOperandType},
		{expr: "print_str(1, 2)", kind: ArityMismatch},
		{expr: "f(1)(2)", kind: InvalidCallTarget},
		{expr: "P_get(p, 1)", kind: UndefinedFunction},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			cg := New()
			be.Err(t, cg.registerDeclarations(prelude.Statements), nil)
			cg.symbols = symbolTable{
				"n": typesys.IntType,
				"s": typesys.StrType,
				"a": typesys.ArrayOf(3),
				"p": typesys.InstanceOf("P"),
			}

			program := parseProgram(t, tt.expr+";")
			expr := program.Statements[0].(*ast.ExpressionStatement).Expression
			got, err := cg.TypeOf(expr)

			if tt.kind != 0 {
				var cerr *CodegenError
				if !errors.As(err, &cerr) {
					t.Fatalf("TypeOf(%s): expected %s, got %v", tt.expr, tt.kind, err)
				}
				be.Equal(t, cerr.Kind, tt.kind)
			} else {
				be.Err(t, err, nil)
				be.Equal(t, got.String(), tt.want)
			}
			be.Equal(t, cg.regCount, 0)
			be.Equal(t, cg.main.body.Len(), 0)
			be.Equal(t, len(cg.strs.entries), 0)
		})
	}
}
