package ast

import (
	"bytes"
	"strings"

	"aura/internal/token"
)

// Node is the base interface for all AST nodes
// Every node must provide a TokenLiteral (for debugging) and String (for printing)
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement nodes don't produce values
// Examples: var x = 5; return 10;
type Statement interface {
	Node
	statementNode() // Dummy method to distinguish statements from expressions
}

// Expression nodes produce values
// Examples: 5, x, add(2, 3), 5 + 3
type Expression interface {
	Node
	expressionNode() // Dummy method to distinguish expressions from statements
}

// Program is the root node of every AST
// It contains a slice of statements (the top-level code)
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// String builds the program back into source code (useful for debugging)
func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// Identifier represents a variable, function, class or field name
type Identifier struct {
	Token token.Token // The IDENT token
	Value string      // The actual name: "x", "foo"
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// IntegerLiteral represents a number like 5 or 42
// Values are signed 32-bit, the only integer width the language has.
type IntegerLiteral struct {
	Token token.Token
	Value int32
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// StringLiteral represents a string like "hello"
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return "\"" + sl.Value + "\"" }

// ArrayLiteral represents [expr1, expr2, ...]
// Only valid as the initializer of a var declaration.
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string {
	return "[" + joinExpressions(al.Elements) + "]"
}

// IndexExpression represents left[index]
// The parser accepts any left side; only a plain variable name can be lowered.
type IndexExpression struct {
	Token token.Token // The [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return "(" + ie.Left.String() + "[" + ie.Index.String() + "])"
}

// CallExpression represents function(args)
type CallExpression struct {
	Token     token.Token // The ( token
	Function  Expression  // Identifier for every call the language supports
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + joinExpressions(ce.Arguments) + ")"
}

// InfixExpression represents a binary operation: left op right
type InfixExpression struct {
	Token    token.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// NewExpression represents new ClassName()
type NewExpression struct {
	Token     token.Token // The new token
	ClassName *Identifier
}

func (ne *NewExpression) expressionNode()      {}
func (ne *NewExpression) TokenLiteral() string { return ne.Token.Literal }
func (ne *NewExpression) String() string       { return "new " + ne.ClassName.String() + "()" }

// FieldAccessExpression represents object.field
type FieldAccessExpression struct {
	Token  token.Token // The . token
	Object Expression
	Field  *Identifier
}

func (fa *FieldAccessExpression) expressionNode()      {}
func (fa *FieldAccessExpression) TokenLiteral() string { return fa.Token.Literal }
func (fa *FieldAccessExpression) String() string {
	return fa.Object.String() + "." + fa.Field.String()
}

// FieldAssignExpression represents object.field = value
// It is an expression; its value is the stored integer.
type FieldAssignExpression struct {
	Token  token.Token // The = token
	Object Expression
	Field  *Identifier
	Value  Expression
}

func (fa *FieldAssignExpression) expressionNode()      {}
func (fa *FieldAssignExpression) TokenLiteral() string { return fa.Token.Literal }
func (fa *FieldAssignExpression) String() string {
	return fa.Object.String() + "." + fa.Field.String() + " = " + fa.Value.String()
}

// MethodCallExpression represents object.method(args)
type MethodCallExpression struct {
	Token     token.Token // The . token
	Object    Expression
	Method    *Identifier
	Arguments []Expression
}

func (mc *MethodCallExpression) expressionNode()      {}
func (mc *MethodCallExpression) TokenLiteral() string { return mc.Token.Literal }
func (mc *MethodCallExpression) String() string {
	var out bytes.Buffer
	if mc.Object != nil {
		out.WriteString(mc.Object.String())
	}
	out.WriteString(".")
	if mc.Method != nil {
		out.WriteString(mc.Method.String())
	}
	out.WriteString("(" + joinExpressions(mc.Arguments) + ")")
	return out.String()
}

// VarStatement represents: var <name> = <value>;
type VarStatement struct {
	Token token.Token // The var token
	Name  *Identifier
	Value Expression
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Literal }
func (vs *VarStatement) String() string {
	var out bytes.Buffer
	out.WriteString("var " + vs.Name.String() + " = ")
	if vs.Value != nil {
		out.WriteString(vs.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// AssignStatement represents: <target> = <value>;
// Target is an Identifier for plain rebinding or an IndexExpression for an element store.
// Any other target is kept so the code generator can reject it.
type AssignStatement struct {
	Token  token.Token // The = token
	Target Expression
	Value  Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) String() string {
	var out bytes.Buffer
	if as.Target != nil {
		out.WriteString(as.Target.String())
	}
	out.WriteString(" = ")
	if as.Value != nil {
		out.WriteString(as.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// PrintStatement represents: print(<value>);
type PrintStatement struct {
	Token token.Token // The print token
	Value Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) String() string {
	if ps.Value == nil {
		return "print();"
	}
	return "print(" + ps.Value.String() + ");"
}

// ReturnStatement represents: return <value>; (value optional)
type ReturnStatement struct {
	Token       token.Token // The return token
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	if rs.ReturnValue == nil {
		return "return;"
	}
	return "return " + rs.ReturnValue.String() + ";"
}

// ExpressionStatement wraps an expression evaluated for its side effect
// Example: add(1, 2); or p.x = 7;
type ExpressionStatement struct {
	Token      token.Token // The first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ""
}

// BlockStatement represents { stmt1; stmt2; ... }
// Blocks introduce no scope of their own.
type BlockStatement struct {
	Token      token.Token // The { token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// IfStatement represents if (cond) { ... } else { ... }
// An else-if chain is an Alternative block holding a single IfStatement.
type IfStatement struct {
	Token       token.Token // The if token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (" + is.Condition.String() + ") ")
	out.WriteString(is.Consequence.String())
	if is.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(is.Alternative.String())
	}
	return out.String()
}

// WhileStatement represents while (cond) { ... }
// for loops are desugared into a block ending in a WhileStatement.
type WhileStatement struct {
	Token     token.Token // The while (or for) token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// FunctionStatement represents func name(params) { body }
// Class methods use the same node.
type FunctionStatement struct {
	Token      token.Token // The func token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *FunctionStatement) String() string {
	if fs.Name == nil || fs.Body == nil {
		return ""
	}
	params := make([]string, 0, len(fs.Parameters))
	for _, p := range fs.Parameters {
		params = append(params, p.String())
	}
	return "func " + fs.Name.String() + "(" + strings.Join(params, ", ") + ") " + fs.Body.String()
}

// ClassStatement represents class Name { var f; func m() {...} }
// Field order is the storage order of the generated aggregate type.
type ClassStatement struct {
	Token   token.Token // The class token
	Name    *Identifier
	Fields  []*Identifier
	Methods []*FunctionStatement
}

func (cs *ClassStatement) statementNode()       {}
func (cs *ClassStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ClassStatement) String() string {
	var out bytes.Buffer
	out.WriteString("class " + cs.Name.String() + " { ")
	for _, f := range cs.Fields {
		out.WriteString("var " + f.String() + "; ")
	}
	for _, m := range cs.Methods {
		out.WriteString(m.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}

func joinExpressions(exprs []Expression) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}
