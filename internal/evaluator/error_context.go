package evaluator

import (
	"strings"

	"aura/internal/ast"
	"aura/internal/object"
	"aura/internal/token"
)

// annotateErrorWithNode fills in whatever location and context the
// error does not carry yet. The innermost statement wins.
func annotateErrorWithNode(obj object.Object, node ast.Node) object.Object {
	err, ok := obj.(*object.Error)
	if !ok || node == nil {
		return obj
	}
	if err.Line > 0 && err.Column > 0 && strings.TrimSpace(err.Context) != "" {
		return obj
	}
	ctx := strings.TrimSpace(node.String())
	if ctx == "" {
		ctx = strings.TrimSpace(node.TokenLiteral())
	}
	if err.Context == "" {
		err.Context = ctx
	}
	if tok, ok := tokenFromNode(node); ok {
		if err.Line <= 0 {
			err.Line = tok.Line
		}
		if err.Column <= 0 {
			err.Column = tok.Column
		}
	}
	return err
}

func tokenFromNode(node ast.Node) (token.Token, bool) {
	var tok token.Token
	switch n := node.(type) {
	case *ast.VarStatement:
		tok = n.Token
	case *ast.AssignStatement:
		tok = n.Token
	case *ast.PrintStatement:
		tok = n.Token
	case *ast.ReturnStatement:
		tok = n.Token
	case *ast.ExpressionStatement:
		tok = n.Token
	case *ast.BlockStatement:
		tok = n.Token
	case *ast.IfStatement:
		tok = n.Token
	case *ast.WhileStatement:
		tok = n.Token
	case *ast.FunctionStatement:
		tok = n.Token
	case *ast.ClassStatement:
		tok = n.Token
	case *ast.Identifier:
		tok = n.Token
	case *ast.IntegerLiteral:
		tok = n.Token
	case *ast.StringLiteral:
		tok = n.Token
	case *ast.ArrayLiteral:
		tok = n.Token
	case *ast.IndexExpression:
		tok = n.Token
	case *ast.CallExpression:
		tok = n.Token
	case *ast.InfixExpression:
		tok = n.Token
	case *ast.NewExpression:
		tok = n.Token
	case *ast.FieldAccessExpression:
		tok = n.Token
	case *ast.FieldAssignExpression:
		tok = n.Token
	case *ast.MethodCallExpression:
		tok = n.Token
	default:
		return token.Token{}, false
	}
	return tok, tok.Line > 0 && tok.Column > 0
}
