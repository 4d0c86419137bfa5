package parser

import (
	"fmt"
	"strconv"

	"aura/internal/ast"
	"aura/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	// First, find a prefix parser for current token
	// This handles: literals, identifiers, negation, grouped expressions
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	// While next token is an infix operator with higher precedence than ours,
	// consume it and build the expression tree
	for leftExp != nil && !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()            // Advance to the operator
		leftExp = infix(leftExp) // Parse with left side already known
	}

	return leftExp
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	if tok.Type == token.ILLEGAL {
		p.addError(fmt.Sprintf("illegal token %q", tok.Literal), tok)
		return
	}
	p.addError(fmt.Sprintf("no prefix parse function for %s found", tok.Type), tok)
}

// parseIdentifier parses a variable name
func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseIntegerLiteral parses a number; it must fit in 32 bits
func (p *Parser) parseIntegerLiteral() ast.Expression {
	return p.integerFromToken(p.curToken, p.curToken.Literal)
}

func (p *Parser) integerFromToken(tok token.Token, text string) ast.Expression {
	value, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		p.addError(fmt.Sprintf("could not parse %q as a 32-bit integer", text), tok)
		return nil
	}
	tok.Literal = text
	return &ast.IntegerLiteral{Token: tok, Value: int32(value)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parseNegation handles -X. A literal folds into a negative number,
// anything else becomes 0 - X so later stages only see binary operations.
func (p *Parser) parseNegation() ast.Expression {
	minus := p.curToken
	if p.peekTokenIs(token.INT) {
		p.nextToken()
		return p.integerFromToken(minus, "-"+p.curToken.Literal)
	}

	p.nextToken()
	right := p.parseExpression(PREFIX)
	if right == nil {
		return nil
	}
	zero := token.Token{Type: token.INT, Literal: "0", Line: minus.Line, Column: minus.Column}
	return &ast.InfixExpression{
		Token:    minus,
		Left:     &ast.IntegerLiteral{Token: zero, Value: 0},
		Operator: "-",
		Right:    right,
	}
}

// parseGroupedExpression handles ( expr )
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseArrayLiteral handles [a, b, c]
func (p *Parser) parseArrayLiteral() ast.Expression {
	array := &ast.ArrayLiteral{Token: p.curToken}
	elements, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	array.Elements = elements
	return array
}

// parseNewExpression handles new ClassName()
func (p *Parser) parseNewExpression() ast.Expression {
	expr := &ast.NewExpression{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.ClassName = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.LPAREN) || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// parseInfixExpression handles binary operators
// Called when we see +, -, *, /, ==, etc. in the middle of an expression
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	// All binary operators are left-associative
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

// parseCallExpression handles callee(args)
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: function}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	call.Arguments = args
	return call
}

// parseIndexExpression handles left[index]
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}

// parseDotExpression handles obj.field and obj.method(args)
func (p *Parser) parseDotExpression(object ast.Expression) ast.Expression {
	dot := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.peekTokenIs(token.LPAREN) {
		return &ast.FieldAccessExpression{Token: dot, Object: object, Field: name}
	}
	p.nextToken()
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	return &ast.MethodCallExpression{Token: dot, Object: object, Method: name, Arguments: args}
}

// parseExpressionList parses comma-separated expressions up to end.
// curToken is the opening delimiter on entry and end on success.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil, false
	}
	list = append(list, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		next := p.parseExpression(LOWEST)
		if next == nil {
			return nil, false
		}
		list = append(list, next)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}
