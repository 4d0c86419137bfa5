package parser

import (
	"fmt"

	"aura/internal/ast"
	"aura/internal/token"
)

// parseStatement dispatches to specific statement parsers based on token type.
// On success curToken is the last token of the statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.VAR:
		return p.parseVarStatement()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FUNCTION:
		if fn := p.parseFunctionStatement(); fn != nil {
			return fn
		}
		return nil
	case token.CLASS:
		return p.parseClassStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.LBRACE:
		if block := p.parseBlockStatement(); block != nil {
			return block
		}
		return nil
	default:
		return p.parseSimpleStatement(true)
	}
}

// parseVarStatement parses: var <name> = <expr>;
func (p *Parser) parseVarStatement() ast.Statement {
	stmt := &ast.VarStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parsePrintStatement parses: print(<expr>);
func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseSimpleStatement parses an expression statement or an assignment.
// A field target becomes a field-write expression; every other target is
// kept in an AssignStatement and checked later.
func (p *Parser) parseSimpleStatement(requireSemicolon bool) ast.Statement {
	start := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	var stmt ast.Statement = &ast.ExpressionStatement{Token: start, Expression: expr}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		assign := p.curToken
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		if field, ok := expr.(*ast.FieldAccessExpression); ok {
			stmt = &ast.ExpressionStatement{Token: start, Expression: &ast.FieldAssignExpression{
				Token:  assign,
				Object: field.Object,
				Field:  field.Field,
				Value:  value,
			}}
		} else {
			stmt = &ast.AssignStatement{Token: assign, Target: expr, Value: value}
		}
	}

	if requireSemicolon && !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseBlockStatement parses { ... }; curToken is { on entry and } on exit.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt == nil {
			p.synchronize()
			if p.curTokenIs(token.RBRACE) {
				break
			}
		} else {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	if p.curTokenIs(token.EOF) {
		p.addError("expected } to close block, got EOF instead", p.curToken)
		return nil
	}
	return block
}

// parseCondition parses ( <expr> ) after a keyword.
func (p *Parser) parseCondition() ast.Expression {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return cond
}

// parseBody expects { and parses the block it opens.
func (p *Parser) parseBody() *ast.BlockStatement {
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	return p.parseBlockStatement()
}

// parseIfStatement parses if/else and else-if chains.
// else if is stored as an else block holding the nested if.
func (p *Parser) parseIfStatement() ast.Statement {
	if stmt := p.parseIf(); stmt != nil {
		return stmt
	}
	return nil
}

func (p *Parser) parseIf() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}
	stmt.Condition = p.parseCondition()
	if stmt.Condition == nil {
		return nil
	}
	stmt.Consequence = p.parseBody()
	if stmt.Consequence == nil {
		return nil
	}

	if !p.peekTokenIs(token.ELSE) {
		return stmt
	}
	p.nextToken()

	if p.peekTokenIs(token.IF) {
		p.nextToken()
		nested := p.parseIf()
		if nested == nil {
			return nil
		}
		stmt.Alternative = &ast.BlockStatement{Token: nested.Token, Statements: []ast.Statement{nested}}
		return stmt
	}

	stmt.Alternative = p.parseBody()
	if stmt.Alternative == nil {
		return nil
	}
	return stmt
}

// parseWhileStatement parses while (<cond>) { ... }
func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	stmt.Condition = p.parseCondition()
	if stmt.Condition == nil {
		return nil
	}
	stmt.Body = p.parseBody()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseForStatement parses for (init; cond; step) { body } and rewrites it as
//
//	{ init; while (cond) { body; step; } }
//
// A missing condition loops forever.
func (p *Parser) parseForStatement() ast.Statement {
	forTok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	var init ast.Statement
	switch {
	case p.curTokenIs(token.SEMICOLON):
	case p.curTokenIs(token.VAR):
		init = p.parseVarStatement()
		if init == nil {
			return nil
		}
	default:
		init = p.parseSimpleStatement(true)
		if init == nil {
			return nil
		}
	}
	p.nextToken()

	var cond ast.Expression
	if p.curTokenIs(token.SEMICOLON) {
		one := token.Token{Type: token.INT, Literal: "1", Line: forTok.Line, Column: forTok.Column}
		cond = &ast.IntegerLiteral{Token: one, Value: 1}
	} else {
		cond = p.parseExpression(LOWEST)
		if cond == nil || !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}
	p.nextToken()

	var step ast.Statement
	if !p.curTokenIs(token.RPAREN) {
		step = p.parseSimpleStatement(false)
		if step == nil || !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	body := p.parseBody()
	if body == nil {
		return nil
	}
	if step != nil {
		body.Statements = append(body.Statements, step)
	}

	loop := &ast.WhileStatement{Token: forTok, Condition: cond, Body: body}
	block := &ast.BlockStatement{Token: forTok}
	if init != nil {
		block.Statements = append(block.Statements, init)
	}
	block.Statements = append(block.Statements, loop)
	return block
}

// parseFunctionStatement parses func name(a, b) { ... }
func (p *Parser) parseFunctionStatement() *ast.FunctionStatement {
	fn := &ast.FunctionStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	fn.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	fn.Parameters = params
	fn.Body = p.parseBody()
	if fn.Body == nil {
		return nil
	}
	return fn
}

// parseParameters parses a, b, c) with curToken on the opening (.
func (p *Parser) parseParameters() ([]*ast.Identifier, bool) {
	params := []*ast.Identifier{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseClassStatement parses class Name { var a; func m() { ... } }
func (p *Parser) parseClassStatement() ast.Statement {
	stmt := &ast.ClassStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		switch p.curToken.Type {
		case token.VAR:
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			stmt.Fields = append(stmt.Fields, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
			if !p.expectPeek(token.SEMICOLON) {
				return nil
			}
		case token.FUNCTION:
			method := p.parseFunctionStatement()
			if method == nil {
				return nil
			}
			stmt.Methods = append(stmt.Methods, method)
		case token.EOF:
			p.addError("expected } to close class body, got EOF instead", p.curToken)
			return nil
		default:
			p.addError(fmt.Sprintf("expected field or method in class %s, got %s", stmt.Name.Value, p.curToken.Type), p.curToken)
			return nil
		}
		p.nextToken()
	}
	return stmt
}

// parseReturnStatement parses return; and return <expr>;
func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	if stmt.ReturnValue == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// parseImportStatement parses import "path"; and splices the file in as a block.
func (p *Parser) parseImportStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.STRING) {
		return nil
	}
	path := p.curToken.Literal
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	if block := p.includeImport(tok, path); block != nil {
		return block
	}
	return nil
}
