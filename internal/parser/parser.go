package parser

import (
	"fmt"

	"aura/internal/ast"
	"aura/internal/imports"
	"aura/internal/lexer"
	"aura/internal/token"
)

// precedence levels (lowest to highest)
// These determine operator binding: 5 + 3 * 2 parses as 5 + (3 * 2) because * has higher precedence
const (
	_ int = iota // Start at 0, ignore this
	LOWEST
	COMPARE // == != < > <= >=
	SUM     // + -
	PRODUCT // * /
	PREFIX  // -X
	CALL    // f(X), a[X], obj.f
)

// precedence table maps token types to their precedence level
var precedences = map[token.TokenType]int{
	token.EQ:       COMPARE,
	token.NOT_EQ:   COMPARE,
	token.LT:       COMPARE,
	token.GT:       COMPARE,
	token.LT_EQ:    COMPARE,
	token.GT_EQ:    COMPARE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
	token.DOT:      CALL,
}

// ParseError is one syntax problem with its best-known location.
type ParseError struct {
	Message string
	File    string // set for errors inside imported files
	Context string
	Line    int
	Column  int
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

type Parser struct {
	l *lexer.Lexer // The lexer feeding us tokens

	curToken  token.Token // Current token under examination
	peekToken token.Token // Next Token (for look-ahead)

	errors []ParseError // Accumulated parse errors

	// import support, see WithImports
	resolver imports.Resolver
	file     string
	included *imports.Set

	// Pratt parser tables
	prefixParseFns map[token.TokenType]prefixParseFn // Functions for tokens that start expressions
	infixParseFns  map[token.TokenType]infixParseFn  // Functions for tokens that appear in the middle
}

// prefixParseFn parses expressions that start with a specific token
// Example: -5, 42, x, new P()
type prefixParseFn func() ast.Expression

// infixParseFn parses expressions where the operator is between operands
// Example: 5 + 3, add(2, 3)
// The ast.Expression is the left side already parsed
type infixParseFn func(ast.Expression) ast.Expression

// New creates a new parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.infixParseFns = make(map[token.TokenType]infixParseFn)

	// Register prefix parsers (tokens that can START an expression)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.MINUS, p.parseNegation)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.NEW, p.parseNewExpression)

	// Register infix parsers (tokens that appear BETWEEN expressions)
	for _, t := range []token.TokenType{
		token.PLUS, token.MINUS, token.SLASH, token.ASTERISK,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LT_EQ, token.GT_EQ,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseDotExpression)

	// Read two tokens to set curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

// registerPrefix adds a prefix parser for a token type
func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix adds an infix parser for a token type
func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns accumulated parse error messages
func (p *Parser) Errors() []string {
	out := make([]string, 0, len(p.errors))
	for _, err := range p.errors {
		out = append(out, err.Message)
	}
	return out
}

// DetailedErrors returns accumulated parse errors with locations
func (p *Parser) DetailedErrors() []ParseError {
	out := make([]ParseError, len(p.errors))
	copy(out, p.errors)
	return out
}

func (p *Parser) addError(msg string, tok token.Token) {
	p.errors = append(p.errors, ParseError{
		Message: msg,
		File:    p.file,
		Context: tok.Literal,
		Line:    tok.Line,
		Column:  tok.Column,
	})
}

// peekError adds an error when we expected a different token
func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	p.addError(msg, p.peekToken)
}

// curTokenIs checks if current token matches
func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs checks if next token matches
func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek checks next token and advances if correct, else errors
// Used for mandatory syntax like "var <ident> ="
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// peekPrecedence returns precedence of next token
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

// curPrecedence returns precedence of current token
func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// ParseProgram parses statements until EOF.
// A statement that fails to parse is skipped up to the next ; or }.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) && !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.RBRACE) {
		p.nextToken()
	}
}
