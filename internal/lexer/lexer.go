package lexer

import "aura/internal/token"

// Lexer holds the state while tokenizing input
// It reads character by character, like a tape reader
type Lexer struct {
	input        string // The source code
	position     int    // Current position in input (points to current char)
	readPosition int    // Current reading position (after current char)
	ch           byte   // Current character under examination
	line         int    // 1-based line of ch
	column       int    // 1-based column of ch
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar() // Initialize with first character
	return l
}

// readChar advances to the next character
// Think of it like moving the tape forward one position
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	// If we've reached the end, set ch to 0 (NUL byte, signifies EOF)
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar looks at the next character without consuming it
// Used for two-character tokens like == and <=
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken returns the next token from input
// This is the heart of the lexer - it recognizes patterns
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipIgnored() // Ignore whitespace and // comments

	line, column := l.line, l.column

	switch l.ch {
	case '=':
		tok = l.twoCharToken('=', token.EQ, token.ASSIGN)
	case '!':
		// A lone '!' has no meaning in the language
		tok = l.twoCharToken('=', token.NOT_EQ, token.ILLEGAL)
	case '<':
		tok = l.twoCharToken('=', token.LT_EQ, token.LT)
	case '>':
		tok = l.twoCharToken('=', token.GT_EQ, token.GT)
	case '+':
		tok = newToken(token.PLUS, l.ch)
	case '-':
		tok = newToken(token.MINUS, l.ch)
	case '*':
		tok = newToken(token.ASTERISK, l.ch)
	case '/':
		tok = newToken(token.SLASH, l.ch)
	case ';':
		tok = newToken(token.SEMICOLON, l.ch)
	case ',':
		tok = newToken(token.COMMA, l.ch)
	case '.':
		tok = newToken(token.DOT, l.ch)
	case '(':
		tok = newToken(token.LPAREN, l.ch)
	case ')':
		tok = newToken(token.RPAREN, l.ch)
	case '{':
		tok = newToken(token.LBRACE, l.ch)
	case '}':
		tok = newToken(token.RBRACE, l.ch)
	case '[':
		tok = newToken(token.LBRACKET, l.ch)
	case ']':
		tok = newToken(token.RBRACKET, l.ch)
	case '"':
		lit, ok := l.readString()
		tok = token.Token{Type: token.STRING, Literal: lit}
		if !ok {
			tok = token.Token{Type: token.ILLEGAL, Literal: "unterminated string"}
		}
		tok.Line, tok.Column = line, column
		return tok // readString consumed the closing quote
	case 0:
		tok = token.Token{Type: token.EOF, Literal: "", Line: line, Column: column}
		return tok
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			// Check if it's a keyword (var, func, if) or user-defined (x, foo)
			tok.Type = token.LookupIdent(tok.Literal)
			tok.Line, tok.Column = line, column
			return tok // Already advanced past identifier
		} else if isDigit(l.ch) {
			tok = token.Token{Type: token.INT, Literal: l.readNumber(), Line: line, Column: column}
			return tok // Already advanced past number
		}
		tok = newToken(token.ILLEGAL, l.ch)
	}

	tok.Line, tok.Column = line, column
	l.readChar() // Advance to next character for next call
	return tok
}

// twoCharToken builds `double` when the next character is `second`,
// otherwise the single-character token `single`.
func (l *Lexer) twoCharToken(second byte, double, single token.TokenType) token.Token {
	if l.peekChar() == second {
		ch := l.ch
		l.readChar()
		return token.Token{Type: double, Literal: string(ch) + string(l.ch)}
	}
	return newToken(single, l.ch)
}
