package lexer

import (
	"strings"

	"aura/internal/token"
)

func (l *Lexer) skipIgnored() {
	for {
		l.skipWhitespace()

		// Line comment: // ...
		if l.ch == '/' && l.peekChar() == '/' {
			l.skipLineComment()
			continue
		}

		return
	}
}

// skipWhitespace ignores spaces, tabs, newlines, carriage returns
// These have no meaning in the language except to separate tokens
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	// Skip leading "//"
	l.readChar()
	l.readChar()
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readIdentifier reads an identifier.
// First char is guaranteed to be a letter/underscore by caller.
// Subsequent chars may include digits.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a sequence of digits.
// Range checking happens in the parser, which knows where to report it.
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readString reads a double-quoted string and decodes \n \t \" and \\.
// Any other backslash pair is kept as written. Strings may span lines.
// The second result is false when the input ends before the closing quote.
func (l *Lexer) readString() (string, bool) {
	// current ch is opening quote
	l.readChar()
	var out strings.Builder
	for l.ch != '"' {
		if l.ch == 0 && l.position >= len(l.input) {
			return out.String(), false
		}
		if l.ch == '\\' {
			switch l.peekChar() {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case '"':
				out.WriteByte('"')
			case '\\':
				out.WriteByte('\\')
			default:
				out.WriteByte(l.ch)
				l.readChar()
				continue
			}
			l.readChar()
			l.readChar()
			continue
		}
		out.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	return out.String(), true
}

// isLetter checks if ch is a letter or underscore
// We allow underscores in identifiers: foo_bar
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if ch is 0-9
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// newToken is a helper to create single-character tokens
func newToken(tokenType token.TokenType, ch byte) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}
