package token

// TokenType is a string alias for token types
// Using string makes debugging easier (we can print "PLUS" instead of a number)
type TokenType string

// Token holds the type, the literal text and where the token starts in the source.
// For example: Token{Type: INT, Literal: "5", Line: 1, Column: 9}
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Token constants - these are the vocabulary of the language
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL" // Unknown/invalid character
	EOF     TokenType = "EOF"     // End of file, tells parser we're done

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // Variable names: x, y, foo
	INT    TokenType = "INT"    // Integers: 1, 42, 999
	STRING TokenType = "STRING" // Strings: "hello"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	LT       TokenType = "<"
	GT       TokenType = ">"
	LT_EQ    TokenType = "<="
	GT_EQ    TokenType = ">="
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "!="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	DOT       TokenType = "."
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	VAR      TokenType = "VAR"
	PRINT    TokenType = "PRINT"
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	WHILE    TokenType = "WHILE"
	FOR      TokenType = "FOR"
	FUNCTION TokenType = "FUNCTION"
	RETURN   TokenType = "RETURN"
	IMPORT   TokenType = "IMPORT"
	CLASS    TokenType = "CLASS"
	NEW      TokenType = "NEW"
)

// keywords maps string identifiers to their token type
// This lets us distinguish between "var" (keyword) and "x" (identifier)
var keywords = map[string]TokenType{
	"var":    VAR,
	"print":  PRINT,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"func":   FUNCTION,
	"return": RETURN,
	"import": IMPORT,
	"class":  CLASS,
	"new":    NEW,
}

// LookupIdent checks if an identifier is a keyword
// If "var" is in keywords map, returns VAR token type
// Otherwise returns IDENT (it's a variable name)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
