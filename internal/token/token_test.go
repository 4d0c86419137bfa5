package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := map[string]TokenType{
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
		"x":      IDENT,
		"Var":    IDENT,
		"this":   IDENT,
	}

	for in, want := range tests {
		if got := LookupIdent(in); got != want {
			t.Fatalf("LookupIdent(%q)=%q want=%q", in, got, want)
		}
	}
}
