package parser

import (
	"testing"

	"aura/internal/lexer"
)

// FuzzParserNoPanic ensures parsing never panics for arbitrary input.
func FuzzParserNoPanic(f *testing.F) {
	seeds := []string{
		"",
		"var x = 1;",
		"print(\"hi\");",
		"func add(a, b) { return a + b; }",
		"var arr = [1, 2, 3]; arr[1] = 9; print(arr[1]);",
		"class P { var x; func get() { return this.x; } } var p = new P(); p.x = 1;",
		"for (var i = 0; i < 3; i = i + 1) { print(i); }",
		"for (;;) {}",
		"if (1 < 2) { print(1); } else if (2 < 3) { print(2); } else { print(3); }",
		"while (x) { x = x - 1; }",
		"{ var scoped = 1; }",
		"import \"x.aur\";",
		"var x = -(-1);",
		"class { var ; }",
		"func (",
		"print(",
		"[",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("parser panicked for input %q: %v", input, r)
			}
		}()

		l := lexer.New(input)
		p := New(l)
		program := p.ParseProgram()
		if program != nil {
			_ = program.String()
		}
		_ = p.Errors()
	})
}
