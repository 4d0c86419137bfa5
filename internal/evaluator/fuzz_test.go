package evaluator

import (
	"io"
	"strings"
	"testing"

	"aura/internal/lexer"
	"aura/internal/parser"
)

// FuzzEvaluatorNoPanic ensures evaluation never panics for arbitrary input.
func FuzzEvaluatorNoPanic(f *testing.F) {
	seeds := []string{
		"",
		"print(1 + 2);",
		"var x = 1; x = x + 1; print(x);",
		"if (1) { print(1); } else { print(2); }",
		"func add(a, b) { return a + b; } print(add(3, 4));",
		"var arr = [1, 2, 3]; print(arr[1]);",
		"var arr = [1, 2, 3]; arr[1] = 9; print(arr[5]);",
		"class P { var x; func get() { return this.x; } } var p = new P(); print(p.get());",
		"print_str(\"s\"); print_str(1);",
		"print(1 / 0);",
		"func down(n) { if (n > 0) { return down(n - 1); } return n; } print(down(5));",
		"func forever(n) { return forever(n); } forever(1);",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("evaluator panicked for input %q: %v", input, r)
			}
		}()

		p := parser.New(lexer.New(input))
		program := p.ParseProgram()
		if len(p.Errors()) > 0 {
			return
		}
		// Loops without an exit are valid programs; keep the corpus to
		// inputs that do not mention one.
		if strings.Contains(input, "while") || strings.Contains(input, "for") {
			return
		}
		_, _ = New(io.Discard).Run(program)
	})
}
