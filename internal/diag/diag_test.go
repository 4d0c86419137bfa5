package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestLocateContext(t *testing.T) {
	src := "var x = 1;\nreturn x;\nprint(x);\n"

	line, col, ok := LocateContext(src, "return x;")
	if !ok || line != 2 || col != 1 {
		t.Fatalf("exact locate got=(%d,%d,%v)", line, col, ok)
	}

	line, col, ok = LocateContext(src, "`return x;`")
	if !ok || line != 2 || col != 1 {
		t.Fatalf("backtick locate got=(%d,%d,%v)", line, col, ok)
	}

	line, col, ok = LocateContext(src, "print(x)")
	if !ok || line != 3 || col != 1 {
		t.Fatalf("substring locate got=(%d,%d,%v)", line, col, ok)
	}

	if _, _, ok := LocateContext(src, ""); ok {
		t.Fatalf("empty context should fail")
	}
	if _, _, ok := LocateContext(src, "x"); ok {
		t.Fatalf("ambiguous context should fail")
	}
	if _, _, ok := LocateContext(src, "does not exist"); ok {
		t.Fatalf("missing context should fail")
	}
}

func TestLocateContextIgnoresIndentation(t *testing.T) {
	src := "func f() {\n    return 1;\n}\n"
	line, col, ok := LocateContext(src, "return 1;")
	be.True(t, ok)
	be.Equal(t, line, 2)
	be.Equal(t, col, 5)
}

func TestRenderWithLocation(t *testing.T) {
	var out bytes.Buffer
	Render(&out, "Codegen error: bad", "var x = 1;\nprint(x.y);\n", Location{File: "f.aur", Line: 2, Column: 8})
	want := strings.Join([]string{
		"Codegen error: bad",
		"  --> f.aur:2:8",
		"   |",
		" 2 | print(x.y);",
		"   |        ^",
		"",
	}, "\n")
	be.Equal(t, out.String(), want)
}

func TestRenderLocatesContext(t *testing.T) {
	var out bytes.Buffer
	Render(&out, "Parse error: bad", "var x = 1;\nprint(x);\n", Location{File: "f.aur", Context: "print(x);"})
	be.True(t, strings.Contains(out.String(), "--> f.aur:2:1"))
	be.True(t, strings.Contains(out.String(), " 2 | print(x);"))
}

func TestRenderFallsBackToContext(t *testing.T) {
	var out bytes.Buffer
	Render(&out, "Parse error: bad", "var x = 1;\n", Location{File: "f.aur", Context: "nope"})
	be.Equal(t, out.String(), "Parse error: bad\n  context: nope\n")

	out.Reset()
	Render(&out, "Parse error: bad", "var x = 1;\n", Location{File: "f.aur"})
	be.Equal(t, out.String(), "Parse error: bad\n")
}

func TestRenderLineOutOfRange(t *testing.T) {
	var out bytes.Buffer
	Render(&out, "err", "one line", Location{File: "f.aur", Line: 9, Column: 1})
	be.Equal(t, out.String(), "err\n  --> f.aur:9:1\n")
}

func TestRenderKeepsTabsUnderCaret(t *testing.T) {
	var out bytes.Buffer
	Render(&out, "err", "\tprint(y);", Location{File: "f.aur", Line: 1, Column: 8})
	be.True(t, strings.HasSuffix(out.String(), " 1 | \tprint(y);\n   | \t      ^\n"))
}
