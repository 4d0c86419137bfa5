package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aura/internal/codegen"
	"aura/internal/parser"
	"aura/internal/toolchain"

	"github.com/nalgeon/be"
)

func writeSource(t *testing.T, dir, name, source string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func stubToolchain(t *testing.T, compile func(toolchain.Config, string, string) error) {
	t.Helper()
	oldCompile := compileFn
	oldExec := execCmdFn
	t.Cleanup(func() {
		compileFn = oldCompile
		execCmdFn = oldExec
	})
	compileFn = compile
}

func TestRunPath(t *testing.T) {
	if got := runPath("bin"); got != "."+string(os.PathSeparator)+"bin" {
		t.Fatalf("runPath relative=%q", got)
	}
	abs := filepath.Join(string(os.PathSeparator), "tmp", "bin")
	if got := runPath(abs); got != abs {
		t.Fatalf("runPath abs=%q", got)
	}
	nested := filepath.Join("out", "bin")
	if got := runPath(nested); got != nested {
		t.Fatalf("runPath nested=%q", got)
	}
}

func TestRunCLINoArgs(t *testing.T) {
	var out bytes.Buffer
	code := runCLI(nil, strings.NewReader(""), &out, &out)
	if code != 1 {
		t.Fatalf("runCLI() code=%d want=1", code)
	}
	if !strings.Contains(out.String(), "Usage: aura") {
		t.Fatalf("expected usage output, got:\n%s", out.String())
	}
}

func TestRunCLIUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	be.Equal(t, runCLI([]string{"-nope", "x.aur"}, strings.NewReader(""), &out, &out), 1)
	be.Equal(t, runCLI([]string{"-h"}, strings.NewReader(""), &out, &out), 0)
}

func TestMainUsesExitFn(t *testing.T) {
	oldArgs := os.Args
	oldExit := exitFn
	defer func() {
		os.Args = oldArgs
		exitFn = oldExit
	}()

	os.Args = []string{"aura"}
	var got int
	exitFn = func(code int) { got = code }
	main()
	if got != 1 {
		t.Fatalf("main exit code=%d want=1", got)
	}
}

func TestRunCLIMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runCLI([]string{filepath.Join(t.TempDir(), "absent.aur")}, strings.NewReader(""), &stdout, &stderr)
	be.Equal(t, code, 1)
	be.True(t, strings.HasPrefix(stderr.String(), "Error: "))
}

func TestRunCLIFromStdinParseAndCodegenErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-emit-ir", "-"}, strings.NewReader("var x = 1\n"), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected parse error code=1, got=%d", code)
	}
	if !strings.Contains(stderr.String(), "Parse error: expected next token to be") {
		t.Fatalf("expected parse error output, got=%s", stderr.String())
	}

	stderr.Reset()
	code = runCLI([]string{"-emit-ir", "-"}, strings.NewReader("var x = 1;\nprint(y);\n"), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected codegen error code=1, got=%d", code)
	}
	if !strings.Contains(stderr.String(), "Codegen error: UndefinedVariable: undefined variable y") {
		t.Fatalf("expected codegen error output, got=%s", stderr.String())
	}
	if !strings.Contains(stderr.String(), "--> <stdin>:2:7") {
		t.Fatalf("expected location pointer, got=%s", stderr.String())
	}
}

func TestRunCLIEmitIR(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "hello.aur", "print(\"hi\");\n")

	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-emit-ir", "-verify", src}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("emit-ir failed: %s", stderr.String())
	}
	want := filepath.Join(dir, "dist", "hello.ll")
	be.Equal(t, stdout.String(), "Wrote IR to: "+want+"\n")

	ir, err := os.ReadFile(want)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(string(ir), "; Module: aura_lang\n"))
	be.True(t, strings.Contains(string(ir), `c"hi\00"`))
}

func TestRunCLIDirectoryUsesMainFile(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.aur", "print(1);\n")
	out := filepath.Join(t.TempDir(), "prog.ll")

	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-emit-ir", "-o", out, dir}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("emit-ir failed: %s", stderr.String())
	}
	_, err := os.Stat(out)
	be.Err(t, err, nil)
}

func TestRunCLIInterp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-interp", "-"}, strings.NewReader("print(1 + 2);\nreturn 4;\n"), &stdout, &stderr)
	be.Equal(t, code, 4)
	be.Equal(t, stdout.String(), "3\n")
	be.Equal(t, stderr.String(), "")
}

func TestRunCLIInterpRuntimeError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-interp", "-"}, strings.NewReader("print(1);\nprint(1 / 0);\n"), &stdout, &stderr)
	be.Equal(t, code, 1)
	be.Equal(t, stdout.String(), "1\n")
	be.True(t, strings.Contains(stderr.String(), "Runtime error: division by zero"))
	be.True(t, strings.Contains(stderr.String(), "--> <stdin>:2:1"))
}

func TestRunCLIFollowsImports(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "lib.aur", "func double(n) {\n    return n * 2;\n}\n")
	src := writeSource(t, dir, "main.aur", "import \"lib.aur\";\nprint(double(21));\n")

	var stdout, stderr bytes.Buffer
	code := runCLI([]string{"-interp", src}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("interp failed: %s", stderr.String())
	}
	be.Equal(t, stdout.String(), "42\n")
}

func TestRunCLIVerboseLogging(t *testing.T) {
	var stdout, stderr bytes.Buffer
	out := filepath.Join(t.TempDir(), "p.ll")
	code := runCLI([]string{"-v", "-emit-ir", "-o", out, "-"}, strings.NewReader("print(1);\n"), &stdout, &stderr)
	be.Equal(t, code, 0)
	be.True(t, strings.Contains(stderr.String(), "aura: parsed <stdin>: 1 statements"))
	be.True(t, strings.Contains(stderr.String(), "aura: generated "))
}

func TestRunCLIVerboseVerifyListsFunctions(t *testing.T) {
	var stdout, stderr bytes.Buffer
	out := filepath.Join(t.TempDir(), "p.ll")
	src := "func double(n) { return n * 2; }\nprint(double(2));\n"
	code := runCLI([]string{"-v", "-verify", "-emit-ir", "-o", out, "-"}, strings.NewReader(src), &stdout, &stderr)
	be.Equal(t, code, 0)
	be.True(t, strings.Contains(stderr.String(), "aura: IR verified, defines double, main"))
}

func TestRunCLICompileAndRunBranches(t *testing.T) {
	src := writeSource(t, t.TempDir(), "ok.aur", "print(1);\n")

	var out bytes.Buffer
	stubToolchain(t, func(toolchain.Config, string, string) error { return errors.New("compile boom") })
	code := runCLI([]string{"-o", "xbin", src}, strings.NewReader(""), &out, &out)
	if code != 1 || !strings.Contains(out.String(), "Compilation failed: compile boom") {
		t.Fatalf("expected compile failure branch, code=%d out=%s", code, out.String())
	}

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("skipping: sh not found")
	}
	out.Reset()
	var gotIR, gotOut string
	compileFn = func(_ toolchain.Config, ir, outputPath string) error {
		gotIR, gotOut = ir, outputPath
		return nil
	}
	execCmdFn = func(name string, arg ...string) *exec.Cmd {
		return exec.Command("sh", "-c", "exit 1")
	}
	code = runCLI([]string{"-run", "-o", "xbin", src}, strings.NewReader(""), &out, &out)
	if code != 1 || !strings.Contains(out.String(), "Execution failed:") {
		t.Fatalf("expected execution failure branch, code=%d out=%s", code, out.String())
	}
	be.Equal(t, gotOut, "xbin")
	be.True(t, strings.Contains(gotIR, "define i32 @main()"))

	out.Reset()
	var ran string
	execCmdFn = func(name string, arg ...string) *exec.Cmd {
		ran = name
		return exec.Command("sh", "-c", "echo 1")
	}
	code = runCLI([]string{"-run", "-o", "xbin", src}, strings.NewReader(""), &out, &out)
	if code != 0 || !strings.Contains(out.String(), "Compiled to: xbin\n1\n") {
		t.Fatalf("expected successful run branch, code=%d out=%s", code, out.String())
	}
	be.Equal(t, ran, runPath("xbin"))
}

func TestRunCLITargetFlag(t *testing.T) {
	src := writeSource(t, t.TempDir(), "ok.aur", "print(1);\n")
	t.Setenv(toolchain.EnvTarget, "x86_64-unknown-linux-gnu")

	var got toolchain.Config
	stubToolchain(t, func(cfg toolchain.Config, _, _ string) error {
		got = cfg
		return nil
	})
	var out bytes.Buffer
	be.Equal(t, runCLI([]string{"-o", "xbin", src}, strings.NewReader(""), &out, &out), 0)
	be.Equal(t, got.Target, "x86_64-unknown-linux-gnu")

	be.Equal(t, runCLI([]string{"-target", "x86_64-pc-windows-msvc", "-o", "xbin", src}, strings.NewReader(""), &out, &out), 0)
	be.Equal(t, got.Target, "x86_64-pc-windows-msvc")
}

func TestRunCLIWatchRejectsStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	be.Equal(t, runCLI([]string{"-watch", "-"}, strings.NewReader("print(1);"), &stdout, &stderr), 1)
	be.True(t, strings.Contains(stderr.String(), "-watch needs a file"))
}

func TestWatchRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "main.aur", "print(1);\n")

	builds := make(chan string, 8)
	stubToolchain(t, func(_ toolchain.Config, ir, _ string) error {
		builds <- ir
		return nil
	})

	j, err := newJob(options{output: filepath.Join(t.TempDir(), "bin")}, src, strings.NewReader(""), io.Discard)
	be.Err(t, err, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- watch(ctx, j, io.Discard, io.Discard) }()

	waitBuild := func() string {
		select {
		case ir := <-builds:
			return ir
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for a build")
			return ""
		}
	}
	first := waitBuild()
	be.True(t, strings.Contains(first, "i32 1)"))

	writeSource(t, dir, "main.aur", "print(2);\n")
	second := waitBuild()
	be.True(t, strings.Contains(second, "i32 2)"))

	cancel()
	select {
	case code := <-done:
		be.Equal(t, code, 0)
	case <-time.After(5 * time.Second):
		t.Fatalf("watch did not stop")
	}
}

func TestPrintParseErrorVariants(t *testing.T) {
	source := "var x = 1;\nprint(x);\n"
	var out bytes.Buffer
	printParseError(&out, "f.aur", source, parser.ParseError{Message: "bad", Line: 2, Column: 1})
	if !strings.Contains(out.String(), "Parse error: bad") || !strings.Contains(out.String(), "--> f.aur:2:1") {
		t.Fatalf("unexpected parse error output:\n%s", out.String())
	}

	out.Reset()
	printParseError(&out, "f.aur", source, parser.ParseError{Message: "bad2", Context: "print(x);"})
	if !strings.Contains(out.String(), "Parse error: bad2") || !strings.Contains(out.String(), "--> f.aur:2:1") {
		t.Fatalf("unexpected parse context output:\n%s", out.String())
	}

	out.Reset()
	printParseError(&out, "f.aur", source, parser.ParseError{Message: "bad3", Context: "nope"})
	if !strings.Contains(out.String(), "Parse error: bad3") || !strings.Contains(out.String(), "context: nope") {
		t.Fatalf("unexpected parse fallback output:\n%s", out.String())
	}
}

func TestPrintParseErrorInImportedFile(t *testing.T) {
	lib := writeSource(t, t.TempDir(), "lib.aur", "var a = 1;\nvar b = ;\n")
	var out bytes.Buffer
	printParseError(&out, "main.aur", "import \"lib.aur\";\n", parser.ParseError{Message: "bad", File: lib, Line: 2, Column: 9})
	be.True(t, strings.Contains(out.String(), "--> "+lib+":2:9"))
	be.True(t, strings.Contains(out.String(), " 2 | var b = ;"))
}

func TestPrintCodegenErrorVariants(t *testing.T) {
	source := "var x = 1;\nprint(x);\n"
	var out bytes.Buffer
	printCodegenError(&out, "f.aur", source, codegen.CodegenError{Kind: codegen.UndefinedVariable, Message: "bad", Line: 2, Column: 1})
	if !strings.Contains(out.String(), "Codegen error: UndefinedVariable: bad") || !strings.Contains(out.String(), "--> f.aur:2:1") {
		t.Fatalf("unexpected codegen error output:\n%s", out.String())
	}

	out.Reset()
	printCodegenError(&out, "f.aur", source, codegen.CodegenError{Message: "bad2", Context: "print(x)", Line: 0, Column: 0})
	if !strings.Contains(out.String(), "Codegen error: bad2") || !strings.Contains(out.String(), "--> f.aur:2:1") {
		t.Fatalf("unexpected codegen context output:\n%s", out.String())
	}

	out.Reset()
	printCodegenError(&out, "f.aur", source, codegen.CodegenError{Message: "bad3", Context: "nope"})
	if !strings.Contains(out.String(), "Codegen error: bad3") || !strings.Contains(out.String(), "context: nope") {
		t.Fatalf("unexpected codegen fallback output:\n%s", out.String())
	}
}
