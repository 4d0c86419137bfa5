package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	"aura/internal/ast"
	"aura/internal/codegen"
	"aura/internal/diag"
	"aura/internal/evaluator"
	"aura/internal/imports"
	"aura/internal/irverify"
	"aura/internal/lexer"
	"aura/internal/object"
	"aura/internal/parser"
	"aura/internal/toolchain"
)

const usage = "Usage: aura [flags] <file.aur|dir|->"

var (
	exitFn    = os.Exit
	execCmdFn = exec.Command
	compileFn = func(cfg toolchain.Config, ir, outputPath string) error {
		return cfg.CompileIR(ir, outputPath)
	}
)

func main() {
	exitFn(runCLI(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	output  string
	emitIR  bool
	run     bool
	interp  bool
	verify  bool
	watch   bool
	target  string
	verbose bool
}

// job is one source entry point and where its build goes.
type job struct {
	opts   options
	file   string // name shown in diagnostics
	path   string // "" when reading stdin
	stdin  []byte
	output string
	cfg    toolchain.Config
	logger *log.Logger
}

func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("aura", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.output, "o", "", "output executable (default <srcdir>/dist/<name>.exe)")
	fs.BoolVar(&opts.emitIR, "emit-ir", false, "write the LLVM IR only")
	fs.BoolVar(&opts.run, "run", false, "run the program after building it")
	fs.BoolVar(&opts.interp, "interp", false, "run the program with the interpreter instead of compiling")
	fs.BoolVar(&opts.verify, "verify", false, "parse the generated IR before using it")
	fs.BoolVar(&opts.watch, "watch", false, "rebuild when a source file in the directory changes")
	fs.StringVar(&opts.target, "target", "", "clang target triple (default $"+toolchain.EnvTarget+")")
	fs.BoolVar(&opts.verbose, "v", false, "log progress to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	j, err := newJob(opts, fs.Arg(0), stdin, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.watch {
		if j.path == "" {
			fmt.Fprintln(stderr, "Error: -watch needs a file or directory, not stdin")
			return 1
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return watch(ctx, j, stdout, stderr)
	}
	return build(j, stdout, stderr)
}

func newJob(opts options, input string, stdin io.Reader, stderr io.Writer) (job, error) {
	logger := log.New(io.Discard, "aura: ", 0)
	if opts.verbose {
		logger.SetOutput(stderr)
	}
	cfg := toolchain.FromEnv()
	if opts.target != "" {
		cfg.Target = opts.target
	}
	j := job{opts: opts, cfg: cfg, logger: logger}

	if input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return job{}, fmt.Errorf("read stdin: %w", err)
		}
		j.file = "<stdin>"
		j.stdin = data
		j.output = outputPath(opts, ".", "stdin")
		return j, nil
	}

	info, err := os.Stat(input)
	if err != nil {
		return job{}, err
	}
	path := input
	if info.IsDir() {
		path = filepath.Join(input, "main.aur")
	}
	j.file = path
	j.path = path
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	j.output = outputPath(opts, filepath.Dir(path), stem)
	return j, nil
}

// outputPath applies the -o flag or the dist/ default, with the
// extension matching what gets written.
func outputPath(opts options, srcDir, stem string) string {
	if opts.output != "" {
		return opts.output
	}
	ext := ".exe"
	if opts.emitIR {
		ext = ".ll"
	}
	return filepath.Join(srcDir, "dist", stem+ext)
}

func (j job) source() (string, error) {
	if j.path == "" {
		return string(j.stdin), nil
	}
	data, err := os.ReadFile(j.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// build runs one pass of the pipeline and returns the exit code.
func build(j job, stdout, stderr io.Writer) int {
	source, err := j.source()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	p := parser.New(lexer.New(source)).WithImports(imports.Dir{}, j.path)
	program := p.ParseProgram()
	if errs := p.DetailedErrors(); len(errs) > 0 {
		for _, perr := range errs {
			printParseError(stderr, j.file, source, perr)
		}
		return 1
	}
	j.logger.Printf("parsed %s: %d statements", j.file, len(program.Statements))

	if j.opts.interp {
		return interpret(program, j, source, stdout, stderr)
	}

	ir, err := codegen.New().Generate(program)
	if err != nil {
		var cerr *codegen.CodegenError
		if errors.As(err, &cerr) {
			printCodegenError(stderr, j.file, source, *cerr)
		} else {
			fmt.Fprintf(stderr, "Codegen error: %v\n", err)
		}
		return 1
	}
	j.logger.Printf("generated %d bytes of IR", len(ir))

	if j.opts.verify {
		m, err := irverify.Parse(j.file, ir)
		if err != nil {
			fmt.Fprintf(stderr, "IR verification failed: %v\n", err)
			return 1
		}
		j.logger.Printf("IR verified, defines %s", strings.Join(irverify.Functions(m), ", "))
	}

	if j.opts.emitIR {
		if err := writeIR(j.output, ir); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote IR to: %s\n", j.output)
		return 0
	}

	j.logger.Printf("building %s", j.output)
	if err := compileFn(j.cfg, ir, j.output); err != nil {
		fmt.Fprintf(stderr, "Compilation failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Compiled to: %s\n", j.output)

	if j.opts.run {
		cmd := execCmdFn(runPath(j.output))
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(stderr, "Execution failed: %v\n", err)
			return 1
		}
	}
	return 0
}

func interpret(program *ast.Program, j job, source string, stdout, stderr io.Writer) int {
	code, err := evaluator.New(stdout).Run(program)
	if err != nil {
		var rerr *object.Error
		if errors.As(err, &rerr) {
			diag.Render(stderr, "Runtime error: "+rerr.Message, source, diag.Location{
				File:    j.file,
				Line:    rerr.Line,
				Column:  rerr.Column,
				Context: rerr.Context,
			})
		} else {
			fmt.Fprintf(stderr, "Runtime error: %v\n", err)
		}
		return 1
	}
	return code
}

func writeIR(path, ir string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	return os.WriteFile(path, []byte(ir), 0o644)
}

// runPath makes a bare file name executable from the current directory.
func runPath(output string) string {
	if filepath.IsAbs(output) || strings.ContainsRune(output, os.PathSeparator) {
		return output
	}
	return "." + string(os.PathSeparator) + output
}

func printParseError(w io.Writer, file, source string, perr parser.ParseError) {
	if perr.File != "" && perr.File != file {
		// The error is inside an imported file; show that file's text.
		file = perr.File
		if data, err := os.ReadFile(perr.File); err == nil {
			source = string(data)
		} else {
			source = ""
		}
	}
	diag.Render(w, "Parse error: "+perr.Message, source, diag.Location{
		File:    file,
		Line:    perr.Line,
		Column:  perr.Column,
		Context: perr.Context,
	})
}

func printCodegenError(w io.Writer, file, source string, cerr codegen.CodegenError) {
	diag.Render(w, "Codegen error: "+cerr.Error(), source, diag.Location{
		File:    file,
		Line:    cerr.Line,
		Column:  cerr.Column,
		Context: cerr.Context,
	})
}
