package codegen

import (
	"strings"

	"aura/internal/ast"
	"aura/internal/typesys"
)

// Options control the parts of the module that depend on the target system.
type Options struct {
	// ModuleName goes into the leading "; Module:" comment.
	ModuleName string
	// StartupCommand is passed to system() before any user code runs.
	// Empty omits the call.
	StartupCommand string
}

// DefaultOptions switches the Windows console to UTF-8 before main runs.
func DefaultOptions() Options {
	return Options{
		ModuleName:     "aura_lang",
		StartupCommand: "chcp 65001 > nul",
	}
}

// CodeGen lowers one program to LLVM IR text in a single pass.
// A CodeGen owns all of its state; Generate resets it, so an instance can
// be reused but not shared between goroutines.
type CodeGen struct {
	opts Options

	out       *sink // current emission target
	main      *sink // top-level statements, becomes @main
	functions strings.Builder

	regCount   int
	labelCount int
	strs       *stringPool

	symbols      symbolTable
	classes      *classRegistry
	funcs        *funcRegistry
	currentClass string
}

// New creates a code generator with DefaultOptions.
func New() *CodeGen {
	return NewWithOptions(DefaultOptions())
}

func NewWithOptions(opts Options) *CodeGen {
	if opts.ModuleName == "" {
		opts.ModuleName = DefaultOptions().ModuleName
	}
	cg := &CodeGen{opts: opts}
	cg.reset()
	return cg
}

func (cg *CodeGen) reset() {
	cg.main = &sink{}
	cg.out = cg.main
	cg.functions.Reset()
	cg.regCount = 0
	cg.labelCount = 0
	cg.strs = newStringPool()
	cg.symbols = symbolTable{}
	cg.classes = newClassRegistry()
	cg.funcs = newFuncRegistry()
	cg.currentClass = ""
}

// Generate produces the complete IR module for program.
// The first error aborts the compilation and no text is returned.
func (cg *CodeGen) Generate(program *ast.Program) (string, error) {
	cg.reset()
	if program == nil {
		program = &ast.Program{}
	}

	if err := cg.registerDeclarations(program.Statements); err != nil {
		return "", err
	}
	for _, stmt := range program.Statements {
		if err := cg.lowerStatement(stmt); err != nil {
			return "", err
		}
	}
	return cg.assemble(), nil
}

// Symbols returns the top-level variable types recorded by the last Generate.
func (cg *CodeGen) Symbols() map[string]typesys.ValueType {
	return cloneMap(cg.symbols)
}
