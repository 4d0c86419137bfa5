package parser

import (
	"aura/internal/ast"
	"aura/internal/imports"
	"aura/internal/lexer"
	"aura/internal/token"
)

// WithImports lets the parser follow import statements.
// file is the path of the source being parsed, "" for stdin.
func (p *Parser) WithImports(r imports.Resolver, file string) *Parser {
	p.resolver = r
	p.file = file
	p.included = imports.NewSet(file)
	return p
}

// includeImport parses the imported file with a child parser that shares
// the resolver and the include set. A file seen before yields an empty block.
func (p *Parser) includeImport(tok token.Token, path string) *ast.BlockStatement {
	if p.resolver == nil {
		p.addError(imports.ErrNoResolver.Error(), tok)
		return nil
	}
	src, err := p.resolver.Resolve(p.file, path)
	if err != nil {
		p.addError(err.Error(), tok)
		return nil
	}
	skip, err := p.included.Enter(src.Path)
	if err != nil {
		p.addError(err.Error(), tok)
		return nil
	}

	block := &ast.BlockStatement{Token: tok, Statements: []ast.Statement{}}
	if skip {
		return block
	}
	defer p.included.Leave(src.Path)

	child := New(lexer.New(src.Text))
	child.resolver = p.resolver
	child.file = src.Path
	child.included = p.included
	program := child.ParseProgram()
	p.errors = append(p.errors, child.errors...)

	block.Statements = program.Statements
	return block
}
