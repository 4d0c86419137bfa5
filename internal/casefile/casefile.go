// Package casefile reads compiler test cases written as Markdown.
//
// Every level-2 heading starts a case named by the heading text. Inside a
// case, an aura fence holds the program and the other fences hold what is
// expected of it:
//
//	ir      lines that must appear in the generated module, in order
//	types   "name: Type" lines for top-level variables
//	output  what the program prints
//	error   the kind of the codegen error it fails with
package casefile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type Fence string

const (
	FenceSource Fence = "aura"
	FenceIR     Fence = "ir"
	FenceTypes  Fence = "types"
	FenceOutput Fence = "output"
	FenceError  Fence = "error"
)

type Case struct {
	Name   string
	Line   int
	Source string
	Expect map[Fence]string
}

// Has reports whether the case carries an expectation of kind f.
func (c Case) Has(f Fence) bool {
	_, ok := c.Expect[f]
	return ok
}

// Parse extracts the cases of one Markdown document. Fences outside any
// case, unknown fence languages and cases without a program are errors.
func Parse(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var cases []Case
	var cur *Case
	finish := func() error {
		if cur == nil {
			return nil
		}
		if cur.Source == "" {
			return fmt.Errorf("line %d: case %q has no %s fence", cur.Line, cur.Name, FenceSource)
		}
		if len(cur.Expect) == 0 {
			return fmt.Errorf("line %d: case %q has no expectations", cur.Line, cur.Name)
		}
		cases = append(cases, *cur)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			if n.Level != 2 {
				return ast.WalkSkipChildren, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			cur = &Case{
				Name:   strings.TrimSpace(headingText(n, markdown)),
				Line:   lineOf(n, markdown),
				Expect: map[Fence]string{},
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			lang := Fence(n.Language(markdown))
			line := lineOf(n, markdown)
			if cur == nil {
				if lang == "" {
					return ast.WalkContinue, nil
				}
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a case", line, lang)
			}
			body := fenceBody(n, markdown)
			switch lang {
			case FenceSource:
				if cur.Source != "" {
					return ast.WalkStop, fmt.Errorf("line %d: case %q has two %s fences", line, cur.Name, lang)
				}
				cur.Source = body
			case FenceIR, FenceTypes, FenceOutput, FenceError:
				if cur.Has(lang) {
					return ast.WalkStop, fmt.Errorf("line %d: case %q has two %s fences", line, cur.Name, lang)
				}
				cur.Expect[lang] = body
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in case %q", line, lang, cur.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

// Lines splits an expectation into its non-blank lines, trimmed.
func Lines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// fenceBody keeps the fence's lines but drops the trailing newline, so an
// output fence can be compared with what a program printed.
func fenceBody(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func lineOf(node ast.Node, source []byte) int {
	start := -1
	if node.Lines().Len() > 0 {
		start = node.Lines().At(0).Start
	} else if h, ok := node.(*ast.Heading); ok && h.FirstChild() != nil {
		if t, ok := h.FirstChild().(*ast.Text); ok {
			start = t.Segment.Start
		}
	}
	if start < 0 {
		return 1
	}
	return bytes.Count(source[:start], []byte("\n")) + 1
}
