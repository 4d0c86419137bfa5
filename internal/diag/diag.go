// Package diag renders compiler diagnostics against the source they
// refer to.
package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Location is where a diagnostic points. Context is the printed form of
// the offending node, used when no line is known.
type Location struct {
	File    string
	Line    int
	Column  int
	Context string
}

// LocateContext finds the single source line whose text matches context,
// ignoring whitespace. Ambiguous or missing contexts are not located.
func LocateContext(source string, context string) (line int, col int, ok bool) {
	ctx := strings.TrimSpace(context)
	if ctx == "" {
		return 0, 0, false
	}
	lines := strings.Split(source, "\n")
	normalize := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "\t", "")
		return s
	}
	bare := strings.TrimSpace(strings.Trim(ctx, "`"))
	normalizedCtx := normalize(bare)

	matchLine := -1
	for i, ln := range lines {
		if normalize(ln) == normalizedCtx {
			if matchLine != -1 {
				matchLine = -2
				break
			}
			matchLine = i
		}
	}
	if matchLine >= 0 {
		ln := lines[matchLine]
		col := strings.Index(ln, bare)
		if col < 0 {
			col = len(ln) - len(strings.TrimLeft(ln, " \t"))
		}
		return matchLine + 1, col + 1, true
	}

	bestLine := -1
	bestCol := -1
	for i, ln := range lines {
		if idx := strings.Index(ln, bare); idx >= 0 {
			if bestLine != -1 {
				return 0, 0, false
			}
			bestLine = i + 1
			bestCol = idx + 1
		}
	}
	if bestLine != -1 {
		return bestLine, bestCol, true
	}
	return 0, 0, false
}

// Render writes a header line, then either a pointer into source with an
// excerpt and caret, or the bare context when the location is unknown.
//
//	Codegen error: UnknownField: class P has no field y
//	  --> main.aur:3:9
//	   |
//	 3 | print(p.y);
//	   |        ^
func Render(w io.Writer, header, source string, loc Location) {
	fmt.Fprintln(w, header)

	line, col := loc.Line, loc.Column
	if line <= 0 {
		var ok bool
		line, col, ok = LocateContext(source, loc.Context)
		if !ok {
			if ctx := strings.TrimSpace(loc.Context); ctx != "" {
				fmt.Fprintf(w, "  context: %s\n", ctx)
			}
			return
		}
	}
	if col <= 0 {
		col = 1
	}
	fmt.Fprintf(w, "  --> %s:%d:%d\n", loc.File, line, col)

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return
	}
	text := strings.TrimRight(lines[line-1], "\r")
	gutter := strings.Repeat(" ", len(strconv.Itoa(line)))
	fmt.Fprintf(w, " %s |\n", gutter)
	fmt.Fprintf(w, " %d | %s\n", line, text)
	fmt.Fprintf(w, " %s | %s^\n", gutter, caretPad(text, col))
}

// caretPad keeps tabs so the caret lines up under the source text.
func caretPad(text string, col int) string {
	var b strings.Builder
	for i := 0; i < col-1; i++ {
		if i < len(text) && text[i] == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}
