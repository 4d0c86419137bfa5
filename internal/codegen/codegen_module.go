package codegen

import (
	"fmt"
	"strings"
)

const (
	fmtNumSymbol        = "@fmt_num"
	fmtStrSymbol        = "@fmt_str"
	startupSymbol       = "@cmd_startup"
	fmtNum              = "%d\n"
	fmtStr              = "%s\n"
	runtimeDeclarations = `declare i32 @printf(i8*, ...)
declare i32 @system(i8*)
declare i8* @malloc(i32)
`
)

// assemble lays the module out: header, runtime declarations, format and
// startup constants, struct types, pooled strings, functions, then main.
func (cg *CodeGen) assemble() string {
	var b strings.Builder
	fmt.Fprintf(&b, "; Module: %s\n", cg.opts.ModuleName)
	b.WriteString(runtimeDeclarations)

	b.WriteString("\n")
	b.WriteString(constantLine(fmtNumSymbol, fmtNum) + "\n")
	b.WriteString(constantLine(fmtStrSymbol, fmtStr) + "\n")
	if cg.opts.StartupCommand != "" {
		b.WriteString(constantLine(startupSymbol, cg.opts.StartupCommand) + "\n")
	}

	if len(cg.classes.order) > 0 {
		b.WriteString("\n")
		for _, c := range cg.classes.order {
			b.WriteString(structDefinition(c))
		}
	}

	if len(cg.strs.entries) > 0 {
		b.WriteString("\n")
		for _, e := range cg.strs.entries {
			b.WriteString(constantLine(poolSymbol(e.id), e.content) + "\n")
		}
	}

	b.WriteString(cg.functions.String())

	b.WriteString("\ndefine i32 @main() {\nentry:\n")
	b.WriteString(cg.main.allocas.String())
	if cg.opts.StartupCommand != "" {
		fmt.Fprintf(&b, "  call i32 @system(i8* %s)\n", addressOf(startupSymbol, encodedLen(cg.opts.StartupCommand)))
	}
	b.WriteString(cg.main.body.String())
	if !cg.main.terminated {
		b.WriteString("  ret i32 0\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func structDefinition(c *classInfo) string {
	if len(c.fields) == 0 {
		return structType(c.name) + " = type {}\n"
	}
	slots := make([]string, len(c.fields))
	for i := range slots {
		slots[i] = "i32"
	}
	return fmt.Sprintf("%s = type { %s }\n", structType(c.name), strings.Join(slots, ", "))
}
