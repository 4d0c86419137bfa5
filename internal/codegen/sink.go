package codegen

import (
	"fmt"
	"strings"
)

// sink is one function body being written: allocas hoisted to the entry
// block, then the instruction stream. terminated is true while the current
// basic block already ends in br or ret.
type sink struct {
	allocas    strings.Builder
	body       strings.Builder
	terminated bool
}

// text renders the body as it goes between "entry:" and the closing brace.
func (s *sink) text() string {
	return s.allocas.String() + s.body.String()
}

func (cg *CodeGen) newReg() string {
	cg.regCount++
	return fmt.Sprintf("%%tmp%d", cg.regCount)
}

func (cg *CodeGen) newLabel() string {
	label := fmt.Sprintf("L%d", cg.labelCount)
	cg.labelCount++
	return label
}

// emit adds one instruction. Code after a terminator is unreachable but
// still has to sit in a block, so a fresh label is opened for it.
func (cg *CodeGen) emit(format string, args ...interface{}) {
	if cg.out.terminated {
		cg.emitLabel(cg.newLabel())
	}
	cg.out.body.WriteString("  ")
	cg.out.body.WriteString(fmt.Sprintf(format, args...))
	cg.out.body.WriteString("\n")
}

// emitTerminator adds a br or ret and closes the current block.
func (cg *CodeGen) emitTerminator(format string, args ...interface{}) {
	cg.emit(format, args...)
	cg.out.terminated = true
}

// emitLabel starts a block. An open block falls through to it explicitly.
func (cg *CodeGen) emitLabel(label string) {
	if !cg.out.terminated {
		cg.out.body.WriteString(fmt.Sprintf("  br label %%%s\n", label))
	}
	cg.out.body.WriteString(label + ":\n")
	cg.out.terminated = false
}

func (cg *CodeGen) emitAlloca(slot, irType string) {
	cg.out.allocas.WriteString(fmt.Sprintf("  %s = alloca %s\n", slot, irType))
}
