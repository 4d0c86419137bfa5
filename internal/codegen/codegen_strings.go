package codegen

import (
	"fmt"
	"strings"
)

type pooledString struct {
	id      int
	content string
}

// stringPool deduplicates string literals by content. Ids follow first use.
type stringPool struct {
	byContent map[string]int
	entries   []pooledString
}

func newStringPool() *stringPool {
	return &stringPool{byContent: map[string]int{}}
}

func (p *stringPool) intern(content string) int {
	if id, ok := p.byContent[content]; ok {
		return id
	}
	id := len(p.entries)
	p.byContent[content] = id
	p.entries = append(p.entries, pooledString{id: id, content: content})
	return id
}

func (p *stringPool) content(id int) string {
	return p.entries[id].content
}

func poolSymbol(id int) string {
	return fmt.Sprintf("@str.%d", id)
}

// encodedLen is the byte length of the constant, NUL included.
func encodedLen(content string) int {
	return len(content) + 1
}

// encodeBytes renders s for an LLVM c"..." literal. Printable ASCII other
// than the quote and the backslash is kept, everything else becomes \XX.
func encodeBytes(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 32 && c <= 126 && c != '"' && c != '\\' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "\\%02X", c)
	}
	return b.String()
}

// constantLine declares one NUL-terminated private byte array.
func constantLine(symbol, content string) string {
	return fmt.Sprintf("%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"",
		symbol, encodedLen(content), encodeBytes(content))
}

// addressOf is the constant i8* pointing at the first byte of a byte array global.
func addressOf(symbol string, length int) string {
	return fmt.Sprintf("getelementptr inbounds ([%d x i8], [%d x i8]* %s, i32 0, i32 0)", length, length, symbol)
}
