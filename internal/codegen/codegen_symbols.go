package codegen

import "aura/internal/ast"

// classInfo is the fixed layout of one class: one i32 slot per field, in
// declaration order.
type classInfo struct {
	name   string
	fields []string
	decl   *ast.ClassStatement
}

func (c *classInfo) fieldIndex(field string) (int, bool) {
	for i, f := range c.fields {
		if f == field {
			return i, true
		}
	}
	return 0, false
}

// classRegistry keeps classes in registration order so struct types come
// out the same way every time.
type classRegistry struct {
	order  []*classInfo
	byName map[string]*classInfo
}

func newClassRegistry() *classRegistry {
	return &classRegistry{byName: map[string]*classInfo{}}
}

// register records decl. Registering the same declaration twice is a no-op;
// ok is false when another declaration already owns the name.
func (r *classRegistry) register(decl *ast.ClassStatement) (info *classInfo, ok bool) {
	name := decl.Name.Value
	if existing, found := r.byName[name]; found {
		return existing, existing.decl == decl
	}
	info = &classInfo{name: name, decl: decl}
	for _, f := range decl.Fields {
		info.fields = append(info.fields, f.Value)
	}
	r.byName[name] = info
	r.order = append(r.order, info)
	return info, true
}

func (r *classRegistry) lookup(name string) (*classInfo, bool) {
	info, ok := r.byName[name]
	return info, ok
}

// funcInfo describes a callable IR function. Methods are stored under their
// mangled name with receiver set; arity never counts the receiver.
type funcInfo struct {
	name     string
	receiver string
	arity    int
	decl     *ast.FunctionStatement
}

type funcRegistry struct {
	byName map[string]*funcInfo
}

// builtinPrintStr is the one call name handled inline instead of called.
const builtinPrintStr = "print_str"

// reservedNames are symbols the module itself defines or declares.
var reservedNames = map[string]bool{
	"main":          true,
	"printf":        true,
	"system":        true,
	"malloc":        true,
	"fmt_num":       true,
	"fmt_str":       true,
	"cmd_startup":   true,
	builtinPrintStr: true,
}

func newFuncRegistry() *funcRegistry {
	return &funcRegistry{byName: map[string]*funcInfo{}}
}

// register records decl under name. ok is false for reserved names and for
// a name already taken by a different declaration.
func (r *funcRegistry) register(name, receiver string, decl *ast.FunctionStatement) (ok bool) {
	if reservedNames[name] {
		return false
	}
	if existing, found := r.byName[name]; found {
		return existing.decl == decl
	}
	r.byName[name] = &funcInfo{name: name, receiver: receiver, arity: len(decl.Parameters), decl: decl}
	return true
}

func (r *funcRegistry) lookup(name string) (*funcInfo, bool) {
	info, ok := r.byName[name]
	return info, ok
}

func methodName(class, method string) string {
	return class + "_" + method
}
