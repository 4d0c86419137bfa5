// Package evaluator runs aura programs directly on the syntax tree. It
// follows the compiled program's observable behaviour and serves as the
// output oracle for the compiler's tests.
package evaluator

import (
	"fmt"
	"io"

	"aura/internal/ast"
	"aura/internal/object"
)

// Interpreter holds the program-wide declarations. Variables live in
// environments: one for the top level and a fresh one per call.
type Interpreter struct {
	out       io.Writer
	functions map[string]*object.Function
	classes   map[string]*object.Class
	depth     int
}

// maxCallDepth bounds recursion so runaway programs fail instead of
// exhausting the Go stack.
const maxCallDepth = 10000

func New(out io.Writer) *Interpreter {
	return &Interpreter{
		out:       out,
		functions: map[string]*object.Function{},
		classes:   map[string]*object.Class{},
	}
}

// Run executes program. The exit code is the value of a top-level
// return, or 0. A runtime failure comes back as *object.Error.
func (in *Interpreter) Run(program *ast.Program) (int, error) {
	if program == nil {
		return 0, nil
	}
	if errObj := in.registerDeclarations(program.Statements); errObj != nil {
		return 0, errObj
	}
	result := in.evalProgram(program, object.NewEnvironment())
	switch result := result.(type) {
	case *object.Error:
		return 0, result
	case *object.Integer:
		return int(result.Value), nil
	}
	return 0, nil
}

// Eval is the heart of the interpreter
// It takes an AST node and returns an Object
// This is recursive - expressions contain expressions
func (in *Interpreter) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {
	case *ast.Program:
		return in.evalProgram(node, env)

	case *ast.BlockStatement:
		return in.evalBlockStatement(node, env)

	case *ast.ExpressionStatement:
		return in.Eval(node.Expression, env)

	case *ast.ReturnStatement:
		if node.ReturnValue == nil {
			return &object.ReturnValue{Value: &object.Integer{Value: 0}}
		}
		val := in.Eval(node.ReturnValue, env)
		if isError(val) {
			return val
		}
		return &object.ReturnValue{Value: val}

	case *ast.VarStatement:
		return in.evalVarStatement(node, env)

	case *ast.AssignStatement:
		return in.evalAssignStatement(node, env)

	case *ast.PrintStatement:
		return in.evalPrintStatement(node, env)

	case *ast.IfStatement:
		return in.evalIfStatement(node, env)

	case *ast.WhileStatement:
		return in.evalWhileStatement(node, env)

	case *ast.FunctionStatement:
		return in.registerFunction(node)

	case *ast.ClassStatement:
		return in.registerClass(node)

	// Expressions
	case *ast.IntegerLiteral:
		return &object.Integer{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.ArrayLiteral:
		return newError("array literal can only initialize a var declaration")

	case *ast.Identifier:
		return evalIdentifier(node, env)

	case *ast.IndexExpression:
		arr, idx, errObj := in.evalElement(node, env)
		if errObj != nil {
			return errObj
		}
		return &object.Integer{Value: arr.Elements[idx]}

	case *ast.InfixExpression:
		left := in.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := in.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return evalInfixExpression(node.Operator, left, right)

	case *ast.CallExpression:
		return in.evalCallExpression(node, env)

	case *ast.NewExpression:
		class, ok := in.classes[node.ClassName.Value]
		if !ok {
			return newError("unknown class %s", node.ClassName.Value)
		}
		return object.NewInstance(class)

	case *ast.FieldAccessExpression:
		inst, idx, errObj := in.evalField(node.Object, node.Field, env)
		if errObj != nil {
			return errObj
		}
		return inst.Fields[idx]

	case *ast.FieldAssignExpression:
		inst, idx, errObj := in.evalField(node.Object, node.Field, env)
		if errObj != nil {
			return errObj
		}
		val := in.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		if errObj := requireScalar(val); errObj != nil {
			return errObj
		}
		inst.Fields[idx] = val
		return val

	case *ast.MethodCallExpression:
		return in.evalMethodCall(node, env)
	}

	return newError("cannot evaluate %T", node)
}

// registerDeclarations makes top-level classes and functions usable before
// their declaration, including those spliced in by imports.
func (in *Interpreter) registerDeclarations(stmts []ast.Statement) *object.Error {
	for _, stmt := range stmts {
		var result object.Object
		switch s := stmt.(type) {
		case *ast.ClassStatement:
			result = in.registerClass(s)
		case *ast.FunctionStatement:
			result = in.registerFunction(s)
		case *ast.BlockStatement:
			if errObj := in.registerDeclarations(s.Statements); errObj != nil {
				return errObj
			}
		}
		if errObj, ok := result.(*object.Error); ok {
			return annotateErrorWithNode(errObj, stmt).(*object.Error)
		}
	}
	return nil
}

// registerClass returns nil on success so a declaration evaluates to nothing.
func (in *Interpreter) registerClass(s *ast.ClassStatement) object.Object {
	name := s.Name.Value
	if existing, ok := in.classes[name]; ok {
		if existing.Decl == s {
			return nil
		}
		return newError("class %s is already declared", name)
	}
	class := &object.Class{Name: name, Methods: map[string]*object.Function{}, Decl: s}
	for _, f := range s.Fields {
		class.Fields = append(class.Fields, f.Value)
	}
	for _, m := range s.Methods {
		for _, p := range m.Parameters {
			if p.Value == "this" {
				return newError("this is reserved in methods and cannot name a parameter of %s_%s", name, m.Name.Value)
			}
		}
		class.Methods[m.Name.Value] = &object.Function{
			Name:       m.Name.Value,
			Receiver:   name,
			Parameters: m.Parameters,
			Body:       m.Body,
			Decl:       m,
		}
	}
	in.classes[name] = class
	return nil
}

func (in *Interpreter) registerFunction(s *ast.FunctionStatement) object.Object {
	name := s.Name.Value
	if existing, ok := in.functions[name]; ok {
		if existing.Decl == s {
			return nil
		}
		return newError("function %s is already declared", name)
	}
	in.functions[name] = &object.Function{
		Name:       name,
		Parameters: s.Parameters,
		Body:       s.Body,
		Decl:       s,
	}
	return nil
}

func unwrapReturnValue(obj object.Object) object.Object {
	if returnValue, ok := obj.(*object.ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}

// newError creates an error object
func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}

// isError checks if an object is an error (to stop propagation)
func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}
