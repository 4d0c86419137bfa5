package codegen

import (
	"errors"
	"fmt"
	"strings"

	"aura/internal/ast"
	"aura/internal/token"
)

// ErrorKind classifies why lowering stopped.
type ErrorKind int

const (
	UndefinedVariable ErrorKind = iota + 1
	UnknownClass
	UnknownField
	NotAnArray
	InvalidIndexTarget
	InvalidArrayLiteralContext
	UnsupportedOperandType
	UnprintableType
	InvalidAssignmentTarget
	InvalidCallTarget
	NotAnInstance
	UnknownMethod
	UndefinedFunction
	ArityMismatch
	DuplicateFunction
	DuplicateClass
	TypeMismatch
	ReservedName
)

var kindNames = map[ErrorKind]string{
	UndefinedVariable:          "UndefinedVariable",
	UnknownClass:               "UnknownClass",
	UnknownField:               "UnknownField",
	NotAnArray:                 "NotAnArray",
	InvalidIndexTarget:         "InvalidIndexTarget",
	InvalidArrayLiteralContext: "InvalidArrayLiteralContext",
	UnsupportedOperandType:     "UnsupportedOperandType",
	UnprintableType:            "UnprintableType",
	InvalidAssignmentTarget:    "InvalidAssignmentTarget",
	InvalidCallTarget:          "InvalidCallTarget",
	NotAnInstance:              "NotAnInstance",
	UnknownMethod:              "UnknownMethod",
	UndefinedFunction:          "UndefinedFunction",
	ArityMismatch:              "ArityMismatch",
	DuplicateFunction:          "DuplicateFunction",
	DuplicateClass:             "DuplicateClass",
	TypeMismatch:               "TypeMismatch",
	ReservedName:               "ReservedName",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// kindByName maps a kind name back to its ErrorKind.
func kindByName(name string) (ErrorKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Sentinels for errors.Is; a *CodegenError matches the sentinel of its Kind.
var (
	ErrUndefinedVariable          = errors.New("undefined variable")
	ErrUnknownClass               = errors.New("unknown class")
	ErrUnknownField               = errors.New("unknown field")
	ErrNotAnArray                 = errors.New("not an array")
	ErrInvalidIndexTarget         = errors.New("invalid index target")
	ErrInvalidArrayLiteralContext = errors.New("array literal outside declaration")
	ErrUnsupportedOperandType     = errors.New("unsupported operand type")
	ErrUnprintableType            = errors.New("unprintable type")
	ErrInvalidAssignmentTarget    = errors.New("invalid assignment target")
	ErrInvalidCallTarget          = errors.New("invalid call target")
	ErrNotAnInstance              = errors.New("not a class instance")
	ErrUnknownMethod              = errors.New("unknown method")
	ErrUndefinedFunction          = errors.New("undefined function")
	ErrArityMismatch              = errors.New("wrong number of arguments")
	ErrDuplicateFunction          = errors.New("duplicate function")
	ErrDuplicateClass             = errors.New("duplicate class")
	ErrTypeMismatch               = errors.New("type mismatch")
	ErrReservedName               = errors.New("reserved name")
)

var kindSentinels = map[ErrorKind]error{
	UndefinedVariable:          ErrUndefinedVariable,
	UnknownClass:               ErrUnknownClass,
	UnknownField:               ErrUnknownField,
	NotAnArray:                 ErrNotAnArray,
	InvalidIndexTarget:         ErrInvalidIndexTarget,
	InvalidArrayLiteralContext: ErrInvalidArrayLiteralContext,
	UnsupportedOperandType:     ErrUnsupportedOperandType,
	UnprintableType:            ErrUnprintableType,
	InvalidAssignmentTarget:    ErrInvalidAssignmentTarget,
	InvalidCallTarget:          ErrInvalidCallTarget,
	NotAnInstance:              ErrNotAnInstance,
	UnknownMethod:              ErrUnknownMethod,
	UndefinedFunction:          ErrUndefinedFunction,
	ArityMismatch:              ErrArityMismatch,
	DuplicateFunction:          ErrDuplicateFunction,
	DuplicateClass:             ErrDuplicateClass,
	TypeMismatch:               ErrTypeMismatch,
	ReservedName:               ErrReservedName,
}

// CodegenError is the single failure that aborts a compilation.
type CodegenError struct {
	Kind    ErrorKind
	Name    string // offending variable, class, field, function or operator
	Message string
	Context string // source form of the offending node
	Line    int
	Column  int
}

func (e CodegenError) Error() string {
	if e.Kind == 0 {
		return e.Message
	}
	return e.Kind.String() + ": " + e.Message
}

func (e CodegenError) Unwrap() error {
	return kindSentinels[e.Kind]
}

func (cg *CodeGen) fail(kind ErrorKind, node ast.Node, name, format string, args ...interface{}) error {
	err := &CodegenError{
		Kind:    kind,
		Name:    name,
		Message: fmt.Sprintf(format, args...),
	}
	if node != nil {
		err.Context = strings.TrimSpace(node.String())
		if err.Context == "" {
			err.Context = strings.TrimSpace(node.TokenLiteral())
		}
		if tok, ok := tokenFromNode(node); ok {
			err.Line = tok.Line
			err.Column = tok.Column
		}
	}
	return err
}

// tokenFromNode picks the token that best marks where a node starts.
func tokenFromNode(node ast.Node) (token.Token, bool) {
	var tok token.Token
	switch n := node.(type) {
	case *ast.Identifier:
		tok = n.Token
	case *ast.IntegerLiteral:
		tok = n.Token
	case *ast.StringLiteral:
		tok = n.Token
	case *ast.ArrayLiteral:
		tok = n.Token
	case *ast.IndexExpression:
		return tokenFromNode(n.Left)
	case *ast.CallExpression:
		return tokenFromNode(n.Function)
	case *ast.InfixExpression:
		tok = n.Token
	case *ast.NewExpression:
		tok = n.Token
	case *ast.FieldAccessExpression:
		return tokenFromNode(n.Object)
	case *ast.FieldAssignExpression:
		return tokenFromNode(n.Object)
	case *ast.MethodCallExpression:
		return tokenFromNode(n.Object)
	case *ast.VarStatement:
		tok = n.Token
	case *ast.AssignStatement:
		if n.Target != nil {
			return tokenFromNode(n.Target)
		}
		tok = n.Token
	case *ast.PrintStatement:
		tok = n.Token
	case *ast.ReturnStatement:
		tok = n.Token
	case *ast.ExpressionStatement:
		tok = n.Token
	case *ast.BlockStatement:
		tok = n.Token
	case *ast.IfStatement:
		tok = n.Token
	case *ast.WhileStatement:
		tok = n.Token
	case *ast.FunctionStatement:
		tok = n.Token
	case *ast.ClassStatement:
		tok = n.Token
	default:
		return token.Token{}, false
	}
	return tok, tok.Line > 0 && tok.Column > 0
}
