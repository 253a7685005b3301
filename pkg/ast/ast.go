// Package ast defines the immutable abstract syntax tree the FuncCAD
// evaluator consumes: Document, Import, FuncDef, ArgDef and the Expr family
// (Number, Unary, Binary, FuncCall). Every node carries a Span for
// diagnostics; the evaluator reads a span's start position, and for call
// sites its text, when pushing a context frame (see pkg/eval).
package ast

import "fmt"

// Span locates a node in its owning document's source text. Source bytes are
// held for the lifetime of evaluation by an arena (pkg/docset.SourceArena) so
// that Text remains a valid slice throughout.
type Span struct {
	Line int
	Col  int
	Text string
}

func (s Span) String() string {
	text := s.Text
	const maxLen = 20
	if len([]rune(text)) > maxLen {
		text = string([]rune(text)[:maxLen])
	}
	return fmt.Sprintf("%q on line %d, col %d", text, s.Line, s.Col)
}

// Document is one parsed source file: a set of imports and a set of function
// definitions. Both maps reject duplicate keys at construction time (I1).
type Document struct {
	Imports map[string]*Import
	Funcs   map[string]*FuncDef
}

// NewDocument returns an empty, ready-to-populate Document.
func NewDocument() *Document {
	return &Document{
		Imports: make(map[string]*Import),
		Funcs:   make(map[string]*FuncDef),
	}
}

// Import is a single "import <file>" directive.
type Import struct {
	Alias string // the trailing identifier of File
	File  string // the raw, slash-separated string to resolve against the owning document's FQPath
	Span  Span
}

// FuncDef is a named, possibly-parameterised function definition.
type FuncDef struct {
	Name string
	Args *ArgDefs // nil => nullary; non-nil with zero Args is invalid and rejected at construction
	Body Expr
	Span Span
}

// ArgDefs is the parenthesised parameter list of a FuncDef.
type ArgDefs struct {
	Args []*ArgDef
	Span Span
}

// ByName returns the parameter named name, or nil if there is none.
func (a *ArgDefs) ByName(name string) *ArgDef {
	if a == nil {
		return nil
	}
	for _, arg := range a.Args {
		if arg.Name == name {
			return arg
		}
	}
	return nil
}

// IndexOf returns the positional index of the parameter named name, or -1.
func (a *ArgDefs) IndexOf(name string) int {
	if a == nil {
		return -1
	}
	for i, arg := range a.Args {
		if arg.Name == name {
			return i
		}
	}
	return -1
}

// ArgDef is a single parameter, optionally carrying a default-value
// expression. Parameters with and without defaults may intermix freely.
type ArgDef struct {
	Name    string
	Default Expr // nil if the parameter is required
	Span    Span
}

// FuncName is a possibly import-qualified function reference used at a call
// site, e.g. "f" or "I.f".
type FuncName struct {
	ImportPart string // "" when unqualified
	Qualified  bool
	NamePart   string
	Span       Span
}

func (f FuncName) String() string {
	if f.Qualified {
		return fmt.Sprintf("%s.%s", f.ImportPart, f.NamePart)
	}
	return f.NamePart
}

// CallArgsKind distinguishes the three mutually exclusive shapes a call
// site's argument list can take.
type CallArgsKind int

const (
	NoArgs CallArgsKind = iota
	PositionalArgs
	NamedArgs
)

// NamedArg is a single "name = expr" entry in a Named call.
type NamedArg struct {
	Name string
	Expr Expr
	Span Span
}

// CallArgs holds exactly one of the three argument-list shapes. Mixing
// positional and named syntax at one call site is a parse-level
// impossibility, not representable here.
type CallArgs struct {
	Kind       CallArgsKind
	Positional []Expr
	Named      map[string]*NamedArg
	Span       Span
}

// ----------------------------------------------------------------------------
// Expressions

// Expr is the shared interface for every expression node: Number, Unary,
// Binary and FuncCall. Unlike Statement in a general-purpose language AST,
// FuncCAD has no statements: a function body is a single Expr.
type Expr interface {
	// ExprSpan returns the node's source span.
	ExprSpan() Span
}

// Number is a scalar literal. Constructed only with a finite, non-NaN value
// (I4) — the parser adapter rejects anything else at construction time.
type Number struct {
	Val  float64
	Span Span
}

func (n *Number) ExprSpan() Span { return n.Span }

// UnaryOp enumerates the single allowed prefix operator.
type UnaryOp int

const (
	Neg UnaryOp = iota
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	default:
		return "?"
	}
}

// UnaryExpr applies Op to Unit, e.g. "-a".
type UnaryExpr struct {
	Op   UnaryOp
	Unit Expr
	Span Span
}

func (u *UnaryExpr) ExprSpan() Span { return u.Span }

// BinaryOp enumerates the four allowed infix operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// BinaryExpr combines Lhs and Rhs with Op, e.g. "a + b". Lhs is always
// evaluated before Rhs.
type BinaryExpr struct {
	Lhs  Expr
	Op   BinaryOp
	Rhs  Expr
	Span Span
}

func (b *BinaryExpr) ExprSpan() Span { return b.Span }

// FuncCallExpr is a call to a named function, built-in, or bound parameter.
type FuncCallExpr struct {
	Name FuncName
	Args CallArgs
	Span Span
}

func (c *FuncCallExpr) ExprSpan() Span { return c.Span }
