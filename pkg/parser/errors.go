package parser

import (
	"fmt"

	"github.com/andrewdelmar/funcad/pkg/ast"
)

// ErrorKind enumerates the ParseError variants named in the FuncCAD
// specification. The last two (ExpectedToken, UnexpectedNode) are an
// internal-error class: they indicate a mismatch between the concrete
// grammar and this package's AST-construction assumptions, not a malformed
// program.
type ErrorKind int

const (
	Parse ErrorKind = iota
	DuplicateImport
	ImportNotInDir
	DuplicateFuncDef
	DuplicateArgDef
	DuplicateNamedArgument
	Float
	IO
	InvalidMain
	ExpectedToken
	UnexpectedNode
)

func (k ErrorKind) String() string {
	switch k {
	case Parse:
		return "Parse"
	case DuplicateImport:
		return "DuplicateImport"
	case ImportNotInDir:
		return "ImportNotInDir"
	case DuplicateFuncDef:
		return "DuplicateFuncDef"
	case DuplicateArgDef:
		return "DuplicateArgDef"
	case DuplicateNamedArgument:
		return "DuplicateNamedArgument"
	case Float:
		return "Float"
	case IO:
		return "IO"
	case InvalidMain:
		return "InvalidMain"
	case ExpectedToken:
		return "ExpectedToken"
	case UnexpectedNode:
		return "UnexpectedNode"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every parsing entry point in this
// package and by pkg/docset's loader.
type Error struct {
	Kind ErrorKind
	msg  string
	Wrap error
}

func (e *Error) Error() string {
	if e.Wrap != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.msg, e.Wrap)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.Wrap }

func newErr(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func wrapErr(kind ErrorKind, wrap error, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), Wrap: wrap}
}

func errDuplicateImport(old, new *ast.Import) *Error {
	return newErr(DuplicateImport, "duplicate import alias %q: %s then %s", new.Alias, old.Span, new.Span)
}

func errImportNotInDir(imp *ast.Import) *Error {
	return newErr(ImportNotInDir, "import %q at %s is above the program root", imp.File, imp.Span)
}

func errDuplicateFuncDef(old, new *ast.FuncDef) *Error {
	return newErr(DuplicateFuncDef, "duplicate function %q: %s then %s", new.Name, old.Span, new.Span)
}

func errDuplicateArgDef(old, new *ast.ArgDef) *Error {
	return newErr(DuplicateArgDef, "duplicate parameter %q: %s then %s", new.Name, old.Span, new.Span)
}

func errDuplicateNamedArgument(old, new *ast.NamedArg) *Error {
	return newErr(DuplicateNamedArgument, "duplicate named argument %q: %s then %s", new.Name, old.Span, new.Span)
}

func errFloat(text string, span ast.Span, wrap error) *Error {
	return wrapErr(Float, wrap, "invalid float literal %q at %s", text, span)
}

func errIO(wrap error) *Error {
	return wrapErr(IO, wrap, "unable to read source")
}

func errInvalidMain() *Error {
	return newErr(InvalidMain, "entry point is not a file")
}

func errExpectedToken(name string) *Error {
	return newErr(ExpectedToken, "expected token %q missing from parse tree", name)
}

func errUnexpectedNode(got string) *Error {
	return newErr(UnexpectedNode, "unexpected node %q in parse tree", got)
}

// ErrIOFrom wraps a filesystem/IO failure encountered while loading a
// document's source, for use by pkg/docset.
func ErrIOFrom(wrap error) *Error { return errIO(wrap) }

// ErrImportNotInDirFrom reports an import that would resolve above the
// program root, for use by pkg/docset (which performs the actual
// resolution via fqpath.FQPath.ImportPath).
func ErrImportNotInDirFrom(imp *ast.Import) *Error { return errImportNotInDir(imp) }

// ErrInvalidMainFrom reports that an entry path has no valid document stem,
// for use by pkg/docset.
func ErrInvalidMainFrom() *Error { return errInvalidMain() }
