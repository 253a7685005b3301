package eval

import (
	"fmt"
	"strings"

	"github.com/andrewdelmar/funcad/pkg/ast"
)

// contextEntry is one frame of a diagnostics stack: what kind of evaluation
// step produced it, and (where one exists) the source position that
// triggered it.
type contextEntry struct {
	text string // human-readable description, e.g. `function call "f(1)"`
	pos  *contextPos
}

type contextPos struct {
	line, col int
	doc       string
}

func (e contextEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\tin %s", e.text)
	if e.pos != nil {
		fmt.Fprintf(&b, " on line %d, col %d of %q", e.pos.line, e.pos.col, e.pos.doc)
	}
	return b.String()
}

// Context is an immutable diagnostics stack: a persistent singly linked
// list of frames, not a mutable push/pop stack. Grounded on
// original_source/src/eval/context.rs's EvalContext, which is deliberately
// an &'c EvalContext<'c> chain rather than a Vec: pushing a frame while
// evaluating one branch of an expression (say, a BinaryExpr's left side)
// must never be visible to a sibling branch (the right side) once that
// push unwinds, which a shared mutable stack would get wrong under this
// evaluator's recursive-descent control flow.
type Context struct {
	entry *contextEntry
	outer *Context
}

const maxContextTextLen = 20

func truncate(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) > maxContextTextLen {
		return string(runes[:maxContextTextLen])
	}
	return text
}

func (c *Context) push(entry contextEntry) *Context {
	return &Context{entry: &entry, outer: c}
}

// PushFuncCall returns a new Context with a frame for a call site.
func (c *Context) PushFuncCall(span ast.Span, doc string) *Context {
	return c.push(contextEntry{
		text: fmt.Sprintf("function call %q", truncate(span.Text)),
		pos:  &contextPos{line: span.Line, col: span.Col, doc: doc},
	})
}

// PushFuncDef returns a new Context with a frame for a function body.
func (c *Context) PushFuncDef(name string, span ast.Span, doc string) *Context {
	return c.push(contextEntry{
		text: fmt.Sprintf("body of function %q", name),
		pos:  &contextPos{line: span.Line, col: span.Col, doc: doc},
	})
}

// PushArgDefault returns a new Context with a frame for an argument's
// default-value expression.
func (c *Context) PushArgDefault(fn, arg string, span ast.Span, doc string) *Context {
	return c.push(contextEntry{
		text: fmt.Sprintf("evaluation of argument %q default of function %q", arg, fn),
		pos:  &contextPos{line: span.Line, col: span.Col, doc: doc},
	})
}

// PushBuiltIn returns a new Context with a frame for a built-in call.
// Built-ins have no source position of their own (I6's note that BuiltIn
// scopes are document-less).
func (c *Context) PushBuiltIn(name string) *Context {
	return c.push(contextEntry{text: fmt.Sprintf("built-in function %q", name)})
}

// Frames returns the stack's entries from outermost to innermost.
func (c *Context) Frames() []string {
	var rev []string
	for n := c; n != nil; n = n.outer {
		rev = append(rev, n.entry.String())
	}
	out := make([]string, len(rev))
	for i, s := range rev {
		out[len(rev)-1-i] = s
	}
	return out
}

// Err builds an *Error carrying the current stack, for the frame that
// detected the problem.
func (c *Context) Err(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), Frames: c.Frames()}
}
