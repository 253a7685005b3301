// Package parser is the concrete-grammar collaborator spec.md §1 treats as
// external to the evaluation engine: it turns FuncCAD source text into the
// pkg/ast tree the evaluator consumes, using github.com/prataprc/goparsec
// parser combinators the way the teacher's assembler and Jack grammars do.
//
// This package also enforces the uniqueness rules spec.md §4.2 assigns to
// "AST construction": duplicate functions per document, duplicate import
// aliases, duplicate parameters per definition, duplicate named arguments
// per call site.
package parser

import (
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	pc "github.com/prataprc/goparsec"

	"github.com/andrewdelmar/funcad/pkg/ast"
)

// Parser reads FuncCAD source from an io.Reader and produces a *ast.Document.
type Parser struct{ reader io.Reader }

// NewParser wraps r for parsing.
func NewParser(r io.Reader) *Parser { return &Parser{reader: r} }

// Parse reads the full contents of the wrapped reader and parses it as a
// single document (imports are not followed; see pkg/docset for that).
func (p *Parser) Parse() (*ast.Document, error) {
	content, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, errIO(err)
	}
	return ParseDocument(content)
}

// ParseDocument parses a single document's source, without following its
// imports. Useful for tooling that only wants to validate one file.
func ParseDocument(src []byte) (*ast.Document, error) {
	root, ok := fromSource(src)
	if !ok {
		return nil, newErr(Parse, "failed to parse document")
	}
	return buildDocument(root, newPosTracker(string(src)))
}

// fromSource scans src into a traversable parse tree. It honors the same
// debug environment variables as the teacher's grammars:
//   - PARSEC_DEBUG: verbose goparsec logging
//   - EXPORT_AST:   write a Graphviz rendering to DEBUG_FOLDER/debug.ast.dot
//   - PRINT_AST:    pretty-print the tree to stdout
func fromSource(source []byte) (pc.Queryable, bool) {
	if os.Getenv("PARSEC_DEBUG") != "" {
		ast.SetDebug()
	}

	root, scanner := ast.Parsewith(pDocument, pc.NewScanner(source))

	if os.Getenv("EXPORT_AST") != "" {
		if file, err := os.Create(os.Getenv("DEBUG_FOLDER") + "/debug.ast.dot"); err == nil {
			defer file.Close()
			file.Write([]byte(ast.Dotstring("\"FuncCAD AST\"")))
		}
	}
	if os.Getenv("PRINT_AST") != "" {
		ast.Prettyprint()
	}

	_, rest := scanner.Match(`^\s*$`)
	return root, root != nil && rest != nil
}

// ----------------------------------------------------------------------------
// Position tracking
//
// goparsec's Queryable only exposes node names and matched text, not source
// offsets, so spans are recovered by walking the source left to right in
// lockstep with the (left-to-right, PEG) parse tree, matching each leaf
// token's text starting from a monotonically advancing cursor.

type posTracker struct {
	src    string
	cursor int
}

func newPosTracker(src string) *posTracker { return &posTracker{src: src} }

func (t *posTracker) consume(text string) ast.Span {
	idx := strings.Index(t.src[t.cursor:], text)
	if idx < 0 {
		idx = 0
	}
	offset := t.cursor + idx
	line, col := 1, 1
	for _, r := range t.src[:offset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	t.cursor = offset + len(text)
	return ast.Span{Line: line, Col: col, Text: text}
}

// ----------------------------------------------------------------------------
// Tree -> AST

func buildDocument(root pc.Queryable, pos *posTracker) (*ast.Document, error) {
	if root.GetName() != "document" {
		return nil, errUnexpectedNode(root.GetName())
	}

	doc := ast.NewDocument()

	for _, child := range root.GetChildren() {
		switch child.GetName() {
		case "import":
			imp, err := buildImport(child, pos)
			if err != nil {
				return nil, err
			}
			if old, ok := doc.Imports[imp.Alias]; ok {
				return nil, errDuplicateImport(old, imp)
			}
			doc.Imports[imp.Alias] = imp

		case "func_def":
			fn, err := buildFuncDef(child, pos)
			if err != nil {
				return nil, err
			}
			if old, ok := doc.Funcs[fn.Name]; ok {
				return nil, errDuplicateFuncDef(old, fn)
			}
			doc.Funcs[fn.Name] = fn

		case "comment", "sl_comment", "ml_comment":
			pos.consume(child.GetValue())

		default:
			return nil, errUnexpectedNode(child.GetName())
		}
	}

	return doc, nil
}

func buildImport(node pc.Queryable, pos *posTracker) (*ast.Import, error) {
	pos.consume("import")
	children := node.GetChildren()
	if len(children) < 1 {
		return nil, errExpectedToken("FILENAME")
	}
	file := children[0].GetValue()
	span := pos.consume(file)

	return &ast.Import{
		Alias: lastSegment(file),
		File:  file,
		Span:  span,
	}, nil
}

func lastSegment(file string) string {
	parts := strings.Split(file, "/")
	return parts[len(parts)-1]
}

func buildFuncDef(node pc.Queryable, pos *posTracker) (*ast.FuncDef, error) {
	children := node.GetChildren()
	if len(children) < 1 {
		return nil, errExpectedToken("IDENT")
	}

	name := children[0].GetValue()
	span := pos.consume(name)

	var args *ast.ArgDefs
	var bodyNode pc.Queryable

	for _, child := range children[1:] {
		switch child.GetName() {
		case "maybe_args":
			if inner := soleChild(child); inner != nil {
				a, err := buildArgDefs(inner, pos)
				if err != nil {
					return nil, err
				}
				args = a
			}
		case "=":
			pos.consume("=")
		default:
			bodyNode = child
		}
	}
	if bodyNode == nil {
		return nil, errExpectedToken("expr")
	}

	body, err := buildExpr(bodyNode, pos)
	if err != nil {
		return nil, err
	}

	return &ast.FuncDef{Name: name, Args: args, Body: body, Span: span}, nil
}

func buildArgDefs(node pc.Queryable, pos *posTracker) (*ast.ArgDefs, error) {
	pos.consume("(")
	argsList := node.GetChildren()
	if len(argsList) == 0 {
		return nil, newErr(Parse, "empty parameter list")
	}
	wrapper := argsList[0] // "args" Kleene wrapper
	span := ast.Span{}

	var out []*ast.ArgDef
	seen := map[string]*ast.ArgDef{}
	for _, child := range wrapper.GetChildren() {
		arg, err := buildArgDef(child, pos)
		if err != nil {
			return nil, err
		}
		if old, ok := seen[arg.Name]; ok {
			return nil, errDuplicateArgDef(old, arg)
		}
		seen[arg.Name] = arg
		if span.Text == "" {
			span = arg.Span
		}
		out = append(out, arg)
	}
	if len(out) == 0 {
		return nil, newErr(Parse, "empty parameter list")
	}
	pos.consume(")")
	return &ast.ArgDefs{Args: out, Span: span}, nil
}

func buildArgDef(node pc.Queryable, pos *posTracker) (*ast.ArgDef, error) {
	children := node.GetChildren()
	if len(children) < 1 {
		return nil, errExpectedToken("IDENT")
	}
	name := children[0].GetValue()
	span := pos.consume(name)

	var def ast.Expr
	if len(children) > 1 && children[1].GetName() == "maybe_default" {
		if inner := soleChild(children[1]); inner != nil {
			pos.consume("=")
			d, err := buildExpr(soleChild(inner), pos)
			if err != nil {
				return nil, err
			}
			def = d
		}
	}

	return &ast.ArgDef{Name: name, Default: def, Span: span}, nil
}

// soleChild returns the single child of an ast.Maybe wrapper, or nil if the
// optional rule didn't match.
func soleChild(node pc.Queryable) pc.Queryable {
	children := node.GetChildren()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// ----------------------------------------------------------------------------
// Expressions

func buildExpr(node pc.Queryable, pos *posTracker) (ast.Expr, error) {
	children := node.GetChildren()
	if len(children) < 1 {
		return nil, errExpectedToken("term")
	}

	lhs, err := buildTerm(children[0], pos)
	if err != nil {
		return nil, err
	}
	if len(children) < 2 {
		return lhs, nil
	}

	chain := children[1] // "add_chain"
	for _, item := range chain.GetChildren() {
		opRhs := item.GetChildren()
		if len(opRhs) != 2 {
			return nil, errExpectedToken("add_item")
		}
		opSpan := pos.consume(opRhs[0].GetName())
		rhs, err := buildTerm(opRhs[1], pos)
		if err != nil {
			return nil, err
		}

		var op ast.BinaryOp
		switch opRhs[0].GetName() {
		case "+":
			op = ast.Add
		case "-":
			op = ast.Sub
		default:
			return nil, errUnexpectedNode(opRhs[0].GetName())
		}

		lhs = &ast.BinaryExpr{Lhs: lhs, Op: op, Rhs: rhs, Span: opSpan}
	}

	return lhs, nil
}

func buildTerm(node pc.Queryable, pos *posTracker) (ast.Expr, error) {
	children := node.GetChildren()
	if len(children) < 1 {
		return nil, errExpectedToken("unary")
	}

	lhs, err := buildUnary(children[0], pos)
	if err != nil {
		return nil, err
	}
	if len(children) < 2 {
		return lhs, nil
	}

	chain := children[1] // "mul_chain"
	for _, item := range chain.GetChildren() {
		opRhs := item.GetChildren()
		if len(opRhs) != 2 {
			return nil, errExpectedToken("mul_item")
		}
		opSpan := pos.consume(opRhs[0].GetName())
		rhs, err := buildUnary(opRhs[1], pos)
		if err != nil {
			return nil, err
		}

		var op ast.BinaryOp
		switch opRhs[0].GetName() {
		case "*":
			op = ast.Mul
		case "/":
			op = ast.Div
		default:
			return nil, errUnexpectedNode(opRhs[0].GetName())
		}

		lhs = &ast.BinaryExpr{Lhs: lhs, Op: op, Rhs: rhs, Span: opSpan}
	}

	return lhs, nil
}

func buildUnary(node pc.Queryable, pos *posTracker) (ast.Expr, error) {
	switch node.GetName() {
	case "neg":
		span := pos.consume("-")
		children := node.GetChildren()
		if len(children) < 1 {
			return nil, errExpectedToken("unary")
		}
		unit, err := buildUnary(children[0], pos)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.Neg, Unit: unit, Span: span}, nil

	case "NUMBER":
		text := node.GetValue()
		span := pos.consume(text)
		val, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errFloat(text, span, err)
		}
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, errFloat(text, span, strconv.ErrRange)
		}
		return &ast.Number{Val: val, Span: span}, nil

	case "func_call":
		return buildFuncCall(node, pos)

	case "paren_expr":
		pos.consume("(")
		children := node.GetChildren()
		if len(children) < 1 {
			return nil, errExpectedToken("expr")
		}
		inner, err := buildExpr(children[0], pos)
		if err != nil {
			return nil, err
		}
		pos.consume(")")
		return inner, nil

	default:
		return nil, errUnexpectedNode(node.GetName())
	}
}

func buildFuncCall(node pc.Queryable, pos *posTracker) (*ast.FuncCallExpr, error) {
	children := node.GetChildren()
	if len(children) < 1 {
		return nil, errExpectedToken("func_name")
	}

	name, err := buildFuncName(children[0], pos)
	if err != nil {
		return nil, err
	}

	args := ast.CallArgs{Kind: ast.NoArgs}
	if len(children) > 1 && children[1].GetName() == "maybe_call_args" {
		if inner := soleChild(children[1]); inner != nil {
			a, err := buildCallArgs(inner, pos)
			if err != nil {
				return nil, err
			}
			args = a
		}
	}

	return &ast.FuncCallExpr{Name: name, Args: args, Span: name.Span}, nil
}

func buildFuncName(node pc.Queryable, pos *posTracker) (ast.FuncName, error) {
	children := node.GetChildren()
	if len(children) < 1 {
		return ast.FuncName{}, errExpectedToken("IDENT")
	}

	first := children[0].GetValue()
	span := pos.consume(first)

	if len(children) > 1 && children[1].GetName() == "maybe_qualifier" {
		if inner := soleChild(children[1]); inner != nil {
			qualChildren := inner.GetChildren()
			if len(qualChildren) < 1 {
				return ast.FuncName{}, errExpectedToken("IDENT")
			}
			pos.consume(".")
			name := qualChildren[0].GetValue()
			nameSpan := pos.consume(name)
			return ast.FuncName{
				ImportPart: first,
				Qualified:  true,
				NamePart:   name,
				Span:       nameSpan,
			}, nil
		}
	}

	return ast.FuncName{NamePart: first, Span: span}, nil
}

func buildCallArgs(node pc.Queryable, pos *posTracker) (ast.CallArgs, error) {
	pos.consume("(")
	result := ast.CallArgs{Kind: ast.NoArgs}

	children := node.GetChildren()
	if len(children) < 1 {
		pos.consume(")")
		return result, nil
	}

	bodyWrapper := children[0] // "maybe_args_body"
	body := soleChild(bodyWrapper)
	if body == nil {
		pos.consume(")")
		return result, nil
	}

	switch body.GetName() {
	case "pos_args":
		exprs, err := buildPosArgs(body, pos)
		if err != nil {
			return ast.CallArgs{}, err
		}
		result.Kind = ast.PositionalArgs
		result.Positional = exprs

	case "named_args":
		named, err := buildNamedArgs(body, pos)
		if err != nil {
			return ast.CallArgs{}, err
		}
		result.Kind = ast.NamedArgs
		result.Named = named

	default:
		return ast.CallArgs{}, errUnexpectedNode(body.GetName())
	}

	pos.consume(")")
	return result, nil
}

func buildPosArgs(node pc.Queryable, pos *posTracker) ([]ast.Expr, error) {
	children := node.GetChildren()
	if len(children) < 1 {
		return nil, errExpectedToken("expr")
	}
	first, err := buildExpr(children[0], pos)
	if err != nil {
		return nil, err
	}
	out := []ast.Expr{first}

	if len(children) > 1 {
		for _, item := range children[1].GetChildren() { // "rest"
			itemChildren := item.GetChildren()
			if len(itemChildren) < 1 {
				return nil, errExpectedToken("expr")
			}
			pos.consume(",")
			e, err := buildExpr(itemChildren[0], pos)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	}

	return out, nil
}

func buildNamedArgs(node pc.Queryable, pos *posTracker) (map[string]*ast.NamedArg, error) {
	out := map[string]*ast.NamedArg{}

	children := node.GetChildren()
	if len(children) < 1 {
		return nil, errExpectedToken("named_arg")
	}

	add := func(item pc.Queryable) error {
		arg, err := buildNamedArg(item, pos)
		if err != nil {
			return err
		}
		if old, ok := out[arg.Name]; ok {
			return errDuplicateNamedArgument(old, arg)
		}
		out[arg.Name] = arg
		return nil
	}

	if err := add(children[0]); err != nil {
		return nil, err
	}

	if len(children) > 1 {
		for _, item := range children[1].GetChildren() { // "rest"
			pos.consume(",")
			namedArgChildren := item.GetChildren()
			if len(namedArgChildren) < 1 {
				return nil, errExpectedToken("named_arg")
			}
			if err := add(namedArgChildren[0]); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func buildNamedArg(node pc.Queryable, pos *posTracker) (*ast.NamedArg, error) {
	children := node.GetChildren()
	if len(children) < 2 {
		return nil, errExpectedToken("named_arg")
	}
	name := children[0].GetValue()
	span := pos.consume(name)
	pos.consume("=")
	expr, err := buildExpr(children[1], pos)
	if err != nil {
		return nil, err
	}
	return &ast.NamedArg{Name: name, Expr: expr, Span: span}, nil
}
