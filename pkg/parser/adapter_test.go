package parser_test

import (
	"testing"

	"github.com/andrewdelmar/funcad/pkg/ast"
	"github.com/andrewdelmar/funcad/pkg/parser"
)

func mustParse(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, err := parser.ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument(%q): unexpected error %s", src, err)
	}
	return doc
}

func TestParseDocumentShape(t *testing.T) {
	doc := mustParse(t, `
		import shapes
		import ../lib/extra

		unit = 1
		box(size = unit) = Cube(size)
	`)

	if len(doc.Imports) != 2 {
		t.Fatalf("got %d imports, want 2", len(doc.Imports))
	}
	if _, ok := doc.Imports["shapes"]; !ok {
		t.Error("missing import alias \"shapes\"")
	}
	if _, ok := doc.Imports["extra"]; !ok {
		t.Error("missing import alias \"extra\" (alias is the trailing path segment)")
	}

	if len(doc.Funcs) != 2 {
		t.Fatalf("got %d funcs, want 2", len(doc.Funcs))
	}

	unit, ok := doc.Funcs["unit"]
	if !ok {
		t.Fatal("missing function \"unit\"")
	}
	if unit.Args != nil {
		t.Error("\"unit\" should be nullary (nil Args)")
	}

	box, ok := doc.Funcs["box"]
	if !ok {
		t.Fatal("missing function \"box\"")
	}
	if box.Args == nil || len(box.Args.Args) != 1 {
		t.Fatalf("\"box\" should take one parameter")
	}
	if box.Args.Args[0].Default == nil {
		t.Error("\"box\"'s \"size\" parameter should carry a default")
	}
}

func TestOperatorPrecedenceAndAssociativity(t *testing.T) {
	// 1 + 2 * 3 - 4 / 2 parses as (1 + (2 * 3)) - (4 / 2): * and / bind
	// tighter than + and -, and the add/sub chain associates left to right.
	doc := mustParse(t, `f = 1 + 2 * 3 - 4 / 2`)
	body := doc.Funcs["f"].Body

	outer, ok := body.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("body is %T, want *ast.BinaryExpr", body)
	}
	if outer.Op != ast.Sub {
		t.Fatalf("outermost op = %s, want -", outer.Op)
	}

	lhs, ok := outer.Lhs.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("lhs is %T, want *ast.BinaryExpr", outer.Lhs)
	}
	if lhs.Op != ast.Add {
		t.Fatalf("lhs op = %s, want +", lhs.Op)
	}
	if _, ok := lhs.Rhs.(*ast.BinaryExpr); !ok {
		t.Fatalf("lhs.Rhs is %T, want *ast.BinaryExpr (2 * 3)", lhs.Rhs)
	}

	rhs, ok := outer.Rhs.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.Div {
		t.Fatalf("rhs = %#v, want a Div BinaryExpr (4 / 2)", outer.Rhs)
	}
}

func TestUnaryNegation(t *testing.T) {
	doc := mustParse(t, `f = -x`)
	unary, ok := doc.Funcs["f"].Body.(*ast.UnaryExpr)
	if !ok {
		t.Fatalf("body is %T, want *ast.UnaryExpr", doc.Funcs["f"].Body)
	}
	if unary.Op != ast.Neg {
		t.Errorf("op = %s, want -", unary.Op)
	}
}

func TestFuncCallArgKinds(t *testing.T) {
	test := func(src string, wantKind ast.CallArgsKind) {
		doc := mustParse(t, "f = "+src)
		call, ok := doc.Funcs["f"].Body.(*ast.FuncCallExpr)
		if !ok {
			t.Fatalf("%q: body is %T, want *ast.FuncCallExpr", src, doc.Funcs["f"].Body)
		}
		if call.Args.Kind != wantKind {
			t.Errorf("%q: args kind = %v, want %v", src, call.Args.Kind, wantKind)
		}
	}

	test("g()", ast.NoArgs)
	test("g(1, 2, 3)", ast.PositionalArgs)
	test("g(a = 1, b = 2)", ast.NamedArgs)
	test("g", ast.NoArgs)
}

func TestQualifiedFuncName(t *testing.T) {
	doc := mustParse(t, `f = Shapes.cube(1)`)
	call := doc.Funcs["f"].Body.(*ast.FuncCallExpr)
	if !call.Name.Qualified {
		t.Fatal("expected a qualified call")
	}
	if call.Name.ImportPart != "Shapes" || call.Name.NamePart != "cube" {
		t.Errorf("got %+v", call.Name)
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	doc := mustParse(t, `f = (1 + 2) * 3`)
	outer := doc.Funcs["f"].Body.(*ast.BinaryExpr)
	if outer.Op != ast.Mul {
		t.Fatalf("outermost op = %s, want *", outer.Op)
	}
	if _, ok := outer.Lhs.(*ast.BinaryExpr); !ok {
		t.Fatalf("lhs is %T, want *ast.BinaryExpr (1 + 2)", outer.Lhs)
	}
}

func TestCommentsAreIgnored(t *testing.T) {
	doc := mustParse(t, `
		// a leading comment
		f = 1 // trailing comment
		/* a block
		   comment */
		g = 2
	`)
	if len(doc.Funcs) != 2 {
		t.Fatalf("got %d funcs, want 2", len(doc.Funcs))
	}
}

func TestDuplicateFuncDefIsRejected(t *testing.T) {
	_, err := parser.ParseDocument([]byte(`
		f = 1
		f = 2
	`))
	if err == nil {
		t.Fatal("expected an error for a duplicate function definition")
	}
	perr, ok := err.(*parser.Error)
	if !ok {
		t.Fatalf("error is %T, want *parser.Error", err)
	}
	if perr.Kind != parser.DuplicateFuncDef {
		t.Errorf("kind = %s, want DuplicateFuncDef", perr.Kind)
	}
}

func TestDuplicateImportAliasIsRejected(t *testing.T) {
	_, err := parser.ParseDocument([]byte(`
		import shapes
		import other/shapes

		f = 1
	`))
	perr, ok := err.(*parser.Error)
	if !ok {
		t.Fatalf("error is %T, want *parser.Error", err)
	}
	if perr.Kind != parser.DuplicateImport {
		t.Errorf("kind = %s, want DuplicateImport", perr.Kind)
	}
}

func TestDuplicateParameterIsRejected(t *testing.T) {
	_, err := parser.ParseDocument([]byte(`f(x, x) = x`))
	perr, ok := err.(*parser.Error)
	if !ok {
		t.Fatalf("error is %T, want *parser.Error", err)
	}
	if perr.Kind != parser.DuplicateArgDef {
		t.Errorf("kind = %s, want DuplicateArgDef", perr.Kind)
	}
}

func TestDuplicateNamedArgumentIsRejected(t *testing.T) {
	_, err := parser.ParseDocument([]byte(`f = g(a = 1, a = 2)`))
	perr, ok := err.(*parser.Error)
	if !ok {
		t.Fatalf("error is %T, want *parser.Error", err)
	}
	if perr.Kind != parser.DuplicateNamedArgument {
		t.Errorf("kind = %s, want DuplicateNamedArgument", perr.Kind)
	}
}
