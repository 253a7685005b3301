package parser

import (
	pc "github.com/prataprc/goparsec"
)

// ----------------------------------------------------------------------------
// FuncCAD grammar
//
// This section defines the parser combinators for the concrete FuncCAD
// grammar (abstract grammar reproduced in spec.md §6). It follows the same
// shape as the assembler and Jack grammars this package is modeled on: a
// package-level `ast` combinator tree feeding `ast.Parsewith`, with feature
// flags read from the environment for debugging.
//
// Recursive rules (expr containing a parenthesised expr, call arguments
// containing exprs) can't be expressed as acyclic package-level var
// initializers, so pExprRef/pUnaryRef indirect through a plain function that
// reads the pExpr/pUnary var at call time instead of at init time.

var ast = pc.NewAST("funcad_document", 0)

var (
	pDocument = ast.ManyUntil("document", nil,
		ast.OrdChoice("item", nil, pComment, pImport, pFuncDef), pc.End())

	pComment = ast.OrdChoice("comment", nil,
		ast.And("sl_comment", nil, pc.Atom("//", "//"), pc.Token(`(?m).*$`, "COMMENT")),
		ast.And("ml_comment", nil, pc.Token(`/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`, "COMMENT")),
	)

	pImport = ast.And("import", nil, pc.Atom("import", "IMPORT"), pFileName)

	// A file name is a sequence of "/"-separated segments, each either an
	// identifier or the literal ".." (a leading ".." segment is allowed).
	pFileName = pc.Token(`(?:\.\.|[A-Za-z_][0-9A-Za-z_]*)(?:/(?:\.\.|[A-Za-z_][0-9A-Za-z_]*))*`, "FILENAME")

	pFuncDef = ast.And("func_def", nil,
		pIdent, ast.Maybe("maybe_args", nil, pArgDefs), pc.Atom("=", "="), pExprIndirect)

	pArgDefs = ast.And("arg_defs", nil,
		pLParen, ast.Kleene("args", nil, pArgDef, pComma), pRParen)

	pArgDef = ast.And("arg_def", nil,
		pIdent, ast.Maybe("maybe_default", nil, ast.And("default", nil, pc.Atom("=", "="), pExprIndirect)))
)

// pExpr/pUnary are assigned in init() below; anything that needs to embed
// them before they're constructed (paren groups, call arguments) goes
// through the pExprIndirect/pUnaryIndirect function values instead, which
// only read the var when actually invoked by the scanner.
var (
	pExpr  pc.Parser
	pUnary pc.Parser
)

func pExprIndirectFn(s pc.Scanner) (pc.ParsecNode, pc.Scanner) { return pExpr(s) }
func pUnaryIndirectFn(s pc.Scanner) (pc.ParsecNode, pc.Scanner) { return pUnary(s) }

var (
	pExprIndirect  = pc.Parser(pExprIndirectFn)
	pUnaryIndirect = pc.Parser(pUnaryIndirectFn)

	pAddOp = ast.OrdChoice("add_op", nil, pc.Atom("+", "+"), pc.Atom("-", "-"))
	pMulOp = ast.OrdChoice("mul_op", nil, pc.Atom("*", "*"), pc.Atom("/", "/"))

	pTerm = ast.And("term", nil, pUnaryIndirect,
		ast.Kleene("mul_chain", nil, ast.And("mul_item", nil, pMulOp, pUnaryIndirect)))

	pNeg = ast.And("neg", nil, pc.Atom("-", "-"), pUnaryIndirect)

	pPrimary = ast.OrdChoice("primary", nil,
		pNumber,
		pFuncCall,
		ast.And("paren_expr", nil, pLParen, pExprIndirect, pRParen),
	)

	pFuncName = ast.And("func_name", nil,
		pIdent, ast.Maybe("maybe_qualifier", nil, ast.And("qualifier", nil, pDot, pIdent)))

	pFuncCall = ast.And("func_call", nil, pFuncName, ast.Maybe("maybe_call_args", nil, pCallArgs))

	pCallArgs = ast.And("call_args", nil,
		pLParen, ast.Maybe("maybe_args_body", nil, ast.OrdChoice("args_body", nil, pNamedArgs, pPosArgs)), pRParen)

	pPosArgs = ast.And("pos_args", nil, pExprIndirect,
		ast.Kleene("rest", nil, ast.And("item", nil, pComma, pExprIndirect)))

	pNamedArg = ast.And("named_arg", nil, pIdent, pc.Atom("=", "="), pExprIndirect)

	pNamedArgs = ast.And("named_args", nil, pNamedArg,
		ast.Kleene("rest", nil, ast.And("item", nil, pComma, pNamedArg)))

	pNumber = pc.OrdTokens([]string{`[0-9]+\.[0-9]+`, `[0-9]+`}, "NUMBER", nil)

	pIdent = pc.Token(`[A-Za-z_][0-9A-Za-z_]*`, "IDENT")

	pDot    = pc.Atom(".", ".")
	pComma  = pc.Atom(",", ",")
	pLParen = pc.Atom("(", "(")
	pRParen = pc.Atom(")", ")")
)

func init() {
	pUnary = ast.OrdChoice("unary", nil, pNeg, pPrimary)
	pExpr = ast.And("expr", nil, pTerm,
		ast.Kleene("add_chain", nil, ast.And("add_item", nil, pAddOp, pTerm)))
}
