// Package eval implements the memoizing evaluator: EvalCache walks a
// function's body, resolving calls to parameters, built-ins, local
// functions and imported functions, caching each distinct Scope's result
// exactly once and detecting infinite recursion via a dynamic-path set.
// Grounded on original_source/src/eval/{mod,scope,context}.rs.
package eval

import (
	"math"

	"github.com/andrewdelmar/funcad/pkg/ast"
	"github.com/andrewdelmar/funcad/pkg/docset"
	"github.com/andrewdelmar/funcad/pkg/fqpath"
	"github.com/andrewdelmar/funcad/pkg/solids"
)

// EvalCache is the evaluator's state for one call to EvalFunction: a
// reference to the loaded DocSet, a SolidSet it owns and mutates serially,
// and the cache/evaluating maps that make repeated sub-evaluations cheap
// and recursive ones detectable. cmd/funcad uses one EvalCache for a single
// top-level evaluation; cmd/funcad-browse keeps one alive for a whole
// browsing session.
type EvalCache struct {
	docs        *docset.DocSet
	evaluating  map[cacheKey]bool
	cache       map[cacheKey]Value
	solidsOwner SolidsOwner
}

// New returns an EvalCache ready to evaluate functions in docs, with
// tolerance used for every solid-kernel call and for the built-in Tan's
// near-90-degree check.
func New(docs *docset.DocSet, tolerance float64) *EvalCache {
	return &EvalCache{
		docs:       docs,
		evaluating: make(map[cacheKey]bool),
		cache:      make(map[cacheKey]Value),
		solidsOwner: SolidsOwner{
			set:       solids.New(tolerance),
			tolerance: tolerance,
		},
	}
}

// EvalFunctionByName evaluates the function named funcName in the document
// at docPath, binding any parameters to their default values (there is no
// caller to supply arguments at the entry point; a required parameter with
// no default is NoSuppliedOrDefaultArg).
func (c *EvalCache) EvalFunctionByName(docPath fqpath.FQPath, funcName string) (Value, *Error) {
	ctx := (*Context)(nil)

	doc, ok := c.docs.Get(docPath)
	if !ok {
		return Value{}, ctx.Err(DocNotFound, "document %q not found", docPath)
	}
	fn, ok := doc.Funcs[funcName]
	if !ok {
		return Value{}, ctx.Err(FuncNotFound, "function %q not found", funcName)
	}

	args := map[string]Value{}
	if fn.Args != nil {
		for _, def := range fn.Args.Args {
			if def.Default == nil {
				return Value{}, ctx.Err(NoSuppliedOrDefaultArg, "argument %q has no supplied or default value", def.Name)
			}
			scope := NewArgDefaultScope(docPath, funcName, def.Name)
			val, err := c.evalScope(scope, ctx)
			if err != nil {
				return Value{}, err
			}
			args[def.Name] = val
		}
	}

	scope := NewFuncCallScope(funcName, args, docPath)
	return c.evalScope(scope, ctx)
}

// evalScope resolves scope to a Value, using the cache and detecting
// re-entrance into a scope already on the dynamic evaluation path (I6:
// only successful evaluations are cached, so a later call after a fix
// doesn't see a stale failure).
func (c *EvalCache) evalScope(scope Scope, ctx *Context) (Value, *Error) {
	key := scope.key()

	if c.evaluating[key] {
		return Value{}, ctx.Err(InfiniteRecursion, "scope %q is already being evaluated", scope.name)
	}
	c.evaluating[key] = true
	defer delete(c.evaluating, key)

	if cached, ok := c.cache[key]; ok {
		return cached, nil
	}

	val, err := c.evalScopeUnchecked(scope, ctx)
	if err != nil {
		return Value{}, err
	}
	c.cache[key] = val
	return val, nil
}

func (c *EvalCache) evalScopeUnchecked(scope Scope, ctx *Context) (Value, *Error) {
	switch scope.kind {
	case funcCallScope:
		fn, err := c.lookupFunc(scope.docPath, scope.name, ctx)
		if err != nil {
			return Value{}, err
		}
		inner := ctx.PushFuncDef(scope.name, fn.Span, scope.docPath)
		return c.evalExpr(fn.Body, scope, inner)

	case argDefaultScope:
		fn, err := c.lookupFunc(scope.docPath, scope.name, ctx)
		if err != nil {
			return Value{}, err
		}
		def := fn.Args.ByName(scope.arg)
		if def == nil || def.Default == nil {
			return Value{}, ctx.Err(ArgNotFound, "argument %q not found on function %q", scope.arg, scope.name)
		}
		inner := ctx.PushArgDefault(scope.name, scope.arg, def.Span, scope.docPath)
		return c.evalExpr(def.Default, scope, inner)

	case builtInScope:
		b, ok := lookupBuiltIn(scope.name)
		if !ok {
			return Value{}, ctx.Err(BuiltInNotFound, "built-in %q not found", scope.name)
		}
		inner := ctx.PushBuiltIn(scope.name)
		return b.eval(&c.solidsOwner, scope.args, inner)

	default:
		return Value{}, ctx.Err(FuncNotFound, "unknown scope kind")
	}
}

func (c *EvalCache) lookupFunc(docPathKey, name string, ctx *Context) (*ast.FuncDef, *Error) {
	doc, ok := c.docs.GetByKey(docPathKey)
	if !ok {
		return nil, ctx.Err(DocNotFound, "document %q not found", docPathKey)
	}
	fn, ok := doc.Funcs[name]
	if !ok {
		return nil, ctx.Err(FuncNotFound, "function %q not found", name)
	}
	return fn, nil
}

// pathFromKey reconstructs the FQPath an FQPath.Key() string was built
// from. Scope only keeps that string (to stay a comparable cache key);
// resolving a further import relative to it needs the structured form back.
func pathFromKey(key string) fqpath.FQPath { return fqpath.New(splitKey(key)...) }

// ----------------------------------------------------------------------------
// Expressions

func (c *EvalCache) evalExpr(expr ast.Expr, scope Scope, ctx *Context) (Value, *Error) {
	switch e := expr.(type) {
	case *ast.Number:
		return Number(e.Val), nil
	case *ast.UnaryExpr:
		return c.evalUnary(e, scope, ctx)
	case *ast.BinaryExpr:
		return c.evalBinary(e, scope, ctx)
	case *ast.FuncCallExpr:
		return c.evalFuncCall(e, scope, ctx)
	default:
		return Value{}, ctx.Err(Parse, "unknown expression node")
	}
}

func (c *EvalCache) evalUnary(e *ast.UnaryExpr, scope Scope, ctx *Context) (Value, *Error) {
	val, err := c.evalExpr(e.Unit, scope, ctx)
	if err != nil {
		return Value{}, err
	}
	switch e.Op {
	case ast.Neg:
		if num, ok := val.AsNumber(); ok {
			return Number(-num), nil
		}
		if id, ok := val.AsSolid(); ok {
			newID, serr := c.solidsOwner.set.Negate(id)
			if serr != nil {
				return Value{}, ctx.Err(InvalidSolidId, "%s", serr)
			}
			return Solid(newID), nil
		}
		return Value{}, ctx.Err(ArgWrongType, "unary %q on unexpected type %s", e.Op, val.TypeName())
	default:
		return Value{}, ctx.Err(Parse, "unknown unary operator")
	}
}

func (c *EvalCache) evalBinary(e *ast.BinaryExpr, scope Scope, ctx *Context) (Value, *Error) {
	lhs, err := c.evalExpr(e.Lhs, scope, ctx)
	if err != nil {
		return Value{}, err
	}
	rhs, err := c.evalExpr(e.Rhs, scope, ctx)
	if err != nil {
		return Value{}, err
	}

	lnum, lIsNum := lhs.AsNumber()
	rnum, rIsNum := rhs.AsNumber()
	if lIsNum && rIsNum {
		var result float64
		switch e.Op {
		case ast.Add:
			result = lnum + rnum
		case ast.Sub:
			result = lnum - rnum
		case ast.Mul:
			result = lnum * rnum
		case ast.Div:
			result = lnum / rnum
		}
		if isNonFinite(result) {
			return Value{}, ctx.Err(NumExprNotFinite, "%s %s %s is not finite", Number(lnum), e.Op, Number(rnum))
		}
		return Number(result), nil
	}

	lid, lIsSolid := lhs.AsSolid()
	rid, rIsSolid := rhs.AsSolid()
	if lIsSolid && rIsSolid {
		var newID solids.SolidId
		var serr error
		switch e.Op {
		case ast.Add:
			newID, serr = c.solidsOwner.set.Union(lid, rid)
		case ast.Sub:
			newID, serr = c.solidsOwner.set.Difference(lid, rid)
		case ast.Mul:
			newID, serr = c.solidsOwner.set.Intersection(lid, rid)
		default:
			return Value{}, ctx.Err(BinaryOpWrongTypes, "operator %s is not defined on solids", e.Op)
		}
		if serr != nil {
			return Value{}, ctx.Err(InvalidSolidId, "%s", serr)
		}
		return Solid(newID), nil
	}

	return Value{}, ctx.Err(BinaryOpWrongTypes, "operator %s on %s and %s", e.Op, lhs.TypeName(), rhs.TypeName())
}

func isNonFinite(f float64) bool { return math.IsNaN(f) || math.IsInf(f, 0) }

func (c *EvalCache) evalFuncCall(e *ast.FuncCallExpr, scope Scope, ctx *Context) (Value, *Error) {
	ctx = ctx.PushFuncCall(e.Span, scope.docPath)

	if e.Name.Qualified {
		return c.evalQualifiedCall(e, scope, ctx)
	}

	if arg, ok := scope.Args()[e.Name.NamePart]; ok {
		if e.Args.Kind != ast.NoArgs {
			return Value{}, ctx.Err(TooManyArgs, "parameter %q does not take arguments", e.Name.NamePart)
		}
		return arg, nil
	}

	if b, ok := lookupBuiltIn(e.Name.NamePart); ok {
		args, err := c.bindBuiltInArgs(e, b, scope, ctx)
		if err != nil {
			return Value{}, err
		}
		return c.evalScope(NewBuiltInScope(e.Name.NamePart, args), ctx)
	}

	doc, ok := c.docs.GetByKey(scope.docPath)
	if !ok {
		return Value{}, ctx.Err(DocNotFound, "document %q not found", scope.docPath)
	}
	fn, ok := doc.Funcs[e.Name.NamePart]
	if !ok {
		return Value{}, ctx.Err(FuncNotFound, "function %q not found", e.Name.NamePart)
	}

	args, err := c.bindFuncCallArgs(e, fn, scope.docPath, scope, ctx)
	if err != nil {
		return Value{}, err
	}
	return c.evalScope(NewFuncCallScope(e.Name.NamePart, args, pathFromKey(scope.docPath)), ctx)
}

func (c *EvalCache) evalQualifiedCall(e *ast.FuncCallExpr, scope Scope, ctx *Context) (Value, *Error) {
	doc, ok := c.docs.GetByKey(scope.docPath)
	if !ok {
		return Value{}, ctx.Err(DocNotFound, "document %q not found", scope.docPath)
	}
	imp, ok := doc.Imports[e.Name.ImportPart]
	if !ok {
		return Value{}, ctx.Err(ImportNotFound, "import %q not found", e.Name.ImportPart)
	}

	thisPath := pathFromKey(scope.docPath)
	importPath, perr := thisPath.ImportPath(imp.File)
	if perr != nil {
		return Value{}, ctx.Err(DocNotFound, "%s", perr)
	}

	importDoc, ok := c.docs.Get(importPath)
	if !ok {
		return Value{}, ctx.Err(DocNotFound, "document %q not found", importPath)
	}
	fn, ok := importDoc.Funcs[e.Name.NamePart]
	if !ok {
		return Value{}, ctx.Err(FuncNotFound, "function %q not found", e.Name.NamePart)
	}

	args, err := c.bindFuncCallArgs(e, fn, importPath.Key(), scope, ctx)
	if err != nil {
		return Value{}, err
	}
	return c.evalScope(NewFuncCallScope(e.Name.NamePart, args, importPath), ctx)
}

// splitKey reverses fqpath.FQPath.Key() back into segments. Scope only
// keeps the string key (to stay comparable), so callers that need to
// resolve further imports relative to it reconstruct the FQPath here.
func splitKey(key string) []string {
	if key == "" {
		return nil
	}
	var segs []string
	start := 0
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			segs = append(segs, key[start:i])
			start = i + 1
		}
	}
	segs = append(segs, key[start:])
	return segs
}

func (c *EvalCache) bindFuncCallArgs(e *ast.FuncCallExpr, fn *ast.FuncDef, defDocPathKey string, scope Scope, ctx *Context) (map[string]Value, *Error) {
	args, err := c.bindSuppliedArgs(e, fn.Args, scope, ctx)
	if err != nil {
		return nil, err
	}
	if err := c.addDefaultArgs(args, fn, defDocPathKey, ctx); err != nil {
		return nil, err
	}
	return args, nil
}

func (c *EvalCache) bindSuppliedArgs(e *ast.FuncCallExpr, defs *ast.ArgDefs, scope Scope, ctx *Context) (map[string]Value, *Error) {
	args := map[string]Value{}

	switch e.Args.Kind {
	case ast.NoArgs:
		return args, nil

	case ast.PositionalArgs:
		if defs == nil {
			return nil, ctx.Err(TooManyArgs, "function takes no arguments")
		}
		for i, argExpr := range e.Args.Positional {
			if i >= len(defs.Args) {
				return nil, ctx.Err(TooManyArgs, "too many positional arguments")
			}
			val, err := c.evalExpr(argExpr, scope, ctx)
			if err != nil {
				return nil, err
			}
			args[defs.Args[i].Name] = val
		}
		return args, nil

	case ast.NamedArgs:
		if defs == nil {
			return nil, ctx.Err(TooManyArgs, "function takes no arguments")
		}
		for name, named := range e.Args.Named {
			if defs.ByName(name) == nil {
				return nil, ctx.Err(InvalidNamedArg, "no parameter named %q", name)
			}
			val, err := c.evalExpr(named.Expr, scope, ctx)
			if err != nil {
				return nil, err
			}
			args[name] = val
		}
		return args, nil

	default:
		return args, nil
	}
}

func (c *EvalCache) addDefaultArgs(args map[string]Value, fn *ast.FuncDef, defDocPathKey string, ctx *Context) *Error {
	if fn.Args == nil {
		return nil
	}
	for _, def := range fn.Args.Args {
		if _, ok := args[def.Name]; ok {
			continue
		}
		if def.Default == nil {
			return ctx.Err(NoSuppliedOrDefaultArg, "argument %q has no supplied or default value", def.Name)
		}
		val, err := c.evalScope(NewArgDefaultScope(pathFromKey(defDocPathKey), fn.Name, def.Name), ctx)
		if err != nil {
			return err
		}
		args[def.Name] = val
	}
	return nil
}

func (c *EvalCache) bindBuiltInArgs(e *ast.FuncCallExpr, b builtIn, scope Scope, ctx *Context) (map[string]Value, *Error) {
	args := map[string]Value{}

	switch e.Args.Kind {
	case ast.NoArgs:
	case ast.PositionalArgs:
		for i, argExpr := range e.Args.Positional {
			if i >= len(b.args) {
				return nil, ctx.Err(TooManyArgs, "too many positional arguments")
			}
			val, err := c.evalExpr(argExpr, scope, ctx)
			if err != nil {
				return nil, err
			}
			args[b.args[i].name] = val
		}
	case ast.NamedArgs:
		for name, named := range e.Args.Named {
			found := false
			for _, def := range b.args {
				if def.name == name {
					found = true
					break
				}
			}
			if !found {
				return nil, ctx.Err(InvalidNamedArg, "no parameter named %q", name)
			}
			val, err := c.evalExpr(named.Expr, scope, ctx)
			if err != nil {
				return nil, err
			}
			args[name] = val
		}
	}

	for _, def := range b.args {
		if _, ok := args[def.name]; ok {
			continue
		}
		if !def.hasDef {
			return nil, ctx.Err(NoSuppliedOrDefaultArg, "argument %q has no supplied or default value", def.name)
		}
		args[def.name] = def.def
	}

	return args, nil
}
