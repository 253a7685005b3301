package eval

import (
	"sort"
	"strings"

	"github.com/andrewdelmar/funcad/pkg/fqpath"
)

// scopeKind distinguishes the three cacheable units of evaluation a Scope
// can name, mirroring original_source/src/eval/scope.rs's Scope enum.
type scopeKind int

const (
	funcCallScope scopeKind = iota
	argDefaultScope
	builtInScope
)

// Scope identifies a single cacheable unit of evaluation: a call to a
// specific function with a specific set of bound arguments, the default
// value of one argument, or a call to a built-in. Two equal Scopes always
// evaluate to the same Value (that equivalence is what the cache relies
// on). Scope keeps its bound args as a map, which makes it non-comparable,
// so it also folds them into a canonical string digest; key() turns a
// Scope into the comparable cacheKey the cache actually uses.
type Scope struct {
	kind    scopeKind
	name    string // function or built-in name
	arg     string // ArgDefault only: the parameter name
	docPath string // FuncCall/ArgDefault only: owning document's FQPath.Key()
	argsKey string // canonical encoding of bound arguments
	args    map[string]Value
}

// NewFuncCallScope builds the Scope for a call to the function named name
// in the document at docPath, bound to args.
func NewFuncCallScope(name string, args map[string]Value, docPath fqpath.FQPath) Scope {
	return Scope{kind: funcCallScope, name: name, docPath: docPath.Key(), args: args, argsKey: encodeArgs(args)}
}

// NewArgDefaultScope builds the Scope for evaluating the default value of
// parameter arg of function fn in the document at docPath.
func NewArgDefaultScope(docPath fqpath.FQPath, fn, arg string) Scope {
	return Scope{kind: argDefaultScope, name: fn, arg: arg, docPath: docPath.Key()}
}

// NewBuiltInScope builds the Scope for a call to the built-in named name,
// bound to args.
func NewBuiltInScope(name string, args map[string]Value) Scope {
	return Scope{kind: builtInScope, name: name, args: args, argsKey: encodeArgs(args)}
}

// Args returns the arguments bound in this scope, or nil for an
// ArgDefault scope (which has none of its own).
func (s Scope) Args() map[string]Value { return s.args }

// cacheKey is the fully comparable form of s used as the actual map key in
// EvalCache, since s.args (a Go map) can't be compared with ==.
type cacheKey struct {
	kind    scopeKind
	name    string
	arg     string
	docPath string
	argsKey string
}

func (s Scope) key() cacheKey {
	return cacheKey{kind: s.kind, name: s.name, arg: s.arg, docPath: s.docPath, argsKey: s.argsKey}
}

func encodeArgs(args map[string]Value) string {
	if len(args) == 0 {
		return ""
	}
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(args[name].cacheKey())
		b.WriteByte(';')
	}
	return b.String()
}
