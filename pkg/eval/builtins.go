package eval

import (
	"math"

	"github.com/andrewdelmar/funcad/pkg/kernel"
	"github.com/andrewdelmar/funcad/pkg/solids"
)

// builtInArgDef is one parameter of a built-in, with its default value (if
// any). Grounded on original_source/src/eval/builtins/mod.rs's
// BuiltInArgDef.
type builtInArgDef struct {
	name   string
	def    Value
	hasDef bool
}

// builtIn is an intrinsic function implemented by the host rather than the
// language: it lives only in this registry, never as an AST node (per the
// "name resolution without inheritance" design note).
type builtIn struct {
	args []builtInArgDef
	eval func(s *SolidsOwner, args map[string]Value, ctx *Context) (Value, *Error)
}

// SolidsOwner is the mutable solid store a built-in may push new geometry
// into. Exported so pkg/eval's exported evaluation entry points need not
// expose the rest of EvalCache's internals.
type SolidsOwner struct {
	set       *solids.SolidSet
	tolerance float64
}

func lookupBuiltIn(name string) (builtIn, bool) {
	switch name {
	case "Cube":
		return builtInCube, true
	case "Sin":
		return builtInSin, true
	case "Cos":
		return builtInCos, true
	case "Tan":
		return builtInTan, true
	default:
		return builtIn{}, false
	}
}

func numArg(name string, args map[string]Value, ctx *Context) (float64, *Error) {
	val, ok := args[name]
	if !ok {
		return 0, ctx.Err(ArgNotFound, "argument %q not found", name)
	}
	num, ok := val.AsNumber()
	if !ok {
		return 0, ctx.Err(ArgWrongType, "argument %q: expected %s, got %s", name, NumberTypeName, val.TypeName())
	}
	return num, nil
}

var builtInCube = builtIn{
	args: []builtInArgDef{{name: "size", def: Number(1), hasDef: true}},
	eval: func(s *SolidsOwner, args map[string]Value, ctx *Context) (Value, *Error) {
		size, err := numArg("size", args, ctx)
		if err != nil {
			return Value{}, err
		}
		id := s.set.Push(kernel.Box([3]float64{size, size, size}))
		return Solid(id), nil
	},
}

var builtInSin = builtIn{
	args: []builtInArgDef{{name: "angle"}},
	eval: func(s *SolidsOwner, args map[string]Value, ctx *Context) (Value, *Error) {
		angle, err := numArg("angle", args, ctx)
		if err != nil {
			return Value{}, err
		}
		return Number(math.Sin(angle * math.Pi / 180)), nil
	},
}

var builtInCos = builtIn{
	args: []builtInArgDef{{name: "angle"}},
	eval: func(s *SolidsOwner, args map[string]Value, ctx *Context) (Value, *Error) {
		angle, err := numArg("angle", args, ctx)
		if err != nil {
			return Value{}, err
		}
		return Number(math.Cos(angle * math.Pi / 180)), nil
	},
}

var builtInTan = builtIn{
	args: []builtInArgDef{{name: "angle"}},
	eval: func(s *SolidsOwner, args map[string]Value, ctx *Context) (Value, *Error) {
		angle, err := numArg("angle", args, ctx)
		if err != nil {
			return Value{}, err
		}
		// tan(radians) never actually overflows since pi/2 is irrational, but
		// FuncCAD operates in degrees, where Tan(90) must be undefined.
		rem := math.Mod(angle, 90)
		if rem < 0 {
			rem += 90
		}
		if math.Abs(rem) < s.tolerance {
			return Value{}, ctx.Err(NumExprNotFinite, "Tan(%s) is undefined", formatDegrees(angle))
		}
		return Number(math.Tan(angle * math.Pi / 180)), nil
	},
}

func formatDegrees(angle float64) string {
	return Number(angle).String()
}
