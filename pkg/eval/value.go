package eval

import (
	"fmt"
	"strconv"

	"github.com/andrewdelmar/funcad/pkg/solids"
)

// ValueKind distinguishes the two runtime value shapes.
type ValueKind int

const (
	NumberKind ValueKind = iota
	SolidKind
)

// NumberTypeName and SolidTypeName are the names used in ArgWrongType and
// BinaryOpWrongTypes diagnostics.
const (
	NumberTypeName = "number"
	SolidTypeName  = "solid"
)

// Value is a FuncCAD runtime value: a finite, non-NaN number (I4) or a
// SolidId. Every field of the struct is comparable, so Value is usable as
// a plain Go value wherever equality or map-value storage is needed; it is
// never used as a map *key* directly (see Scope's canonical args encoding
// for why).
type Value struct {
	kind  ValueKind
	num   float64
	solid solids.SolidId
}

// Number constructs a Number value. Callers must have already validated
// finiteness (pkg/ast's Number nodes and every arithmetic result in this
// package are checked before a Value is built from them).
func Number(v float64) Value { return Value{kind: NumberKind, num: v} }

// Solid constructs a Solid value.
func Solid(id solids.SolidId) Value { return Value{kind: SolidKind, solid: id} }

// IsNumber reports whether v holds a Number.
func (v Value) IsNumber() bool { return v.kind == NumberKind }

// AsNumber returns v's float and true if v is a Number.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != NumberKind {
		return 0, false
	}
	return v.num, true
}

// AsSolid returns v's SolidId and true if v is a Solid.
func (v Value) AsSolid() (solids.SolidId, bool) {
	if v.kind != SolidKind {
		return solids.SolidId{}, false
	}
	return v.solid, true
}

// TypeName returns the diagnostic name of v's runtime type.
func (v Value) TypeName() string {
	switch v.kind {
	case NumberKind:
		return NumberTypeName
	case SolidKind:
		return SolidTypeName
	default:
		return "?"
	}
}

func (v Value) String() string {
	switch v.kind {
	case NumberKind:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case SolidKind:
		return v.solid.String()
	default:
		return "?"
	}
}

// cacheKey returns a string that uniquely determines v's value, used to
// build a Scope's comparable args digest. Numbers use Go's exact hexadecimal
// float rendering (%x) rather than a rounded decimal one, so that distinct
// finite values (and +0 and -0) never collide.
func (v Value) cacheKey() string {
	switch v.kind {
	case NumberKind:
		return fmt.Sprintf("n:%x", v.num)
	case SolidKind:
		return "s:" + v.solid.String()
	default:
		return "?"
	}
}
