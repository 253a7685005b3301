// Package kernel defines the geometric collaborator pkg/solids dispatches
// to: boolean operations on concrete solids, plus the handful of primitive
// constructors the built-in registry needs (pkg/eval's Cube). The
// specification treats the actual modeling kernel as external; this package
// supplies a real, minimal implementation (axis-aligned boxes) so the rest
// of the module has something concrete to build and test against, grounded
// on the shapes original_source/src/solids.rs dispatches to
// (truck_shapeops::or/and, Solid::not).
package kernel

import "math"

// Solid is an opaque, concrete piece of geometry. The current
// implementation represents every solid as a finite union of axis-aligned
// boxes, which is closed under the three booleans below and sufficient to
// model Cube and its combinations exactly.
type Solid struct {
	boxes []box
}

type box struct {
	min, max [3]float64
}

// Box returns a single axis-aligned box solid centred at the origin,
// spanning [-size/2, size/2] on each axis. size must be positive on every
// axis.
func Box(size [3]float64) Solid {
	half := [3]float64{size[0] / 2, size[1] / 2, size[2] / 2}
	return Solid{boxes: []box{{
		min: [3]float64{-half[0], -half[1], -half[2]},
		max: [3]float64{half[0], half[1], half[2]},
	}}}
}

// Empty reports whether s contains no volume.
func (s Solid) Empty() bool { return len(s.boxes) == 0 }

// Not computes the complement of s within a large bounding box, per the
// universe/negation behavior pkg/solids needs (negate of a regular solid
// stays regular; the complement of the complement is the original modulo
// the bounding box, which is the accepted approximation this kernel makes
// in place of an unbounded solid representation).
func Not(s Solid, tolerance float64) Solid {
	const bound = 1e6
	universe := box{min: [3]float64{-bound, -bound, -bound}, max: [3]float64{bound, bound, bound}}
	return difference(Solid{boxes: []box{universe}}, s, tolerance)
}

// Or computes the union of two regular solids. Returns (_, false) if the
// result has no volume (callers convert that to the Empty sentinel).
func Or(lhs, rhs Solid, tolerance float64) (Solid, bool) {
	out := Solid{boxes: append(append([]box{}, lhs.boxes...), rhs.boxes...)}
	out = mergeOverlaps(out, tolerance)
	if out.Empty() {
		return Solid{}, false
	}
	return out, true
}

// And computes the intersection of two regular solids. Returns (_, false)
// if the result has no volume.
func And(lhs, rhs Solid, tolerance float64) (Solid, bool) {
	var out []box
	for _, a := range lhs.boxes {
		for _, b := range rhs.boxes {
			if ib, ok := intersectBox(a, b, tolerance); ok {
				out = append(out, ib)
			}
		}
	}
	if len(out) == 0 {
		return Solid{}, false
	}
	return Solid{boxes: out}, true
}

// difference computes lhs minus rhs, splitting each lhs box against each rhs
// box into the (up to six) boxes outside it.
func difference(lhs, rhs Solid, tolerance float64) Solid {
	remaining := lhs.boxes
	for _, cut := range rhs.boxes {
		var next []box
		for _, b := range remaining {
			next = append(next, subtractBox(b, cut, tolerance)...)
		}
		remaining = next
	}
	return Solid{boxes: remaining}
}

// Difference computes lhs minus rhs. Returns (_, false) if the result has no
// volume.
func Difference(lhs, rhs Solid, tolerance float64) (Solid, bool) {
	out := difference(lhs, rhs, tolerance)
	if out.Empty() {
		return Solid{}, false
	}
	return out, true
}

func intersectBox(a, b box, tolerance float64) (box, bool) {
	var out box
	for axis := 0; axis < 3; axis++ {
		lo := math.Max(a.min[axis], b.min[axis])
		hi := math.Min(a.max[axis], b.max[axis])
		if hi-lo <= tolerance {
			return box{}, false
		}
		out.min[axis], out.max[axis] = lo, hi
	}
	return out, true
}

// subtractBox splits b into the boxes of its volume that lie outside cut. A
// box fully covered by cut vanishes; a box disjoint from cut is returned
// unchanged.
func subtractBox(b, cut box, tolerance float64) []box {
	overlap, ok := intersectBox(b, cut, tolerance)
	if !ok {
		return []box{b}
	}

	var out []box
	remaining := b
	for axis := 0; axis < 3; axis++ {
		if overlap.min[axis]-remaining.min[axis] > tolerance {
			slab := remaining
			slab.max[axis] = overlap.min[axis]
			out = append(out, slab)
			remaining.min[axis] = overlap.min[axis]
		}
		if remaining.max[axis]-overlap.max[axis] > tolerance {
			slab := remaining
			slab.min[axis] = overlap.max[axis]
			out = append(out, slab)
			remaining.max[axis] = overlap.max[axis]
		}
	}
	return out
}

// mergeOverlaps drops boxes fully contained in another box in the set, a
// cheap partial canonicalization so repeated unions don't grow without
// bound in the common "union of an already-combined solid with itself"
// case.
func mergeOverlaps(s Solid, tolerance float64) Solid {
	var out []box
	for i, a := range s.boxes {
		contained := false
		for j, b := range s.boxes {
			if i == j {
				continue
			}
			if contains(b, a, tolerance) && (j < i || !contains(a, b, tolerance)) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, a)
		}
	}
	return Solid{boxes: out}
}

func contains(outer, inner box, tolerance float64) bool {
	for axis := 0; axis < 3; axis++ {
		if inner.min[axis] < outer.min[axis]-tolerance || inner.max[axis] > outer.max[axis]+tolerance {
			return false
		}
	}
	return true
}
