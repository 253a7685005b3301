// Package solids implements SolidId and SolidSet: the append-only arena of
// concrete solids and the boolean algebra over it, grounded directly on
// original_source/src/solids.rs (SolidId, SolidSet::{negate,union,
// intersection,difference}).
package solids

import (
	"fmt"

	"github.com/andrewdelmar/funcad/pkg/kernel"
)

// SolidId references a solid, or one of the two algebra sentinels. Empty and
// Universal never index into a SolidSet's underlying slice (I5): every
// algebra law below is defined so the kernel is only invoked when both
// operands are Regular.
type SolidId struct {
	kind  solidKind
	index int
}

type solidKind int

const (
	regular solidKind = iota
	empty
	universal
)

// Empty is the solid containing no volume: the identity element of union
// and the absorbing element of intersection.
var Empty = SolidId{kind: empty}

// Universal is the solid containing all space: the absorbing element of
// union and the identity element of intersection.
var Universal = SolidId{kind: universal}

// Regular wraps an index into a SolidSet's solids slice. Constructed only by
// SolidSet itself; exported so callers can type-switch in error messages.
func Regular(index int) SolidId { return SolidId{kind: regular, index: index} }

// IsRegular reports whether id references a concrete solid.
func (id SolidId) IsRegular() bool { return id.kind == regular }

func (id SolidId) String() string {
	switch id.kind {
	case regular:
		return fmt.Sprintf("ID = %d", id.index)
	case empty:
		return "Empty"
	case universal:
		return "Universal"
	default:
		return "?"
	}
}

// ErrInvalidSolidId is reported by pkg/eval as an error of kind
// InvalidSolidId; it is returned by TryGet when asked to dereference a
// sentinel or an out-of-range index.
type ErrInvalidSolidId struct{ ID SolidId }

func (e *ErrInvalidSolidId) Error() string { return fmt.Sprintf("invalid solid id: %s", e.ID) }

// SolidSet is an append-only arena of concrete solids plus the tolerance
// passed to every kernel call. Its zero value is not usable; use New.
type SolidSet struct {
	solids    []kernel.Solid
	tolerance float64
}

// DefaultTolerance is the geometric fuzz factor used when none is supplied,
// matching the specification's default ε.
const DefaultTolerance = 1e-4

// New returns an empty SolidSet using tolerance for every kernel call.
func New(tolerance float64) *SolidSet {
	return &SolidSet{tolerance: tolerance}
}

// TryGet resolves id to a concrete solid. Only Regular ids succeed.
func (s *SolidSet) TryGet(id SolidId) (kernel.Solid, error) {
	if id.kind != regular || id.index < 0 || id.index >= len(s.solids) {
		return kernel.Solid{}, &ErrInvalidSolidId{ID: id}
	}
	return s.solids[id.index], nil
}

// Push appends a concrete solid and returns its new Regular id.
func (s *SolidSet) Push(solid kernel.Solid) SolidId {
	s.solids = append(s.solids, solid)
	return Regular(len(s.solids) - 1)
}

func (s *SolidSet) pushOrEmpty(solid kernel.Solid, ok bool) SolidId {
	if !ok {
		return Empty
	}
	return s.Push(solid)
}

// Negate computes the complement of id.
func (s *SolidSet) Negate(id SolidId) (SolidId, error) {
	switch id.kind {
	case regular:
		cur, err := s.TryGet(id)
		if err != nil {
			return SolidId{}, err
		}
		return s.Push(kernel.Not(cur, s.tolerance)), nil
	case empty:
		return Universal, nil
	case universal:
		return Empty, nil
	default:
		return SolidId{}, &ErrInvalidSolidId{ID: id}
	}
}

// Union computes lhs ∪ rhs, short-circuiting on the sentinels so the kernel
// is only invoked when both operands are Regular.
func (s *SolidSet) Union(lhs, rhs SolidId) (SolidId, error) {
	switch {
	case lhs.kind == regular && rhs.kind == regular:
		a, err := s.TryGet(lhs)
		if err != nil {
			return SolidId{}, err
		}
		b, err := s.TryGet(rhs)
		if err != nil {
			return SolidId{}, err
		}
		solid, ok := kernel.Or(a, b, s.tolerance)
		return s.pushOrEmpty(solid, ok), nil

	case lhs.kind == empty:
		return rhs, nil
	case rhs.kind == empty:
		return lhs, nil
	case lhs.kind == universal || rhs.kind == universal:
		return Universal, nil
	default:
		return SolidId{}, &ErrInvalidSolidId{ID: lhs}
	}
}

// Intersection computes lhs ∩ rhs.
func (s *SolidSet) Intersection(lhs, rhs SolidId) (SolidId, error) {
	switch {
	case lhs.kind == regular && rhs.kind == regular:
		a, err := s.TryGet(lhs)
		if err != nil {
			return SolidId{}, err
		}
		b, err := s.TryGet(rhs)
		if err != nil {
			return SolidId{}, err
		}
		solid, ok := kernel.And(a, b, s.tolerance)
		return s.pushOrEmpty(solid, ok), nil

	case lhs.kind == empty || rhs.kind == empty:
		return Empty, nil
	case lhs.kind == universal:
		return rhs, nil
	case rhs.kind == universal:
		return lhs, nil
	default:
		return SolidId{}, &ErrInvalidSolidId{ID: lhs}
	}
}

// Difference computes lhs \ rhs.
func (s *SolidSet) Difference(lhs, rhs SolidId) (SolidId, error) {
	switch {
	case lhs.kind == regular && rhs.kind == regular:
		a, err := s.TryGet(lhs)
		if err != nil {
			return SolidId{}, err
		}
		b, err := s.TryGet(rhs)
		if err != nil {
			return SolidId{}, err
		}
		solid, ok := kernel.Difference(a, b, s.tolerance)
		return s.pushOrEmpty(solid, ok), nil

	case lhs.kind == empty:
		return Empty, nil
	case rhs.kind == universal:
		return Empty, nil
	case rhs.kind == empty:
		return lhs, nil
	case lhs.kind == universal:
		return s.Negate(rhs)
	default:
		return SolidId{}, &ErrInvalidSolidId{ID: lhs}
	}
}
