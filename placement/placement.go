package placement

import (
	"math"

	"github.com/klayout-go/arraycore/geom"
)

// Kind is the type_tag carried by every placement descriptor: the
// primary key for cross-variant ordering, and the discriminant a
// Repository uses to bucket descriptors by concrete type.
type Kind int

const (
	KindSingle Kind = iota + 1
	KindSingleComplex
	KindRegular
	KindRegularComplex
	KindIterated
	KindIteratedComplex
)

// identityResidual is the residual every non-complex variant reports
// from Residual: no magnification, no residual rotation.
var identityResidual = geom.ComplexTrans{Mag: 1, RCos: 1, RSin: 0}

// Iterator enumerates the instance displacements of a single placement
// descriptor. It is a one-shot, non-restartable sequence; callers that
// need to replay it construct a fresh one from the descriptor.
type Iterator interface {
	// Next advances the iterator and reports whether a displacement is
	// available.
	Next() bool
	// Disp returns the current instance displacement. Valid only after
	// a true-returning Next.
	Disp() geom.Vector
	// IndexA and IndexB return the current row/column index for a
	// Regular or RegularComplex placement, or -1 if the placement is
	// not a regular array.
	IndexA() int64
	IndexB() int64
	// QuadID, QuadBox and SkipQuad delegate to the underlying BoxTree
	// iterator for Iterated/IteratedComplex placements. QuadID returns
	// 0 ("no quad") and QuadBox returns geom.World for every other
	// variant; SkipQuad is then a no-op.
	QuadID() uint64
	QuadBox() geom.Box
	SkipQuad()
}

// Placement is a placement descriptor: the shared contract every
// concrete variant (Single, SingleComplex, Regular, RegularComplex,
// Iterated, IteratedComplex) implements.
type Placement interface {
	Kind() Kind

	// Begin enumerates every instance displacement.
	Begin() Iterator
	// BeginTouching enumerates a superset of instance displacements
	// whose combination with the object's footprint touches q; q is
	// expressed in the placement's own local frame, already reduced by
	// the enclosing array's base transform and object bbox.
	BeginTouching(q geom.Box) Iterator

	// Bbox returns the bounding box of every instance footprint, given
	// the object's bbox already transformed by any residual factor.
	Bbox(objBbox geom.Box) geom.Box
	// RawBbox returns the bbox of the placement's raw displacement
	// points only, ignoring the object's extent.
	RawBbox() geom.Box
	// Size returns the total instance count.
	Size() uint64

	// Residual returns the placement's magnification/residual-rotation
	// factor, or the identity for a non-complex variant.
	Residual() geom.ComplexTrans
	// WithResidual returns a placement carrying r as its residual,
	// preserving this placement's lattice/vector data; promotes a plain
	// variant to its complex sibling when r is non-trivial, and demotes
	// back when r collapses to the identity.
	WithResidual(r geom.ComplexTrans) Placement

	// RotateVectors returns a placement whose internal displacement
	// vectors are rotated (but not scaled) by rot, used when composing
	// a purely rigid transform onto an enclosing array.
	RotateVectors(rot geom.Rotation) Placement
	// TransformVectors returns a placement whose internal displacement
	// vectors are mapped through ct's full linear part (rotation,
	// residual rotation and magnification), used when composing a
	// complex transform onto an enclosing array.
	TransformVectors(ct geom.ComplexTrans) Placement
	// InvertVectors returns a placement whose internal displacement
	// vectors are negated and mapped through inv's full linear part;
	// inv is the already-inverted base (or base+residual) transform.
	InvertVectors(inv geom.ComplexTrans) Placement

	Equal(other Placement) bool
	Less(other Placement) bool
	FuzzyEqual(other Placement) bool
	FuzzyLess(other Placement) bool
}

func toFVector(v geom.Vector) geom.FVector {
	return geom.FVector{X: float64(v.X), Y: float64(v.Y)}
}

func mapVector(ct geom.ComplexTrans, v geom.Vector, negate bool) geom.Vector {
	out := ct.ApplyVector(toFVector(v))
	if negate {
		out = out.Scale(-1)
	}
	return geom.RoundVector(out)
}

func fuzzyEqualFloat(a, b float64) bool {
	return math.Abs(a-b) < geom.Epsilon
}

// Empty returns an iterator that yields no displacements. Array.BeginTouching
// uses this for a query box or object bbox that is empty, before ever
// reaching a descriptor's own BeginTouching.
func Empty() Iterator { return emptyIterator{} }

// emptyIterator yields no displacements; returned by BeginTouching when
// a reduced query box cannot touch any instance.
type emptyIterator struct{}

func (emptyIterator) Next() bool         { return false }
func (emptyIterator) Disp() geom.Vector  { return geom.Vector{} }
func (emptyIterator) IndexA() int64      { return -1 }
func (emptyIterator) IndexB() int64      { return -1 }
func (emptyIterator) QuadID() uint64     { return 0 }
func (emptyIterator) QuadBox() geom.Box  { return geom.World }
func (emptyIterator) SkipQuad()          {}
