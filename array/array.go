package array

import (
	"unsafe"

	"github.com/klayout-go/arraycore/geom"
	"github.com/klayout-go/arraycore/memstat"
	"github.com/klayout-go/arraycore/placement"
	"github.com/klayout-go/arraycore/repo"
)

// Array holds an object, a rigid base transform, and an optional
// placement descriptor that repeats the object across many instances.
// Obj is constrained to comparable so Equal/Less can compare it
// directly, the same way the object-equality half of spec's "objects
// equal ∧ base transforms equal ∧ ..." ordering is defined.
//
// The descriptor is either exclusively owned (owned != nil) or
// interned in a Repository (shared.Valid()); at most one of the two
// holds at a time. Neither set means the Array is equivalent to one
// carrying a placement.Single, matching the "descriptor pointer is
// None" invariant.
type Array[Obj comparable] struct {
	Object Obj
	Base   geom.SimpleTrans

	owned  placement.Placement
	shared repo.Handle
}

// descriptor returns the effective placement descriptor, substituting
// placement.Single{} when the Array carries neither an owned nor a
// repository-shared one.
func (a Array[Obj]) descriptor() placement.Placement {
	if a.owned != nil {
		return a.owned
	}
	if a.shared.Valid() {
		return a.shared.Placement()
	}
	return placement.Single{}
}

// IsRepositoryOwned reports whether a's descriptor is a borrow from a
// Repository rather than an exclusively owned value.
func (a Array[Obj]) IsRepositoryOwned() bool { return a.shared.Valid() }

// build constructs an Array from a descriptor, collapsing a trivial
// (Single-kind) descriptor to the "no descriptor" representation and
// interning into r when r is non-nil, the collapsed form of the
// source's "sibling constructor taking &mut Repository".
func build[Obj comparable](object Obj, base geom.SimpleTrans, desc placement.Placement, r *repo.Repository) Array[Obj] {
	if desc == nil || desc.Kind() == placement.KindSingle {
		return Array[Obj]{Object: object, Base: base}
	}
	if r != nil {
		return Array[Obj]{Object: object, Base: base, shared: r.Intern(desc)}
	}
	return Array[Obj]{Object: object, Base: base, owned: desc}
}

// NewSingle returns an Array placing object once, at zero displacement.
func NewSingle[Obj comparable](object Obj, base geom.SimpleTrans) Array[Obj] {
	return Array[Obj]{Object: object, Base: base}
}

// NewSingleComplex returns a single-instance Array carrying a
// magnification/residual-rotation factor, collapsing to NewSingle's
// representation when res is not actually complex. A non-nil r interns
// the descriptor instead of owning it.
func NewSingleComplex[Obj comparable](object Obj, base geom.SimpleTrans, res geom.ComplexTrans, r *repo.Repository) Array[Obj] {
	desc := placement.Single{}.WithResidual(res)
	return build(object, base, desc, r)
}

// NewRegular returns an Array placing object on the lattice {i*a+j*b :
// 0<=i<amax, 0<=j<bmax}.
func NewRegular[Obj comparable](object Obj, base geom.SimpleTrans, a, b geom.Vector, amax, bmax uint32, r *repo.Repository) Array[Obj] {
	desc := placement.Regular{A: a, B: b, Amax: amax, Bmax: bmax}
	return build(object, base, desc, r)
}

// NewRegularComplex is NewRegular plus a per-instance
// magnification/residual-rotation factor, collapsing to Regular when
// res is not actually complex.
func NewRegularComplex[Obj comparable](object Obj, base geom.SimpleTrans, a, b geom.Vector, amax, bmax uint32, res geom.ComplexTrans, r *repo.Repository) Array[Obj] {
	desc := placement.Regular{A: a, B: b, Amax: amax, Bmax: bmax}.WithResidual(res)
	return build(object, base, desc, r)
}

// NewIterated returns an Array placing object at each of vectors.
func NewIterated[Obj comparable](object Obj, base geom.SimpleTrans, vectors []geom.Vector, r *repo.Repository) Array[Obj] {
	desc := placement.NewIterated(vectors)
	return build(object, base, desc, r)
}

// NewIteratedComplex is NewIterated plus a residual
// magnification/residual-rotation factor, collapsing to Iterated when
// res is not actually complex.
func NewIteratedComplex[Obj comparable](object Obj, base geom.SimpleTrans, vectors []geom.Vector, res geom.ComplexTrans, r *repo.Repository) Array[Obj] {
	desc := placement.NewIterated(vectors).WithResidual(res)
	return build(object, base, desc, r)
}

// Begin enumerates every instance of a, in the order the descriptor
// defines (row-major A-fastest for Regular/RegularComplex, the spatial
// index's canonical order for Iterated/IteratedComplex, one element for
// Single/SingleComplex).
func (a Array[Obj]) Begin() *Iterator[Obj] {
	d := a.descriptor()
	return &Iterator[Obj]{base: a.Base, res: d.Residual(), it: d.Begin()}
}

// BeginTouching enumerates a superset of instances whose object
// footprint touches q, per spec §4.4: reduce q by the object bbox
// (transformed by the residual factor, then by the base rotation — the
// same Rot_base∘res order Bbox and Iterator.Trans use) and the base
// displacement, then delegate the reduced query to the descriptor.
func (a Array[Obj]) BeginTouching(q geom.Box, boxConvert func(Obj) geom.Box) *Iterator[Obj] {
	d := a.descriptor()
	res := d.Residual()

	if q.Empty() {
		return &Iterator[Obj]{base: a.Base, res: res, it: placement.Empty()}
	}
	if q.IsWorld() {
		return a.Begin()
	}

	objBbox := boxConvert(a.Object)
	if objBbox.Empty() {
		return &Iterator[Obj]{base: a.Base, res: res, it: placement.Empty()}
	}

	ob := objBbox
	if res.IsComplex() {
		ob = res.NoDisp().ApplyBox(ob).Round()
	}
	ob = geom.SimpleTrans{Rot: a.Base.Rot}.ApplyBox(ob)

	d2 := a.Base.Disp
	reducedMin := q.Min.Add(ob.Max.Vector().Add(d2).Neg())
	reducedMax := q.Max.Add(ob.Min.Vector().Add(d2).Neg())
	qPrime := geom.NewBox(reducedMin, reducedMax)

	return &Iterator[Obj]{base: a.Base, res: res, it: d.BeginTouching(qPrime)}
}

// Bbox returns the bounding box of every instance's footprint, given
// boxConvert to obtain the object's own bbox.
func (a Array[Obj]) Bbox(boxConvert func(Obj) geom.Box) geom.Box {
	objBbox := boxConvert(a.Object)
	if objBbox.Empty() {
		return objBbox
	}
	d := a.descriptor()
	res := d.Residual()
	if res.IsComplex() {
		objBbox = res.ApplyBox(objBbox).Round()
	}
	objBbox = a.Base.ApplyBox(objBbox)
	return d.Bbox(objBbox)
}

// RawBbox returns the bbox of the placement's displacement points only,
// ignoring the object's extent, under the base displacement. Several
// Arrays sharing an object can Union their RawBbox results and later
// reconstruct a full bbox with BboxFromRawBbox, without re-enumerating
// instances or re-fetching the object's bbox each time.
//
// Zero instances is distinguished from a single instance at the origin
// by the descriptor's own Size, not by Box.Empty on the result:
// BoundingPoints collapses a lone point to a degenerate (Min==Max) box,
// which Box.Empty reports exactly like a genuinely empty one, so a
// descriptor with Size 1 at the origin must not be mistaken for one
// with Size 0.
func (a Array[Obj]) RawBbox() geom.Box {
	d := a.descriptor()
	if d.Size() == 0 {
		return geom.Box{}
	}
	return d.RawBbox().Add(a.Base.Disp)
}

// BboxFromRawBbox reconstructs a full bbox from a previously computed
// (or accumulated) RawBbox value rb, without asking the descriptor to
// recompute its own raw extent. As in RawBbox, emptiness is decided by
// the descriptor's Size, not by rb.Empty, so a one-instance array's
// degenerate-point rb is still combined with the object's bbox instead
// of being discarded.
func (a Array[Obj]) BboxFromRawBbox(rb geom.Box, boxConvert func(Obj) geom.Box) geom.Box {
	objBbox := boxConvert(a.Object)
	if objBbox.Empty() {
		return objBbox
	}
	d := a.descriptor()
	if d.Size() == 0 {
		return geom.Box{}
	}
	res := d.Residual()
	if res.IsComplex() {
		objBbox = res.ApplyBox(objBbox).Round()
	}
	objBbox = a.Base.ApplyBox(objBbox)
	pure := rb.Add(a.Base.Disp.Neg())
	return geom.NewBox(objBbox.Min.Add(pure.Min.Vector()), objBbox.Max.Add(pure.Max.Vector()))
}

// withOwned returns a new Array with the given base and descriptor,
// always exclusively owned (never re-interned), the "detach from the
// repository" half of invert/transform's contract.
func (a Array[Obj]) withOwned(base geom.SimpleTrans, desc placement.Placement) Array[Obj] {
	if desc == nil || desc.Kind() == placement.KindSingle {
		return Array[Obj]{Object: a.Object, Base: base}
	}
	return Array[Obj]{Object: a.Object, Base: base, owned: desc}
}

// Invert returns an Array such that, for every instance transform t
// enumerated from a, the corresponding instance transform from the
// result composes with t to the identity on any fixed point. Always
// detaches from a's repository (the result is exclusively owned), per
// spec §4.4's invert contract.
func (a Array[Obj]) Invert() Array[Obj] {
	d := a.descriptor()
	full := geom.FromSimple(a.Base).Compose(d.Residual())
	inv := full.Invert()

	newBase := inv.RigidRounded()
	newDesc := d.InvertVectors(inv).WithResidual(inv.Residual())
	return a.withOwned(newBase, newDesc)
}

// TransformSimple returns the Array describing t∘a for a rigid t: the
// base transform absorbs t and the descriptor's lattice vectors rotate
// by t's rotation. Always legal (the "Simple" row of spec §4.4's
// compatibility table is "ok" in every column), never promotes or
// demotes the descriptor's variant. A non-nil r interns the result.
func (a Array[Obj]) TransformSimple(t geom.SimpleTrans, r *repo.Repository) Array[Obj] {
	d := a.descriptor()
	newBase := t.Compose(a.Base)
	newDesc := d.RotateVectors(t.Rot)
	return build(a.Object, newBase, newDesc, r)
}

// TransformComplex returns the Array describing t∘a for a complex t,
// folding t's magnification/residual rotation into the descriptor's
// residual factor (promoting Single→SingleComplex, Regular→
// RegularComplex, Iterated→IteratedComplex as needed), conjugating the
// existing residual by t and the base's rotation through ComplexTrans
// composition. A non-nil r interns the result.
func (a Array[Obj]) TransformComplex(t geom.ComplexTrans, r *repo.Repository) Array[Obj] {
	d := a.descriptor()
	full := geom.FromSimple(a.Base).Compose(d.Residual())
	newFull := t.Compose(full)

	newBase := newFull.RigidRounded()
	newDesc := d.TransformVectors(t).WithResidual(newFull.Residual())
	return build(a.Object, newBase, newDesc, r)
}

// TransformInto returns the Array describing t∘a∘t⁻¹: a valid in a
// coordinate system transformed by t.
func (a Array[Obj]) TransformInto(t geom.ComplexTrans, r *repo.Repository) Array[Obj] {
	d := a.descriptor()
	full := geom.FromSimple(a.Base).Compose(d.Residual())
	newFull := t.Compose(full).Compose(t.Invert())

	newBase := newFull.RigidRounded()
	newDesc := d.TransformVectors(t).WithResidual(newFull.Residual())
	return build(a.Object, newBase, newDesc, r)
}

// Equal reports whether a and other have equal objects, equal base
// transforms, and exactly equal descriptors (by Kind then Equal).
func (a Array[Obj]) Equal(other Array[Obj]) bool {
	if a.Object != other.Object || !a.Base.Equal(other.Base) {
		return false
	}
	ad, od := a.descriptor(), other.descriptor()
	return ad.Kind() == od.Kind() && ad.Equal(od)
}

// FuzzyEqual is Equal with epsilon tolerance on the base transform's
// real-valued fields (none, since SimpleTrans is exact) and the
// descriptor's residual comparisons.
func (a Array[Obj]) FuzzyEqual(other Array[Obj]) bool {
	if a.Object != other.Object || !a.Base.Equal(other.Base) {
		return false
	}
	ad, od := a.descriptor(), other.descriptor()
	return ad.Kind() == od.Kind() && ad.FuzzyEqual(od)
}

// Less is a strict weak order over Array values, keyed by object (via
// objLess, since Go gives no total order over an arbitrary comparable
// type), then base transform, then descriptor Kind, then the
// descriptor's own Less.
func (a Array[Obj]) Less(other Array[Obj], objLess func(x, y Obj) bool) bool {
	if a.Object != other.Object {
		return objLess(a.Object, other.Object)
	}
	if !a.Base.Equal(other.Base) {
		return a.Base.Less(other.Base)
	}
	ad, od := a.descriptor(), other.descriptor()
	if ad.Kind() != od.Kind() {
		return ad.Kind() < od.Kind()
	}
	return ad.Less(od)
}

// FuzzyLess is Less using the descriptor's FuzzyLess for the final,
// real-valued-residual comparison.
func (a Array[Obj]) FuzzyLess(other Array[Obj], objLess func(x, y Obj) bool) bool {
	if a.Object != other.Object {
		return objLess(a.Object, other.Object)
	}
	if !a.Base.Equal(other.Base) {
		return a.Base.Less(other.Base)
	}
	ad, od := a.descriptor(), other.descriptor()
	if ad.Kind() != od.Kind() {
		return ad.Kind() < od.Kind()
	}
	return ad.FuzzyLess(od)
}

// RawEqual reports whether a and other share the same object and the
// same rotation/complex-matrix part of their transform, ignoring the
// base displacement entirely. Used by consumers (layoutstore) to group
// arrays for batched update.
func (a Array[Obj]) RawEqual(other Array[Obj]) bool {
	return a.Object == other.Object &&
		a.Base.Rot == other.Base.Rot &&
		a.descriptor().Residual().Equal(other.descriptor().Residual())
}

// RawLess is RawEqual's companion strict weak order, keyed by object
// (via objLess), then base rotation, then residual factor.
func (a Array[Obj]) RawLess(other Array[Obj], objLess func(x, y Obj) bool) bool {
	if a.Object != other.Object {
		return objLess(a.Object, other.Object)
	}
	if a.Base.Rot != other.Base.Rot {
		return a.Base.Rot < other.Base.Rot
	}
	return a.descriptor().Residual().Less(other.descriptor().Residual())
}

// IsComplex reports whether a's descriptor carries a non-trivial
// magnification/residual-rotation factor.
func (a Array[Obj]) IsComplex() bool { return a.descriptor().Residual().IsComplex() }

// ComplexTrans returns a's residual magnification/rotation factor, the
// identity for a non-complex descriptor. Part of the Serializer
// observer contract of spec §6.2.
func (a Array[Obj]) ComplexTrans() geom.ComplexTrans { return a.descriptor().Residual() }

// IsRegularArray reports whether a's descriptor is Regular or
// RegularComplex, returning its lattice vectors and counts if so. Part
// of the Serializer observer contract of spec §6.2.
func (a Array[Obj]) IsRegularArray() (av, bv geom.Vector, amax, bmax uint32, ok bool) {
	switch d := a.descriptor().(type) {
	case placement.Regular:
		return d.A, d.B, d.Amax, d.Bmax, true
	case placement.RegularComplex:
		return d.A, d.B, d.Amax, d.Bmax, true
	default:
		return geom.Vector{}, geom.Vector{}, 0, 0, false
	}
}

// IsIteratedArray reports whether a's descriptor is Iterated or
// IteratedComplex, returning its displacement vectors if so. Part of
// the Serializer observer contract of spec §6.2.
func (a Array[Obj]) IsIteratedArray() (v []geom.Vector, ok bool) {
	switch d := a.descriptor().(type) {
	case placement.Iterated:
		return d.V, true
	case placement.IteratedComplex:
		return d.V, true
	default:
		return nil, false
	}
}

// Front returns a's base transform, the Serializer observer contract's
// name for the same field (spec §6.2 front()).
func (a Array[Obj]) Front() geom.SimpleTrans { return a.Base }

// Size returns the total instance count.
func (a Array[Obj]) Size() uint64 { return a.descriptor().Size() }

// MemStat reports a's own footprint, plus that of an exclusively owned
// descriptor, to coll. A repository-shared descriptor is not
// recursed into here: the Repository itself accounts for it exactly
// once, per spec §6.3.
func (a Array[Obj]) MemStat(coll memstat.Collector, purpose memstat.Purpose, category memstat.Category, noSelf bool, parent any) {
	selfSize := int64(unsafe.Sizeof(a))
	total := selfSize
	if a.owned != nil {
		total += int64(unsafe.Sizeof(a.owned))
	}
	if !noSelf {
		coll.Add(memstat.KindOf(a), a, parent, selfSize, total, purpose, category)
	}
	if a.owned != nil {
		size := int64(unsafe.Sizeof(a.owned))
		coll.Add(memstat.KindOf(a.owned), a.owned, a, size, size, purpose, category)
	}
}
