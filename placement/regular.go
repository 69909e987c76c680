package placement

import (
	"math"

	"github.com/klayout-go/arraycore/geom"
)

const maxIndex = math.MaxUint32 - 1

// Regular is a 2D lattice of instances: displacements {i*A + j*B : 0 <=
// i < Amax, 0 <= j < Bmax}.
type Regular struct {
	A, B       geom.Vector
	Amax, Bmax uint32
}

var _ Placement = Regular{}

func (Regular) Kind() Kind { return KindRegular }

func (r Regular) Begin() Iterator {
	if r.Amax == 0 || r.Bmax == 0 {
		return emptyIterator{}
	}
	return newRegularIterator(r.A, r.B, 0, effectiveMax(r.A, r.Amax), 0, effectiveMax(r.B, r.Bmax))
}

func (r Regular) BeginTouching(q geom.Box) Iterator {
	if r.Amax == 0 || r.Bmax == 0 {
		return emptyIterator{}
	}
	amini, amaxi, bmini, bmaxi, empty := latticeRegionQuery(r.A, r.B, r.Amax, r.Bmax, q)
	if empty {
		return emptyIterator{}
	}
	return newRegularIterator(r.A, r.B, amini, amaxi, bmini, bmaxi)
}

func (r Regular) Bbox(objBbox geom.Box) geom.Box {
	if objBbox.Empty() {
		return objBbox
	}
	if r.Amax == 0 || r.Bmax == 0 {
		return geom.Box{}
	}
	lb := r.latticeBox()
	return geom.NewBox(objBbox.Min.Add(lb.Min.Vector()), objBbox.Max.Add(lb.Max.Vector()))
}

func (r Regular) RawBbox() geom.Box { return r.latticeBox() }

// latticeBox returns the bbox of the lattice's four extreme points
// (0, A*(Amax-1), B*(Bmax-1), A*(Amax-1)+B*(Bmax-1)), or an empty box
// when either count is zero.
func (r Regular) latticeBox() geom.Box {
	if r.Amax == 0 || r.Bmax == 0 {
		return geom.Box{}
	}
	ma := r.A.Scale(geom.Coord(r.Amax - 1))
	mb := r.B.Scale(geom.Coord(r.Bmax - 1))
	return geom.BoundingPoints(geom.Origin, geom.Origin.Add(ma), geom.Origin.Add(mb), geom.Origin.Add(ma).Add(mb))
}

func (r Regular) Size() uint64 { return uint64(r.Amax) * uint64(r.Bmax) }

func (Regular) Residual() geom.ComplexTrans { return identityResidual }

func (r Regular) WithResidual(res geom.ComplexTrans) Placement {
	if res.IsComplex() {
		return RegularComplex{A: r.A, B: r.B, Amax: r.Amax, Bmax: r.Bmax, Res: res}
	}
	return r
}

func (r Regular) RotateVectors(rot geom.Rotation) Placement {
	r.A, r.B = rot.Apply(r.A), rot.Apply(r.B)
	return r
}

func (r Regular) TransformVectors(ct geom.ComplexTrans) Placement {
	r.A, r.B = mapVector(ct, r.A, false), mapVector(ct, r.B, false)
	return r
}

func (r Regular) InvertVectors(inv geom.ComplexTrans) Placement {
	r.A, r.B = mapVector(inv, r.A, true), mapVector(inv, r.B, true)
	return r
}

func (r Regular) Equal(other Placement) bool {
	o, ok := other.(Regular)
	return ok && r.A == o.A && r.B == o.B && r.Amax == o.Amax && r.Bmax == o.Bmax
}

func (r Regular) Less(other Placement) bool {
	if r.Kind() != other.Kind() {
		return r.Kind() < other.Kind()
	}
	o := other.(Regular)
	return regularLess(r, o)
}

func (r Regular) FuzzyEqual(other Placement) bool { return r.Equal(other) }
func (r Regular) FuzzyLess(other Placement) bool  { return r.Less(other) }

func regularLess(a, b Regular) bool {
	if a.A.X != b.A.X {
		return a.A.X < b.A.X
	}
	if a.A.Y != b.A.Y {
		return a.A.Y < b.A.Y
	}
	if a.B.X != b.B.X {
		return a.B.X < b.B.X
	}
	if a.B.Y != b.B.Y {
		return a.B.Y < b.B.Y
	}
	if a.Amax != b.Amax {
		return a.Amax < b.Amax
	}
	return a.Bmax < b.Bmax
}

// RegularComplex is Regular with an additional per-instance
// magnification/residual-rotation factor.
type RegularComplex struct {
	A, B       geom.Vector
	Amax, Bmax uint32
	Res        geom.ComplexTrans
}

var _ Placement = RegularComplex{}

func (RegularComplex) Kind() Kind { return KindRegularComplex }

func (rc RegularComplex) plain() Regular {
	return Regular{A: rc.A, B: rc.B, Amax: rc.Amax, Bmax: rc.Bmax}
}

func (rc RegularComplex) Begin() Iterator { return rc.plain().Begin() }

func (rc RegularComplex) BeginTouching(q geom.Box) Iterator { return rc.plain().BeginTouching(q) }

func (rc RegularComplex) Bbox(objBbox geom.Box) geom.Box { return rc.plain().Bbox(objBbox) }

func (rc RegularComplex) RawBbox() geom.Box { return rc.plain().RawBbox() }

func (rc RegularComplex) Size() uint64 { return rc.plain().Size() }

func (rc RegularComplex) Residual() geom.ComplexTrans { return rc.Res }

func (rc RegularComplex) WithResidual(res geom.ComplexTrans) Placement {
	if res.IsComplex() {
		rc.Res = res
		return rc
	}
	return rc.plain()
}

func (rc RegularComplex) RotateVectors(rot geom.Rotation) Placement {
	p := rc.plain().RotateVectors(rot).(Regular)
	rc.A, rc.B = p.A, p.B
	return rc
}

func (rc RegularComplex) TransformVectors(ct geom.ComplexTrans) Placement {
	p := rc.plain().TransformVectors(ct).(Regular)
	rc.A, rc.B = p.A, p.B
	return rc
}

func (rc RegularComplex) InvertVectors(inv geom.ComplexTrans) Placement {
	p := rc.plain().InvertVectors(inv).(Regular)
	rc.A, rc.B = p.A, p.B
	return rc
}

func (rc RegularComplex) Equal(other Placement) bool {
	o, ok := other.(RegularComplex)
	return ok && rc.plain().Equal(o.plain()) && rc.Res.Equal(o.Res)
}

func (rc RegularComplex) Less(other Placement) bool {
	if rc.Kind() != other.Kind() {
		return rc.Kind() < other.Kind()
	}
	o := other.(RegularComplex)
	if !rc.plain().Equal(o.plain()) {
		return regularLess(rc.plain(), o.plain())
	}
	return rc.Res.Less(o.Res)
}

func (rc RegularComplex) FuzzyEqual(other Placement) bool {
	o, ok := other.(RegularComplex)
	return ok && rc.plain().Equal(o.plain()) && rc.Res.FuzzyEqual(o.Res)
}

func (rc RegularComplex) FuzzyLess(other Placement) bool {
	if rc.Kind() != other.Kind() {
		return rc.Kind() < other.Kind()
	}
	o := other.(RegularComplex)
	if !rc.plain().Equal(o.plain()) {
		return regularLess(rc.plain(), o.plain())
	}
	if !fuzzyEqualFloat(rc.Res.Mag, o.Res.Mag) {
		return rc.Res.Mag < o.Res.Mag
	}
	if !fuzzyEqualFloat(rc.Res.RCos, o.Res.RCos) {
		return rc.Res.RCos < o.Res.RCos
	}
	return rc.Res.RSin < o.Res.RSin
}

// effectiveMax returns max unless v is the zero vector, in which case it
// returns 1: a collapsed lattice axis must not multiply-enumerate.
func effectiveMax(v geom.Vector, max uint32) uint32 {
	if v.IsZero() {
		return 1
	}
	return max
}

// latticeRegionQuery projects q into the (a,b) basis and returns the
// minimal integer index rectangle [amini,amaxi) x [bmini,bmaxi) whose
// lattice points i*a+j*b may lie in q.
func latticeRegionQuery(a, b geom.Vector, amax, bmax uint32, q geom.Box) (amini, amaxi, bmini, bmaxi uint32, empty bool) {
	amaxEff := effectiveMax(a, amax)
	bmaxEff := effectiveMax(b, bmax)

	effA, effB := a, b
	if a.IsZero() {
		if !b.IsZero() {
			effA = geom.Vector{X: b.Y, Y: -b.X}
		} else {
			effA = geom.Vector{X: 1, Y: 0}
		}
	}
	if b.IsZero() {
		if !a.IsZero() {
			effB = geom.Vector{X: -a.Y, Y: a.X}
		} else {
			effB = geom.Vector{X: 0, Y: 1}
		}
	}

	det := float64(effA.X)*float64(effB.Y) - float64(effA.Y)*float64(effB.X)
	if math.Abs(det) < 0.5 {
		return 0, amaxEff, 0, bmaxEff, false
	}

	corners := q.Corners()
	amin, amaxD := math.Inf(1), math.Inf(-1)
	bmin, bmaxD := math.Inf(1), math.Inf(-1)
	for _, p := range corners {
		ia := (float64(p.X)*float64(effB.Y) - float64(p.Y)*float64(effB.X)) / det
		ib := (float64(effA.X)*float64(p.Y) - float64(effA.Y)*float64(p.X)) / det
		amin = math.Min(amin, ia)
		amaxD = math.Max(amaxD, ia)
		bmin = math.Min(bmin, ib)
		bmaxD = math.Max(bmaxD, ib)
	}

	amini = boundIndex(amin, amaxEff, false)
	amaxi = boundIndex(amaxD, amaxEff, true)
	bmini = boundIndex(bmin, bmaxEff, false)
	bmaxi = boundIndex(bmaxD, bmaxEff, true)

	empty = amini >= amaxi || bmini >= bmaxi
	return amini, amaxi, bmini, bmaxi, empty
}

// boundIndex rounds a fractional lattice coordinate to an integer index
// bound with epsilon slack, clamped at maxEff and at u32::MAX-1. The
// lower (amini/bmini) bound rounds up from zero; the upper (amaxi/bmaxi)
// bound rounds down and adds one, with its own distinct negative-side
// early-out, kept deliberately separate from the lower bound's path
// rather than unified into one formula.
func boundIndex(v float64, maxEff uint32, upper bool) uint32 {
	const eps = geom.Epsilon
	var r float64
	if !upper {
		if v < eps {
			return 0
		}
		r = math.Ceil(v - eps)
	} else {
		if v < -eps {
			return 0
		}
		r = math.Floor(v+eps) + 1
	}
	if r < 0 {
		r = 0
	}
	if r > float64(maxEff) {
		r = float64(maxEff)
	}
	if r > float64(maxIndex) {
		r = float64(maxIndex)
	}
	return uint32(r)
}

// regularIterator enumerates a Regular placement's displacements in
// row-major order with the A index fastest.
type regularIterator struct {
	a, b                       geom.Vector
	amini, amaxi, bmini, bmaxi uint32
	i, j                       uint32
	started                    bool
}

func newRegularIterator(a, b geom.Vector, amini, amaxi, bmini, bmaxi uint32) *regularIterator {
	return &regularIterator{a: a, b: b, amini: amini, amaxi: amaxi, bmini: bmini, bmaxi: bmaxi}
}

func (it *regularIterator) Next() bool {
	if it.amini >= it.amaxi || it.bmini >= it.bmaxi {
		return false
	}
	if !it.started {
		it.started = true
		it.i, it.j = it.amini, it.bmini
		return true
	}
	it.i++
	if it.i >= it.amaxi {
		it.i = it.amini
		it.j++
	}
	return it.j < it.bmaxi
}

func (it *regularIterator) Disp() geom.Vector {
	return it.a.Scale(geom.Coord(it.i)).Add(it.b.Scale(geom.Coord(it.j)))
}

func (it *regularIterator) IndexA() int64 { return int64(it.i) }
func (it *regularIterator) IndexB() int64 { return int64(it.j) }
func (it *regularIterator) QuadID() uint64    { return 0 }
func (it *regularIterator) QuadBox() geom.Box { return geom.World }
func (it *regularIterator) SkipQuad()         {}
