package geom

import "math"

// Epsilon is the tolerance used for every comparison of rcos, mag,
// determinants and other real-valued quantities in this module, per the
// spec's instruction to centralize float tolerances in one named
// constant rather than scattering ad hoc thresholds.
const Epsilon = 1e-10

// FVector is a floating point vector, used for the translation
// component of a ComplexTrans (a complex transform may carry an
// arbitrary real displacement even though every integer SimpleTrans in
// this module is exact) and for the points and vectors a ComplexTrans
// maps.
type FVector struct {
	X, Y float64
}

// Add returns the vector sum of p and q.
func (p FVector) Add(q FVector) FVector {
	return FVector{p.X + q.X, p.Y + q.Y}
}

// Scale returns p scaled by f.
func (p FVector) Scale(f float64) FVector {
	return FVector{p.X * f, p.Y * f}
}

// ComplexTrans is a transform that may scale and rotate by an arbitrary
// angle in addition to the eight rigid symmetries: p' =
// Rot.Apply(rotateByAngle(p)*Mag) + Disp, where the continuous rotation
// is given by its cosine and sine (RCos, RSin), not an angle in radians,
// so that composition and inversion never need a trigonometric call.
type ComplexTrans struct {
	Mag        float64
	RCos, RSin float64
	Rot        Rotation
	Disp       FVector
}

// NewComplexTrans builds a ComplexTrans from a magnification, the cosine
// of the residual rotation angle, a sign for its sine (so the same rcos
// can represent +angle or -angle), a fixed symmetry and a displacement.
func NewComplexTrans(mag, rcos float64, sinSign int, rot Rotation, disp FVector) ComplexTrans {
	rsin := math.Sqrt(math.Max(0, 1-rcos*rcos))
	if sinSign < 0 {
		rsin = -rsin
	}
	return ComplexTrans{Mag: mag, RCos: rcos, RSin: rsin, Rot: rot, Disp: disp}
}

// IsComplex reports whether ct differs from a rigid integer transform:
// false only when mag=1 and the residual rotation is zero (rcos=1).
func (ct ComplexTrans) IsComplex() bool {
	return math.Abs(ct.Mag-1) >= Epsilon || math.Abs(ct.RCos-1) >= Epsilon
}

// AsSimple converts ct to a SimpleTrans. It must only be called when
// IsComplex is false and Disp is integral; ct.Mag=1, ct.RCos=1 collapse
// the residual rotation to the identity, leaving only the fixed
// symmetry and displacement.
func (ct ComplexTrans) AsSimple() SimpleTrans {
	if ct.IsComplex() {
		panic("geom: AsSimple called on a genuinely complex transform")
	}
	x, y := ct.Disp.X, ct.Disp.Y
	rx, ry := math.Round(x), math.Round(y)
	if math.Abs(x-rx) >= Epsilon || math.Abs(y-ry) >= Epsilon {
		panic("geom: AsSimple called with a non-integral displacement")
	}
	return SimpleTrans{Rot: ct.Rot, Disp: Vector{Coord(rx), Coord(ry)}}
}

// FromSimple lifts a SimpleTrans to a (non-complex) ComplexTrans.
func FromSimple(t SimpleTrans) ComplexTrans {
	return ComplexTrans{Mag: 1, RCos: 1, RSin: 0, Rot: t.Rot, Disp: FVector{float64(t.Disp.X), float64(t.Disp.Y)}}
}

// Apply returns v transformed by ct.
func (ct ComplexTrans) Apply(v FVector) FVector {
	rotated := FVector{v.X*ct.RCos - v.Y*ct.RSin, v.X*ct.RSin + v.Y*ct.RCos}
	scaled := rotated.Scale(ct.Mag)
	fixed := applyRotationF(ct.Rot, scaled)
	return fixed.Add(ct.Disp)
}

func applyRotationF(r Rotation, v FVector) FVector {
	m := rotationMatrices[r]
	return FVector{float64(m.a)*v.X + float64(m.b)*v.Y, float64(m.c)*v.X + float64(m.d)*v.Y}
}

// ApplyVector returns v transformed by ct's linear part only (rotation,
// residual rotation and magnification), ignoring Disp, since lattice
// vectors are displacements, not points.
func (ct ComplexTrans) ApplyVector(v FVector) FVector {
	return ct.NoDisp().Apply(v)
}

// RoundVector rounds a floating point vector to the nearest integer
// Vector, accepting the grid-snap error a magnifying transform
// introduces into an otherwise-integer lattice.
func RoundVector(v FVector) Vector {
	return Vector{Coord(math.Round(v.X)), Coord(math.Round(v.Y))}
}

// Compose returns the transform equivalent to applying other first,
// then ct: for any v, ct.Compose(other).Apply(v) == ct.Apply(other.Apply(v)).
// Unlike ComposeResidual, both factors may carry an arbitrary fixed
// symmetry and displacement; composing the residual angle through
// other.Rot negates it when other.Rot is a mirror, since conjugating a
// rotation by a reflection reverses its sense.
func (ct ComplexTrans) Compose(other ComplexTrans) ComplexTrans {
	sign := 1.0
	if other.Rot.IsMirror() {
		sign = -1
	}
	rsin1 := ct.RSin * sign
	rcos1 := ct.RCos
	newRCos := rcos1*other.RCos - rsin1*other.RSin
	newRSin := rsin1*other.RCos + rcos1*other.RSin
	newDisp := ct.ApplyVector(other.Disp).Add(ct.Disp)
	return ComplexTrans{
		Mag:  ct.Mag * other.Mag,
		RCos: newRCos,
		RSin: newRSin,
		Rot:  ct.Rot.Compose(other.Rot),
		Disp: newDisp,
	}
}

// Invert returns ct's inverse: ct.Compose(ct.Invert()) is the identity
// complex transform (Mag=1, RCos=1, RSin=0, Rot=R0, Disp=zero). Inverting
// the residual angle negates its sine unless ct.Rot is a mirror, in
// which case the sign flip from inverting the angle and the sign flip
// from conjugating through a mirror cancel.
func (ct ComplexTrans) Invert() ComplexTrans {
	invRot := ct.Rot.Inverse()
	rsin := -ct.RSin
	if ct.Rot.IsMirror() {
		rsin = ct.RSin
	}
	tmp := ComplexTrans{Mag: 1 / ct.Mag, RCos: ct.RCos, RSin: rsin, Rot: invRot}
	invDisp := tmp.ApplyVector(ct.Disp.Scale(-1))
	tmp.Disp = invDisp
	return tmp
}

// RigidRounded returns ct's fixed symmetry and displacement as a
// SimpleTrans, rounding Disp to the nearest integer rather than
// panicking on a non-integral value, as AsSimple does. Used when
// recovering a new rigid base from a transform or inversion that mixed
// in a magnification or residual rotation, where the original source
// accepts the resulting grid-snap error.
func (ct ComplexTrans) RigidRounded() SimpleTrans {
	return SimpleTrans{Rot: ct.Rot, Disp: RoundVector(ct.Disp)}
}

// ApplyBox returns the box enclosing ct applied to every corner of b.
func (ct ComplexTrans) ApplyBox(b Box) FBox {
	c := b.Corners()
	out := FBox{Min: FVector{math.Inf(1), math.Inf(1)}, Max: FVector{math.Inf(-1), math.Inf(-1)}}
	for _, p := range c {
		q := ct.Apply(FVector{float64(p.X), float64(p.Y)})
		out.Min.X = math.Min(out.Min.X, q.X)
		out.Min.Y = math.Min(out.Min.Y, q.Y)
		out.Max.X = math.Max(out.Max.X, q.X)
		out.Max.Y = math.Max(out.Max.Y, q.Y)
	}
	return out
}

// NoDisp returns ct with its displacement zeroed, used to apply just the
// linear (rotate+scale) part of a complex transform to a bounding box.
func (ct ComplexTrans) NoDisp() ComplexTrans {
	ct.Disp = FVector{}
	return ct
}

// Residual returns the "pure" part of ct: its magnification and residual
// rotation with the fixed symmetry and displacement stripped, i.e. ct
// decomposed as Rigid().Compose(ct.Residual()) where Rigid is
// SimpleTrans{ct.Rot, round(ct.Disp)}.
func (ct ComplexTrans) Residual() ComplexTrans {
	return ComplexTrans{Mag: ct.Mag, RCos: ct.RCos, RSin: ct.RSin, Rot: R0}
}

// Rigid returns the rigid (SimpleTrans) part of ct: its fixed symmetry
// and displacement, ignoring magnification and residual rotation. Panics
// if Disp is not integral, mirroring AsSimple.
func (ct ComplexTrans) Rigid() SimpleTrans {
	return ComplexTrans{Mag: 1, RCos: 1, RSin: 0, Rot: ct.Rot, Disp: ct.Disp}.AsSimple()
}

// ComposeResidual composes two "pure" complex factors (Rot=R0,
// Disp=zero), as produced by Residual: both are rotations about the
// origin, so composition order does not matter and amounts to complex
// multiplication of (RCos,RSin) as unit complex numbers and multiplying
// magnifications.
func (ct ComplexTrans) ComposeResidual(other ComplexTrans) ComplexTrans {
	return ComplexTrans{
		Mag:  ct.Mag * other.Mag,
		RCos: ct.RCos*other.RCos - ct.RSin*other.RSin,
		RSin: ct.RSin*other.RCos + ct.RCos*other.RSin,
		Rot:  R0,
	}
}

// ConjugateByRotationParity returns ct's residual rotation conjugated by
// a rigid rotation of the given parity: proper rotations (mirror=false)
// commute with any rotation about the same center and leave ct
// unchanged; an improper rotation (a mirror, mirror=true) negates the
// residual angle. ct must already be a pure residual (Rot=R0, zero
// Disp), as produced by Residual.
func (ct ComplexTrans) ConjugateByRotationParity(mirror bool) ComplexTrans {
	if !mirror {
		return ct
	}
	ct.RSin = -ct.RSin
	return ct
}

// Equal reports whether ct and other are exactly equal.
func (ct ComplexTrans) Equal(other ComplexTrans) bool {
	return ct.Mag == other.Mag && ct.RCos == other.RCos && ct.RSin == other.RSin &&
		ct.Rot == other.Rot && ct.Disp == other.Disp
}

// FuzzyEqual reports whether ct and other are equal within Epsilon.
func (ct ComplexTrans) FuzzyEqual(other ComplexTrans) bool {
	return ct.Rot == other.Rot &&
		math.Abs(ct.Mag-other.Mag) < Epsilon &&
		math.Abs(ct.RCos-other.RCos) < Epsilon &&
		math.Abs(ct.RSin-other.RSin) < Epsilon &&
		math.Abs(ct.Disp.X-other.Disp.X) < Epsilon &&
		math.Abs(ct.Disp.Y-other.Disp.Y) < Epsilon
}

// Less is a strict weak order over ComplexTrans, used for repository
// bucket ordering of complex descriptors.
func (ct ComplexTrans) Less(other ComplexTrans) bool {
	if ct.Rot != other.Rot {
		return ct.Rot < other.Rot
	}
	if ct.Mag != other.Mag {
		return ct.Mag < other.Mag
	}
	if ct.RCos != other.RCos {
		return ct.RCos < other.RCos
	}
	if ct.RSin != other.RSin {
		return ct.RSin < other.RSin
	}
	if ct.Disp.X != other.Disp.X {
		return ct.Disp.X < other.Disp.X
	}
	return ct.Disp.Y < other.Disp.Y
}

// FBox is a floating point axis-aligned box, used only as the
// intermediate result of transforming an integer Box by a ComplexTrans.
type FBox struct {
	Min, Max FVector
}

// Round returns the smallest integer Box enclosing fb.
func (fb FBox) Round() Box {
	return Box{
		Point{Coord(math.Floor(fb.Min.X)), Coord(math.Floor(fb.Min.Y))},
		Point{Coord(math.Ceil(fb.Max.X)), Coord(math.Ceil(fb.Max.Y))},
	}
}
