package placement

import "github.com/klayout-go/arraycore/geom"

// Single is the trivial placement: exactly one instance at zero
// displacement. An Array with no placement descriptor at all is
// equivalent to one carrying a Single; Single is still provided as an
// explicit value so descriptors can always be compared by Kind.
type Single struct{}

var _ Placement = Single{}

func (Single) Kind() Kind { return KindSingle }

func (Single) Begin() Iterator { return &singleIterator{} }

func (Single) BeginTouching(q geom.Box) Iterator {
	if q.Contains(geom.Origin) {
		return &singleIterator{}
	}
	return emptyIterator{}
}

func (Single) Bbox(objBbox geom.Box) geom.Box { return objBbox }

func (Single) RawBbox() geom.Box { return geom.BoundingPoints(geom.Origin) }

func (Single) Size() uint64 { return 1 }

func (Single) Residual() geom.ComplexTrans { return identityResidual }

func (s Single) WithResidual(r geom.ComplexTrans) Placement {
	if r.IsComplex() {
		return SingleComplex{Res: r}
	}
	return s
}

func (s Single) RotateVectors(geom.Rotation) Placement        { return s }
func (s Single) TransformVectors(geom.ComplexTrans) Placement { return s }
func (s Single) InvertVectors(geom.ComplexTrans) Placement    { return s }

func (Single) Equal(other Placement) bool        { _, ok := other.(Single); return ok }
func (Single) Less(other Placement) bool         { return KindSingle < other.Kind() }
func (s Single) FuzzyEqual(other Placement) bool { return s.Equal(other) }
func (s Single) FuzzyLess(other Placement) bool  { return s.Less(other) }

// SingleComplex is one instance at zero displacement carrying a
// magnification/residual-rotation factor not representable as a rigid
// SimpleTrans.
type SingleComplex struct {
	Res geom.ComplexTrans
}

var _ Placement = SingleComplex{}

func (SingleComplex) Kind() Kind { return KindSingleComplex }

func (SingleComplex) Begin() Iterator { return &singleIterator{} }

func (SingleComplex) BeginTouching(q geom.Box) Iterator {
	if q.Contains(geom.Origin) {
		return &singleIterator{}
	}
	return emptyIterator{}
}

func (SingleComplex) Bbox(objBbox geom.Box) geom.Box { return objBbox }

func (SingleComplex) RawBbox() geom.Box { return geom.BoundingPoints(geom.Origin) }

func (SingleComplex) Size() uint64 { return 1 }

func (sc SingleComplex) Residual() geom.ComplexTrans { return sc.Res }

func (sc SingleComplex) WithResidual(r geom.ComplexTrans) Placement {
	if r.IsComplex() {
		sc.Res = r
		return sc
	}
	return Single{}
}

func (sc SingleComplex) RotateVectors(geom.Rotation) Placement        { return sc }
func (sc SingleComplex) TransformVectors(geom.ComplexTrans) Placement { return sc }
func (sc SingleComplex) InvertVectors(geom.ComplexTrans) Placement    { return sc }

func (sc SingleComplex) Equal(other Placement) bool {
	o, ok := other.(SingleComplex)
	return ok && sc.Res.Equal(o.Res)
}

func (sc SingleComplex) Less(other Placement) bool {
	if sc.Kind() != other.Kind() {
		return sc.Kind() < other.Kind()
	}
	o := other.(SingleComplex)
	return sc.Res.Less(o.Res)
}

func (sc SingleComplex) FuzzyEqual(other Placement) bool {
	o, ok := other.(SingleComplex)
	return ok && sc.Res.FuzzyEqual(o.Res)
}

func (sc SingleComplex) FuzzyLess(other Placement) bool {
	if sc.Kind() != other.Kind() {
		return sc.Kind() < other.Kind()
	}
	o := other.(SingleComplex)
	if !fuzzyEqualFloat(sc.Res.Mag, o.Res.Mag) {
		return sc.Res.Mag < o.Res.Mag
	}
	if !fuzzyEqualFloat(sc.Res.RCos, o.Res.RCos) {
		return sc.Res.RCos < o.Res.RCos
	}
	return sc.Res.RSin < o.Res.RSin
}

// singleIterator yields exactly one zero displacement.
type singleIterator struct {
	pos int
}

func (it *singleIterator) Next() bool {
	it.pos++
	return it.pos == 1
}

func (*singleIterator) Disp() geom.Vector { return geom.Vector{} }
func (*singleIterator) IndexA() int64     { return -1 }
func (*singleIterator) IndexB() int64     { return -1 }
func (*singleIterator) QuadID() uint64    { return 0 }
func (*singleIterator) QuadBox() geom.Box { return geom.World }
func (*singleIterator) SkipQuad()         {}
