package placement

import (
	"github.com/klayout-go/arraycore/boxtree"
	"github.com/klayout-go/arraycore/geom"
)

// Iterated is a finite, explicit set of instance displacements, stored
// in a spatial index for region queries. V is kept in the index's
// canonical order rather than insertion order, so that two Iterated
// values built from the same set of displacements (in any order)
// compare equal.
type Iterated struct {
	V    []geom.Vector
	Box  geom.Box
	tree *boxtree.BoxTree[int]
}

var _ Placement = Iterated{}

// pointBox returns the smallest non-empty half-open box containing
// exactly the integer point p, used to index a bare displacement point
// in the boxtree, which otherwise only stores real boxed values.
func pointBox(p geom.Point) geom.Box {
	return geom.NewBox(p, p.Add(geom.Vector{X: 1, Y: 1}))
}

// NewIterated builds an Iterated from a set of displacement vectors,
// canonicalizing their order through the spatial index.
func NewIterated(vectors []geom.Vector) Iterated {
	tree := boxtree.New[int]()
	for i, v := range vectors {
		tree.Insert(pointBox(geom.Origin.Add(v)), i)
	}
	tree.SortStable()

	ordered := make([]geom.Vector, 0, len(vectors))
	it := tree.Begin()
	for it.Next() {
		ordered = append(ordered, vectors[it.At().Value])
	}

	// Re-key the index to the now-canonical order so At().Value indexes
	// directly into ordered.
	final := boxtree.New[int]()
	for i, v := range ordered {
		final.Insert(pointBox(geom.Origin.Add(v)), i)
	}
	final.SortStable()

	box := geom.Box{}
	if len(ordered) > 0 {
		pts := make([]geom.Point, len(ordered))
		for i, v := range ordered {
			pts[i] = geom.Origin.Add(v)
		}
		box = geom.BoundingPoints(pts...)
	}

	return Iterated{V: ordered, Box: box, tree: final}
}

func (Iterated) Kind() Kind { return KindIterated }

func (p Iterated) Begin() Iterator { return &vectorIterator{v: p.V} }

func (p Iterated) BeginTouching(q geom.Box) Iterator {
	if len(p.V) == 0 {
		return emptyIterator{}
	}
	return &iteratedTouchingIterator{v: p.V, it: p.tree.BeginTouching(q)}
}

func (p Iterated) Bbox(objBbox geom.Box) geom.Box {
	if objBbox.Empty() {
		return objBbox
	}
	if len(p.V) == 0 {
		return geom.Box{}
	}
	return geom.NewBox(objBbox.Min.Add(p.Box.Min.Vector()), objBbox.Max.Add(p.Box.Max.Vector()))
}

func (p Iterated) RawBbox() geom.Box { return p.Box }

func (p Iterated) Size() uint64 { return uint64(len(p.V)) }

func (Iterated) Residual() geom.ComplexTrans { return identityResidual }

func (p Iterated) WithResidual(res geom.ComplexTrans) Placement {
	if res.IsComplex() {
		return IteratedComplex{V: p.V, Box: p.Box, tree: p.tree, Res: res}
	}
	return p
}

func (p Iterated) RotateVectors(rot geom.Rotation) Placement {
	out := make([]geom.Vector, len(p.V))
	for i, v := range p.V {
		out[i] = rot.Apply(v)
	}
	return NewIterated(out)
}

func (p Iterated) TransformVectors(ct geom.ComplexTrans) Placement {
	out := make([]geom.Vector, len(p.V))
	for i, v := range p.V {
		out[i] = mapVector(ct, v, false)
	}
	return NewIterated(out)
}

func (p Iterated) InvertVectors(inv geom.ComplexTrans) Placement {
	out := make([]geom.Vector, len(p.V))
	for i, v := range p.V {
		out[i] = mapVector(inv, v, true)
	}
	return NewIterated(out)
}

func (p Iterated) Equal(other Placement) bool {
	o, ok := other.(Iterated)
	return ok && vectorsEqual(p.V, o.V)
}

func (p Iterated) Less(other Placement) bool {
	if p.Kind() != other.Kind() {
		return p.Kind() < other.Kind()
	}
	o := other.(Iterated)
	return vectorsLess(p.V, o.V)
}

func (p Iterated) FuzzyEqual(other Placement) bool { return p.Equal(other) }
func (p Iterated) FuzzyLess(other Placement) bool  { return p.Less(other) }

func vectorsEqual(a, b []geom.Vector) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func vectorLess(a, b geom.Vector) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func vectorsLess(a, b []geom.Vector) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return vectorLess(a[i], b[i])
		}
	}
	return len(a) < len(b)
}

// IteratedComplex is Iterated with an additional
// magnification/residual-rotation factor.
type IteratedComplex struct {
	V    []geom.Vector
	Box  geom.Box
	tree *boxtree.BoxTree[int]
	Res  geom.ComplexTrans
}

var _ Placement = IteratedComplex{}

func (IteratedComplex) Kind() Kind { return KindIteratedComplex }

func (p IteratedComplex) plain() Iterated { return Iterated{V: p.V, Box: p.Box, tree: p.tree} }

func (p IteratedComplex) Begin() Iterator                    { return p.plain().Begin() }
func (p IteratedComplex) BeginTouching(q geom.Box) Iterator  { return p.plain().BeginTouching(q) }
func (p IteratedComplex) Bbox(objBbox geom.Box) geom.Box     { return p.plain().Bbox(objBbox) }
func (p IteratedComplex) RawBbox() geom.Box                  { return p.plain().RawBbox() }
func (p IteratedComplex) Size() uint64                       { return p.plain().Size() }

func (p IteratedComplex) Residual() geom.ComplexTrans { return p.Res }

func (p IteratedComplex) WithResidual(res geom.ComplexTrans) Placement {
	if res.IsComplex() {
		p.Res = res
		return p
	}
	return p.plain()
}

func (p IteratedComplex) RotateVectors(rot geom.Rotation) Placement {
	np := p.plain().RotateVectors(rot).(Iterated)
	p.V, p.Box, p.tree = np.V, np.Box, np.tree
	return p
}

func (p IteratedComplex) TransformVectors(ct geom.ComplexTrans) Placement {
	np := p.plain().TransformVectors(ct).(Iterated)
	p.V, p.Box, p.tree = np.V, np.Box, np.tree
	return p
}

func (p IteratedComplex) InvertVectors(inv geom.ComplexTrans) Placement {
	np := p.plain().InvertVectors(inv).(Iterated)
	p.V, p.Box, p.tree = np.V, np.Box, np.tree
	return p
}

func (p IteratedComplex) Equal(other Placement) bool {
	o, ok := other.(IteratedComplex)
	return ok && p.plain().Equal(o.plain()) && p.Res.Equal(o.Res)
}

func (p IteratedComplex) Less(other Placement) bool {
	if p.Kind() != other.Kind() {
		return p.Kind() < other.Kind()
	}
	o := other.(IteratedComplex)
	if !p.plain().Equal(o.plain()) {
		return vectorsLess(p.V, o.V)
	}
	return p.Res.Less(o.Res)
}

func (p IteratedComplex) FuzzyEqual(other Placement) bool {
	o, ok := other.(IteratedComplex)
	return ok && p.plain().Equal(o.plain()) && p.Res.FuzzyEqual(o.Res)
}

func (p IteratedComplex) FuzzyLess(other Placement) bool {
	if p.Kind() != other.Kind() {
		return p.Kind() < other.Kind()
	}
	o := other.(IteratedComplex)
	if !p.plain().Equal(o.plain()) {
		return vectorsLess(p.V, o.V)
	}
	if !fuzzyEqualFloat(p.Res.Mag, o.Res.Mag) {
		return p.Res.Mag < o.Res.Mag
	}
	if !fuzzyEqualFloat(p.Res.RCos, o.Res.RCos) {
		return p.Res.RCos < o.Res.RCos
	}
	return p.Res.RSin < o.Res.RSin
}

// vectorIterator enumerates a slice of displacements in storage order.
type vectorIterator struct {
	v   []geom.Vector
	pos int
}

func (it *vectorIterator) Next() bool {
	it.pos++
	return it.pos <= len(it.v)
}

func (it *vectorIterator) Disp() geom.Vector { return it.v[it.pos-1] }
func (it *vectorIterator) IndexA() int64     { return -1 }
func (it *vectorIterator) IndexB() int64     { return -1 }
func (it *vectorIterator) QuadID() uint64    { return 0 }
func (it *vectorIterator) QuadBox() geom.Box { return geom.World }
func (it *vectorIterator) SkipQuad()         {}

// iteratedTouchingIterator wraps a boxtree touching iterator, mapping
// its integer values back to displacement vectors.
type iteratedTouchingIterator struct {
	v  []geom.Vector
	it *boxtree.TouchingIterator[int]
}

func (w *iteratedTouchingIterator) Next() bool         { return w.it.Next() }
func (w *iteratedTouchingIterator) Disp() geom.Vector  { return w.v[w.it.At().Value] }
func (w *iteratedTouchingIterator) IndexA() int64      { return -1 }
func (w *iteratedTouchingIterator) IndexB() int64      { return -1 }
func (w *iteratedTouchingIterator) QuadID() uint64     { return w.it.QuadID() }
func (w *iteratedTouchingIterator) QuadBox() geom.Box  { return w.it.QuadBox() }
func (w *iteratedTouchingIterator) SkipQuad()          { w.it.SkipQuad() }
