package array

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/klayout-go/arraycore/geom"
	"github.com/klayout-go/arraycore/repo"
)

// rectShape is a trivial comparable "object" standing in for a shape or
// cell instance: its own bbox, returned unchanged by rectBox.
type rectShape struct {
	Min, Max geom.Point
}

func rectBox(s rectShape) geom.Box { return geom.Box{Min: s.Min, Max: s.Max} }

// drainDisps collects every instance's result displacement, rounded to
// the nearest integer vector; every scenario here composes only rigid
// (non-magnifying) base transforms, so the rounding is always exact.
func drainDisps[Obj any](it *Iterator[Obj]) []geom.Vector {
	var out []geom.Vector
	for it.Next() {
		out = append(out, geom.RoundVector(it.Trans().Disp))
	}
	return out
}

func TestArrayNewSingleHasOneZeroInstance(t *testing.T) {
	a := NewSingle(rectShape{Max: geom.Point{X: 10, Y: 10}}, geom.Unit)
	if a.IsRepositoryOwned() {
		t.Fatalf("plain Single must not be repository-owned")
	}
	got := drainDisps(a.Begin())
	want := []geom.Vector{{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Begin() mismatch (-want +got):\n%s", diff)
	}
}

// TestArrayBeginEnumeratesAxisAlignedLattice is spec §8 scenario 1's
// enumeration: a 2x3 axis-aligned lattice with a zero base.
func TestArrayBeginEnumeratesAxisAlignedLattice(t *testing.T) {
	obj := rectShape{Min: geom.Point{X: 10, Y: 30}, Max: geom.Point{X: 30, Y: 40}}
	a := NewRegular(obj, geom.Unit, geom.Vector{X: 0, Y: 100}, geom.Vector{X: 200, Y: 0}, 2, 3, nil)

	got := drainDisps(a.Begin())
	want := []geom.Vector{
		{X: 0, Y: 0}, {X: 0, Y: 100},
		{X: 200, Y: 0}, {X: 200, Y: 100},
		{X: 400, Y: 0}, {X: 400, Y: 100},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Begin() mismatch (-want +got):\n%s", diff)
	}
}

// TestArrayBeginTouchingAxisAlignedLattice reproduces every
// begin_touching case of spec §8 scenario 1.
func TestArrayBeginTouchingAxisAlignedLattice(t *testing.T) {
	obj := rectShape{Min: geom.Point{X: 10, Y: 30}, Max: geom.Point{X: 30, Y: 40}}
	a := NewRegular(obj, geom.Unit, geom.Vector{X: 0, Y: 100}, geom.Vector{X: 200, Y: 0}, 2, 3, nil)

	cases := []struct {
		name string
		q    geom.Box
		want []geom.Vector
	}{
		{"first-only", geom.NewBox(geom.Point{X: 0, Y: 0}, geom.Point{X: 200, Y: 100}), []geom.Vector{{X: 0, Y: 0}}},
		{"gap-none", geom.NewBox(geom.Point{X: 0, Y: 50}, geom.Point{X: 200, Y: 110}), nil},
		{"touch-boundary", geom.NewBox(geom.Point{X: 0, Y: 40}, geom.Point{X: 200, Y: 110}), []geom.Vector{{X: 0, Y: 0}}},
		{"all-six", geom.NewBox(geom.Point{X: 0, Y: 40}, geom.Point{X: 410, Y: 130}), []geom.Vector{
			{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 200, Y: 0}, {X: 200, Y: 100}, {X: 400, Y: 0}, {X: 400, Y: 100},
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := drainDisps(a.BeginTouching(c.q, rectBox))
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Fatalf("BeginTouching(%v) mismatch (-want +got):\n%s", c.q, diff)
			}
		})
	}
}

// TestArrayBboxMagnifiedSingleComplex is spec §8 scenario 5.
func TestArrayBboxMagnifiedSingleComplex(t *testing.T) {
	obj := rectShape{Min: geom.Point{X: -9, Y: 3}, Max: geom.Point{X: -7, Y: 4}}
	base := geom.NewDispTrans(geom.Vector{X: 100, Y: 0})
	res := geom.NewComplexTrans(10, 1, 1, geom.R0, geom.FVector{})
	a := NewSingleComplex(obj, base, res, nil)

	got := a.Bbox(rectBox)
	want := geom.NewBox(geom.Point{X: 10, Y: 30}, geom.Point{X: 30, Y: 40})
	if got != want {
		t.Fatalf("Bbox() = %v, want %v", got, want)
	}
}

// TestArrayBeginTouchingMirrorBaseWithRotatedResidual guards against
// reducing the query box by the object's footprint in the wrong
// composition order: the footprint's linear map is Rot_base∘res (the
// same order Bbox and Iterator.Trans use), not res∘Rot_base. Swapping
// the order lands the reduced footprint in the wrong quadrant whenever
// the base rotation is a mirror and the residual carries a real
// rotation, since a reflection anticommutes with a rotation.
func TestArrayBeginTouchingMirrorBaseWithRotatedResidual(t *testing.T) {
	obj := rectShape{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 4, Y: 2}}
	base := geom.SimpleTrans{Rot: geom.M0}
	res := geom.NewComplexTrans(1, 0, 1, geom.R0, geom.FVector{})
	a := NewSingleComplex(obj, base, res, nil)

	// The correctly composed footprint is [(-2,-4),(0,0)]; this query
	// touches only that box, not the box a res-before-base computation
	// would produce ([(0,0),(2,4)]).
	q := geom.NewBox(geom.Point{X: -3, Y: -3}, geom.Point{X: -2, Y: -2})
	got := drainDisps(a.BeginTouching(q, rectBox))
	want := []geom.Vector{{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("BeginTouching(%v) mismatch (-want +got):\n%s", q, diff)
	}
}

// TestArrayRawBboxRoundTripsThroughBboxFromRawBbox checks that a
// one-instance array's RawBbox/BboxFromRawBbox pair reconstructs the
// same bbox Bbox computes directly. BoundingPoints collapses a single
// placement point to a degenerate (Min==Max) box, which Box.Empty
// reports exactly like a genuinely empty (zero-instance) one; RawBbox
// must not mistake the former for the latter and drop the base
// displacement.
func TestArrayRawBboxRoundTripsThroughBboxFromRawBbox(t *testing.T) {
	obj := rectShape{Min: geom.Point{X: 10, Y: 10}, Max: geom.Point{X: 50, Y: 50}}
	base := geom.NewDispTrans(geom.Vector{X: 5, Y: 5})
	a := NewSingle(obj, base)

	want := a.Bbox(rectBox)
	rb := a.RawBbox()
	if wantRb := (geom.Box{Min: geom.Point{X: 5, Y: 5}, Max: geom.Point{X: 5, Y: 5}}); rb != wantRb {
		t.Fatalf("RawBbox() of a one-instance array = %v, want the point box %v at the base displacement", rb, wantRb)
	}
	if got := a.BboxFromRawBbox(rb, rectBox); got != want {
		t.Fatalf("BboxFromRawBbox(RawBbox()) = %v, want %v (from Bbox())", got, want)
	}
}

// TestArrayInvertRoundTrip is spec §8 scenario 3's round-trip property:
// every instance transform of the original array is undone, on a fixed
// point, by some instance transform of the inverted array.
func TestArrayInvertRoundTrip(t *testing.T) {
	obj := rectShape{Min: geom.Point{X: 10, Y: 10}, Max: geom.Point{X: 50, Y: 50}}
	base := geom.NewDispTrans(geom.Vector{X: 10, Y: 10})
	res := geom.NewComplexTrans(2, 1, 1, geom.R0, geom.FVector{})
	vectors := []geom.Vector{{X: 100, Y: 500}, {X: -100, Y: 200}, {X: -200, Y: -100}}
	a := NewIteratedComplex(obj, base, vectors, res, nil)

	var originals []geom.ComplexTrans
	it := a.Begin()
	for it.Next() {
		originals = append(originals, it.Trans())
	}
	if len(originals) != len(vectors) {
		t.Fatalf("original enumeration yielded %d instances, want %d", len(originals), len(vectors))
	}

	inv := a.Invert()
	var inverted []geom.ComplexTrans
	it2 := inv.Begin()
	for it2.Next() {
		inverted = append(inverted, it2.Trans())
	}
	if len(inverted) != len(vectors) {
		t.Fatalf("inverted enumeration yielded %d instances, want %d", len(inverted), len(vectors))
	}

	fixed := geom.FVector{X: 1000, Y: 1000}
	for i, t0 := range originals {
		found := false
		for _, t1 := range inverted {
			p := t1.Apply(t0.Apply(fixed))
			if geom.Vector{X: int64(round(p.X)), Y: int64(round(p.Y))} == (geom.Vector{X: 1000, Y: 1000}) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("no inverted instance undoes original instance %d (disp %v)", i, vectors[i])
		}
	}
}

func round(f float64) float64 {
	if f < 0 {
		return float64(int64(f - 0.5))
	}
	return float64(int64(f + 0.5))
}

// TestArrayTransformSimpleComposesBase checks that TransformSimple
// folds a rigid transform into the base and rotates lattice vectors,
// matching spec §8's "transform composition" property for a rigid T.
func TestArrayTransformSimpleComposesBase(t *testing.T) {
	obj := rectShape{Max: geom.Point{X: 10, Y: 10}}
	a := NewRegular(obj, geom.Unit, geom.Vector{X: 100, Y: 0}, geom.Vector{X: 0, Y: 100}, 2, 2, nil)

	rt := geom.SimpleTrans{Rot: geom.R90, Disp: geom.Vector{X: 5, Y: 7}}
	transformed := a.TransformSimple(rt, nil)

	var want []geom.Vector
	it := a.Begin()
	for it.Next() {
		p := rt.Apply(geom.RoundVector(it.Trans().Disp).Point())
		want = append(want, p.Vector())
	}
	got := drainDisps(transformed.Begin())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("TransformSimple mismatch (-want +got):\n%s", diff)
	}
}

// TestArrayRepositoryDedup is spec §8 scenario 6.
func TestArrayRepositoryDedup(t *testing.T) {
	r := repo.New()
	obj := rectShape{}
	a := geom.Vector{X: 0, Y: 100}
	b := geom.Vector{X: 200, Y: 0}

	one := NewRegular(obj, geom.Unit, a, b, 2, 3, r)
	two := NewRegular(obj, geom.Unit, a, b, 2, 3, r)
	if !one.IsRepositoryOwned() || !two.IsRepositoryOwned() {
		t.Fatalf("both arrays should be repository-owned")
	}
	if !one.Equal(two) {
		t.Fatalf("two arrays interning equal descriptors should compare Equal")
	}

	three := NewRegular(obj, geom.Unit, a, b, 2, 4, r)
	if one.Equal(three) {
		t.Fatalf("arrays with different bmax must not compare Equal")
	}

	res := geom.NewComplexTrans(10, 1, 1, geom.R0, geom.FVector{})
	sc := NewSingleComplex(obj, geom.Unit, res, r)
	if one.descriptor().Kind() == sc.descriptor().Kind() {
		t.Fatalf("SingleComplex and Regular must fall into distinct buckets")
	}
	if r.Len() != 3 {
		t.Fatalf("repository should hold 3 distinct descriptors (two Regular + one SingleComplex), got %d", r.Len())
	}
}

func TestArrayRawEqualIgnoresBaseDisplacement(t *testing.T) {
	obj := rectShape{}
	a := NewRegular(obj, geom.NewDispTrans(geom.Vector{X: 1, Y: 1}), geom.Vector{X: 10}, geom.Vector{Y: 10}, 2, 2, nil)
	b := NewRegular(obj, geom.NewDispTrans(geom.Vector{X: 999, Y: -999}), geom.Vector{X: 10}, geom.Vector{Y: 10}, 2, 2, nil)
	if !a.RawEqual(b) {
		t.Fatalf("arrays differing only in base displacement should be RawEqual")
	}

	c := NewRegular(obj, geom.SimpleTrans{Rot: geom.R90}, geom.Vector{X: 10}, geom.Vector{Y: 10}, 2, 2, nil)
	if a.RawEqual(c) {
		t.Fatalf("arrays with different base rotation must not be RawEqual")
	}
}

func objLess(x, y rectShape) bool {
	if x.Min != y.Min {
		return x.Min.X < y.Min.X || (x.Min.X == y.Min.X && x.Min.Y < y.Min.Y)
	}
	return x.Max.X < y.Max.X || (x.Max.X == y.Max.X && x.Max.Y < y.Max.Y)
}

func TestArrayLessIsIrreflexive(t *testing.T) {
	obj := rectShape{Max: geom.Point{X: 1, Y: 1}}
	a := NewRegular(obj, geom.Unit, geom.Vector{X: 10}, geom.Vector{Y: 10}, 2, 2, nil)
	if a.Less(a, objLess) {
		t.Fatalf("Less must be irreflexive")
	}
	b := NewRegular(obj, geom.Unit, geom.Vector{X: 10}, geom.Vector{Y: 10}, 2, 3, nil)
	if a.Less(b, objLess) == b.Less(a, objLess) {
		t.Fatalf("Less must be antisymmetric for distinct values")
	}
}
