package geom

import (
	"testing"

	"golang.org/x/exp/rand"
)

func allRotations() []Rotation {
	return []Rotation{R0, R90, R180, R270, M0, M45, M90, M135}
}

func TestRotationInverse(t *testing.T) {
	for _, r := range allRotations() {
		if got := r.Compose(r.Inverse()); got != R0 {
			t.Errorf("%v.Compose(%v.Inverse()) = %v, want R0", r, r, got)
		}
	}
}

func TestRotationComposeClosed(t *testing.T) {
	for _, a := range allRotations() {
		for _, b := range allRotations() {
			// Compose must always land back on one of the eight symmetries;
			// a panic here is a test failure.
			_ = a.Compose(b)
		}
	}
}

func TestRotationMirrorParity(t *testing.T) {
	mirrors := map[Rotation]bool{R0: false, R90: false, R180: false, R270: false, M0: true, M45: true, M90: true, M135: true}
	for r, want := range mirrors {
		if got := r.IsMirror(); got != want {
			t.Errorf("%v.IsMirror() = %v, want %v", r, got, want)
		}
	}
}

func TestSimpleTransInvertRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		r := allRotations()[rnd.Intn(8)]
		tr := SimpleTrans{Rot: r, Disp: Vector{rnd.Int63n(400) - 200, rnd.Int63n(400) - 200}}
		p := Point{rnd.Int63n(400) - 200, rnd.Int63n(400) - 200}
		roundTripped := tr.Invert().Apply(tr.Apply(p))
		if roundTripped != p {
			t.Fatalf("round trip of %v through %+v = %v, want %v", p, tr, roundTripped, p)
		}
	}
}

func TestSimpleTransComposeMatchesSequentialApply(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		r1, r2 := allRotations()[rnd.Intn(8)], allRotations()[rnd.Intn(8)]
		t1 := SimpleTrans{Rot: r1, Disp: Vector{rnd.Int63n(100), rnd.Int63n(100)}}
		t2 := SimpleTrans{Rot: r2, Disp: Vector{rnd.Int63n(100), rnd.Int63n(100)}}
		p := Point{rnd.Int63n(100), rnd.Int63n(100)}

		composed := t1.Compose(t2).Apply(p)
		sequential := t1.Apply(t2.Apply(p))
		if composed != sequential {
			t.Fatalf("t1.Compose(t2).Apply(p) = %v, want %v (t1.Apply(t2.Apply(p)))", composed, sequential)
		}
	}
}

func TestSimpleTransUnitIsIdentity(t *testing.T) {
	p := Point{7, -3}
	if got := Unit.Apply(p); got != p {
		t.Errorf("Unit.Apply(%v) = %v, want %v", p, got, p)
	}
	if !Unit.IsUnit() {
		t.Error("Unit.IsUnit() should be true")
	}
}

func TestSimpleTransLessStrictWeakOrder(t *testing.T) {
	a := SimpleTrans{Rot: R0, Disp: Vector{0, 0}}
	b := SimpleTrans{Rot: R0, Disp: Vector{1, 0}}
	c := SimpleTrans{Rot: R90, Disp: Vector{0, 0}}
	if !a.Less(b) || a.Less(a) || (a.Less(c) == c.Less(a)) {
		t.Error("Less should be a strict weak order: irreflexive and antisymmetric for distinct keys")
	}
}
