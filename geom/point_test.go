package geom

import (
	"testing"

	"golang.org/x/exp/rand"
)

func TestVectorAddSub(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		p := Point{rnd.Int63n(1000) - 500, rnd.Int63n(1000) - 500}
		v := Vector{rnd.Int63n(1000) - 500, rnd.Int63n(1000) - 500}
		q := p.Add(v)
		if got := q.Sub(p); got != v {
			t.Fatalf("q.Sub(p) = %v, want %v", got, v)
		}
	}
}

func TestVectorNeg(t *testing.T) {
	v := Vector{3, -4}
	if got := v.Add(v.Neg()); !got.IsZero() {
		t.Errorf("v.Add(v.Neg()) = %v, want zero", got)
	}
}

func TestVectorScale(t *testing.T) {
	v := Vector{2, -3}
	if got := v.Scale(3); got != (Vector{6, -9}) {
		t.Errorf("v.Scale(3) = %v, want {6,-9}", got)
	}
}

func TestVectorDotCross(t *testing.T) {
	a := Vector{1, 0}
	b := Vector{0, 1}
	if got := a.Dot(b); got != 0 {
		t.Errorf("a.Dot(b) = %v, want 0", got)
	}
	if got := a.Cross(b); got != 1 {
		t.Errorf("a.Cross(b) = %v, want 1", got)
	}
	if got := b.Cross(a); got != -1 {
		t.Errorf("b.Cross(a) = %v, want -1", got)
	}
}

func TestVectorIsZero(t *testing.T) {
	if !(Vector{}).IsZero() {
		t.Error("zero-value Vector should be zero")
	}
	if (Vector{1, 0}).IsZero() {
		t.Error("{1,0} should not be zero")
	}
}

func TestPointVectorRoundTrip(t *testing.T) {
	p := Point{5, -7}
	if got := Origin.Add(p.Vector()); got != p {
		t.Errorf("Origin.Add(p.Vector()) = %v, want %v", got, p)
	}
}
