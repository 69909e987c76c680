package array

import (
	"github.com/klayout-go/arraycore/geom"
	"github.com/klayout-go/arraycore/placement"
)

// Iterator is the Array facade's iterator (C6): it wraps a descriptor's
// placement.Iterator, composing the Array's base transform (and, for a
// complex descriptor, its residual factor) with every yielded
// displacement to produce each instance's full result transform.
//
// Like placement.Iterator, it is a one-shot, non-restartable sequence;
// a caller that needs to replay it calls Array.Begin/BeginTouching
// again.
type Iterator[Obj any] struct {
	base geom.SimpleTrans
	res  geom.ComplexTrans
	it   placement.Iterator
}

// Next advances the iterator and reports whether another instance is
// available.
func (it *Iterator[Obj]) Next() bool { return it.it.Next() }

// Trans returns the current instance's full result transform,
// p ↦ base.Rot(residual(p)) + base.Disp + placement_disp: the placement
// displacement is added to the base displacement and is not itself
// rotated or scaled by the base rotation or the residual factor (the
// residual is the identity for a non-complex descriptor). Valid only
// after a true-returning Next.
func (it *Iterator[Obj]) Trans() geom.ComplexTrans {
	disp := it.base.Disp.Add(it.it.Disp())
	outer := geom.FromSimple(geom.SimpleTrans{Rot: it.base.Rot, Disp: disp})
	return outer.Compose(it.res)
}

// IndexA and IndexB return the current row/column index for a Regular
// or RegularComplex descriptor, or -1 otherwise.
func (it *Iterator[Obj]) IndexA() int64 { return it.it.IndexA() }
func (it *Iterator[Obj]) IndexB() int64 { return it.it.IndexB() }

// QuadID, QuadBox and SkipQuad delegate to the underlying descriptor
// iterator, meaningful only for Iterated/IteratedComplex.
func (it *Iterator[Obj]) QuadID() uint64    { return it.it.QuadID() }
func (it *Iterator[Obj]) QuadBox() geom.Box { return it.it.QuadBox() }
func (it *Iterator[Obj]) SkipQuad()         { it.it.SkipQuad() }
