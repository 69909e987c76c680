package layoutstore

import (
	"github.com/klayout-go/arraycore/array"
	"github.com/klayout-go/arraycore/geom"
)

// Iterator enumerates instances across every entry of an Instances
// collection, delegating skip_quad/quad_id/quad_box to whichever
// entry's own iterator is currently active — the Go analogue of
// dbInstances.h's TouchingInstanceIteratorTraits, collapsed to a single
// type since array.Iterator already reports the "not applicable"
// values (QuadID 0, QuadBox World, SkipQuad a no-op) for a Regular or
// Single entry on its own.
type Iterator[Obj comparable] struct {
	entries    []array.Array[Obj]
	boxConvert func(Obj) geom.Box
	touching   bool
	q          geom.Box

	idx int
	cur *array.Iterator[Obj]
}

// Next advances to the next instance, across entry boundaries as
// needed, skipping an entry whose own Bbox does not touch q in
// touching mode.
func (it *Iterator[Obj]) Next() bool {
	for {
		if it.cur != nil && it.cur.Next() {
			return true
		}
		if it.idx >= len(it.entries) {
			return false
		}
		e := it.entries[it.idx]
		it.idx++
		if it.touching {
			if !e.Bbox(it.boxConvert).Touches(it.q) {
				it.cur = nil
				continue
			}
			it.cur = e.BeginTouching(it.q, it.boxConvert)
		} else {
			it.cur = e.Begin()
		}
	}
}

// EntryIndex returns the index, within the Instances collection, of
// the entry the current instance belongs to. Valid only after a
// true-returning Next.
func (it *Iterator[Obj]) EntryIndex() int { return it.idx - 1 }

// Trans returns the current instance's full result transform.
func (it *Iterator[Obj]) Trans() geom.ComplexTrans { return it.cur.Trans() }

// IndexA and IndexB delegate to the current entry's iterator.
func (it *Iterator[Obj]) IndexA() int64 { return it.cur.IndexA() }
func (it *Iterator[Obj]) IndexB() int64 { return it.cur.IndexB() }

// QuadID, QuadBox and SkipQuad delegate to the current entry's
// iterator.
func (it *Iterator[Obj]) QuadID() uint64    { return it.cur.QuadID() }
func (it *Iterator[Obj]) QuadBox() geom.Box { return it.cur.QuadBox() }
func (it *Iterator[Obj]) SkipQuad()         { it.cur.SkipQuad() }
