package layoutstore

import (
	"sort"
	"unsafe"

	"github.com/klayout-go/arraycore/array"
	"github.com/klayout-go/arraycore/geom"
	"github.com/klayout-go/arraycore/memstat"
	"github.com/klayout-go/arraycore/repo"
)

// Instances is a slice-backed collection of Arrays placing a shared
// object set, the Go analogue of dbInstances.h's Instances container
// restricted to its query and batch-grouping surface.
type Instances[Obj comparable] struct {
	entries []array.Array[Obj]
}

// New returns an Instances holding entries, in insertion order.
func New[Obj comparable](entries ...array.Array[Obj]) *Instances[Obj] {
	return &Instances[Obj]{entries: append([]array.Array[Obj](nil), entries...)}
}

// Insert appends a to the collection and returns its index.
func (ins *Instances[Obj]) Insert(a array.Array[Obj]) int {
	ins.entries = append(ins.entries, a)
	return len(ins.entries) - 1
}

// Erase removes the entry at i, reordering the collection: the last
// entry takes i's place, the same "erasing destroys sorting order"
// contract dbInstances.h documents for its own erase.
func (ins *Instances[Obj]) Erase(i int) {
	last := len(ins.entries) - 1
	ins.entries[i] = ins.entries[last]
	ins.entries = ins.entries[:last]
}

// Len returns the number of entries.
func (ins *Instances[Obj]) Len() int { return len(ins.entries) }

// At returns the entry at index i.
func (ins *Instances[Obj]) At(i int) array.Array[Obj] { return ins.entries[i] }

// Bbox returns the union of every entry's bounding box.
func (ins *Instances[Obj]) Bbox(boxConvert func(Obj) geom.Box) geom.Box {
	var b geom.Box
	for _, e := range ins.entries {
		b = b.Union(e.Bbox(boxConvert))
	}
	return b
}

// Begin enumerates every instance of every entry, in entry order.
func (ins *Instances[Obj]) Begin(boxConvert func(Obj) geom.Box) *Iterator[Obj] {
	return &Iterator[Obj]{entries: ins.entries, boxConvert: boxConvert}
}

// BeginTouching enumerates every instance, across every entry, whose
// object footprint touches q. An entry whose own Bbox does not touch q
// is skipped entirely without descending into it, the collection-level
// analogue of the per-entry reduction array.BeginTouching performs.
func (ins *Instances[Obj]) BeginTouching(q geom.Box, boxConvert func(Obj) geom.Box) *Iterator[Obj] {
	return &Iterator[Obj]{entries: ins.entries, boxConvert: boxConvert, touching: true, q: q}
}

// RawGroup is one batch-update group: entries sharing the same object,
// base rotation and residual factor, in insertion order.
type RawGroup struct {
	Indices []int
}

// GroupByRaw partitions entry indices into RawGroups by RawEqual,
// ordered by RawLess, the "group by raw_equal for batched update"
// contract: a caller applying the same displacement-independent change
// (e.g. a coordinate system swap) to every instance of a repeated
// object can do so once per group instead of once per entry.
func (ins *Instances[Obj]) GroupByRaw(objLess func(x, y Obj) bool) []RawGroup {
	order := make([]int, len(ins.entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return ins.entries[order[i]].RawLess(ins.entries[order[j]], objLess)
	})

	var groups []RawGroup
	for _, idx := range order {
		if n := len(groups); n > 0 {
			last := groups[n-1].Indices[0]
			if ins.entries[last].RawEqual(ins.entries[idx]) {
				groups[n-1].Indices = append(groups[n-1].Indices, idx)
				continue
			}
		}
		groups = append(groups, RawGroup{Indices: []int{idx}})
	}
	return groups
}

// Transform applies t to every entry in place, per array.TransformSimple.
func (ins *Instances[Obj]) Transform(t geom.SimpleTrans, r *repo.Repository) {
	for i, e := range ins.entries {
		ins.entries[i] = e.TransformSimple(t, r)
	}
}

// TransformInto applies t to every entry in place, per array.TransformInto.
func (ins *Instances[Obj]) TransformInto(t geom.ComplexTrans, r *repo.Repository) {
	for i, e := range ins.entries {
		ins.entries[i] = e.TransformInto(t, r)
	}
}

// MemStat reports the collection's own footprint, plus every entry's,
// to coll.
func (ins *Instances[Obj]) MemStat(coll memstat.Collector, purpose memstat.Purpose, category memstat.Category, noSelf bool, parent any) {
	selfSize := int64(unsafe.Sizeof(*ins)) + int64(len(ins.entries))*int64(unsafe.Sizeof(array.Array[Obj]{}))
	if !noSelf {
		coll.Add(memstat.KindOf(ins), ins, parent, selfSize, selfSize, purpose, category)
	}
	for i := range ins.entries {
		ins.entries[i].MemStat(coll, purpose, category, noSelf, ins)
	}
}
