package boxtree

import (
	"sort"

	"github.com/klayout-go/arraycore/geom"
)

// bucketSize is the number of entries a node holds before it splits into
// quadrants, mirroring gonum's barneshut tile, which also stores a small
// slice of particles directly until a node grows past a threshold.
const bucketSize = 8

// maxDepth bounds recursion for degenerate inputs (e.g. many coincident
// boxes) that would otherwise keep splitting forever.
const maxDepth = 48

// Entry is one (box, value) pair stored in a BoxTree.
type Entry[T any] struct {
	Box   geom.Box
	Value T
}

type node[T any] struct {
	bounds    geom.Box
	quadID    uint64
	children  [4]*node[T] // nil when this node is a leaf
	oversized []int       // entry indices that straddle this node's split lines
	leaf      []int       // entry indices, only populated on leaf nodes
}

// BoxTree is a static spatial index over boxed values of type T. The
// zero value is not usable; construct one with New.
type BoxTree[T any] struct {
	entries []Entry[T]
	root    *node[T]
	built   bool
}

// New returns an empty BoxTree.
func New[T any]() *BoxTree[T] {
	return &BoxTree[T]{}
}

// Insert adds an entry to the tree. The tree must be rebuilt (Sort or
// SortStable) before BeginTouching reflects the new entry.
func (t *BoxTree[T]) Insert(box geom.Box, value T) {
	t.entries = append(t.entries, Entry[T]{Box: box, Value: value})
	t.built = false
}

// Len returns the number of entries in the tree.
func (t *BoxTree[T]) Len() int { return len(t.entries) }

// At returns the entry at flat index i, in the order Begin iterates.
func (t *BoxTree[T]) At(i int) Entry[T] { return t.entries[i] }

// Sort builds the quadtree structure over the current entries. Entry
// order among equal boxes is not preserved; use SortStable if that
// matters (e.g. for deterministic output in tests).
func (t *BoxTree[T]) Sort() {
	t.build()
}

// SortStable builds the quadtree structure over the current entries,
// preserving the relative order of entries whose boxes sort equal under
// Box comparison, analogous to sort.Stable versus sort.Sort.
func (t *BoxTree[T]) SortStable() {
	sort.SliceStable(t.entries, func(i, j int) bool {
		return boxLess(t.entries[i].Box, t.entries[j].Box)
	})
	t.build()
}

func boxLess(a, b geom.Box) bool {
	if a.Min.X != b.Min.X {
		return a.Min.X < b.Min.X
	}
	if a.Min.Y != b.Min.Y {
		return a.Min.Y < b.Min.Y
	}
	if a.Max.X != b.Max.X {
		return a.Max.X < b.Max.X
	}
	return a.Max.Y < b.Max.Y
}

func (t *BoxTree[T]) build() {
	if len(t.entries) == 0 {
		t.root = nil
		t.built = true
		return
	}
	boxes := make([]geom.Point, 0, len(t.entries)*2)
	for _, e := range t.entries {
		if e.Box.Empty() {
			continue
		}
		boxes = append(boxes, e.Box.Min, e.Box.Max)
	}
	var bounds geom.Box
	if len(boxes) == 0 {
		bounds = geom.NewBox(geom.Origin, geom.Origin)
	} else {
		bounds = geom.BoundingPoints(boxes...)
	}
	all := make([]int, len(t.entries))
	for i := range all {
		all[i] = i
	}
	t.root = t.buildNode(bounds, all, 1, 0)
	t.built = true
}

// buildNode partitions idx (indices into t.entries) under bounds,
// splitting into four quadrants once idx grows past bucketSize; any
// entry whose box is not fully contained in one quadrant is kept in
// this node's oversized bucket rather than being split or duplicated.
func (t *BoxTree[T]) buildNode(bounds geom.Box, idx []int, quadID uint64, depth int) *node[T] {
	n := &node[T]{bounds: bounds, quadID: quadID}
	if len(idx) <= bucketSize || depth >= maxDepth || bounds.Width() <= 1 || bounds.Height() <= 1 {
		n.leaf = idx
		return n
	}

	mid := bounds.Center()
	quadBounds := [4]geom.Box{
		geom.NewBox(bounds.Min, mid),                                    // lower-left
		geom.NewBox(geom.Point{X: mid.X, Y: bounds.Min.Y}, geom.Point{X: bounds.Max.X, Y: mid.Y}), // lower-right
		geom.NewBox(geom.Point{X: bounds.Min.X, Y: mid.Y}, geom.Point{X: mid.X, Y: bounds.Max.Y}), // upper-left
		geom.NewBox(mid, bounds.Max),                                    // upper-right
	}

	var oversized []int
	var buckets [4][]int
	for _, i := range idx {
		b := t.entries[i].Box
		placed := false
		for q, qb := range quadBounds {
			if containsBox(qb, b) {
				buckets[q] = append(buckets[q], i)
				placed = true
				break
			}
		}
		if !placed {
			oversized = append(oversized, i)
		}
	}
	n.oversized = oversized
	for q, b := range buckets {
		if len(b) == 0 {
			continue
		}
		n.children[q] = t.buildNode(quadBounds[q], b, quadID<<2|uint64(q), depth+1)
	}
	return n
}

// containsBox reports whether b lies entirely within the closed region
// of outer, used to decide whether an entry fits in a quadrant without
// straddling its boundary.
func containsBox(outer, b geom.Box) bool {
	if b.Empty() {
		return true
	}
	return outer.Min.X <= b.Min.X && b.Max.X <= outer.Max.X &&
		outer.Min.Y <= b.Min.Y && b.Max.Y <= outer.Max.Y
}

// Begin returns a flat iterator over every entry in the tree, in
// storage order. It does not require Sort to have been called.
func (t *BoxTree[T]) Begin() *FlatIterator[T] {
	return &FlatIterator[T]{tree: t}
}

// FlatIterator walks every entry in a BoxTree regardless of position.
type FlatIterator[T any] struct {
	tree *BoxTree[T]
	pos  int
}

// Next advances the iterator and reports whether an entry is available.
func (it *FlatIterator[T]) Next() bool {
	it.pos++
	return it.pos <= len(it.tree.entries)
}

// At returns the current entry. Valid only after a true-returning Next.
func (it *FlatIterator[T]) At() Entry[T] {
	return it.tree.entries[it.pos-1]
}
