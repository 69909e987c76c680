package boxtree

import "github.com/klayout-go/arraycore/geom"

// BeginTouching returns an iterator over every entry whose box touches
// query (shares at least a boundary point), pruning whole quadrants that
// cannot contain a match. Sort or SortStable must have been called since
// the last Insert.
func (t *BoxTree[T]) BeginTouching(query geom.Box) *TouchingIterator[T] {
	it := &TouchingIterator[T]{tree: t, query: query}
	if t.root != nil && t.root.bounds.Touches(query) {
		it.pending = append(it.pending, t.root)
	}
	return it
}

// TouchingIterator walks the entries of a BoxTree that touch a query
// box, descending into quadrants only when their bounds overlap the
// query, and exposing the current quadrant's identity so a caller can
// prune a subtree it already knows cannot hold useful results.
type TouchingIterator[T any] struct {
	tree  *BoxTree[T]
	query geom.Box

	pending []*node[T]

	curNode     *node[T]
	curItems    []int
	itemPos     int
	skipCurrent bool

	current Entry[T]
}

// Next advances the iterator to the next touching entry and reports
// whether one was found.
func (it *TouchingIterator[T]) Next() bool {
	for {
		if it.curNode != nil {
			for it.itemPos < len(it.curItems) {
				i := it.curItems[it.itemPos]
				it.itemPos++
				e := it.tree.entries[i]
				if it.query.Touches(e.Box) {
					it.current = e
					return true
				}
			}
			if !it.skipCurrent {
				for _, c := range it.curNode.children {
					if c != nil && c.bounds.Touches(it.query) {
						it.pending = append(it.pending, c)
					}
				}
			}
			it.curNode = nil
		}

		if len(it.pending) == 0 {
			return false
		}
		n := it.pending[len(it.pending)-1]
		it.pending = it.pending[:len(it.pending)-1]

		it.curNode = n
		it.skipCurrent = false
		it.itemPos = 0
		if len(n.oversized) == 0 {
			it.curItems = n.leaf
		} else {
			it.curItems = append(append([]int(nil), n.oversized...), n.leaf...)
		}
	}
}

// At returns the current entry. Valid only after a true-returning Next.
func (it *TouchingIterator[T]) At() Entry[T] {
	return it.current
}

// QuadID returns a stable identifier for the quadrant the current entry
// was found in: the root is 1, and each descent into a quadrant appends
// two bits, so a quadrant's id encodes its path from the root regardless
// of build order.
func (it *TouchingIterator[T]) QuadID() uint64 {
	return it.curNode.quadID
}

// QuadBox returns the bounds of the quadrant the current entry was found in.
func (it *TouchingIterator[T]) QuadBox() geom.Box {
	return it.curNode.bounds
}

// SkipQuad prevents the iterator from descending into the children of
// the quadrant the current entry was found in, letting a caller that has
// already established it wants nothing more from this subtree prune it
// without scanning it.
func (it *TouchingIterator[T]) SkipQuad() {
	it.skipCurrent = true
}
