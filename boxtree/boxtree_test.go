package boxtree

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/klayout-go/arraycore/geom"
)

func randomSmallBox(rnd *rand.Rand, extent geom.Coord) geom.Box {
	x := rnd.Int63n(int64(extent))
	y := rnd.Int63n(int64(extent))
	w := rnd.Int63n(5) + 1
	h := rnd.Int63n(5) + 1
	return geom.NewBox(geom.Point{X: x, Y: y}, geom.Point{X: x + w, Y: y + h})
}

func bruteTouching(entries []Entry[int], query geom.Box) map[int]bool {
	got := map[int]bool{}
	for _, e := range entries {
		if query.Touches(e.Box) {
			got[e.Value] = true
		}
	}
	return got
}

func TestBoxTreeTouchingMatchesBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	tree := New[int]()
	var entries []Entry[int]
	for i := 0; i < 500; i++ {
		b := randomSmallBox(rnd, 1000)
		tree.Insert(b, i)
		entries = append(entries, Entry[int]{Box: b, Value: i})
	}
	tree.Sort()

	for q := 0; q < 20; q++ {
		query := randomSmallBox(rnd, 1000)
		want := bruteTouching(entries, query)

		got := map[int]bool{}
		it := tree.BeginTouching(query)
		for it.Next() {
			got[it.At().Value] = true
		}
		if len(got) != len(want) {
			t.Fatalf("query %v: got %d matches, want %d", query, len(got), len(want))
		}
		for v := range want {
			if !got[v] {
				t.Errorf("query %v: missing expected match %d", query, v)
			}
		}
	}
}

func TestBoxTreeEmpty(t *testing.T) {
	tree := New[string]()
	tree.Sort()
	it := tree.BeginTouching(geom.World)
	if it.Next() {
		t.Error("empty tree should report no touching entries")
	}
}

func TestBoxTreeFlatIterationCoversAll(t *testing.T) {
	tree := New[int]()
	for i := 0; i < 10; i++ {
		tree.Insert(geom.NewBox(geom.Point{X: int64(i)}, geom.Point{X: int64(i) + 1, Y: 1}), i)
	}
	tree.Sort()
	seen := map[int]bool{}
	it := tree.Begin()
	for it.Next() {
		seen[it.At().Value] = true
	}
	if len(seen) != 10 {
		t.Errorf("flat iteration saw %d entries, want 10", len(seen))
	}
}

func TestBoxTreeSkipQuadPrunes(t *testing.T) {
	tree := New[int]()
	// Two well-separated entries; with no more than bucketSize entries the
	// tree does not split, so both sit in the root leaf.
	tree.Insert(geom.NewBox(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 1}), 1)
	tree.Insert(geom.NewBox(geom.Point{X: 900, Y: 900}, geom.Point{X: 901, Y: 901}), 2)
	tree.Sort()

	it := tree.BeginTouching(geom.World)
	found := map[int]bool{}
	for it.Next() {
		found[it.At().Value] = true
		it.SkipQuad()
	}
	// SkipQuad must not suppress the current entry or the rest of its
	// quad, only further descent; both entries should still be found.
	if !found[1] || !found[2] {
		t.Errorf("SkipQuad suppressed a match: found %v", found)
	}
}

func TestBoxTreeQuadBoxContainsEntry(t *testing.T) {
	rnd := rand.New(rand.NewSource(12))
	tree := New[int]()
	for i := 0; i < 200; i++ {
		tree.Insert(randomSmallBox(rnd, 500), i)
	}
	tree.Sort()

	it := tree.BeginTouching(geom.World)
	for it.Next() {
		qb := it.QuadBox()
		e := it.At()
		if !qb.Touches(e.Box) {
			t.Errorf("entry %v not touching its reported quad box %v", e.Box, qb)
		}
	}
}
