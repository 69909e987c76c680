package geom

import "math"

// worldCoord bounds the sentinel "world" box. It is kept well inside the
// range of Coord so that translating a world box by a typical placement
// displacement cannot overflow.
const worldCoord = math.MaxInt64 / 4

// Box is a half-open axis-aligned rectangle: [Min.X,Max.X) x [Min.Y,Max.Y).
// A Box is well formed when Min components are not greater than Max
// components; Empty reports true for degenerate or ill-formed boxes.
type Box struct {
	Min, Max Point
}

// NewBox returns the canonical box spanning p1 and p2, swapping
// coordinates as necessary so the result is well formed.
func NewBox(p1, p2 Point) Box {
	b := Box{p1, p2}
	if b.Min.X > b.Max.X {
		b.Min.X, b.Max.X = b.Max.X, b.Min.X
	}
	if b.Min.Y > b.Max.Y {
		b.Min.Y, b.Max.Y = b.Max.Y, b.Min.Y
	}
	return b
}

// World is the unbounded box used to signal "no constraint" to a region
// query; BeginTouching treats it specially rather than projecting it.
var World = Box{Point{-worldCoord, -worldCoord}, Point{worldCoord, worldCoord}}

// IsWorld reports whether b is the World sentinel.
func (b Box) IsWorld() bool {
	return b == World
}

// Empty reports whether b has zero or negative extent on either axis.
func (b Box) Empty() bool {
	return b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y
}

// Width returns the box's extent along X.
func (b Box) Width() Coord {
	return b.Max.X - b.Min.X
}

// Height returns the box's extent along Y.
func (b Box) Height() Coord {
	return b.Max.Y - b.Min.Y
}

// Center returns the box's center point, each coordinate rounded toward
// zero (Go integer division).
func (b Box) Center() Point {
	return Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Left, Right, Top and Bottom name the box's corners' opposite-axis
// coordinates, matching the reflected corners the lattice projection of
// §4.3 samples (p1, (left,top), (right,bottom), p2).
func (b Box) Left() Coord   { return b.Min.X }
func (b Box) Right() Coord  { return b.Max.X }
func (b Box) Bottom() Coord { return b.Min.Y }
func (b Box) Top() Coord    { return b.Max.Y }

// P1 returns the box's minimum corner.
func (b Box) P1() Point { return b.Min }

// P2 returns the box's maximum corner.
func (b Box) P2() Point { return b.Max }

// Corners returns the box's four corners in the order the lattice
// projection algorithm of §4.3 samples them: p1, (left,top),
// (right,bottom), p2.
func (b Box) Corners() [4]Point {
	return [4]Point{
		b.P1(),
		{b.Left(), b.Top()},
		{b.Right(), b.Bottom()},
		b.P2(),
	}
}

// Add returns b translated by v.
func (b Box) Add(v Vector) Box {
	return Box{b.Min.Add(v), b.Max.Add(v)}
}

// BoundingPoints returns the tight box spanning points, treated as bare
// points rather than as shapes with their own extent. Unlike Union, a
// single repeated point correctly yields a degenerate (point-sized) box
// rather than being discarded as empty; callers that need the extent of
// a placement lattice (whose points may coincide when amax=bmax=1) use
// this instead of folding through Union.
func BoundingPoints(points ...Point) Box {
	if len(points) == 0 {
		return Box{}
	}
	b := Box{points[0], points[0]}
	for _, p := range points[1:] {
		b.Min.X = min64(b.Min.X, p.X)
		b.Min.Y = min64(b.Min.Y, p.Y)
		b.Max.X = max64(b.Max.X, p.X)
		b.Max.Y = max64(b.Max.Y, p.Y)
	}
	return b
}

// Union returns the smallest box enclosing both b and other. An empty
// operand does not contribute.
func (b Box) Union(other Box) Box {
	if b.Empty() {
		return other
	}
	if other.Empty() {
		return b
	}
	return Box{
		Point{min64(b.Min.X, other.Min.X), min64(b.Min.Y, other.Min.Y)},
		Point{max64(b.Max.X, other.Max.X), max64(b.Max.Y, other.Max.Y)},
	}
}

// Touches reports whether b and other share at least a boundary point,
// i.e. whether their closed regions intersect. This is the predicate the
// region-query and BoxTree machinery use throughout; it is intentionally
// more permissive than Empty-aware set intersection so that
// exactly-adjacent placements are reported as touching (§8 scenario 1).
func (b Box) Touches(other Box) bool {
	if b.Empty() || other.Empty() {
		return false
	}
	return b.Min.X <= other.Max.X && other.Min.X <= b.Max.X &&
		b.Min.Y <= other.Max.Y && other.Min.Y <= b.Max.Y
}

// Contains reports whether p lies within the closed region of b.
func (b Box) Contains(p Point) bool {
	if b.Empty() {
		return false
	}
	return b.Min.X <= p.X && p.X <= b.Max.X && b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

func min64(a, b Coord) Coord {
	if a < b {
		return a
	}
	return b
}

func max64(a, b Coord) Coord {
	if a > b {
		return a
	}
	return b
}
