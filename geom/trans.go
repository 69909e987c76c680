package geom

// Rotation is one of the eight symmetries of the square: the four
// quarter-turn rotations and the four axis/diagonal mirrors, matching
// the fixed-point part of a layout transform.
type Rotation int

const (
	R0 Rotation = iota
	R90
	R180
	R270
	M0
	M45
	M90
	M135
)

// rotMatrix is the signed 2x2 matrix [[a,b],[c,d]] such that
// Apply(v) = (a*v.X+b*v.Y, c*v.X+d*v.Y).
type rotMatrix struct{ a, b, c, d Coord }

var rotationMatrices = map[Rotation]rotMatrix{
	R0:   {1, 0, 0, 1},
	R90:  {0, -1, 1, 0},
	R180: {-1, 0, 0, -1},
	R270: {0, 1, -1, 0},
	M0:   {1, 0, 0, -1},
	M45:  {0, 1, 1, 0},
	M90:  {-1, 0, 0, 1},
	M135: {0, -1, -1, 0},
}

var matrixToRotation map[rotMatrix]Rotation

func init() {
	matrixToRotation = make(map[rotMatrix]Rotation, len(rotationMatrices))
	for r, m := range rotationMatrices {
		matrixToRotation[m] = r
	}
}

func composeMatrix(x, y rotMatrix) rotMatrix {
	return rotMatrix{
		a: x.a*y.a + x.b*y.c,
		b: x.a*y.b + x.b*y.d,
		c: x.c*y.a + x.d*y.c,
		d: x.c*y.b + x.d*y.d,
	}
}

// Apply returns v rotated/mirrored by r.
func (r Rotation) Apply(v Vector) Vector {
	m := rotationMatrices[r]
	return Vector{m.a*v.X + m.b*v.Y, m.c*v.X + m.d*v.Y}
}

// Compose returns the rotation equivalent to applying s first, then r.
func (r Rotation) Compose(s Rotation) Rotation {
	m := composeMatrix(rotationMatrices[r], rotationMatrices[s])
	res, ok := matrixToRotation[m]
	if !ok {
		panic("geom: rotation composition produced a non-symmetry matrix")
	}
	return res
}

// Inverse returns r's inverse symmetry.
func (r Rotation) Inverse() Rotation {
	switch r {
	case R90:
		return R270
	case R270:
		return R90
	default:
		// r0, r180 and all four mirrors are involutions.
		return r
	}
}

// IsMirror reports whether r reverses orientation (determinant -1).
func (r Rotation) IsMirror() bool {
	m := rotationMatrices[r]
	return m.a*m.d-m.b*m.c < 0
}

// SimpleTrans is a rigid integer transform: a Rotation followed by an
// integer displacement. p' = Rot.Apply(p) + Disp.
type SimpleTrans struct {
	Rot  Rotation
	Disp Vector
}

// Unit is the identity transform.
var Unit = SimpleTrans{Rot: R0}

// NewDispTrans returns a pure translation by v.
func NewDispTrans(v Vector) SimpleTrans {
	return SimpleTrans{Rot: R0, Disp: v}
}

// IsUnit reports whether t is the identity transform.
func (t SimpleTrans) IsUnit() bool {
	return t.Rot == R0 && t.Disp.IsZero()
}

// IsDisp reports whether t is a pure translation (identity rotation).
func (t SimpleTrans) IsDisp() bool {
	return t.Rot == R0
}

// Apply returns p transformed by t.
func (t SimpleTrans) Apply(p Point) Point {
	return Origin.Add(t.Rot.Apply(p.Vector())).Add(t.Disp)
}

// ApplyVector returns v rotated by t (the displacement is not applied;
// vectors are directions, not points).
func (t SimpleTrans) ApplyVector(v Vector) Vector {
	return t.Rot.Apply(v)
}

// ApplyBox returns the box enclosing t applied to every corner of b.
func (t SimpleTrans) ApplyBox(b Box) Box {
	if b.Empty() {
		return b
	}
	c := b.Corners()
	pts := make([]Point, len(c))
	for i, p := range c {
		pts[i] = t.Apply(p)
	}
	return BoundingPoints(pts...)
}

// Compose returns the transform equivalent to applying s first, then t:
// for any point p, t.Compose(s).Apply(p) == t.Apply(s.Apply(p)).
func (t SimpleTrans) Compose(s SimpleTrans) SimpleTrans {
	return SimpleTrans{
		Rot:  t.Rot.Compose(s.Rot),
		Disp: t.Rot.Apply(s.Disp).Add(t.Disp),
	}
}

// Invert returns t's inverse: t.Invert().Compose(t) is the identity.
func (t SimpleTrans) Invert() SimpleTrans {
	inv := t.Rot.Inverse()
	return SimpleTrans{
		Rot:  inv,
		Disp: inv.Apply(t.Disp).Neg(),
	}
}

// Equal reports whether t and u are the exact same transform.
func (t SimpleTrans) Equal(u SimpleTrans) bool {
	return t.Rot == u.Rot && t.Disp == u.Disp
}

// Less is a strict weak order over SimpleTrans, keyed first by rotation
// then by displacement, used to keep repository buckets and batch
// groupings canonically ordered.
func (t SimpleTrans) Less(u SimpleTrans) bool {
	if t.Rot != u.Rot {
		return t.Rot < u.Rot
	}
	if t.Disp.X != u.Disp.X {
		return t.Disp.X < u.Disp.X
	}
	return t.Disp.Y < u.Disp.Y
}
