// Package geom provides the integer point, vector, box and rigid/complex
// transform algebra that the rest of this module builds on.
//
// Coordinates are integer database units (Coord), matching a layout
// database rather than a continuous plane: Point and Vector are exact,
// and only ComplexTrans (its residual factor and its displacement)
// carries floating point state.
package geom
