// Package placement implements the six placement descriptors a layout
// instance array can carry: Single, SingleComplex, Regular,
// RegularComplex, Iterated and IteratedComplex. Each is a concrete type
// implementing the Placement interface; there is no base class. Each
// carries an explicit Kind tag for stable cross-variant ordering, and
// comparisons check Kind before type-asserting the other descriptor to
// the same concrete variant.
//
// A placement describes instance displacements only, in the object's
// local frame; it knows nothing of the object itself or of the base
// transform an enclosing array composes displacements with. Variants
// that can carry a magnifying/rotating residual factor beyond a rigid
// transform (SingleComplex, RegularComplex, IteratedComplex) store it as
// a geom.ComplexTrans with its Rot fixed to geom.R0 and Disp zero.
package placement
