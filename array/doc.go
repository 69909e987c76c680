// Package array implements the Array facade (C4) and its iterator
// facade (C6): an object placed by a placement descriptor (either owned
// outright or interned in a Repository) under a rigid base transform.
//
// Array ties geom, placement and repo together into the one type a
// consumer actually builds and queries; it owns no spatial index or
// lattice algebra of its own, delegating all of that to the descriptor.
package array
