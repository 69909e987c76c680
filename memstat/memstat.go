// Package memstat defines the external memory-accounting boundary that
// Array and Repository report through. It is deliberately a thin
// contract, not an accounting implementation: the actual collector
// (aggregation, reporting, presentation) lives outside this core,
// exactly as spec §6 scopes it.
package memstat

// Purpose and Category are opaque enums a Collector interprets; this
// core only forwards the values a caller supplies.
type Purpose int

type Category int

// Collector receives one Add call per accounted object (skipped when
// the caller requests noSelf), plus one per child it owns.
type Collector interface {
	// Add reports that the object identified by kind/self occupies
	// sizeSelf bytes on its own and sizePlusChildren including what it
	// owns, optionally nested under parent.
	Add(kind string, self, parent any, sizeSelf, sizePlusChildren int64, purpose Purpose, category Category)
}

// KindOf returns the reporting type name for v, the Go analogue of the
// C++ source's typeid-based "type" discriminant.
func KindOf(v any) string {
	return kindOf(v)
}
