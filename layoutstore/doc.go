// Package layoutstore is a minimal, in-memory reference consumer of the
// array package: a slice-backed collection of Arrays placing a shared
// object set, extended with Insert/Erase, transformed in place with
// Transform/TransformInto, queried region-wise via BeginTouching and
// grouped by RawEqual for batched update.
//
// It owns no file format, no journal, and no persistence of any kind —
// it exists only to exercise array.Array the way a real instances
// container does, not to be one.
package layoutstore
