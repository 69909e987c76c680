// Package repo implements a content-addressed store for placement
// descriptors: interning returns a Handle to a canonical, deduplicated
// copy, so that many arrays describing the same lattice or instance set
// share one underlying value instead of each carrying its own.
package repo
