// Package boxtree implements a static quadtree spatial index over boxed
// values: a BoxTree holds zero or more (Box, value) entries and answers
// region queries ("every entry whose box touches a given query box")
// without scanning the whole set.
//
// Unlike a point quadtree, entries here carry their own extent, so a
// single entry's box can straddle a split line. Rather than splitting
// such entries across quadrants, each node keeps an oversized bucket for
// entries that do not fit entirely within one child quadrant; a touching
// query always walks a node's oversized bucket in addition to descending
// into the quadrants the query box actually overlaps.
package boxtree
