package repo

import (
	"sort"
	"unsafe"

	"github.com/klayout-go/arraycore/memstat"
	"github.com/klayout-go/arraycore/placement"
)

// entry is the stable storage cell a Handle points at. Its address
// never moves even though a bucket slice is reordered by insertion,
// since a bucket holds *entry, not entry.
type entry struct {
	desc placement.Placement
}

// Handle references a canonical, deduplicated placement descriptor
// held by a Repository. Two Handles returned from Intern on equal
// descriptors always point at the same entry.
type Handle struct {
	e *entry
}

// Placement returns the descriptor the handle refers to.
func (h Handle) Placement() placement.Placement {
	if h.e == nil {
		return nil
	}
	return h.e.desc
}

// Valid reports whether h was produced by a successful Intern call.
func (h Handle) Valid() bool { return h.e != nil }

// Repository is a content-addressed store of placement descriptors,
// partitioned into buckets by Kind and canonically ordered within a
// bucket by the descriptor's own Less.
type Repository struct {
	buckets map[placement.Kind][]*entry
}

// New returns an empty Repository.
func New() *Repository {
	return &Repository{buckets: make(map[placement.Kind][]*entry)}
}

// Intern locates desc's bucket by Kind, inserts desc at its canonical
// position if no equal descriptor is already present, and returns a
// Handle to the (possibly pre-existing) canonical copy.
func (r *Repository) Intern(desc placement.Placement) Handle {
	if desc == nil {
		panic("repo: cannot intern a nil placement")
	}
	kind := desc.Kind()
	bucket := r.buckets[kind]
	i := sort.Search(len(bucket), func(i int) bool {
		return !bucket[i].desc.Less(desc)
	})
	if i < len(bucket) && bucket[i].desc.Equal(desc) {
		return Handle{e: bucket[i]}
	}
	e := &entry{desc: desc}
	bucket = append(bucket, nil)
	copy(bucket[i+1:], bucket[i:])
	bucket[i] = e
	r.buckets[kind] = bucket
	return Handle{e: e}
}

// Len returns the total number of distinct interned descriptors.
func (r *Repository) Len() int {
	n := 0
	for _, b := range r.buckets {
		n += len(b)
	}
	return n
}

// Clear drops every interned descriptor.
func (r *Repository) Clear() {
	r.buckets = make(map[placement.Kind][]*entry)
}

// Clone copies every interned descriptor value into fresh entries of a
// new, independent Repository: Handles from the source are not valid
// against the clone. Descriptor values are copied as they are, so
// slice- or pointer-backed data (an Iterated's vectors and index) is
// shared with the source, not duplicated.
func (r *Repository) Clone() *Repository {
	out := New()
	for kind, bucket := range r.buckets {
		nb := make([]*entry, len(bucket))
		for i, e := range bucket {
			nb[i] = &entry{desc: e.desc}
		}
		out.buckets[kind] = nb
	}
	return out
}

// MemStat reports the repository's own footprint plus the aggregated
// footprint of every interned descriptor to coll, per spec §6.3.
func (r *Repository) MemStat(coll memstat.Collector, purpose memstat.Purpose, category memstat.Category, noSelf bool, parent any) {
	selfSize := int64(unsafe.Sizeof(*r))
	total := selfSize
	for _, bucket := range r.buckets {
		for _, e := range bucket {
			total += int64(unsafe.Sizeof(*e))
		}
	}
	if !noSelf {
		coll.Add(memstat.KindOf(r), r, parent, selfSize, total, purpose, category)
	}
	for _, bucket := range r.buckets {
		for _, e := range bucket {
			size := int64(unsafe.Sizeof(*e))
			coll.Add(memstat.KindOf(e.desc), e.desc, r, size, size, purpose, category)
		}
	}
}
