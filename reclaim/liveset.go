package reclaim

import (
	"sort"

	"hazptr/hazard"
)

// LiveSet is the scan-scratch set: a sorted snapshot of every address
// currently published by some hazard.Cell in a Registry. A sorted slice is
// more cache-friendly than a hash set at the small sizes typical of a
// goroutine's protected-pointer count, and it is rebuilt in place on every
// scan rather than reallocated.
type LiveSet struct {
	addrs []uintptr
}

// CollectFrom rebuilds the set from reg's current published hazards. The
// per-cell load is acquire-ordered relative to the publisher's release
// store, so any address protected before this call's synchronization
// point is guaranteed to be observed.
func (s *LiveSet) CollectFrom(reg *hazard.Registry) {
	s.addrs = s.addrs[:0]

	it := reg.Iter()
	for {
		cell, ok := it.Next()
		if !ok {
			break
		}
		if p, ok := cell.LoadProtected(); ok {
			s.addrs = append(s.addrs, uintptr(p))
		}
	}

	sort.Slice(s.addrs, func(i, j int) bool { return s.addrs[i] < s.addrs[j] })
}

// Contains reports whether addr was published by some cell as of the last
// CollectFrom call.
func (s *LiveSet) Contains(addr uintptr) bool {
	i := sort.Search(len(s.addrs), func(i int) bool { return s.addrs[i] >= addr })
	return i < len(s.addrs) && s.addrs[i] == addr
}

// Len reports the number of live addresses in the most recent snapshot.
func (s *LiveSet) Len() int {
	return len(s.addrs)
}
