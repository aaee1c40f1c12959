package hazard

import "sync/atomic"

// SegmentSize is the number of cells per registry segment: 31 data cells
// plus one atomic next pointer, chosen so a segment spans a small, fixed
// number of cache lines rather than growing unboundedly per allocation.
const SegmentSize = 31

type segment struct {
	cells [SegmentSize]Cell
	next  atomic.Pointer[segment]
}

// Registry is an append-only, segmented, concurrently extensible
// collection of Cells. It never shrinks: Acquire only ever claims an
// existing Free cell or allocates a new segment, and Release only ever
// frees a cell back to Free. Iteration never locks and may or may not
// observe a segment appended concurrently with the walk — both outcomes
// are safe, since any address newly published in such a segment could
// only have been allocated after the scan began.
type Registry struct {
	head atomic.Pointer[segment]
}

// NewRegistry returns a Registry with a single, empty segment.
func NewRegistry() *Registry {
	r := &Registry{}
	r.head.Store(&segment{})
	return r
}

// Acquire returns a Cell in state Reserved, claimed for the caller. It is
// lock-free in the worst case and wait-free amortized: a bounded scan of
// existing segments, falling back to allocating and linking a new one only
// when every existing cell is taken.
func (r *Registry) Acquire() *Cell {
	seg := r.head.Load()
	for {
		for i := range seg.cells {
			if seg.cells[i].tryAcquire() {
				return &seg.cells[i]
			}
		}

		next := seg.next.Load()
		if next == nil {
			candidate := &segment{}
			if seg.next.CompareAndSwap(nil, candidate) {
				next = candidate
			} else {
				// Lost the race to link a new segment; the loser's segment
				// is simply discarded (unreferenced, collected normally).
				// Retry against whichever segment won.
				next = seg.next.Load()
			}
		}
		seg = next
	}
}

// Release returns cell to Free, making it immediately claimable by any
// goroutine.
func (r *Registry) Release(cell *Cell) {
	cell.free()
}

// Iter returns a stable forward walk over every cell ever allocated by
// this Registry.
func (r *Registry) Iter() *Iter {
	return &Iter{seg: r.head.Load()}
}

// Iter is a lazy, lock-free forward sequence of *Cell.
type Iter struct {
	seg *segment
	idx int
}

// Next advances the iterator. It returns ok == false once every allocated
// cell, across every segment reachable at the time each segment boundary
// was crossed, has been visited.
func (it *Iter) Next() (*Cell, bool) {
	for it.seg != nil {
		if it.idx < len(it.seg.cells) {
			c := &it.seg.cells[it.idx]
			it.idx++
			return c, true
		}
		it.seg = it.seg.next.Load()
		it.idx = 0
	}
	return nil, false
}
