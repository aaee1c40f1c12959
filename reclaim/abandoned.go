package reclaim

import "sync/atomic"

type abandonedNode struct {
	records []Record
	next    atomic.Pointer[abandonedNode]
}

// AbandonedList is a process-wide, lock-free stack of retired-record
// residue deposited by goroutines whose AbandonPath found their Buffer
// non-empty at exit. Pushes and pops are plain Treiber-stack CAS loops,
// each node carrying one record slice.
type AbandonedList struct {
	head atomic.Pointer[abandonedNode]
}

// Push deposits records as a single node, the entire residue one
// goroutine's AbandonPath could not drain. A no-op if records is empty.
func (a *AbandonedList) Push(records []Record) {
	if len(records) == 0 {
		return
	}
	n := &abandonedNode{records: records}
	for {
		old := a.head.Load()
		n.next.Store(old)
		if a.head.CompareAndSwap(old, n) {
			return
		}
	}
}

// Len reports the number of nodes currently deposited, for observability.
// It is a snapshot only: concurrent Push/DrainInto calls can make it
// stale the instant it returns.
func (a *AbandonedList) Len() int {
	n := 0
	for node := a.head.Load(); node != nil; node = node.next.Load() {
		n++
	}
	return n
}

// DrainInto pops up to maxNodes deposited nodes and merges their records
// into dst, returning the number of records moved. Bounding by node count
// rather than by record count keeps each pop O(1); a single node is
// exactly the residue one prior goroutine abandoned in one pass.
func (a *AbandonedList) DrainInto(dst *Buffer, maxNodes int) int {
	moved := 0
	nodes := 0
	for nodes < maxNodes {
		old := a.head.Load()
		if old == nil {
			break
		}
		if !a.head.CompareAndSwap(old, old.next.Load()) {
			continue
		}
		dst.Merge(old.records)
		moved += len(old.records)
		nodes++
	}
	return moved
}
