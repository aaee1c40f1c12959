package reclaim

// Record is a single retired entry: the address that was unlinked from
// shared memory, and the closure that finishes reclaiming it once no
// hazard cell protects that address anymore.
//
// Delete takes no arguments and is expected to close over the original
// typed pointer itself (e.g. hazptr.Retire(p, func() { pool.Put(p) })).
// Record deliberately never stores an owning reference of its own — only
// the uintptr identity needed to compare against a scan's live set — so a
// retired record never keeps its memory artificially alive against the Go
// garbage collector; Delete is the signal that every reclamation-path
// interest in p has ended, not a manual free.
type Record struct {
	Addr   uintptr
	Delete func()
}
