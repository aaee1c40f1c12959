package hazard

import (
	"sync/atomic"
	"unsafe"
)

// CellPadding is the alignment applied to every Cell so that independent
// cells never share a cache line under contention between the owning
// goroutine's publish and a scanner's concurrent read.
const CellPadding = 128

// reservedMarker's address is a sentinel distinguishable from every real
// protected address: it is itself a live Go value, so no caller-supplied
// pointer can ever equal it.
var reservedMarker byte

var reservedSentinel = (*byte)(unsafe.Pointer(&reservedMarker))

// Cell is a single hazard-pointer publication slot. Its word holds one of:
//
//   - nil              -- Free: unused, claimable by any goroutine.
//   - &reservedMarker  -- Reserved: claimed, not currently protecting
//     anything. Registry.Acquire never offers a Reserved cell to anyone
//     else. local.State keeps no cache of such cells; each Guard holds
//     its cell until Guard.Release frees it.
//   - any other value  -- Protected(p): publishing address p.
//
// A Cell is never individually destroyed; it lives for as long as the
// Registry segment that contains it.
type Cell struct {
	word atomic.Pointer[byte]
	_    [CellPadding - 8]byte // word is one machine word wide on all supported targets
}

// tryAcquire attempts the Free -> Reserved transition. Only Registry calls
// this; a goroutine that already owns the cell never needs to.
func (c *Cell) tryAcquire() bool {
	return c.word.CompareAndSwap(nil, reservedSentinel)
}

// SetReserved clears any protected address, transitioning to Reserved
// (Thread-reserved from the owning goroutine's point of view) without
// releasing the cell back to the Registry.
func (c *Cell) SetReserved() {
	c.word.Store(reservedSentinel)
}

// SetProtected publishes p as the address this cell protects. The store
// uses release ordering: it must be visible before any subsequent
// load-and-verify re-reads the source the address came from.
func (c *Cell) SetProtected(p unsafe.Pointer) {
	c.word.Store((*byte)(p))
}

// LoadProtected returns the currently protected address, if any. Free and
// Reserved both report ok == false.
func (c *Cell) LoadProtected() (p unsafe.Pointer, ok bool) {
	bp := c.word.Load()
	if bp == nil || bp == reservedSentinel {
		return nil, false
	}
	return unsafe.Pointer(bp), true
}

// free transitions the cell to Free, making it immediately claimable by
// any goroutine. Only Registry.Release calls this.
func (c *Cell) free() {
	c.word.Store(nil)
}
