package local

import (
	"sync/atomic"
	"unsafe"

	"hazptr/hazard"
	"hazptr/internal/fence"
)

// Guard is a single reserved hazard.Cell, held open for the duration of
// one protected access. A Guard is not safe for concurrent use by more
// than one goroutine; it is meant to live on a goroutine's stack for the
// span of one critical section.
type Guard struct {
	state *State
	cell  *hazard.Cell
}

// Release returns the underlying hazard.Cell to the Registry it came
// from. After Release, the pointer this Guard protected may be reclaimed
// by a concurrent Scan at any time.
func (g *Guard) Release() {
	g.state.global.Registry.Release(g.cell)
	g.state.noteRelease()
}

// Protect performs the load-and-verify protection protocol against
// source: it publishes a candidate pointer into g's cell, forces the
// mandatory full fence between that publish and the re-read, and retries
// until the re-read agrees with the published value. The returned
// pointer is guaranteed protected against reclamation for as long as g
// remains unreleased and keeps protecting it.
//
// A nil candidate is never published: storing nil into the cell word is
// indistinguishable from Free (hazard.Cell.free), which would let
// Registry.Acquire hand this still-owned cell to another goroutine. A
// nil load instead leaves the cell Reserved, and is returned as-is.
//
// Protect is a free function rather than a State or Guard method because
// Go methods cannot introduce their own type parameters.
func Protect[T any](g *Guard, source *atomic.Pointer[T]) *T {
	for {
		candidate := source.Load()
		if candidate == nil {
			g.cell.SetReserved()
			return nil
		}
		g.cell.SetProtected(unsafe.Pointer(candidate))
		fence.SeqCst()
		if revalidated := source.Load(); revalidated == candidate {
			return candidate
		}
	}
}
