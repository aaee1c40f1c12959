package local

import (
	"sync/atomic"

	"hazptr/global"
)

// Access resolves "which State does this goroutine use" — the role a
// language with native thread-locals would give the runtime. Two
// implementations cover the spec's explicit-reference and implicit
// free-list modes; callers are never handed a State without going
// through one.
type Access interface {
	Acquire() *State
	Release(*State)
}

// Explicit wraps a State the caller constructed and owns outright.
// Acquire and Release are both no-ops beyond returning the held State:
// the caller is solely responsible for calling Close on it when the
// owning goroutine is done with it for good.
type Explicit struct {
	State *State
}

func (e Explicit) Acquire() *State  { return e.State }
func (e Explicit) Release(*State)   {}

// freeNode links States onto Implicit's lock-free free-list.
type freeNode struct {
	state *State
	next  atomic.Pointer[freeNode]
}

// Implicit hands out States from a process-wide, lock-free free-list
// (a Treiber stack, the same shape as reclaim.AbandonedList) instead of a
// sync.Pool. sync.Pool may silently drop an item during garbage
// collection; dropping a State here would silently leak every record in
// its Buffer, since nothing would ever Scan or abandon them. A State
// that leaves Implicit's free-list is returned to it by Release, never
// discarded, and so survives for the life of the process.
type Implicit struct {
	global *global.Global
	free   atomic.Pointer[freeNode]
}

// NewImplicit builds an Implicit pool of States bound to g.
func NewImplicit(g *global.Global) *Implicit {
	return &Implicit{global: g}
}

// Acquire pops a previously released State, or builds a new one bound to
// the same Global if the free-list is empty.
func (im *Implicit) Acquire() *State {
	for {
		old := im.free.Load()
		if old == nil {
			return NewState(im.global)
		}
		if im.free.CompareAndSwap(old, old.next.Load()) {
			return old.state
		}
	}
}

// Release pushes s back onto the free-list for reuse by any future
// Acquire. It does not Scan or Close s; a State handed back here still
// holds whatever was pending in its Buffer, to be continued by whichever
// goroutine acquires it next.
func (im *Implicit) Release(s *State) {
	n := &freeNode{state: s}
	for {
		old := im.free.Load()
		n.next.Store(old)
		if im.free.CompareAndSwap(old, n) {
			return
		}
	}
}
